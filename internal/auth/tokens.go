package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/nimeshab/focusday/internal/config"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair is returned on register, login, and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies the two token kinds. Access and refresh
// tokens use separate secrets so a leaked access secret cannot mint long-lived
// refresh tokens.
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenIssuer(cfg *config.Config) *TokenIssuer {
	return &TokenIssuer{
		accessSecret:  []byte(cfg.Auth.JWTSecret),
		refreshSecret: []byte(cfg.Auth.JWTRefreshSecret),
		accessTTL:     cfg.AccessTTL(),
		refreshTTL:    cfg.RefreshTTL(),
	}
}

// Issue mints a fresh access/refresh pair for the user.
func (ti *TokenIssuer) Issue(userID string) (TokenPair, error) {
	access, err := ti.sign(userID, tokenTypeAccess, ti.accessSecret, ti.accessTTL)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := ti.sign(userID, tokenTypeRefresh, ti.refreshSecret, ti.refreshTTL)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// VerifyAccess validates an access token and returns its subject.
func (ti *TokenIssuer) VerifyAccess(token string) (string, error) {
	return ti.verify(token, tokenTypeAccess, ti.accessSecret)
}

// VerifyRefresh validates a refresh token and returns its subject.
func (ti *TokenIssuer) VerifyRefresh(token string) (string, error) {
	return ti.verify(token, tokenTypeRefresh, ti.refreshSecret)
}

func (ti *TokenIssuer) sign(userID, tokenType string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	c := claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (ti *TokenIssuer) verify(token, wantType string, secret []byte) (string, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidToken
	}
	if c.TokenType != wantType || c.Subject == "" {
		return "", ErrInvalidToken
	}
	return c.Subject, nil
}
