package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nimeshab/focusday/internal/config"
	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/validation"
)

// ErrInvalidCredentials is returned when the email or password does not match
// an account. Login never reveals which of the two was wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// ErrInvalidToken is returned for expired, malformed, or wrong-type tokens.
var ErrInvalidToken = errors.New("invalid token")

const minPasswordLength = 8

// Service handles registration, login, and token refresh.
type Service struct {
	store     storage.Provider
	tokens    *TokenIssuer
	defaultTZ string
}

func NewService(store storage.Provider, cfg *config.Config) *Service {
	return &Service{
		store:     store,
		tokens:    NewTokenIssuer(cfg),
		defaultTZ: cfg.DefaultTimezone,
	}
}

// Register creates an account and returns the user with a fresh token pair.
// Returns storage.ErrDuplicateEmail when the email is already taken.
func (s *Service) Register(email, password, name, timezone string) (models.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, TokenPair{}, validation.NewError("email", "invalid email address")
	}
	if len(password) < minPasswordLength {
		return models.User{}, TokenPair{}, validation.NewError("password", "password must be at least %d characters", minPasswordLength)
	}

	if timezone == "" {
		timezone = s.defaultTZ
	}
	if !dateutil.ValidTimezone(timezone) {
		return models.User{}, TokenPair{}, validation.NewError("timezone", "unknown timezone %q", timezone)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, TokenPair{}, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := models.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Timezone:     timezone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateUser(user); err != nil {
		return models.User{}, TokenPair{}, err
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Login verifies the credentials and returns the user with a fresh token pair.
func (s *Service) Login(email, password string) (models.User, TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.store.GetUserByEmail(email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.User{}, TokenPair{}, ErrInvalidCredentials
		}
		return models.User{}, TokenPair{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(user.ID)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *Service) Refresh(refreshToken string) (TokenPair, error) {
	userID, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return TokenPair{}, err
	}

	// The account may have been removed since the token was issued.
	if _, err := s.store.GetUser(userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return TokenPair{}, ErrInvalidToken
		}
		return TokenPair{}, err
	}

	return s.tokens.Issue(userID)
}

// VerifyAccess validates an access token and returns the user ID it carries.
func (s *Service) VerifyAccess(token string) (string, error) {
	return s.tokens.VerifyAccess(token)
}
