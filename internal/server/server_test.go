package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/nimeshab/focusday/internal/config"
	"github.com/nimeshab/focusday/internal/storage/sqlite"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	cfg := config.Default()
	cfg.Auth.JWTSecret = "test-access-secret"
	cfg.Auth.JWTRefreshSecret = "test-refresh-secret"

	return New(cfg, store)
}

func doJSON(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), into); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
}

func registerUser(t *testing.T, s *Server, email string) string {
	t.Helper()

	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    email,
		"password": "correct-horse",
		"name":     "Alice",
		"timezone": "UTC",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Tokens struct {
			AccessToken string `json:"access_token"`
		} `json:"tokens"`
	}
	decode(t, w, &resp)
	return resp.Tokens.AccessToken
}

func TestRegisterLoginRefresh(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "alice@example.com",
		"password": "correct-horse",
		"name":     "Alice",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", w.Code, w.Body.String())
	}

	// Duplicate email conflicts.
	w = doJSON(t, s, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "alice@example.com",
		"password": "correct-horse",
		"name":     "Alice",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate register returned %d, want 409", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "correct-horse",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("login returned %d: %s", w.Code, w.Body.String())
	}

	var login struct {
		Tokens struct {
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	decode(t, w, &login)

	w = doJSON(t, s, http.MethodPost, "/api/auth/refresh", "", gin.H{
		"refresh_token": login.Tokens.RefreshToken,
	})
	if w.Code != http.StatusOK {
		t.Errorf("refresh returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@example.com",
		"password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad login returned %d, want 401", w.Code)
	}
}

func TestRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/tasks", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing token returned %d, want 401", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/tasks", "garbage", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("bad token returned %d, want 401", w.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "alice@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/tasks", token, gin.H{
		"title":      "Write report",
		"category":   "work",
		"date":       "2024-06-10",
		"time_block": "work-hours",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Task struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"task"`
	}
	decode(t, w, &created)
	if created.Task.Status != "pending" {
		t.Errorf("expected default status pending, got %s", created.Task.Status)
	}

	// PATCH keeps unmentioned fields.
	w = doJSON(t, s, http.MethodPatch, "/api/tasks/"+created.Task.ID, token, gin.H{
		"status": "done",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch returned %d: %s", w.Code, w.Body.String())
	}
	var patched struct {
		Title  string `json:"title"`
		Status string `json:"status"`
	}
	decode(t, w, &patched)
	if patched.Status != "done" || patched.Title != "Write report" {
		t.Errorf("unexpected patch result: %+v", patched)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/tasks/"+created.Task.ID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete returned %d, want 204", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/tasks/"+created.Task.ID, token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("get after delete returned %d, want 404", w.Code)
	}
}

func TestCreateRecurringTask(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "alice@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/tasks", token, gin.H{
		"title":               "Daily review",
		"category":            "work",
		"date":                "2024-06-10",
		"time_block":          "evening",
		"recurrence_pattern":  "daily",
		"recurrence_end_date": "2024-06-13",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create returned %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Task struct {
			ID string `json:"id"`
		} `json:"task"`
		Instances []struct {
			Date         string `json:"date"`
			ParentTaskID string `json:"parent_task_id"`
		} `json:"instances"`
	}
	decode(t, w, &created)
	if len(created.Instances) != 3 {
		t.Fatalf("expected 3 instances, got %d", len(created.Instances))
	}
	for _, inst := range created.Instances {
		if inst.ParentTaskID != created.Task.ID {
			t.Errorf("instance parent %s, want %s", inst.ParentTaskID, created.Task.ID)
		}
		if inst.Date == "2024-06-10" {
			t.Error("seed date must never be re-emitted")
		}
	}
}

func TestTaskValidationError(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "alice@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/tasks", token, gin.H{
		"title":      "No end",
		"category":   "work",
		"date":       "2024-06-10",
		"time_block": "evening",
		"recurrence_pattern": "daily",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid task returned %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestSubtaskRoutes(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "alice@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/tasks", token, gin.H{
		"title":      "Pack",
		"category":   "misc",
		"date":       "2024-06-10",
		"time_block": "evening",
	})
	var created struct {
		Task struct {
			ID string `json:"id"`
		} `json:"task"`
	}
	decode(t, w, &created)

	w = doJSON(t, s, http.MethodPost, "/api/tasks/"+created.Task.ID+"/subtasks", token, gin.H{
		"title": "Chargers",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("add subtask returned %d: %s", w.Code, w.Body.String())
	}
	var sub struct {
		ID string `json:"id"`
	}
	decode(t, w, &sub)

	w = doJSON(t, s, http.MethodPatch, "/api/tasks/"+created.Task.ID+"/subtasks/"+sub.ID, token, gin.H{
		"done": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch subtask returned %d: %s", w.Code, w.Body.String())
	}
	var patched struct {
		Title string `json:"title"`
		Done  bool   `json:"done"`
	}
	decode(t, w, &patched)
	if !patched.Done || patched.Title != "Chargers" {
		t.Errorf("unexpected subtask patch result: %+v", patched)
	}

	w = doJSON(t, s, http.MethodDelete, "/api/tasks/"+created.Task.ID+"/subtasks/"+sub.ID, token, nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("delete subtask returned %d, want 204", w.Code)
	}
}

func TestHabitCheckinFlow(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "alice@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/habits", token, gin.H{
		"name":        "Read",
		"target_type": "daily",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create habit returned %d: %s", w.Code, w.Body.String())
	}
	var habit struct {
		ID string `json:"id"`
	}
	decode(t, w, &habit)

	// Check in with no date: defaults to today, so the streak becomes 1.
	w = doJSON(t, s, http.MethodPost, "/api/habits/"+habit.ID+"/checkin", token, gin.H{})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkin returned %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodGet, "/api/habits/"+habit.ID+"/checkins", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get checkins returned %d: %s", w.Code, w.Body.String())
	}
	var history struct {
		Checkins []struct {
			Date string `json:"date"`
		} `json:"checkins"`
		Streak int `json:"streak"`
	}
	decode(t, w, &history)
	if len(history.Checkins) != 1 {
		t.Fatalf("expected 1 checkin, got %d", len(history.Checkins))
	}
	if history.Streak != 1 {
		t.Errorf("expected streak 1, got %d", history.Streak)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	s := newTestServer(t)
	aliceToken := registerUser(t, s, "alice@example.com")
	bobToken := registerUser(t, s, "bob@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/tasks", aliceToken, gin.H{
		"title":      "Private",
		"category":   "misc",
		"date":       "2024-06-10",
		"time_block": "evening",
	})
	var created struct {
		Task struct {
			ID string `json:"id"`
		} `json:"task"`
	}
	decode(t, w, &created)

	w = doJSON(t, s, http.MethodGet, "/api/tasks/"+created.Task.ID, bobToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("cross-user get returned %d, want 404", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/tasks?date=2024-06-10", bobToken, nil)
	var listed struct {
		Tasks []any `json:"tasks"`
	}
	decode(t, w, &listed)
	if len(listed.Tasks) != 0 {
		t.Errorf("cross-user list returned %d tasks", len(listed.Tasks))
	}
}

func TestWeeklyStatsRoute(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "alice@example.com")

	doJSON(t, s, http.MethodPost, "/api/tasks", token, gin.H{
		"title":      "Done one",
		"category":   "work",
		"date":       "2024-06-10",
		"time_block": "work-hours",
		"status":     "done",
	})
	doJSON(t, s, http.MethodPost, "/api/tasks", token, gin.H{
		"title":      "Pending one",
		"category":   "gym",
		"date":       "2024-06-11",
		"time_block": "morning",
	})

	w := doJSON(t, s, http.MethodGet, "/api/stats/weekly?week=2024-06-10", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("weekly stats returned %d: %s", w.Code, w.Body.String())
	}
	var out struct {
		TotalTasks     int     `json:"total_tasks"`
		CompletedTasks int     `json:"completed_tasks"`
		CompletionRate float64 `json:"completion_rate"`
	}
	decode(t, w, &out)
	if out.TotalTasks != 2 || out.CompletedTasks != 1 || out.CompletionRate != 0.5 {
		t.Errorf("unexpected weekly stats: %+v", out)
	}

	w = doJSON(t, s, http.MethodGet, "/api/stats/weekly?week=whenever", token, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad week param returned %d, want 400", w.Code)
	}
}

func TestTemplateApplyRoute(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "alice@example.com")

	w := doJSON(t, s, http.MethodPost, "/api/templates", token, gin.H{
		"name":     "Weekday",
		"day_type": "weekday",
		"blocks": []gin.H{
			{
				"time_block": "morning",
				"default_tasks": []gin.H{
					{"title": "Plan the day", "category": "misc"},
					{"title": "Gym", "category": "gym", "effort": 60},
				},
			},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create template returned %d: %s", w.Code, w.Body.String())
	}
	var tpl struct {
		ID string `json:"id"`
	}
	decode(t, w, &tpl)

	w = doJSON(t, s, http.MethodPost, "/api/templates/"+tpl.ID+"/apply", token, gin.H{
		"date": "2024-06-10",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("apply returned %d: %s", w.Code, w.Body.String())
	}
	var applied struct {
		Tasks []struct {
			Date string `json:"date"`
		} `json:"tasks"`
	}
	decode(t, w, &applied)
	if len(applied.Tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(applied.Tasks))
	}
	for _, task := range applied.Tasks {
		if task.Date != "2024-06-10" {
			t.Errorf("applied task dated %s, want 2024-06-10", task.Date)
		}
	}

	w = doJSON(t, s, http.MethodPost, "/api/templates/"+tpl.ID+"/apply", token, gin.H{
		"date": "someday",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad apply date returned %d, want 400", w.Code)
	}
}
