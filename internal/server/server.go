package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nimeshab/focusday/internal/auth"
	"github.com/nimeshab/focusday/internal/config"
	"github.com/nimeshab/focusday/internal/habits"
	"github.com/nimeshab/focusday/internal/logger"
	"github.com/nimeshab/focusday/internal/reminder"
	"github.com/nimeshab/focusday/internal/stats"
	"github.com/nimeshab/focusday/internal/storage"
	"github.com/nimeshab/focusday/internal/tasks"
	"github.com/nimeshab/focusday/internal/templates"
)

// Server wires the domain services behind the REST API.
type Server struct {
	cfg       *config.Config
	store     storage.Provider
	auth      *auth.Service
	tasks     *tasks.Service
	habits    *habits.Service
	stats     *stats.Service
	templates *templates.Service
	reminders *reminder.Scheduler
	engine    *gin.Engine
}

func New(cfg *config.Config, store storage.Provider) *Server {
	reminders := reminder.New(nil)
	taskSvc := tasks.NewService(store, reminders)

	s := &Server{
		cfg:       cfg,
		store:     store,
		auth:      auth.NewService(store, cfg),
		tasks:     taskSvc,
		habits:    habits.NewService(store),
		stats:     stats.NewService(store),
		templates: templates.NewService(store, taskSvc),
		reminders: reminders,
	}
	s.engine = s.router()
	return s
}

func (s *Server) router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.handleRegister)
	authGroup.POST("/login", s.handleLogin)
	authGroup.POST("/refresh", s.handleRefresh)

	protected := api.Group("", s.requireAuth())

	protected.GET("/tasks", s.handleListTasks)
	protected.POST("/tasks", s.handleCreateTask)
	protected.POST("/tasks/bulk-create", s.handleBulkCreateTasks)
	protected.GET("/tasks/:id", s.handleGetTask)
	protected.PATCH("/tasks/:id", s.handleUpdateTask)
	protected.DELETE("/tasks/:id", s.handleDeleteTask)
	protected.POST("/tasks/:id/subtasks", s.handleAddSubtask)
	protected.PATCH("/tasks/:id/subtasks/:subtaskId", s.handleUpdateSubtask)
	protected.DELETE("/tasks/:id/subtasks/:subtaskId", s.handleDeleteSubtask)

	protected.GET("/habits", s.handleListHabits)
	protected.POST("/habits", s.handleCreateHabit)
	protected.GET("/habits/:id", s.handleGetHabit)
	protected.PATCH("/habits/:id", s.handleUpdateHabit)
	protected.DELETE("/habits/:id", s.handleDeleteHabit)
	protected.POST("/habits/:id/checkin", s.handleCheckIn)
	protected.GET("/habits/:id/checkins", s.handleGetCheckins)

	protected.GET("/stats/weekly", s.handleWeeklyStats)
	protected.GET("/stats/monthly", s.handleMonthlyStats)
	protected.GET("/stats/habits", s.handleHabitStats)

	protected.GET("/templates", s.handleListTemplates)
	protected.POST("/templates", s.handleCreateTemplate)
	protected.GET("/templates/:id", s.handleGetTemplate)
	protected.DELETE("/templates/:id", s.handleDeleteTemplate)
	protected.POST("/templates/:id/apply", s.handleApplyTemplate)

	return r
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until the context is cancelled, then drains in-flight requests
// and cancels pending reminders.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", s.cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	s.reminders.CancelAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
