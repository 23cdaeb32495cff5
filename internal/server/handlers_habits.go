package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimeshab/focusday/internal/dateutil"
	"github.com/nimeshab/focusday/internal/models"
)

func (s *Server) handleListHabits(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	listed, err := s.habits.List(currentUser(c), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	if listed == nil {
		listed = []models.Habit{}
	}
	c.JSON(http.StatusOK, gin.H{"habits": listed})
}

func (s *Server) handleCreateHabit(c *gin.Context) {
	var habit models.Habit
	if err := c.ShouldBindJSON(&habit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := s.habits.Create(currentUser(c), habit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetHabit(c *gin.Context) {
	habit, err := s.habits.Get(currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, habit)
}

func (s *Server) handleUpdateHabit(c *gin.Context) {
	userID := currentUser(c)

	habit, err := s.habits.Get(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	if err := c.ShouldBindJSON(&habit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	habit.ID = c.Param("id")

	updated, err := s.habits.Update(userID, habit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteHabit(c *gin.Context) {
	if err := s.habits.Delete(currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCheckIn(c *gin.Context) {
	userID := currentUser(c)

	var checkin models.Checkin
	if err := c.ShouldBindJSON(&checkin); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// An omitted date means "today" in the owner's timezone.
	if checkin.Day == "" {
		today, err := s.today(userID)
		if err != nil {
			respondError(c, err)
			return
		}
		checkin.Day = today
	}

	recorded, err := s.habits.CheckIn(userID, c.Param("id"), checkin)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recorded)
}

func (s *Server) handleGetCheckins(c *gin.Context) {
	history, err := s.habits.GetCheckins(currentUser(c), c.Param("id"), c.Query("start"), c.Query("end"))
	if err != nil {
		respondError(c, err)
		return
	}
	if history.Checkins == nil {
		history.Checkins = []models.Checkin{}
	}
	c.JSON(http.StatusOK, history)
}

// today resolves the current calendar date in the user's timezone.
func (s *Server) today(userID string) (string, error) {
	user, err := s.store.GetUser(userID)
	if err != nil {
		return "", err
	}
	t, err := dateutil.TodayIn(user.Timezone)
	if err != nil {
		return "", err
	}
	return dateutil.FormatDay(t), nil
}
