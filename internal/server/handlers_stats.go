package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nimeshab/focusday/internal/dateutil"
)

func (s *Server) handleWeeklyStats(c *gin.Context) {
	userID := currentUser(c)

	week := c.Query("week")
	if week == "" {
		today, err := s.today(userID)
		if err != nil {
			respondError(c, err)
			return
		}
		week = mondayOf(today)
	}
	if !dateutil.ValidDay(week) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "week must be a YYYY-MM-DD date"})
		return
	}

	out, err := s.stats.Weekly(userID, week)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleMonthlyStats(c *gin.Context) {
	userID := currentUser(c)

	month := c.Query("month")
	if month == "" {
		today, err := s.today(userID)
		if err != nil {
			respondError(c, err)
			return
		}
		month = today[:7]
	}
	if _, _, err := dateutil.MonthBounds(month); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be in YYYY-MM format"})
		return
	}

	out, err := s.stats.Monthly(userID, month)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) handleHabitStats(c *gin.Context) {
	userID := currentUser(c)

	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		today, err := s.today(userID)
		if err != nil {
			respondError(c, err)
			return
		}
		t, _ := dateutil.ParseDay(today)
		end = today
		start = dateutil.FormatDay(t.AddDate(0, 0, -6))
	}
	if !dateutil.ValidDay(start) || !dateutil.ValidDay(end) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start and end must be YYYY-MM-DD dates"})
		return
	}

	out, err := s.stats.Habits(userID, start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// mondayOf returns the Monday of the week containing the given day. Falls
// back to the day itself if it does not parse.
func mondayOf(day string) string {
	t, err := dateutil.ParseDay(day)
	if err != nil {
		return day
	}
	offset := (int(t.Weekday()) + 6) % 7
	return dateutil.FormatDay(t.Add(-time.Duration(offset) * 24 * time.Hour))
}
