package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimeshab/focusday/internal/models"
	"github.com/nimeshab/focusday/internal/storage"
)

func (s *Server) handleListTasks(c *gin.Context) {
	filter := storage.TaskFilter{
		Day:       c.Query("date"),
		StartDay:  c.Query("start"),
		EndDay:    c.Query("end"),
		Category:  models.TaskCategory(c.Query("category")),
		Status:    models.TaskStatus(c.Query("status")),
		TimeBlock: models.TimeBlock(c.Query("time_block")),
	}

	listed, err := s.tasks.List(currentUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if listed == nil {
		listed = []models.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": listed})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var task models.Task
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := s.tasks.Create(currentUser(c), task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type bulkCreateRequest struct {
	Tasks []models.Task `json:"tasks"`
}

func (s *Server) handleBulkCreateTasks(c *gin.Context) {
	var req bulkCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if len(req.Tasks) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "tasks must not be empty"})
		return
	}

	created, err := s.tasks.BulkCreate(currentUser(c), req.Tasks)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tasks": created})
}

func (s *Server) handleGetTask(c *gin.Context) {
	task, err := s.tasks.Get(currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	userID := currentUser(c)

	task, err := s.tasks.Get(userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	// Binding over the stored record gives PATCH semantics: absent fields
	// keep their current values.
	if err := c.ShouldBindJSON(&task); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	task.ID = c.Param("id")

	updated, err := s.tasks.Update(userID, task)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	if err := s.tasks.Delete(currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleAddSubtask(c *gin.Context) {
	var sub models.Subtask
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := s.tasks.AddSubtask(currentUser(c), c.Param("id"), sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleUpdateSubtask(c *gin.Context) {
	userID := currentUser(c)
	taskID := c.Param("id")
	subtaskID := c.Param("subtaskId")

	task, err := s.tasks.Get(userID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	var sub models.Subtask
	found := false
	for _, existing := range task.Subtasks {
		if existing.ID == subtaskID {
			sub = existing
			found = true
			break
		}
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	sub.ID = subtaskID

	updated, err := s.tasks.UpdateSubtask(userID, taskID, sub)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) handleDeleteSubtask(c *gin.Context) {
	err := s.tasks.DeleteSubtask(currentUser(c), c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
