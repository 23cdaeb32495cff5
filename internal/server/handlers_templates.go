package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nimeshab/focusday/internal/models"
)

func (s *Server) handleListTemplates(c *gin.Context) {
	listed, err := s.templates.List(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if listed == nil {
		listed = []models.RoutineTemplate{}
	}
	c.JSON(http.StatusOK, gin.H{"templates": listed})
}

func (s *Server) handleCreateTemplate(c *gin.Context) {
	var tpl models.RoutineTemplate
	if err := c.ShouldBindJSON(&tpl); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := s.templates.Create(currentUser(c), tpl)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) handleGetTemplate(c *gin.Context) {
	tpl, err := s.templates.Get(currentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tpl)
}

func (s *Server) handleDeleteTemplate(c *gin.Context) {
	if err := s.templates.Delete(currentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type applyTemplateRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleApplyTemplate(c *gin.Context) {
	var req applyTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	created, err := s.templates.Apply(currentUser(c), c.Param("id"), req.Date)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tasks": created})
}
