package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
)

type PlatformHandler struct {
	repo *repository.PlatformRepository
}

func NewPlatformHandler(repo *repository.PlatformRepository) *PlatformHandler {
	return &PlatformHandler{repo: repo}
}

func (h *PlatformHandler) List(c *gin.Context) {
	platforms, err := h.repo.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": platforms})
}

func (h *PlatformHandler) Create(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		SiteURL     string `json:"siteUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if existing, err := h.repo.FindByName(c, req.Name); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "platform already exists", "id": existing.ID})
		return
	}

	platform := &domain.Platform{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		SiteURL:     req.SiteURL,
		Active:      true,
	}
	if err := h.repo.Create(c, platform); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, platform)
}

func (h *PlatformHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if err := h.repo.Delete(c, id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
