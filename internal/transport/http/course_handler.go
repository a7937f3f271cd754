package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
)

type CourseHandler struct {
	repo      *repository.CourseRepository
	platforms *repository.PlatformRepository
}

func NewCourseHandler(repo *repository.CourseRepository, platforms *repository.PlatformRepository) *CourseHandler {
	return &CourseHandler{repo: repo, platforms: platforms}
}

type courseReq struct {
	Name          string  `json:"name" binding:"required"`
	PlatformID    string  `json:"platformId" binding:"required"`
	ExternalID    *string `json:"externalId"`
	URL           string  `json:"url"`
	Category      string  `json:"category"`
	DurationHours float64 `json:"durationHours"`
	Status        string  `json:"status"`
}

func (h *CourseHandler) List(c *gin.Context) {
	search := c.Query("search")
	category := c.Query("category")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	courses, total, err := h.repo.List(c, search, category, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": courses, "total": total})
}

func (h *CourseHandler) GetOne(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	course, err := h.repo.GetByID(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platformID, err := uuid.Parse(req.PlatformID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid platformId"})
		return
	}
	if _, err := h.platforms.GetByID(c, platformID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "platform not found"})
		return
	}

	if req.ExternalID != nil && *req.ExternalID != "" {
		if existing, err := h.repo.FindByExternalID(c, *req.ExternalID); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "course with this external id already exists", "id": existing.ID})
			return
		}
	}
	if existing, err := h.repo.FindByNameAndPlatform(c, req.Name, platformID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "course already exists on this platform", "id": existing.ID})
		return
	}

	status := domain.CoursePlanned
	if req.Status != "" {
		status = domain.CourseStatus(req.Status)
	}

	course := &domain.Course{
		ID:            uuid.New(),
		Name:          req.Name,
		PlatformID:    platformID,
		ExternalID:    req.ExternalID,
		URL:           req.URL,
		Category:      req.Category,
		DurationHours: req.DurationHours,
		Status:        status,
	}
	if err := h.repo.Create(c, course); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	course, err := h.repo.GetByID(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "course not found"})
		return
	}

	var req courseReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	platformID, err := uuid.Parse(req.PlatformID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid platformId"})
		return
	}

	course.Name = req.Name
	course.PlatformID = platformID
	course.ExternalID = req.ExternalID
	course.URL = req.URL
	course.Category = req.Category
	course.DurationHours = req.DurationHours
	if req.Status != "" {
		course.Status = domain.CourseStatus(req.Status)
	}

	if err := h.repo.Update(c, course); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) Delete(c *gin.Context) {
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
