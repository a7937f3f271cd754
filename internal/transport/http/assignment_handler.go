package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trainingplatform/internal/application/usecase"
	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
	"trainingplatform/internal/normalize"
)

type AssignmentHandler struct {
	repo      *repository.AssignmentRepository
	employees *repository.EmployeeRepository
	courses   *repository.CourseRepository
}

func NewAssignmentHandler(repo *repository.AssignmentRepository, employees *repository.EmployeeRepository, courses *repository.CourseRepository) *AssignmentHandler {
	return &AssignmentHandler{repo: repo, employees: employees, courses: courses}
}

func (h *AssignmentHandler) List(c *gin.Context) {
	var employeeID, courseID *uuid.UUID
	if raw := c.Query("employeeId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employeeId"})
			return
		}
		employeeID = &id
	}
	if raw := c.Query("courseId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid courseId"})
			return
		}
		courseID = &id
	}

	status := c.Query("status")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	assignments, total, err := h.repo.List(c, employeeID, courseID, status, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": assignments, "total": total})
}

func (h *AssignmentHandler) GetOne(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	assignment, err := h.repo.GetByID(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

type assignmentCreateReq struct {
	EmployeeID    string  `json:"employeeId" binding:"required"`
	CourseID      string  `json:"courseId" binding:"required"`
	TargetDate    *string `json:"targetDate"`
	RequestSource string  `json:"requestSource"`
}

func (h *AssignmentHandler) Create(c *gin.Context) {
	var req assignmentCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid employeeId"})
		return
	}
	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid courseId"})
		return
	}

	if _, err := h.employees.GetByID(c, employeeID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "employee not found"})
		return
	}
	if _, err := h.courses.GetByID(c, courseID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "course not found"})
		return
	}

	if existing, err := h.repo.FindByEmployeeAndCourse(c, employeeID, courseID); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "assignment already exists", "id": existing.ID})
		return
	}

	assignment := &domain.Assignment{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		CourseID:      courseID,
		Status:        domain.StatusNotStarted,
		AssignedAt:    time.Now(),
		RequestSource: req.RequestSource,
	}
	if req.TargetDate != nil && *req.TargetDate != "" {
		t, err := normalize.ParseDate(*req.TargetDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable targetDate"})
			return
		}
		assignment.TargetDate = &t
	}

	if err := h.repo.Create(c, assignment); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, assignment)
}

type assignmentUpdateReq struct {
	Status            string   `json:"status"`
	CompletionPercent *float64 `json:"completionPercent"`
	HoursCompleted    *float64 `json:"hoursCompleted"`
	Rating            *float64 `json:"rating"`
	Skills            string   `json:"skills"`
	StartDate         *string  `json:"startDate"`
	TargetDate        *string  `json:"targetDate"`
	CompletionDate    *string  `json:"completionDate"`
	Outcome           string   `json:"outcome"`
	RequestSource     string   `json:"requestSource"`
}

// Update прогоняет изменения через те же правила слияния, что и
// реконсиляция: откатить статус завершённого курса нельзя и из админки.
func (h *AssignmentHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	assignment, err := h.repo.GetByID(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "assignment not found"})
		return
	}

	var req assignmentUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var obs usecase.Observation
	obs.Skills = req.Skills
	obs.Outcome = req.Outcome
	obs.RequestSource = req.RequestSource
	obs.Hours = req.HoursCompleted
	obs.Rating = req.Rating

	if req.CompletionPercent != nil {
		pct := *req.CompletionPercent
		if pct < 0 {
			pct = 0
		}
		if pct > 100 {
			pct = 100
		}
		obs.Percent = &pct
	}

	if req.Status != "" {
		status, err := normalize.ParseStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
			return
		}
		obs.Status = &status
	}

	parseDate := func(raw *string, dest **time.Time, field string) bool {
		if raw == nil || *raw == "" {
			return true
		}
		t, err := normalize.ParseDate(*raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unparseable " + field})
			return false
		}
		*dest = &t
		return true
	}
	if !parseDate(req.StartDate, &obs.StartDate, "startDate") ||
		!parseDate(req.TargetDate, &obs.TargetDate, "targetDate") ||
		!parseDate(req.CompletionDate, &obs.CompletionDate, "completionDate") {
		return
	}

	usecase.Merge(assignment, obs)

	if err := h.repo.Update(c, assignment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, assignment)
}

func (h *AssignmentHandler) Delete(c *gin.Context) {
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
