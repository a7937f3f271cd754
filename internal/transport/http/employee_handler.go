package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trainingplatform/internal/domain"
	"trainingplatform/internal/infrastructure/repository"
)

type EmployeeHandler struct {
	repo *repository.EmployeeRepository
}

func NewEmployeeHandler(repo *repository.EmployeeRepository) *EmployeeHandler {
	return &EmployeeHandler{repo: repo}
}

type employeeReq struct {
	FirstName    string  `json:"firstName" binding:"required"`
	LastName     string  `json:"lastName" binding:"required"`
	Email        string  `json:"email" binding:"required,email"`
	EmployeeCode *string `json:"employeeCode"`
	Role         string  `json:"role"`
	Company      string  `json:"company"`
	Department   string  `json:"department"`
	SalesArea    string  `json:"salesArea"`
	Office       string  `json:"office"`
	Community    string  `json:"community"`
	Manager      string  `json:"manager"`
	ISMS         string  `json:"isms"`
	TerminatedAt *string `json:"terminatedAt"`
}

func (h *EmployeeHandler) List(c *gin.Context) {
	search := c.Query("search")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	employees, total, err := h.repo.List(c, search, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": employees, "total": total})
}

func (h *EmployeeHandler) GetOne(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	employee, err := h.repo.GetByID(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req employeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee := &domain.Employee{
		ID:           uuid.New(),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		EmployeeCode: req.EmployeeCode,
		Role:         req.Role,
		Company:      req.Company,
		Department:   req.Department,
		SalesArea:    req.SalesArea,
		Office:       req.Office,
		Community:    req.Community,
		Manager:      req.Manager,
		ISMS:         req.ISMS,
		Active:       true,
	}
	if !applyTermination(c, employee, req.TerminatedAt) {
		return
	}

	if req.EmployeeCode != nil && *req.EmployeeCode != "" {
		if existing, err := h.repo.FindByCode(c, *req.EmployeeCode); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "employee code already in use", "id": existing.ID})
			return
		}
	}

	if err := h.repo.Create(c, employee); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, employee)
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	employee, err := h.repo.GetByID(c, id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "employee not found"})
		return
	}

	var req employeeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	employee.FirstName = req.FirstName
	employee.LastName = req.LastName
	employee.Email = req.Email
	employee.EmployeeCode = req.EmployeeCode
	employee.Role = req.Role
	employee.Company = req.Company
	employee.Department = req.Department
	employee.SalesArea = req.SalesArea
	employee.Office = req.Office
	employee.Community = req.Community
	employee.Manager = req.Manager
	employee.ISMS = req.ISMS
	if !applyTermination(c, employee, req.TerminatedAt) {
		return
	}

	if err := h.repo.Update(c, employee); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, employee)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
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

// applyTermination разбирает дату увольнения и пересчитывает Active.
func applyTermination(c *gin.Context, employee *domain.Employee, raw *string) bool {
	if raw == nil || *raw == "" {
		employee.TerminatedAt = nil
		employee.Active = true
		return true
	}

	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "terminatedAt must be YYYY-MM-DD"})
		return false
	}
	employee.TerminatedAt = &t
	employee.Active = employee.IsActiveAt(time.Now())
	return true
}
