package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"trainingplatform/internal/application/usecase"
)

type ImportHandler struct {
	assignments *usecase.AssignmentImportService
	employees   *usecase.EmployeeImportService
}

func NewImportHandler(assignments *usecase.AssignmentImportService, employees *usecase.EmployeeImportService) *ImportHandler {
	return &ImportHandler{assignments: assignments, employees: employees}
}

func (h *ImportHandler) ImportAssignments(c *gin.Context) {
	var req usecase.AssignmentImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must not be empty"})
		return
	}

	resp, err := h.assignments.Import(c, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportHandler) ImportEmployees(c *gin.Context) {
	var req usecase.EmployeeImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items must not be empty"})
		return
	}

	resp, err := h.employees.Import(c, req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ImportHandler) CheckEmployeeDuplicates(c *gin.Context) {
	var req struct {
		Items []usecase.EmployeeImportItem `json:"items"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	checks, err := h.employees.CheckDuplicates(c, req.Items)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": checks})
}
