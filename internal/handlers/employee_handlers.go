package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mvc-is/portal/internal/models"
)

// EmployeeDirectory lists employees, optionally filtered by name.
// GET /hr_dashboard/employee_directory?q=
func (h *Handlers) EmployeeDirectory(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	// 1. --- Build the query ---
	q := strings.TrimSpace(c.Query("q"))
	tx := h.DB.WithContext(c.Request.Context()).Model(&models.Employee{})
	if q != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	// 2. --- Fetch ---
	employees := []models.Employee{}
	if err := tx.Order("name").Find(&employees).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load employee directory"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"viewer":    newViewer(id, "HR Manager", "Human Resources"),
		"query":     q,
		"employees": employees,
		"total":     len(employees),
	})
}
