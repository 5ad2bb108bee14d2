package handlers

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/mvc-is/portal/internal/access"
	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/models"
)

//
// --- HR Dashboard ---
//

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type HRStats struct {
	TotalEmployees int               `json:"totalEmployees"`
	Active         int               `json:"active"`
	OnLeave        int               `json:"onLeave"`
	Probation      int               `json:"probation"`
	Departments    []DepartmentCount `json:"departments"`
}

func hrStats(emps []models.Employee) HRStats {
	stats := HRStats{TotalEmployees: len(emps), Departments: []DepartmentCount{}}
	perDept := map[string]int{}
	for _, e := range emps {
		switch e.Status {
		case models.EmployeeActive:
			stats.Active++
		case models.EmployeeOnLeave:
			stats.OnLeave++
		case models.EmployeeProbation:
			stats.Probation++
		}
		perDept[e.Department]++
	}
	for dept, n := range perDept {
		stats.Departments = append(stats.Departments, DepartmentCount{Department: dept, Count: n})
	}
	sort.Slice(stats.Departments, func(i, j int) bool {
		a, b := stats.Departments[i], stats.Departments[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Department < b.Department
	})
	return stats
}

// HRDashboard returns the HR overview.
// GET /hr_dashboard
func (h *Handlers) HRDashboard(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	var emps []models.Employee
	if err := h.DB.WithContext(c.Request.Context()).Order("employee_no").Find(&emps).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load employees"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"viewer": newViewer(id, "HR Manager", "Human Resources"),
		"stats":  hrStats(emps),
	})
}

//
// --- MIS Dashboard ---
//

type MISStats struct {
	Categories    []CategoryCount `json:"categories"`
	TotalRecords  int64           `json:"totalRecords"`
	LowStockItems int64           `json:"lowStockItems"`
	LowStockBelow int             `json:"lowStockBelow"`
}

type CategoryCount struct {
	Category inventory.Category `json:"category"`
	Slug     string             `json:"slug"`
	Count    int64              `json:"count"`
}

// MISDashboard returns the inventory KPIs of the signed-in user.
// GET /mis_dashboard
func (h *Handlers) MISDashboard(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	// 1. --- Count per category ---
	counts, err := h.Store.Counts(ctx, id.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. --- Low stock alerts ---
	low, err := h.Store.LowStock(ctx, id.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	stats := MISStats{LowStockItems: low, LowStockBelow: inventory.LowStockThreshold}
	for _, k := range inventory.Kinds() {
		n := counts[k.Category]
		stats.Categories = append(stats.Categories, CategoryCount{Category: k.Category, Slug: k.Slug, Count: n})
		stats.TotalRecords += n
	}

	c.JSON(http.StatusOK, gin.H{
		"viewer": newViewer(id, "MIS Staff", "IT Dept."),
		"stats":  stats,
	})
}

//
// --- Plant Operations Dashboard ---
//

type PlantStats struct {
	TankFarmLoad int `json:"tankFarmLoad"` // mean tank level, percent
	Tanks        int `json:"tanks"`
	Warning      int `json:"warning"`
	Critical     int `json:"critical"`
	Shipments    int `json:"activeShipments"`
}

func plantStats(tanks []models.TankReading, shipments []models.Shipment) PlantStats {
	stats := PlantStats{Tanks: len(tanks), Shipments: len(shipments)}
	total := 0
	for _, t := range tanks {
		total += t.TankLevel
		switch t.Status {
		case models.TankWarning:
			stats.Warning++
		case models.TankCritical:
			stats.Critical++
		}
	}
	if len(tanks) > 0 {
		stats.TankFarmLoad = (total + len(tanks)/2) / len(tanks)
	}
	return stats
}

// OperationsDashboard returns tank telemetry and the shipment schedule.
// GET /operations_dashboard
func (h *Handlers) OperationsDashboard(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"viewer":    newViewer(id, "Plant Operator", "Operations"),
		"stats":     plantStats(models.TankFarm, models.Shipments),
		"tanks":     models.TankFarm,
		"shipments": models.Shipments,
	})
}

// LogisticsDashboard returns the shipment schedule.
// GET /logistics_dashboard
func (h *Handlers) LogisticsDashboard(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	byStatus := map[string]int{}
	for _, s := range models.Shipments {
		byStatus[s.Status]++
	}
	c.JSON(http.StatusOK, gin.H{
		"viewer":    newViewer(id, "Logistics Officer", "Logistics"),
		"shipments": models.Shipments,
		"byStatus":  byStatus,
	})
}

// WelcomeDashboard serves the departments without a dedicated dashboard
// (Finance, Marketing and the default namespace).
func (h *Handlers) WelcomeDashboard(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	v := newViewer(id, "Employee", "Mabuhay Vinyl Corp.")
	c.JSON(http.StatusOK, gin.H{
		"viewer":    v,
		"namespace": access.NamespaceFor(id.Department),
		"message":   "Welcome, " + v.DisplayName,
	})
}
