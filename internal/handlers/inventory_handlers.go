package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mvc-is/portal/internal/export"
	"github.com/mvc-is/portal/internal/inventory"
	"github.com/mvc-is/portal/internal/models"
)

// kindParam resolves a category given as display name or slug. An empty
// value selects the first tab.
func kindParam(raw string) (inventory.Kind, error) {
	if raw == "" {
		return inventory.Kinds()[0], nil
	}
	cat, err := inventory.ParseCategory(raw)
	if err != nil {
		return inventory.Kind{}, err
	}
	return inventory.Lookup(cat)
}

// GetInventoryCategories returns every category with its form schema.
// GET /mis_dashboard/inventory/categories
func (h *Handlers) GetInventoryCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": inventory.Kinds()})
}

// GetMyInventoryItems renders the inventory table of one category.
// A failed fetch still renders the page, with an empty table and the error.
// GET /mis_dashboard/inventory?category=&q=
func (h *Handlers) GetMyInventoryItems(c *gin.Context) {
	// 1. --- Get User ID ---
	id, ok := h.identity(c)
	if !ok {
		return
	}

	// 2. --- Resolve Category ---
	k, err := kindParam(c.Query("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 3. --- Fetch & Filter ---
	term := c.Query("q")
	items, err := h.Store.List(c.Request.Context(), k.Category, id.UserID)
	body := gin.H{
		"viewer":     newViewer(id, "MIS Staff", "IT Dept."),
		"category":   k.Category,
		"slug":       k.Slug,
		"categories": inventory.Categories(),
		"columns":    k.Fields,
		"query":      term,
	}
	if err != nil {
		body["items"] = []models.InventoryRecord{}
		body["total"] = 0
		body["error"] = err.Error()
		c.JSON(http.StatusOK, body)
		return
	}

	items = inventory.Filter(k, items, term)
	body["items"] = items
	body["total"] = len(items)
	c.JSON(http.StatusOK, body)
}

// CreateInventoryItem adds a record to a category.
// POST /mis_dashboard/inventory/:category
func (h *Handlers) CreateInventoryItem(c *gin.Context) {
	// 1. --- Get User ID ---
	id, ok := h.identity(c)
	if !ok {
		return
	}

	// 2. --- Resolve Category & Bind Fields ---
	k, err := kindParam(c.Param("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// 3. --- Insert ---
	rec, err := h.Store.Create(c.Request.Context(), k.Category, id.UserID, fields)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Record added", "item": rec})
}

// UpdateInventoryItem replaces the fields of one of the caller's records.
// PUT /mis_dashboard/inventory/:category/:id
func (h *Handlers) UpdateInventoryItem(c *gin.Context) {
	// 1. --- Get User ID ---
	id, ok := h.identity(c)
	if !ok {
		return
	}

	// 2. --- Resolve Category & Bind Fields ---
	k, err := kindParam(c.Param("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// 3. --- Update (owner-scoped) ---
	rec, err := h.Store.Update(c.Request.Context(), k.Category, id.UserID, c.Param("id"), fields)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if rec == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record updated", "item": rec})
}

// DeleteInventoryItem removes one of the caller's records. The client has to
// confirm explicitly; deleting an already missing record succeeds.
// DELETE /mis_dashboard/inventory/:category/:id?confirm=true
func (h *Handlers) DeleteInventoryItem(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	if c.Query("confirm") != "true" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Are you sure you want to delete this record? Repeat the request with confirm=true."})
		return
	}

	k, err := kindParam(c.Param("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.Store.Delete(c.Request.Context(), k.Category, id.UserID, c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Record deleted"})
}

// ExportInventoryPDF downloads the (filtered) table of a category as PDF.
// GET /mis_dashboard/inventory/:category/export.pdf?q=
func (h *Handlers) ExportInventoryPDF(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}

	k, err := kindParam(c.Param("category"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 1. --- Fetch & Filter ---
	term := c.Query("q")
	items, err := h.Store.List(c.Request.Context(), k.Category, id.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	items = inventory.Filter(k, items, term)

	// 2. --- Render ---
	var buf bytes.Buffer
	if err := export.PDF(&buf, export.Document{
		Kind:        k,
		Records:     items,
		GeneratedAt: h.now(),
		Filter:      term,
	}); err != nil {
		if h.Log != nil {
			h.Log.Error("pdf export failed", zap.String("category", string(k.Category)), zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(k)))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
