package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/services"
)

// CategoryHandler handles category-related requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
	auditService    services.AuditServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer, auditService services.AuditServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, auditService: auditService}
}

// RenameCategoryRequest represents the request payload for renaming a category.
type RenameCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// GetCategories handles listing categories.
// @Summary     Get categories
// @Description Get the distinct categories used by transactions, sorted by name
// @Tags        categories
// @Produce     json
// @Success     200 {array}  string "Categories"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.categoryService.GetCategories()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// GetCategoryUsage handles the usage summary of a category.
// @Summary     Get category usage
// @Description Count the transactions in a category and total them by type
// @Tags        categories
// @Produce     json
// @Param       name path string true "Category name"
// @Success     200 {object} services.CategoryUsage "Category usage"
// @Failure     400 {object} ErrorResponse "Invalid category"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{name}/usage [get]
func (h *CategoryHandler) GetCategoryUsage(c *gin.Context) {
	name, err := categoryParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	usage, err := h.categoryService.GetCategoryUsage(name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"usage": usage})
}

// RenameCategory handles renaming a category across transactions and budgets.
// @Summary     Rename category
// @Description Rename a category on every transaction and budget using it
// @Tags        categories
// @Accept      json
// @Produce     json
// @Param       name    path string                true "Current category name"
// @Param       request body RenameCategoryRequest true "New name"
// @Success     200 {object} map[string]interface{} "Renamed category and affected transaction count"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{name} [put]
func (h *CategoryHandler) RenameCategory(c *gin.Context) {
	name, err := categoryParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	updated, err := h.categoryService.RenameCategory(name, req.Name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("RENAME_CATEGORY", "category", name, c.ClientIP(),
		map[string]any{"name": req.Name, "transactions": updated})

	c.JSON(http.StatusOK, gin.H{"category": strings.TrimSpace(req.Name), "updated": updated})
}

// DeleteCategory handles deleting every transaction in a category.
// @Summary     Delete category
// @Description Delete every transaction in a category
// @Tags        categories
// @Produce     json
// @Param       name path string true "Category name"
// @Success     200 {object} map[string]interface{} "Deleted transaction count"
// @Failure     400 {object} ErrorResponse "Invalid category"
// @Failure     404 {object} ErrorResponse "Category not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /categories/{name} [delete]
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	name, err := categoryParam(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	deleted, err := h.categoryService.DeleteCategory(name)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log("DELETE_CATEGORY", "category", name, c.ClientIP(),
		map[string]any{"transactions": deleted})

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully", "deleted": deleted})
}

func categoryParam(c *gin.Context) (string, error) {
	name := strings.TrimSpace(c.Param("name"))
	if name == "" {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "category name must not be empty")
	}
	return name, nil
}
