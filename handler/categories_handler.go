package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"planward/model"
	"planward/repository"
	"planward/services"
	"planward/usecase"
	"planward/utils"
)

type CategoriesHandler struct {
	categories *repository.CategoriesRepo
	plans      *usecase.PlanService
}

func NewCategoriesHandler(categories *repository.CategoriesRepo, plans *usecase.PlanService) *CategoriesHandler {
	return &CategoriesHandler{categories: categories, plans: plans}
}

func (h *CategoriesHandler) List(c *gin.Context) {
	userID := c.GetString("user_id")
	categories, err := h.categories.GetUserCategories(c.Request.Context(), userID)
	if err != nil {
		utils.TrackError("database", "category_fetch")
		utils.InternalError(c, "Failed to fetch categories")
		return
	}
	if categories == nil {
		categories = []*model.Category{}
	}
	utils.Success(c, gin.H{"categories": categories})
}

func (h *CategoriesHandler) Create(c *gin.Context) {
	userID := c.GetString("user_id")

	var category model.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}
	if category.CategoryID == "" {
		category.CategoryID = services.Slugify(category.Name)
	}
	if category.CategoryID == "" {
		utils.BadRequest(c, "Category name must contain at least one letter or digit")
		return
	}
	category.UserID = userID
	category.CreatedAt = time.Now()

	if existing, err := h.categories.GetCategory(c.Request.Context(), userID, category.CategoryID); err == nil && existing != nil {
		utils.Conflict(c, "Category already exists")
		return
	}

	if err := h.categories.CreateCategory(c.Request.Context(), &category); err != nil {
		utils.TrackError("database", "category_creation")
		utils.InternalError(c, "Failed to create category")
		return
	}
	utils.Created(c, category)
}

func (h *CategoriesHandler) Get(c *gin.Context) {
	userID := c.GetString("user_id")
	category, err := h.categories.GetCategory(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		utils.TrackError("database", "category_fetch")
		utils.InternalError(c, "Failed to fetch category")
		return
	}
	if category == nil {
		utils.NotFound(c, "Category not found")
		return
	}
	utils.Success(c, category)
}

func (h *CategoriesHandler) Update(c *gin.Context) {
	userID := c.GetString("user_id")

	var category model.Category
	if err := c.ShouldBindJSON(&category); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}
	category.CategoryID = c.Param("id")
	category.UserID = userID

	if err := h.categories.UpdateCategory(c.Request.Context(), userID, &category); err != nil {
		utils.TrackError("database", "category_update")
		utils.InternalError(c, "Failed to update category")
		return
	}
	utils.Success(c, category)
}

// Delete removes the category and everything filed under it: its plan and
// all progress keyed with its prefix.
func (h *CategoriesHandler) Delete(c *gin.Context) {
	userID := c.GetString("user_id")
	categoryID := c.Param("id")

	category, err := h.categories.GetCategory(c.Request.Context(), userID, categoryID)
	if err != nil {
		utils.TrackError("database", "category_fetch")
		utils.InternalError(c, "Failed to fetch category")
		return
	}
	if category == nil {
		utils.NotFound(c, "Category not found")
		return
	}

	if err := h.plans.RemovePlan(c.Request.Context(), userID, categoryID); err != nil {
		utils.TrackError("database", "plan_removal")
		utils.InternalError(c, "Failed to remove category plan")
		return
	}
	if err := h.categories.DeleteCategory(c.Request.Context(), userID, categoryID); err != nil {
		utils.TrackError("database", "category_deletion")
		utils.InternalError(c, "Failed to delete category")
		return
	}
	utils.Success(c, gin.H{"message": "Category deleted"})
}
