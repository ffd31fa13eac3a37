package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planward/dto"
	"planward/usecase"
	"planward/utils"
)

type PlansHandler struct {
	plans *usecase.PlanService
}

func NewPlansHandler(plans *usecase.PlanService) *PlansHandler {
	return &PlansHandler{plans: plans}
}

// Import accepts a raw plan JSON document. With ?merge=true the incoming
// weeks fold into the existing plan instead of replacing it.
func (h *PlansHandler) Import(c *gin.Context) {
	userID := c.GetString("user_id")
	categoryID := c.Param("id")

	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		utils.BadRequest(c, "Request body is required")
		return
	}
	merge := c.Query("merge") == "true"

	plan, err := h.plans.ImportPlan(c.Request.Context(), userID, categoryID, raw, merge)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidPlan) {
			utils.BadRequest(c, err.Error())
			return
		}
		utils.TrackError("plan", "import")
		utils.InternalError(c, "Failed to import plan")
		return
	}
	utils.Created(c, dto.ToPlanSummaryResponse(categoryID, plan))
}

func (h *PlansHandler) Get(c *gin.Context) {
	userID := c.GetString("user_id")
	categoryID := c.Param("id")

	plan, ok, err := h.plans.GetPlan(c.Request.Context(), userID, categoryID)
	if err != nil {
		utils.TrackError("plan", "fetch")
		utils.InternalError(c, "Failed to load plan")
		return
	}
	if !ok {
		utils.NotFound(c, "No plan imported for this category")
		return
	}
	utils.Success(c, plan)
}

// Sections serves the progress view: ?view= selects the period bucket size,
// ?tag= and ?q= filter tasks, ?strategy= picks grouping vs current-period.
func (h *PlansHandler) Sections(c *gin.Context) {
	userID := c.GetString("user_id")
	categoryID := c.Param("id")

	sections, mode, strategy, err := h.plans.Sections(
		c.Request.Context(),
		userID,
		categoryID,
		c.Query("view"),
		c.Query("tag"),
		c.Query("q"),
		c.Query("strategy"),
	)
	if err != nil {
		if errors.Is(err, usecase.ErrPlanNotFound) {
			utils.NotFound(c, "No plan imported for this category")
			return
		}
		utils.TrackError("plan", "sections")
		utils.InternalError(c, "Failed to build sections")
		return
	}
	utils.Success(c, dto.ToSectionsResponse(categoryID, mode, strategy, sections))
}
