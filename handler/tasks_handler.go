package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planward/dto"
	"planward/usecase"
	"planward/utils"
)

type TasksHandler struct {
	plans *usecase.PlanService
}

func NewTasksHandler(plans *usecase.PlanService) *TasksHandler {
	return &TasksHandler{plans: plans}
}

// Toggle flips a task's completion. Unknown keys get a meta created on the
// spot, so this never 404s.
func (h *TasksHandler) Toggle(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.TaskKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key is required")
		return
	}

	meta, err := h.plans.ToggleTask(c.Request.Context(), userID, req.Key)
	if err != nil {
		utils.TrackError("task", "toggle")
		utils.InternalError(c, "Failed to toggle task")
		return
	}
	utils.Success(c, gin.H{"key": req.Key, "task": meta})
}

func (h *TasksHandler) SetNotes(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.TaskNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key is required")
		return
	}

	meta, err := h.plans.SetTaskNotes(c.Request.Context(), userID, req.Key, req.Notes)
	if err != nil {
		utils.TrackError("task", "notes")
		utils.InternalError(c, "Failed to update notes")
		return
	}
	utils.Success(c, gin.H{"key": req.Key, "task": meta})
}

func (h *TasksHandler) SetTags(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.TaskTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key is required")
		return
	}

	meta, err := h.plans.SetTaskTags(c.Request.Context(), userID, req.Key, req.Tags)
	if err != nil {
		utils.TrackError("task", "tags")
		utils.InternalError(c, "Failed to update tags")
		return
	}
	utils.Success(c, gin.H{"key": req.Key, "task": meta})
}

func (h *TasksHandler) SetTitle(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.TaskTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key is required")
		return
	}

	meta, err := h.plans.SetTaskTitle(c.Request.Context(), userID, req.Key, req.Title)
	if err != nil {
		utils.TrackError("task", "title")
		utils.InternalError(c, "Failed to update title")
		return
	}
	utils.Success(c, gin.H{"key": req.Key, "task": meta})
}

// Add appends an activity to a plan day; the category comes from the path.
func (h *TasksHandler) Add(c *gin.Context) {
	userID := c.GetString("user_id")
	categoryID := c.Param("id")

	var req dto.AddTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Week, day and title are required")
		return
	}

	key, err := h.plans.AddTask(c.Request.Context(), userID, categoryID, req.Week, req.Day, req.Title)
	if err != nil {
		if errors.Is(err, usecase.ErrPlanNotFound) {
			utils.NotFound(c, "No plan imported for this category")
			return
		}
		utils.TrackError("task", "add")
		utils.InternalError(c, "Failed to add task")
		return
	}
	utils.Created(c, gin.H{"key": key})
}

// Remove deletes a plan entry by its derived key.
func (h *TasksHandler) Remove(c *gin.Context) {
	userID := c.GetString("user_id")
	categoryID := c.Param("id")

	var req dto.TaskKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key is required")
		return
	}

	found, err := h.plans.RemoveTask(c.Request.Context(), userID, categoryID, req.Key)
	if err != nil {
		utils.TrackError("task", "remove")
		utils.InternalError(c, "Failed to remove task")
		return
	}
	if !found {
		utils.NotFound(c, "Task not found")
		return
	}
	utils.Success(c, gin.H{"message": "Task removed", "key": req.Key})
}

func (h *TasksHandler) AddSubtask(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.AddSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key and title are required")
		return
	}

	viewID, err := h.plans.AddSubtask(c.Request.Context(), userID, req.Key, req.ParentID, req.Title)
	if err != nil {
		utils.TrackError("task", "subtask_add")
		utils.InternalError(c, "Failed to add subtask")
		return
	}
	utils.Created(c, gin.H{"key": req.Key, "subtask_id": viewID})
}

func (h *TasksHandler) ToggleSubtask(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key and subtask id are required")
		return
	}

	meta, err := h.plans.ToggleSubtask(c.Request.Context(), userID, req.Key, req.SubtaskID)
	if err != nil {
		utils.TrackError("task", "subtask_toggle")
		utils.InternalError(c, "Failed to toggle subtask")
		return
	}
	utils.Success(c, gin.H{"key": req.Key, "task": meta})
}

func (h *TasksHandler) RemoveSubtask(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.SubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key and subtask id are required")
		return
	}

	meta, err := h.plans.RemoveSubtask(c.Request.Context(), userID, req.Key, req.SubtaskID)
	if err != nil {
		utils.TrackError("task", "subtask_remove")
		utils.InternalError(c, "Failed to remove subtask")
		return
	}
	utils.Success(c, gin.H{"key": req.Key, "task": meta})
}

func (h *TasksHandler) SetSubtaskNotes(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.SubtaskNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key and subtask id are required")
		return
	}

	meta, err := h.plans.SetSubtaskNotes(c.Request.Context(), userID, req.Key, req.SubtaskID, req.Notes)
	if err != nil {
		utils.TrackError("task", "subtask_notes")
		utils.InternalError(c, "Failed to update subtask notes")
		return
	}
	utils.Success(c, gin.H{"key": req.Key, "task": meta})
}

func (h *TasksHandler) RenameSubtask(c *gin.Context) {
	userID := c.GetString("user_id")
	var req dto.SubtaskTitleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Task key, subtask id and title are required")
		return
	}

	meta, err := h.plans.RenameSubtask(c.Request.Context(), userID, req.Key, req.SubtaskID, req.Title)
	if err != nil {
		utils.TrackError("task", "subtask_rename")
		utils.InternalError(c, "Failed to rename subtask")
		return
	}
	utils.Success(c, gin.H{"key": req.Key, "task": meta})
}
