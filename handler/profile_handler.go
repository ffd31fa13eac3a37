package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planward/dto"
	"planward/usecase"
	"planward/utils"
)

type ProfileHandler struct {
	users *usecase.UserService
}

func NewProfileHandler(users *usecase.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	user, err := h.users.GetUser(c.Request.Context(), userID.(string))
	if err != nil {
		utils.TrackError("database", "user_lookup")
		utils.InternalError(c, "Failed to fetch user")
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	links := map[string]dto.UserLink{
		"self":            {Href: "/api/user/profile", Method: "GET"},
		"categories":      {Href: "/api/categories", Method: "GET"},
		"sessions":        {Href: "/api/sessions/active", Method: "GET"},
		"change_password": {Href: "/api/user/password", Method: "PUT"},
		"logout":          {Href: "/api/user/logout", Method: "POST"},
	}
	utils.Success(c, dto.ToUserProfileResponse(user, links))
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request")
		return
	}
	if !utils.ValidatePassword(req.NewPassword) {
		utils.BadRequest(c, "Password does not meet requirements")
		return
	}

	err := h.users.ChangePassword(c.Request.Context(), userID.(string), req.CurrentPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			utils.Unauthorized(c, "Current password is incorrect")
			return
		}
		utils.TrackError("auth", "password_change")
		utils.InternalError(c, "Failed to change password")
		return
	}
	utils.Success(c, gin.H{"message": "Password changed successfully"})
}

func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	if err := h.users.DeleteUser(c.Request.Context(), userID.(string)); err != nil {
		utils.TrackError("database", "user_deletion")
		utils.InternalError(c, "Failed to delete account")
		return
	}
	c.SetCookie("session_id", "", -1, "/", "", true, true)
	utils.Success(c, gin.H{"message": "Account deleted"})
}
