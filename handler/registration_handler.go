package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"planward/middleware"
	"planward/services"
	"planward/usecase"
	"planward/utils"
)

// AuthHandler groups the register/login/logout/refresh endpoints.
type AuthHandler struct {
	users    *usecase.UserService
	sessions middleware.SessionRepository
}

func NewAuthHandler(users *usecase.UserService, sessions middleware.SessionRepository) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

type registrationRequest struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "register")
		utils.BadRequest(c, "Invalid request")
		return
	}
	if !utils.ValidatePassword(req.Password) {
		utils.TrackAuthAttempt("failure", "register")
		utils.BadRequest(c, "Password does not meet requirements")
		return
	}

	user, err := h.users.CreateUser(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrUsernameTaken) {
			utils.TrackAuthAttempt("failure", "register")
			utils.Conflict(c, "Username already exists")
			return
		}
		utils.TrackError("auth", "registration")
		utils.InternalError(c, "Failed to register user")
		return
	}

	token, err := services.GenerateToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refreshToken, err := services.GenerateRefreshToken(user.UserID)
	if err != nil {
		utils.TrackError("auth", "refresh_token_generation")
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	utils.TrackAuthAttempt("success", "register")
	utils.Created(c, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"refresh": refreshToken,
		"user": gin.H{
			"id":       user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	})
}
