package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"planward/middleware"
	"planward/model"
	"planward/services"
	"planward/usecase"
	"planward/utils"
)

const MaxActiveSessions = 5

func (h *AuthHandler) Login(c *gin.Context) {
	var loginReq model.LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.TrackAuthAttempt("failure", "validation")
		utils.BadRequest(c, "Invalid request")
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), loginReq.Username, loginReq.Password)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			utils.TrackAuthAttempt("failure", "invalid_credentials")
			utils.Unauthorized(c, "Invalid username or password")
			return
		}
		utils.TrackError("auth", "user_lookup")
		utils.InternalError(c, "Failed to authenticate")
		return
	}

	activeCount, err := h.sessions.CountActiveSessions(user.UserID)
	if err != nil {
		utils.TrackError("session", "count_check")
		utils.InternalError(c, "Failed to check session count")
		return
	}

	var notice string
	if activeCount >= MaxActiveSessions {
		if err := h.sessions.EndLeastActiveSession(user.UserID); err != nil {
			utils.TrackError("session", "session_cleanup")
			utils.InternalError(c, "Failed to manage sessions")
			return
		}
		notice = "Logged out of least active session due to session limit"
		log.Printf("Ended least active session for user %s due to session limit", user.UserID)
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

	if err := middleware.CreateSession(c, user.UserID, h.sessions); err != nil {
		utils.TrackError("session", "creation")
		utils.InternalError(c, "Failed to create session")
		return
	}

	utils.TrackAuthAttempt("success", "login")

	response := gin.H{
		"message": "Login successful",
		"token":   token,
		"refresh": refreshToken,
		"user": gin.H{
			"id":       user.UserID,
			"username": user.Username,
			"email":    user.Email,
		},
	}
	if notice != "" {
		response["notice"] = notice
	}
	utils.Success(c, response)
}
