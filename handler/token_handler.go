package handler

import (
	"github.com/gin-gonic/gin"

	"planward/services"
	"planward/utils"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a valid refresh token for a new token pair. The used
// refresh token is blacklisted so it cannot be replayed.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.BadRequest(c, "Refresh token is required")
		return
	}

	if services.IsTokenBlacklisted(req.RefreshToken) {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Token has been invalidated")
		return
	}

	userID, err := services.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	token, err := services.GenerateToken(userID)
	if err != nil {
		utils.TrackError("auth", "token_generation")
		utils.InternalError(c, "Failed to generate token")
		return
	}
	refreshToken, err := services.GenerateRefreshToken(userID)
	if err != nil {
		utils.TrackError("auth", "refresh_token_generation")
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	if err := services.BlacklistTokens("", req.RefreshToken); err != nil {
		utils.TrackError("auth", "token_blacklist")
	}

	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{
		"token":   token,
		"refresh": refreshToken,
	})
}
