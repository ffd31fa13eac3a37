package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"planward/services"
	"planward/utils"
)

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout blacklists the caller's tokens and ends the current session.
func (h *AuthHandler) Logout(c *gin.Context) {
	accessToken := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// refresh token is optional; an empty body still logs out
		req.RefreshToken = ""
	}

	if err := services.BlacklistTokens(accessToken, req.RefreshToken); err != nil {
		utils.TrackError("auth", "token_blacklist")
		utils.InternalError(c, "Failed to invalidate tokens")
		return
	}

	if sessionID, err := c.Cookie("session_id"); err == nil && sessionID != "" {
		if err := h.sessions.DeleteSession(sessionID); err != nil {
			utils.TrackError("session", "deletion")
		}
		c.SetCookie("session_id", "", -1, "/", "", true, true)
	}

	utils.TrackAuthAttempt("success", "logout")
	utils.Success(c, gin.H{"message": "Logged out successfully"})
}
