package handler

import (
	"github.com/gin-gonic/gin"

	"planward/repository"
	"planward/utils"
)

type SessionHandler struct {
	sessions *repository.SessionRepo
}

func NewSessionHandler(sessions *repository.SessionRepo) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// GetActiveSessions lists the caller's live sessions, most recent first.
func (h *SessionHandler) GetActiveSessions(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	sessions, err := h.sessions.GetUserActiveSessions(userID.(string))
	if err != nil {
		utils.TrackError("session", "fetch")
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	currentID, _ := c.Cookie("session_id")
	type sessionView struct {
		SessionID      string `json:"session_id"`
		DisplayName    string `json:"display_name"`
		DeviceInfo     string `json:"device_info"`
		IPAddress      string `json:"ip_address"`
		CreatedAt      string `json:"created_at"`
		LastActivityAt string `json:"last_activity_at"`
		Current        bool   `json:"current"`
	}
	views := make([]sessionView, len(sessions))
	for i, s := range sessions {
		views[i] = sessionView{
			SessionID:      s.SessionID,
			DisplayName:    s.DisplayName,
			DeviceInfo:     s.DeviceInfo,
			IPAddress:      s.IPAddress,
			CreatedAt:      s.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			LastActivityAt: s.LastActivityAt.Format("2006-01-02T15:04:05Z07:00"),
			Current:        s.SessionID == currentID,
		}
	}
	utils.Success(c, gin.H{"sessions": views, "count": len(views)})
}

// LogoutAll ends every session the caller has, including the current one.
func (h *SessionHandler) LogoutAll(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	if err := h.sessions.EndAllUserSessions(userID.(string)); err != nil {
		utils.TrackError("session", "logout_all")
		utils.InternalError(c, "Failed to end sessions")
		return
	}
	c.SetCookie("session_id", "", -1, "/", "", true, true)
	utils.Success(c, gin.H{"message": "All sessions ended"})
}
