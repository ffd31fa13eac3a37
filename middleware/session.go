package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"planward/model"
	"planward/repository"
	"planward/utils"
)

// SessionRepository is the slice of the session repo the middleware and the
// auth handlers need; tests satisfy it with a fake.
type SessionRepository interface {
	CreateSession(*model.Session) error
	GetSession(string) (*model.Session, error)
	UpdateSession(*model.Session) error
	DeleteSession(string) error
	CountActiveSessions(string) (int, error)
	EndLeastActiveSession(string) error
}

const sessionInactivityTimeout = 48 * time.Hour

// SessionMiddleware touches the caller's session on every request and clears
// stale cookies. Requests without a session cookie pass through untouched.
func SessionMiddleware(sessionRepo *repository.SessionRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		session, err := sessionRepo.GetSession(sessionID)
		if err != nil || !session.IsActive {
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > sessionInactivityTimeout {
			session.IsActive = false
			sessionRepo.UpdateSession(session)
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		session.LastActivityAt = time.Now()
		sessionRepo.UpdateSession(session)

		c.Set("session", session)
		c.Next()
	}
}

// CreateSession stores a new session for the request's device and sets the
// session cookie.
func CreateSession(c *gin.Context, userID string, sessionRepo SessionRepository) error {
	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	session := &model.Session{
		SessionID:      uuid.New().String(),
		UserID:         userID,
		DisplayName:    utils.GenerateSessionName(userAgent),
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(24 * time.Hour),
		LastActivityAt: time.Now(),
		IPAddress:      c.ClientIP(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(session); err != nil {
		return err
	}

	c.SetCookie(
		"session_id",
		session.SessionID,
		int(24*time.Hour.Seconds()),
		"/",
		"",
		true,
		true,
	)
	return nil
}
