package middleware

import (
	"fmt"
	"time"

	"main/model"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// InactivityTimeout is how long a session may sit idle before it is ended.
const InactivityTimeout = 48 * time.Hour

// SessionMiddleware resolves the session cookie, ends timed-out sessions and
// refreshes the last-activity stamp. Requests without a cookie pass through;
// token auth decides whether they may proceed.
func SessionMiddleware(sessionRepo *repository.SessionRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie("session_id")
		if err != nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()

		session, err := sessionRepo.GetSession(ctx, sessionID)
		if err != nil || !session.IsActive {
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		if time.Since(session.LastActivityAt) > InactivityTimeout {
			session.IsActive = false
			sessionRepo.UpdateSession(ctx, session)
			c.SetCookie("session_id", "", -1, "/", "", true, true)
			c.Next()
			return
		}

		session.LastActivityAt = time.Now()
		sessionRepo.UpdateSession(ctx, session)

		c.Set("session", session)
		c.Next()
	}
}

// CreateSession records a new login as an active session and sets the
// session cookie.
func CreateSession(c *gin.Context, userID string, sessionRepo *repository.SessionRepo) error {
	userAgent := c.Request.UserAgent()
	browser, os, device := utils.ParseUserAgent(userAgent)

	sessionTTL := utils.GetEnvAsDuration("SESSION_DURATION", 24*time.Hour)

	session := &model.Session{
		SessionID:      utils.GenerateSessionID(),
		UserID:         userID,
		DisplayName:    utils.GenerateSessionName(userAgent),
		DeviceInfo:     fmt.Sprintf("%s on %s (%s)", browser, os, device),
		IPAddress:      c.ClientIP(),
		CreatedAt:      time.Now(),
		ExpiresAt:      time.Now().Add(sessionTTL),
		LastActivityAt: time.Now(),
		IsActive:       true,
	}

	if err := sessionRepo.CreateSession(c.Request.Context(), session); err != nil {
		return err
	}

	c.SetCookie(
		"session_id",
		session.SessionID,
		int(sessionTTL.Seconds()),
		"/",
		"",
		true,
		true,
	)

	return nil
}
