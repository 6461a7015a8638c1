package handler

import (
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetActiveSessions lists the user's active sessions with device and
// activity details.
func GetActiveSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("userID")

	sessions, err := sessionRepo.GetActiveSessions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// LogoutAllSessions ends every active session for the user.
func LogoutAllSessions(c *gin.Context, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("userID")

	if err := sessionRepo.EndAllUserSessions(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie("session_id", "", -1, "/", "", true, true)
	utils.Success(c, gin.H{"message": "All sessions logged out"})
}
