package handler

import (
	"log"

	"main/model"
	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// LogoutHandler ends the current session and voids the presented tokens.
func LogoutHandler(c *gin.Context, sessionRepo *repository.SessionRepo) {
	accessToken := c.GetString("token")
	refreshToken := c.GetHeader("X-Refresh-Token")

	if err := services.BlacklistTokens(accessToken, refreshToken); err != nil {
		log.Printf("Warning: failed to blacklist tokens: %v", err)
	}

	if sessionValue, exists := c.Get("session"); exists {
		if session, ok := sessionValue.(*model.Session); ok {
			if err := sessionRepo.EndSession(c.Request.Context(), session.SessionID); err != nil {
				log.Printf("Warning: failed to end session %s: %v", session.SessionID, err)
			}
		}
	}

	c.SetCookie("session_id", "", -1, "/", "", true, true)
	utils.Success(c, gin.H{"message": "Logged out successfully"})
}
