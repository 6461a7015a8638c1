package handler

import (
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshHandler exchanges a valid refresh token for a fresh token pair. The
// old refresh token is voided so it cannot be replayed.
func RefreshHandler(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Refresh token is required")
		return
	}

	if services.IsTokenBlacklisted(req.RefreshToken) {
		utils.TrackAuthAttempt("failure", "refresh_blacklisted")
		utils.Unauthorized(c, "Token has been invalidated")
		return
	}

	userID, err := services.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh_invalid")
		utils.Unauthorized(c, "Invalid refresh token")
		return
	}

	token, err := services.GenerateToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate token")
		return
	}

	refreshToken, err := services.GenerateRefreshToken(userID)
	if err != nil {
		utils.InternalError(c, "Failed to generate refresh token")
		return
	}

	if err := services.BlacklistTokens(req.RefreshToken, ""); err != nil {
		utils.TrackError("auth", "refresh_blacklist_failed")
	}

	utils.TrackAuthAttempt("success", "refresh")
	utils.Success(c, gin.H{
		"token":   token,
		"refresh": refreshToken,
	})
}
