package handler

import (
	"errors"

	"main/dto"
	"main/repository"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// ChangePasswordHandler verifies the old password, stores the new hash and
// ends every other active session for the user.
func ChangePasswordHandler(c *gin.Context, userService *usecase.UserService, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("userID")

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "New password must have at least 6 characters, a number and a special character")
		return
	}

	ctx := c.Request.Context()

	if err := userService.ChangePassword(ctx, userID, req.OldPassword, req.NewPassword); err != nil {
		if errors.Is(err, repository.ErrInvalidCredentials) {
			utils.Unauthorized(c, "Current password is incorrect")
			return
		}
		respondError(c, err)
		return
	}

	if err := sessionRepo.EndAllUserSessions(ctx, userID); err != nil {
		utils.TrackError("session", "logout_all_failed")
	}

	utils.Success(c, gin.H{"message": "Password changed successfully. Please log in again."})
}
