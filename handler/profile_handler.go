package handler

import (
	"main/dto"
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func GetUserProfileHandler(c *gin.Context, userRepo *repository.UserRepo) {
	userID := c.GetString("userID")

	user, err := userRepo.FindUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, dto.ToUserProfileResponse(user))
}
