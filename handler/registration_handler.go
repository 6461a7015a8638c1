package handler

import (
	"strings"

	"main/dto"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

func RegistrationHandler(c *gin.Context, userService *usecase.UserService) {
	var req dto.RegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request: username, and a password with a number and a special character, are required")
		return
	}

	user, err := userService.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if strings.Contains(err.Error(), "already taken") {
			utils.Conflict(c, "Username already taken")
			return
		}
		respondError(c, err)
		return
	}

	utils.Created(c, gin.H{
		"message":  "Registration successful",
		"user_id":  user.UserID,
		"username": user.Username,
	})
}
