package handler

import (
	"errors"
	"log"

	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// DeleteUserHandler removes the account with its notes and sessions. Images
// in the blob store are left behind; orphaned blobs are accepted.
func DeleteUserHandler(c *gin.Context, userRepo *repository.UserRepo, notesRepo *repository.NotesRepo, sessionRepo *repository.SessionRepo) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	if err := notesRepo.DeleteUserNotes(ctx, userID); err != nil {
		respondError(c, err)
		return
	}

	if err := sessionRepo.DeleteUserSessions(ctx, userID); err != nil {
		log.Printf("Warning: failed to delete sessions for user %s: %v", userID, err)
	}

	if err := userRepo.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.NotFound(c, "User not found")
			return
		}
		respondError(c, err)
		return
	}

	c.SetCookie("session_id", "", -1, "/", "", true, true)
	utils.Success(c, gin.H{"message": "Account deleted"})
}
