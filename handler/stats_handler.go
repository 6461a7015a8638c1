package handler

import (
	"time"

	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	userRepo    *repository.UserRepo
	notesRepo   *repository.NotesRepo
	sessionRepo *repository.SessionRepo
}

func NewStatsHandler(
	userRepo *repository.UserRepo,
	notesRepo *repository.NotesRepo,
	sessionRepo *repository.SessionRepo,
) *StatsHandler {
	return &StatsHandler{
		userRepo:    userRepo,
		notesRepo:   notesRepo,
		sessionRepo: sessionRepo,
	}
}

// GetUserStats reports the user's note count, account age and active
// sessions.
func (h *StatsHandler) GetUserStats(c *gin.Context) {
	userID := c.GetString("userID")
	ctx := c.Request.Context()

	user, err := h.userRepo.FindUser(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	if user == nil {
		utils.NotFound(c, "User not found")
		return
	}

	totalNotes, err := h.notesRepo.CountUserNotes(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	activeSessions, err := h.sessionRepo.CountActiveSessions(ctx, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{
		"username":        user.Username,
		"member_since":    user.CreatedAt,
		"account_age":     time.Since(user.CreatedAt).Round(time.Hour).String(),
		"total_notes":     totalNotes,
		"active_sessions": activeSessions,
	})
}

// HealthHandler reports process health with CPU and memory usage; it does
// not require authentication.
func HealthHandler(c *gin.Context) {
	utils.Success(c, gin.H{
		"status": "ok",
		"cpu":    utils.GetCPUUsage(),
		"memory": utils.GetMemoryUsage(),
	})
}
