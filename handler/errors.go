package handler

import (
	"errors"

	"main/repository"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// respondError maps the repository/service error taxonomy onto HTTP
// responses with human-readable messages. Raw driver errors never get here;
// they are converted at the repository boundary.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(c, "Note not found")
	case errors.Is(err, repository.ErrInvalidCredentials):
		utils.Unauthorized(c, "Invalid username or password")
	case errors.Is(err, services.ErrUploadFailed):
		utils.InternalError(c, "Image upload failed; the note was not saved")
	case errors.Is(err, repository.ErrRemoteUnavailable):
		utils.ServiceUnavailable(c, "Note store is temporarily unavailable")
	case errors.Is(err, repository.ErrWriteFailed):
		utils.InternalError(c, "Failed to save changes")
	default:
		utils.BadRequest(c, err.Error())
	}
}
