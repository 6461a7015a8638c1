package handler

import (
	"main/dto"
	"main/model"
	"main/usecase"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetUserNotesHandler returns the user's full note collection. The client
// shows its loading state until this resolves; on failure it gets an error,
// never a partially-loaded collection.
func GetUserNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("userID")

	notes, err := notesService.ListNotes(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes))
}

// SearchNotesHandler returns the subset matching the text query and date
// bounds. All three parameters are optional; none at all returns the full
// collection in original order.
func SearchNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("userID")

	var predicate model.FilterPredicate
	if err := c.ShouldBindQuery(&predicate); err != nil {
		utils.BadRequest(c, "Invalid filter parameters")
		return
	}

	notes, err := notesService.FilterNotes(c.Request.Context(), userID, predicate)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponses(notes))
}

// CreateNoteHandler accepts the add-note form as multipart: position, text
// and date fields plus an optional image file.
func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("userID")

	var req dto.CreateNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	in := usecase.CreateNoteInput{
		Position: model.Position{Lat: req.Lat, Lng: req.Lng},
		NoteText: req.NoteText,
		Date:     req.Date,
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			utils.BadRequest(c, "Could not read image file")
			return
		}
		defer file.Close()
		in.Image = &usecase.ImageUpload{Filename: fileHeader.Filename, Content: file}
	}

	note, err := notesService.CreateNote(c.Request.Context(), userID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Created(c, dto.ToNoteResponse(note))
}

// UpdateNoteHandler accepts the edit-note form. Without a new image file the
// existing image URL is preserved; with one it is replaced.
func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("userID")

	var req dto.UpdateNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	in := usecase.UpdateNoteInput{
		NoteText: req.NoteText,
		Date:     req.Date,
	}

	if fileHeader, err := c.FormFile("image"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			utils.BadRequest(c, "Could not read image file")
			return
		}
		defer file.Close()
		in.Image = &usecase.ImageUpload{Filename: fileHeader.Filename, Content: file}
	}

	note, err := notesService.UpdateNote(c.Request.Context(), userID, noteID, in)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, dto.ToNoteResponse(note))
}

func DeleteNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	noteID := c.Param("id")
	userID := c.GetString("userID")

	if err := notesService.DeleteNote(c.Request.Context(), userID, noteID); err != nil {
		respondError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Note deleted successfully"})
}
