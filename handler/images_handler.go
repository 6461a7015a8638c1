package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetImageHandler streams a stored image out of the blob store. The key in
// the URL is the one embedded in a note's durable image URL.
func GetImageHandler(c *gin.Context, blobs services.BlobStore) {
	key := c.Param("key")
	if key == "" {
		utils.BadRequest(c, "Image key is required")
		return
	}

	stream, err := blobs.Open(key)
	if err != nil {
		utils.NotFound(c, "Image not found")
		return
	}
	defer stream.Close()

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.Header("Content-Type", contentType)
	c.Header("Cache-Control", "public, max-age=86400")
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, stream); err != nil {
		// Headers are already out; nothing to do but log via metrics.
		utils.TrackError("blob", "image_stream_failed")
	}
}
