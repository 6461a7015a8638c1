package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"main/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// ErrUploadFailed reports a blob upload that did not complete. A note is
// never written with a reference to a failed upload.
var ErrUploadFailed = errors.New("image upload failed")

// ImageURLPrefix is where uploaded images are served from; the durable URL
// stored on a note is this prefix plus the blob key.
const ImageURLPrefix = "/api/images/"

// BlobStore is the object storage the note service writes uploads to.
type BlobStore interface {
	Upload(key string, r io.Reader) (url string, err error)
	Open(key string) (io.ReadCloser, error)
}

// GridFSBlobStore stores uploaded images in a GridFS bucket on the same
// MongoDB deployment that holds the note documents.
type GridFSBlobStore struct {
	bucket *gridfs.Bucket
}

func NewGridFSBlobStore(client *mongo.Client) (*GridFSBlobStore, error) {
	db := client.Database(os.Getenv("MONGO_DB"))
	bucket, err := gridfs.NewBucket(db)
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}
	return &GridFSBlobStore{bucket: bucket}, nil
}

// GenerateBlobKey builds a collision-resistant key from the upload time and
// the original filename.
func GenerateBlobKey(filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), base)
}

// Upload writes the blob under the given key and returns its durable URL.
// The URL is handed out only after the upload completed in full.
func (s *GridFSBlobStore) Upload(key string, r io.Reader) (string, error) {
	if _, err := s.bucket.UploadFromStream(key, r); err != nil {
		utils.TrackImageUpload("failure")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	utils.TrackImageUpload("success")
	return ImageURLPrefix + key, nil
}

// Open returns a reader for a stored blob, or an error if no blob exists
// under the key.
func (s *GridFSBlobStore) Open(key string) (io.ReadCloser, error) {
	stream, err := s.bucket.OpenDownloadStreamByName(key)
	if err != nil {
		return nil, fmt.Errorf("image not found: %w", err)
	}
	return stream, nil
}

// Exists reports whether a blob is stored under the key.
func (s *GridFSBlobStore) Exists(key string) (bool, error) {
	cursor, err := s.bucket.Find(bson.M{"filename": key})
	if err != nil {
		return false, err
	}
	defer cursor.Close(context.Background())
	return cursor.Next(context.Background()), nil
}
