package api

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/skillsenselab/prodman/internal/errors"
	"github.com/skillsenselab/prodman/internal/storage"
)

// maxUploadSize caps image uploads at 2 MiB.
const maxUploadSize = 2 * 1024 * 1024

// Accepted image content types and their canonical extensions.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// saveUpload reads the "file" form field, checks size and content type,
// and stores it under dir with a random name. Returns the public URL.
func saveUpload(c *gin.Context, files storage.Storage, dir string) (string, error) {
	header, err := c.FormFile("file")
	if err != nil {
		return "", apperrors.Validation("A 'file' form field is required.")
	}
	if header.Size > maxUploadSize {
		return "", apperrors.Validation(fmt.Sprintf("File exceeds the %d byte limit.", maxUploadSize))
	}

	contentType := header.Header.Get("Content-Type")
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", apperrors.Validation("File must be a jpeg, png, or webp image.")
	}

	f, err := header.Open()
	if err != nil {
		return "", apperrors.Internal(err)
	}
	defer f.Close()

	name := path.Join(dir, uuid.New().String()+ext)
	if err := files.Upload(c.Request.Context(), name, f); err != nil {
		return "", apperrors.Internal(err)
	}
	return files.URL(c.Request.Context(), name)
}

// deleteByURL removes a previously stored file given its public URL.
func deleteByURL(ctx context.Context, files storage.Storage, fileURL string) error {
	// The stored path is the URL with the public prefix stripped.
	parts := strings.SplitN(strings.TrimPrefix(fileURL, "/"), "/", 2)
	if len(parts) != 2 {
		return fmt.Errorf("unrecognized file url: %s", fileURL)
	}
	return files.Delete(ctx, parts[1])
}
