package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/middleware"
	"github.com/yukikurage/staff-management-api/internal/models"
	"github.com/yukikurage/staff-management-api/internal/storage"
)

// parseIDParam reads a numeric path parameter, answering 400 when it is not one.
func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

// currentUser returns the user loaded by RequireAuth, answering 401 without one.
func currentUser(c *gin.Context) (*models.User, bool) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return nil, false
	}
	return user, true
}

// formFile returns the optional upload under field. A nil header means none was sent.
// A body that is not a well-formed multipart form answers 400.
func formFile(c *gin.Context, field string, maxBytes int64) (*multipart.FileHeader, bool) {
	fh, err := c.FormFile(field)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return nil, true
	case errors.Is(err, multipart.ErrMessageTooLarge):
		apierrors.PayloadTooLarge(c, "File is too large")
		return nil, false
	case err != nil:
		apierrors.BadRequest(c, "Invalid multipart form")
		return nil, false
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		apierrors.PayloadTooLarge(c, fmt.Sprintf("File must be at most %d MB", maxBytes/(1024*1024)))
		return nil, false
	}
	return fh, true
}

// respondUploadError maps storage validation errors. It reports whether err was one.
func respondUploadError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, storage.ErrFileTooLarge):
		apierrors.PayloadTooLarge(c, "File is too large")
	case errors.Is(err, storage.ErrUnsupportedType):
		apierrors.BadRequest(c, "Only jpeg, png, gif, webp, mp4, webm and mov files are allowed")
	default:
		return false
	}
	return true
}
