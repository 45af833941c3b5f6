package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/staff-management-api/internal/errors"
	"github.com/yukikurage/staff-management-api/internal/storage"
)

// UploadHandler streams stored media back to clients.
type UploadHandler struct {
	store storage.Store
}

func NewUploadHandler(store storage.Store) *UploadHandler {
	return &UploadHandler{store: store}
}

// Serve writes the named object
func (h *UploadHandler) Serve(c *gin.Context) {
	body, info, err := h.store.Open(c.Request.Context(), c.Param("name"))
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrInvalidName):
			apierrors.NotFound(c, "File not found")
		default:
			apierrors.Unexpected(c, err)
		}
		return
	}
	defer body.Close()

	c.DataFromReader(http.StatusOK, info.Size, info.ContentType, body, map[string]string{
		"Cache-Control": "public, max-age=31536000, immutable",
	})
}
