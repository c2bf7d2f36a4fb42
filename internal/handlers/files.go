package handlers

import (
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"bookstore-backend/internal/storage"
)

// ServeUpload streams a stored file from the configured disk.
func (h *Handler) ServeUpload(c *gin.Context) {
	ref := storage.Prefix + strings.TrimPrefix(c.Param("path"), "/")
	rc, err := storage.OpenRef(c.Request.Context(), h.disk, ref)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}
	defer rc.Close()
	ct := mime.TypeByExtension(path.Ext(ref))
	if ct == "" {
		ct = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, ct, rc, nil)
}
