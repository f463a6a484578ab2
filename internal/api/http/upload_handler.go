package http

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/storage"
)

// UploadHandler stores multipart image uploads and serves them back.
type UploadHandler struct {
	store        storage.Storage
	maxBytes     int64
	allowedTypes []string
}

func NewUploadHandler(store storage.Storage, maxFileSizeMB int64, allowedTypes []string) *UploadHandler {
	return &UploadHandler{
		store:        store,
		maxBytes:     maxFileSizeMB << 20,
		allowedTypes: allowedTypes,
	}
}

func (h *UploadHandler) allowed(contentType string) bool {
	for _, t := range h.allowedTypes {
		if t == contentType {
			return true
		}
	}
	return false
}

// SaveFormImage stores the named multipart file field, if present, and
// returns the generated storage key. Returns "" when the field is absent.
func (h *UploadHandler) SaveFormImage(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", nil
	}
	if err != nil {
		return "", domain.Invalid("Invalid image upload")
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		return "", domain.Invalid(fmt.Sprintf("Image exceeds the %dMB size limit", h.maxBytes>>20))
	}
	contentType, err := sniffContentType(file)
	if err != nil {
		return "", err
	}
	if !h.allowed(contentType) {
		return "", domain.Invalid("Unsupported image type")
	}

	key := uuid.New().String() + extensionFor(contentType, header.Filename)
	if err := h.store.Save(r.Context(), key, file); err != nil {
		return "", err
	}
	return key, nil
}

// ServeUpload handles GET /api/uploads/{key}
func (h *UploadHandler) ServeUpload(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]
	file, err := h.store.Open(r.Context(), key)
	if err != nil {
		writeJSON(w, http.StatusNotFound, response{Success: false, Message: "File not found"})
		return
	}
	defer file.Close()

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".gif":
		contentType = "image/gif"
	case ".webp":
		contentType = "image/webp"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	io.Copy(w, file)
}

func sniffContentType(file multipart.File) (string, error) {
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", domain.Invalid("Invalid image upload")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}

func extensionFor(contentType, filename string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return filepath.Ext(filename)
}
