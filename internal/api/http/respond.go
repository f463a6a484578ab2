package http

import (
	"errors"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// response is the uniform JSON envelope.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Count   *int32      `json:"count,omitempty"`
}

// pagedResponse is the envelope for paginated listings.
type pagedResponse struct {
	Success    bool        `json:"success"`
	Total      int32       `json:"total"`
	TotalPages int32       `json:"total_pages"`
	Page       int32       `json:"page"`
	Limit      int32       `json:"limit"`
	Data       interface{} `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondData(w http.ResponseWriter, status int, data interface{}) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: true, Message: message})
}

func respondMessageData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, response{Success: true, Message: message, Data: data})
}

func respondList(w http.ResponseWriter, data interface{}, count int32) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data, Count: &count})
}

func respondPaged(w http.ResponseWriter, data interface{}, total, page, limit int32) {
	totalPages := (total + limit - 1) / limit
	writeJSON(w, http.StatusOK, pagedResponse{
		Success:    true,
		Total:      total,
		TotalPages: totalPages,
		Page:       page,
		Limit:      limit,
		Data:       data,
	})
}

// respondError translates the domain error taxonomy into an HTTP status and
// the declarative {success:false, message} shape. Unclassified errors become
// opaque 500s.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrConflict):
		status = http.StatusConflict
		message = err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()
	case errors.Is(err, domain.ErrInvalidState), errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
		message = err.Error()
	default:
		logger.ErrorContext(r.Context(), "Unhandled error", "error", err, "path", r.URL.Path)
	}

	writeJSON(w, status, response{Success: false, Message: message})
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Invalid("Invalid request body")
	}
	return nil
}
