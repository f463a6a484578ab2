package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository"
	"libraryhub-backend/internal/service"
)

// BorrowHandler exposes the borrow-request workflow over HTTP.
type BorrowHandler struct {
	borrowSvc service.BorrowService
}

func NewBorrowHandler(borrowSvc service.BorrowService) *BorrowHandler {
	return &BorrowHandler{borrowSvc: borrowSvc}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.Invalid("Invalid " + name)
	}
	return int32(id), nil
}

func parsePagination(r *http.Request) (page, limit int32) {
	page, limit = 1, 10
	if raw := r.URL.Query().Get("page"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 {
			page = int32(v)
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 32); err == nil && v > 0 && v <= 100 {
			limit = int32(v)
		}
	}
	return page, limit
}

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, domain.Invalid("Invalid date, expected YYYY-MM-DD")
}

// CreateRequest handles POST /api/borrow-requests/{bookId}
func (h *BorrowHandler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var body struct {
		ExpectedReturnDate string `json:"expected_return_date"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}
	returnDate, err := parseDate(body.ExpectedReturnDate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	_, err = h.borrowSvc.CreateRequest(r.Context(), UserIDFromContext(r.Context()), bookID, returnDate)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusCreated, "Borrow request sent to admin")
}

// List handles GET /api/borrow-requests (admin)
func (h *BorrowHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	filter := repository.BorrowRequestFilter{
		Search:   r.URL.Query().Get("search"),
		Status:   domain.BorrowStatus(r.URL.Query().Get("status")),
		Page:     page,
		PageSize: limit,
	}

	requests, total, err := h.borrowSvc.List(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPaged(w, requests, total, page, limit)
}

// ListMine handles GET /api/borrow-requests/my-requests
func (h *BorrowHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	requests, err := h.borrowSvc.ListByUser(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, requests, int32(len(requests)))
}

// UpdateStatus handles PUT /api/borrow-requests/{id} (admin). The body's
// status field selects the approve or reject transition.
func (h *BorrowHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	var req *domain.BorrowRequest
	switch domain.BorrowStatus(body.Status) {
	case domain.BorrowStatusApproved:
		req, err = h.borrowSvc.Approve(r.Context(), requestID)
	case domain.BorrowStatusRejected:
		req, err = h.borrowSvc.Reject(r.Context(), requestID)
	default:
		err = domain.Invalid("Status must be approved or rejected")
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessageData(w, http.StatusOK, "Borrow request "+body.Status, req)
}

// Cancel handles PUT /api/borrow-requests/{id}/cancel
func (h *BorrowHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	req, err := h.borrowSvc.Cancel(r.Context(), UserIDFromContext(r.Context()), requestID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessageData(w, http.StatusOK, "Borrow request cancelled successfully", req)
}

// Return handles PUT /api/borrow-requests/{id}/return
func (h *BorrowHandler) Return(w http.ResponseWriter, r *http.Request) {
	requestID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	req, err := h.borrowSvc.Return(r.Context(), requestID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessageData(w, http.StatusOK, "Thank you for returning the book", req)
}
