package http

import (
	"net/http"
	"strconv"
	"strings"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository"
	"libraryhub-backend/internal/service"
)

type BookHandler struct {
	bookSvc service.BookService
	uploads *UploadHandler
}

func NewBookHandler(bookSvc service.BookService, uploads *UploadHandler) *BookHandler {
	return &BookHandler{bookSvc: bookSvc, uploads: uploads}
}

func (h *BookHandler) parseBookInput(r *http.Request) (service.BookInput, error) {
	var input service.BookInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return input, domain.Invalid("Invalid form data")
		}
		input.Title = r.FormValue("title")
		input.Author = r.FormValue("author")
		input.Description = r.FormValue("description")
		input.Category = r.FormValue("category")
		input.ISBN = r.FormValue("isbn")
		input.PublicationYear = formInt32(r, "publication_year")
		input.PriceCents = formInt32(r, "price_cents")
		input.TotalCopies = formInt32(r, "total_copies")

		key, err := h.uploads.SaveFormImage(r, "image")
		if err != nil {
			return input, err
		}
		input.CoverImageKey = key
		return input, nil
	}

	var body struct {
		Title           string `json:"title"`
		Author          string `json:"author"`
		Description     string `json:"description"`
		Category        string `json:"category"`
		PublicationYear int32  `json:"publication_year"`
		ISBN            string `json:"isbn"`
		PriceCents      int32  `json:"price_cents"`
		TotalCopies     int32  `json:"total_copies"`
	}
	if err := decodeBody(r, &body); err != nil {
		return input, err
	}
	input.Title = body.Title
	input.Author = body.Author
	input.Description = body.Description
	input.Category = body.Category
	input.PublicationYear = body.PublicationYear
	input.ISBN = body.ISBN
	input.PriceCents = body.PriceCents
	input.TotalCopies = body.TotalCopies
	return input, nil
}

func formInt32(r *http.Request, field string) int32 {
	v, _ := strconv.ParseInt(r.FormValue(field), 10, 32)
	return int32(v)
}

// Create handles POST /api/books (admin)
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, err := h.parseBookInput(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	book, err := h.bookSvc.CreateBook(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusCreated, book)
}

// List handles GET /api/books (optional auth for favorites)
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	minRating, _ := strconv.ParseFloat(r.URL.Query().Get("min_rating"), 64)
	filter := repository.BookFilter{
		Search:    r.URL.Query().Get("search"),
		Category:  r.URL.Query().Get("category"),
		MinRating: minRating,
		Sort:      r.URL.Query().Get("sort"),
		Page:      page,
		PageSize:  limit,
	}

	books, total, err := h.bookSvc.ListBooks(r.Context(), filter, UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPaged(w, books, total, page, limit)
}

// Get handles GET /api/books/{id} (optional auth for favorites)
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	book, err := h.bookSvc.GetBook(r.Context(), bookID, UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, book)
}

// Update handles PUT /api/books/{id} (admin)
func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	input, err := h.parseBookInput(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	book, err := h.bookSvc.UpdateBook(r.Context(), bookID, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, book)
}

// Delete handles DELETE /api/books/{id} (admin)
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.bookSvc.DeleteBook(r.Context(), bookID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Book deleted successfully")
}

// AddReview handles POST /api/books/{id}/reviews
func (h *BookHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var body struct {
		Rating  int32  `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	if _, err := h.bookSvc.AddReview(r.Context(), bookID, UserIDFromContext(r.Context()), body.Rating, body.Comment); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Review added successfully")
}
