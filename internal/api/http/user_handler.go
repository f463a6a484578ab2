package http

import (
	"net/http"
	"strings"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository"
	"libraryhub-backend/internal/service"
)

type UserHandler struct {
	userSvc service.UserService
	uploads *UploadHandler
}

func NewUserHandler(userSvc service.UserService, uploads *UploadHandler) *UserHandler {
	return &UserHandler{userSvc: userSvc, uploads: uploads}
}

// UpdateProfile handles PUT /api/users/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateProfileInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			respondError(w, r, domain.Invalid("Invalid form data"))
			return
		}
		input.FullName = r.FormValue("full_name")
		if v := r.FormValue("date_of_birth"); v != "" {
			dob, err := parseDate(v)
			if err != nil {
				respondError(w, r, err)
				return
			}
			input.DateOfBirth = &dob
		}
		if v := r.FormValue("address"); v != "" {
			var addr domain.Address
			if err := json.UnmarshalFromString(v, &addr); err != nil {
				respondError(w, r, domain.Invalid("Invalid address"))
				return
			}
			input.Address = &addr
		}
		key, err := h.uploads.SaveFormImage(r, "image")
		if err != nil {
			respondError(w, r, err)
			return
		}
		input.ProfileImageKey = key
	} else {
		var body struct {
			FullName    string          `json:"full_name"`
			DateOfBirth string          `json:"date_of_birth"`
			Address     *domain.Address `json:"address"`
		}
		if err := decodeBody(r, &body); err != nil {
			respondError(w, r, err)
			return
		}
		input.FullName = body.FullName
		input.Address = body.Address
		if body.DateOfBirth != "" {
			dob, err := parseDate(body.DateOfBirth)
			if err != nil {
				respondError(w, r, err)
				return
			}
			input.DateOfBirth = &dob
		}
	}

	user, err := h.userSvc.UpdateProfile(r.Context(), UserIDFromContext(r.Context()), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondMessageData(w, http.StatusOK, "Profile updated successfully", user)
}

// AddFavorite handles POST /api/users/favorites/{bookId}
func (h *UserHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.userSvc.AddFavorite(r.Context(), UserIDFromContext(r.Context()), bookID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Book added to favorites")
}

// RemoveFavorite handles DELETE /api/users/favorites/{bookId}
func (h *UserHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	bookID, err := pathID(r, "bookId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.userSvc.RemoveFavorite(r.Context(), UserIDFromContext(r.Context()), bookID); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Book removed from favorites")
}

// ListFavorites handles GET /api/users/favorites
func (h *UserHandler) ListFavorites(w http.ResponseWriter, r *http.Request) {
	books, err := h.userSvc.ListFavorites(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, books, int32(len(books)))
}

// ListBorrowedBooks handles GET /api/users/borrowed-books
func (h *UserHandler) ListBorrowedBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.userSvc.ListBorrowedBooks(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondList(w, books, int32(len(books)))
}

// List handles GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)
	filter := repository.UserFilter{
		Search:   r.URL.Query().Get("search"),
		Role:     domain.UserRole(r.URL.Query().Get("role")),
		Page:     page,
		PageSize: limit,
	}

	users, total, err := h.userSvc.ListUsers(r.Context(), filter)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondPaged(w, users, total, page, limit)
}

// Get handles GET /api/users/{id}
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	user, err := h.userSvc.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

// Update handles PUT /api/users/{id}
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var body struct {
		FullName    string          `json:"full_name"`
		Email       string          `json:"email"`
		Role        string          `json:"role"`
		DateOfBirth string          `json:"date_of_birth"`
		Address     *domain.Address `json:"address"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	input := service.AdminUserUpdateInput{
		FullName: body.FullName,
		Email:    body.Email,
		Role:     body.Role,
		Address:  body.Address,
	}
	if body.DateOfBirth != "" {
		dob, err := parseDate(body.DateOfBirth)
		if err != nil {
			respondError(w, r, err)
			return
		}
		input.DateOfBirth = &dob
	}

	user, err := h.userSvc.UpdateUser(r.Context(), id, input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

// Delete handles DELETE /api/users/{id}
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.userSvc.DeleteUser(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "User deleted successfully")
}
