package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/service"
)

type AuthHandler struct {
	authSvc          service.AuthService
	uploads          *UploadHandler
	baseURL          string
	cookieExpiryDays int
}

func NewAuthHandler(authSvc service.AuthService, uploads *UploadHandler, baseURL string, cookieExpiryDays int) *AuthHandler {
	return &AuthHandler{
		authSvc:          authSvc,
		uploads:          uploads,
		baseURL:          strings.TrimRight(baseURL, "/"),
		cookieExpiryDays: cookieExpiryDays,
	}
}

func (h *AuthHandler) setTokenCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().AddDate(0, 0, h.cookieExpiryDays),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

type authPayload struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Register handles POST /api/auth/register. Accepts JSON or multipart form
// data with an optional profile image.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			respondError(w, r, domain.Invalid("Invalid form data"))
			return
		}
		input.FullName = r.FormValue("full_name")
		input.Email = r.FormValue("email")
		input.Password = r.FormValue("password")
		if raw := r.FormValue("date_of_birth"); raw != "" {
			dob, err := parseDate(raw)
			if err != nil {
				respondError(w, r, err)
				return
			}
			input.DateOfBirth = dob
		}
		if raw := r.FormValue("address"); raw != "" {
			if err := json.UnmarshalFromString(raw, &input.Address); err != nil {
				respondError(w, r, domain.Invalid("Invalid address"))
				return
			}
		}
		key, err := h.uploads.SaveFormImage(r, "image")
		if err != nil {
			respondError(w, r, err)
			return
		}
		input.ProfileImageKey = key
	} else {
		var body struct {
			FullName    string         `json:"full_name"`
			Email       string         `json:"email"`
			Password    string         `json:"password"`
			DateOfBirth string         `json:"date_of_birth"`
			Address     domain.Address `json:"address"`
		}
		if err := decodeBody(r, &body); err != nil {
			respondError(w, r, err)
			return
		}
		input.FullName = body.FullName
		input.Email = body.Email
		input.Password = body.Password
		input.Address = body.Address
		if body.DateOfBirth != "" {
			dob, err := parseDate(body.DateOfBirth)
			if err != nil {
				respondError(w, r, err)
				return
			}
			input.DateOfBirth = dob
		}
	}

	user, token, err := h.authSvc.Register(r.Context(), input)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.setTokenCookie(w, token)
	respondData(w, http.StatusCreated, authPayload{Token: token, User: user})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := h.authSvc.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.setTokenCookie(w, token)
	respondData(w, http.StatusOK, authPayload{Token: token, User: user})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
	})
	respondMessage(w, http.StatusOK, "Logged out successfully")
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.authSvc.GetMe(r.Context(), UserIDFromContext(r.Context()))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondData(w, http.StatusOK, user)
}

// UpdatePassword handles PUT /api/auth/update-password
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := h.authSvc.ChangePassword(r.Context(), UserIDFromContext(r.Context()), body.CurrentPassword, body.NewPassword)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.setTokenCookie(w, token)
	respondData(w, http.StatusOK, authPayload{Token: token, User: user})
}

// ForgotPassword handles POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.authSvc.ForgotPassword(r.Context(), body.Email, h.baseURL+"/api/auth/reset-password"); err != nil {
		respondError(w, r, err)
		return
	}
	respondMessage(w, http.StatusOK, "Password reset email sent")
}

// ResetPassword handles PUT /api/auth/reset-password/{token}
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		respondError(w, r, err)
		return
	}

	user, token, err := h.authSvc.ResetPassword(r.Context(), mux.Vars(r)["token"], body.Password)
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.setTokenCookie(w, token)
	respondData(w, http.StatusOK, authPayload{Token: token, User: user})
}
