package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires every API route to its handler with the appropriate
// authentication requirement.
func NewRouter(
	auth *AuthHandler,
	books *BookHandler,
	users *UserHandler,
	borrows *BorrowHandler,
	uploads *UploadHandler,
	mw *Middleware,
) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/api/auth/register", auth.Register).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", auth.Login).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", auth.Logout).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/me", mw.Authenticate(auth.Me)).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/forgot-password", auth.ForgotPassword).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/reset-password/{token}", auth.ResetPassword).Methods(http.MethodPut)
	r.HandleFunc("/api/auth/update-password", mw.Authenticate(auth.UpdatePassword)).Methods(http.MethodPut)

	r.HandleFunc("/api/books", mw.OptionalAuth(books.List)).Methods(http.MethodGet)
	r.HandleFunc("/api/books", mw.RequireAdmin(books.Create)).Methods(http.MethodPost)
	r.HandleFunc("/api/books/{id}", mw.OptionalAuth(books.Get)).Methods(http.MethodGet)
	r.HandleFunc("/api/books/{id}", mw.RequireAdmin(books.Update)).Methods(http.MethodPut)
	r.HandleFunc("/api/books/{id}", mw.RequireAdmin(books.Delete)).Methods(http.MethodDelete)
	r.HandleFunc("/api/books/{id}/reviews", mw.Authenticate(books.AddReview)).Methods(http.MethodPost)

	r.HandleFunc("/api/users/profile", mw.Authenticate(users.UpdateProfile)).Methods(http.MethodPut)
	r.HandleFunc("/api/users/favorites", mw.Authenticate(users.ListFavorites)).Methods(http.MethodGet)
	r.HandleFunc("/api/users/favorites/{bookId}", mw.Authenticate(users.AddFavorite)).Methods(http.MethodPost)
	r.HandleFunc("/api/users/favorites/{bookId}", mw.Authenticate(users.RemoveFavorite)).Methods(http.MethodDelete)
	r.HandleFunc("/api/users/borrowed-books", mw.Authenticate(users.ListBorrowedBooks)).Methods(http.MethodGet)

	r.HandleFunc("/api/users", mw.RequireAdmin(users.List)).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", mw.RequireAdmin(users.Get)).Methods(http.MethodGet)
	r.HandleFunc("/api/users/{id}", mw.RequireAdmin(users.Update)).Methods(http.MethodPut)
	r.HandleFunc("/api/users/{id}", mw.RequireAdmin(users.Delete)).Methods(http.MethodDelete)

	r.HandleFunc("/api/borrow-requests", mw.RequireAdmin(borrows.List)).Methods(http.MethodGet)
	r.HandleFunc("/api/borrow-requests/my-requests", mw.Authenticate(borrows.ListMine)).Methods(http.MethodGet)
	r.HandleFunc("/api/borrow-requests/{bookId}", mw.Authenticate(borrows.CreateRequest)).Methods(http.MethodPost)
	r.HandleFunc("/api/borrow-requests/{id}", mw.RequireAdmin(borrows.UpdateStatus)).Methods(http.MethodPut)
	r.HandleFunc("/api/borrow-requests/{id}/cancel", mw.Authenticate(borrows.Cancel)).Methods(http.MethodPut)
	r.HandleFunc("/api/borrow-requests/{id}/return", mw.RequireAdmin(borrows.Return)).Methods(http.MethodPut)

	r.HandleFunc("/api/uploads/{key}", uploads.ServeUpload).Methods(http.MethodGet)

	return r
}
