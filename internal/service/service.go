package service

import (
	"context"
	"time"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository"
)

// RegisterInput carries the registration form.
type RegisterInput struct {
	FullName    string
	Email       string
	Password    string
	DateOfBirth time.Time
	Address     domain.Address
	// ProfileImageKey is set by the handler after a successful upload.
	ProfileImageKey string
}

// UpdateProfileInput carries the profile update form. Empty fields are left
// unchanged.
type UpdateProfileInput struct {
	FullName        string
	DateOfBirth     *time.Time
	Address         *domain.Address
	ProfileImageKey string
}

// AdminUserUpdateInput carries the admin user update form. Empty fields are
// left unchanged.
type AdminUserUpdateInput struct {
	FullName    string
	Email       string
	Role        string
	DateOfBirth *time.Time
	Address     *domain.Address
}

// BookInput carries the create/update book form.
type BookInput struct {
	Title           string
	Author          string
	Description     string
	Category        string
	PublicationYear int32
	ISBN            string
	PriceCents      int32
	TotalCopies     int32
	CoverImageKey   string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) // user, access token
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	GetMe(ctx context.Context, userID int32) (*domain.User, error)
	// ForgotPassword creates a reset token and emails a reset link built from
	// resetBaseURL.
	ForgotPassword(ctx context.Context, email, resetBaseURL string) error
	ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, string, error)
	// ChangePassword verifies the current password before storing the new one
	// and issues a fresh access token.
	ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) (*domain.User, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int32, input UpdateProfileInput) (*domain.User, error)
	AddFavorite(ctx context.Context, userID, bookID int32) error
	RemoveFavorite(ctx context.Context, userID, bookID int32) error
	ListFavorites(ctx context.Context, userID int32) ([]domain.Book, error)
	ListBorrowedBooks(ctx context.Context, userID int32) ([]domain.BorrowedBook, error)

	// Admin account management.
	ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, int32, error)
	GetUser(ctx context.Context, userID int32) (*domain.User, error)
	UpdateUser(ctx context.Context, userID int32, input AdminUserUpdateInput) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int32) error
}

type BookService interface {
	CreateBook(ctx context.Context, input BookInput) (*domain.Book, error)
	// GetBook returns the book with reviews; callerID 0 means anonymous and
	// leaves IsFavorite false.
	GetBook(ctx context.Context, bookID, callerID int32) (*domain.Book, error)
	UpdateBook(ctx context.Context, bookID int32, input BookInput) (*domain.Book, error)
	DeleteBook(ctx context.Context, bookID int32) error
	ListBooks(ctx context.Context, filter repository.BookFilter, callerID int32) ([]domain.Book, int32, error)
	AddReview(ctx context.Context, bookID, userID, rating int32, comment string) (*domain.Book, error)
}

// BorrowService orchestrates the borrow-request lifecycle, keeping book
// inventory and the user's borrow-history mirror consistent.
type BorrowService interface {
	CreateRequest(ctx context.Context, userID, bookID int32, expectedReturnDate time.Time) (*domain.BorrowRequest, error)
	Approve(ctx context.Context, requestID int32) (*domain.BorrowRequest, error)
	Reject(ctx context.Context, requestID int32) (*domain.BorrowRequest, error)
	Cancel(ctx context.Context, callerID, requestID int32) (*domain.BorrowRequest, error)
	Return(ctx context.Context, requestID int32) (*domain.BorrowRequest, error)
	List(ctx context.Context, filter repository.BorrowRequestFilter) ([]domain.BorrowRequest, int32, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.BorrowRequest, error)
}

type EmailService interface {
	SendWelcome(ctx context.Context, email, name string) error
	SendBorrowApproved(ctx context.Context, email, name, bookTitle, bookAuthor string, returnDate time.Time) error
	SendBorrowRejected(ctx context.Context, email, name, bookTitle, reason string) error
	SendPasswordReset(ctx context.Context, email, name, resetURL string) error
	SendOverdueReminder(ctx context.Context, email, name, bookTitle string, daysLate, fineCents int32) error
}
