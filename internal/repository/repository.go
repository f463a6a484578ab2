package repository

import (
	"context"
	"time"

	"libraryhub-backend/internal/domain"
)

// BookFilter narrows catalog listings.
type BookFilter struct {
	Search    string // matched against title and author
	Category  string
	MinRating float64
	Sort      string // price_asc, price_desc, rating_asc, rating_desc; default newest first
	Page      int32
	PageSize  int32
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search   string // matched against full name and email
	Role     domain.UserRole
	Page     int32
	PageSize int32
}

// BorrowRequestFilter narrows the admin borrow-request listing.
type BorrowRequestFilter struct {
	Search   string // matched against borrower full name and book title
	Status   domain.BorrowStatus
	Page     int32
	PageSize int32
}

type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) error
	GetByID(ctx context.Context, id int32) (*domain.Book, error)
	Update(ctx context.Context, book *domain.Book) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, filter BookFilter) ([]domain.Book, int32, error)

	// ReserveCopy commits one copy of inventory: a single conditional update
	// that decrements available_copies and increments borrowed_count only
	// when available_copies >= 1. Returns domain.ErrConflict when no copy is
	// available.
	ReserveCopy(ctx context.Context, bookID int32) error
	// ReleaseCopy returns one copy: increments available_copies, bounded
	// above by total_copies.
	ReleaseCopy(ctx context.Context, bookID int32) error

	AddReview(ctx context.Context, review *domain.Review) error
	ListReviews(ctx context.Context, bookID int32) ([]domain.Review, error)
	HasReview(ctx context.Context, bookID, userID int32) (bool, error)
	UpdateRating(ctx context.Context, bookID int32, rating float64) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, userID int32, passwordHash string) error
	List(ctx context.Context, filter UserFilter) ([]domain.User, int32, error)
	// Delete fails with domain.ErrConflict when borrow history still
	// references the user.
	Delete(ctx context.Context, id int32) error

	SetResetToken(ctx context.Context, userID int32, tokenHash string, expiresOn time.Time) error
	GetByResetToken(ctx context.Context, tokenHash string) (*domain.User, error)
	ClearResetToken(ctx context.Context, userID int32) error

	AddFavorite(ctx context.Context, userID, bookID int32) (bool, error) // false when already present
	RemoveFavorite(ctx context.Context, userID, bookID int32) (bool, error)
	ListFavoriteIDs(ctx context.Context, userID int32) ([]int32, error)
	ListFavoriteBooks(ctx context.Context, userID int32) ([]domain.Book, error)

	// Borrow-history mirror entries.
	AppendBorrowedBook(ctx context.Context, userID int32, entry *domain.BorrowedBook) error
	// UpdateBorrowedBookStatus syncs the mirror after a workflow transition.
	// Only the most recent (userID, bookID) entry is touched, so a repeat
	// borrow cycle never rewrites historical entries.
	UpdateBorrowedBookStatus(ctx context.Context, userID, bookID int32, status domain.BorrowStatus) error
	ListBorrowedBooks(ctx context.Context, userID int32) ([]domain.BorrowedBook, error)
}

type BorrowRequestRepository interface {
	Create(ctx context.Context, req *domain.BorrowRequest) error
	GetByID(ctx context.Context, id int32) (*domain.BorrowRequest, error)
	Update(ctx context.Context, req *domain.BorrowRequest) error
	// HasActiveRequest reports whether the user holds a pending or approved
	// request for the book.
	HasActiveRequest(ctx context.Context, userID, bookID int32) (bool, error)
	List(ctx context.Context, filter BorrowRequestFilter) ([]domain.BorrowRequest, int32, error)
	ListByUser(ctx context.Context, userID int32) ([]domain.BorrowRequest, error)
	// ListOverdue returns approved requests whose expected return date is
	// before the cutoff. Used by the nightly reminder sweep.
	ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.BorrowRequest, error)
}
