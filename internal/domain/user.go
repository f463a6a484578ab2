package domain

import "time"

type UserRole string

const (
	UserRoleMember UserRole = "user"
	UserRoleAdmin  UserRole = "admin"
)

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

// BorrowedBook is the denormalized borrow-history entry kept on the user for
// fast listing. It mirrors the status of the owning BorrowRequest and is
// updated best-effort after every workflow transition.
type BorrowedBook struct {
	ID         int32        `json:"id"`
	BookID     int32        `json:"book_id"`
	BookTitle  string       `json:"book_title,omitempty"`
	BookAuthor string       `json:"book_author,omitempty"`
	ReturnDate time.Time    `json:"return_date"`
	Status     BorrowStatus `json:"status"`
	CreatedOn  time.Time    `json:"created_on"`
}

type User struct {
	ID              int32     `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	Address         Address   `json:"address"`
	Role            UserRole  `json:"role"`
	ProfileImageKey string    `json:"-"`
	ProfileImageURL string    `json:"profile_image_url,omitempty"`

	FavoriteBookIDs []int32        `json:"favorite_book_ids,omitempty"`
	BorrowedBooks   []BorrowedBook `json:"borrowed_books,omitempty"`

	ResetTokenHash      *string    `json:"-"`
	ResetTokenExpiresOn *time.Time `json:"-"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}
