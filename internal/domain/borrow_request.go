package domain

import "time"

type BorrowStatus string

const (
	BorrowStatusPending   BorrowStatus = "pending"
	BorrowStatusApproved  BorrowStatus = "approved"
	BorrowStatusRejected  BorrowStatus = "rejected"
	BorrowStatusCancelled BorrowStatus = "cancelled"
	BorrowStatusReturned  BorrowStatus = "returned"
	// BorrowStatusOverdue is accepted by the schema but never written by the
	// workflow. Overdue handling is a nightly reminder sweep that reports late
	// requests without changing their status.
	BorrowStatusOverdue BorrowStatus = "overdue"
)

// Active reports whether the status counts against the one-active-request-
// per-user-per-book limit.
func (s BorrowStatus) Active() bool {
	return s == BorrowStatusPending || s == BorrowStatusApproved
}

// Terminal reports whether no further transition can leave the status.
func (s BorrowStatus) Terminal() bool {
	return s == BorrowStatusRejected || s == BorrowStatusCancelled || s == BorrowStatusReturned
}

// BorrowRequest is the source of truth for a borrow lifecycle. Rows are never
// deleted; they form the audit trail.
type BorrowRequest struct {
	ID     int32 `json:"id"`
	UserID int32 `json:"user_id"`
	BookID int32 `json:"book_id"`
	// Joined display fields, populated by listing queries.
	UserFullName string `json:"user_full_name,omitempty"`
	UserEmail    string `json:"user_email,omitempty"`
	BookTitle    string `json:"book_title,omitempty"`
	BookAuthor   string `json:"book_author,omitempty"`

	ExpectedReturnDate time.Time    `json:"expected_return_date"`
	ActualReturnDate   *time.Time   `json:"actual_return_date,omitempty"`
	Status             BorrowStatus `json:"status"`
	FineAmountCents    int32        `json:"fine_amount_cents"`
	// TotalAmountCents is the book price plus tax, snapshotted at creation
	// and immutable afterwards.
	TotalAmountCents int32     `json:"total_amount_cents"`
	CreatedOn        time.Time `json:"created_on"`
	UpdatedOn        time.Time `json:"updated_on"`
}
