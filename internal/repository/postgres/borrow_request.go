package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository"
)

type borrowRequestRepository struct {
	db *sql.DB
}

func NewBorrowRequestRepository(db *sql.DB) repository.BorrowRequestRepository {
	return &borrowRequestRepository{db: db}
}

const borrowJoinedColumns = `r.id, r.user_id, r.book_id, u.full_name, u.email, b.title, b.author, r.expected_return_date, r.actual_return_date, r.status, r.fine_amount_cents, r.total_amount_cents, r.created_on, r.updated_on`

func scanBorrowRequest(row interface{ Scan(...any) error }, req *domain.BorrowRequest) error {
	return row.Scan(&req.ID, &req.UserID, &req.BookID, &req.UserFullName, &req.UserEmail, &req.BookTitle, &req.BookAuthor, &req.ExpectedReturnDate, &req.ActualReturnDate, &req.Status, &req.FineAmountCents, &req.TotalAmountCents, &req.CreatedOn, &req.UpdatedOn)
}

func (r *borrowRequestRepository) Create(ctx context.Context, req *domain.BorrowRequest) error {
	query := `INSERT INTO borrow_requests (user_id, book_id, expected_return_date, status, fine_amount_cents, total_amount_cents, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, req.UserID, req.BookID, req.ExpectedReturnDate, req.Status, req.FineAmountCents, req.TotalAmountCents, now, now).Scan(&req.ID)
}

func (r *borrowRequestRepository) GetByID(ctx context.Context, id int32) (*domain.BorrowRequest, error) {
	req := &domain.BorrowRequest{}
	query := `SELECT ` + borrowJoinedColumns + `
	          FROM borrow_requests r
	          JOIN users u ON u.id = r.user_id
	          JOIN books b ON b.id = r.book_id
	          WHERE r.id = $1`
	err := scanBorrowRequest(r.db.QueryRowContext(ctx, query, id), req)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Borrow request not found")
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (r *borrowRequestRepository) Update(ctx context.Context, req *domain.BorrowRequest) error {
	// total_amount_cents is immutable after creation, deliberately absent here.
	query := `UPDATE borrow_requests SET status=$1, actual_return_date=$2, fine_amount_cents=$3, updated_on=$4 WHERE id=$5`
	res, err := r.db.ExecContext(ctx, query, req.Status, req.ActualReturnDate, req.FineAmountCents, time.Now(), req.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Borrow request not found")
	}
	return nil
}

func (r *borrowRequestRepository) HasActiveRequest(ctx context.Context, userID, bookID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM borrow_requests WHERE user_id = $1 AND book_id = $2 AND status IN ('pending', 'approved'))`
	err := r.db.QueryRowContext(ctx, query, userID, bookID).Scan(&exists)
	return exists, err
}

func (r *borrowRequestRepository) List(ctx context.Context, filter repository.BorrowRequestFilter) ([]domain.BorrowRequest, int32, error) {
	query := `SELECT ` + borrowJoinedColumns + `
	          FROM borrow_requests r
	          JOIN users u ON u.id = r.user_id
	          JOIN books b ON b.id = r.book_id
	          WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (u.full_name ILIKE $%d OR b.title ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Status != "" {
		query += fmt.Sprintf(" AND r.status = $%d", argIdx)
		args = append(args, filter.Status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += fmt.Sprintf(" ORDER BY r.created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []domain.BorrowRequest
	for rows.Next() {
		var req domain.BorrowRequest
		if err := scanBorrowRequest(rows, &req); err != nil {
			return nil, 0, err
		}
		requests = append(requests, req)
	}
	return requests, count, rows.Err()
}

func (r *borrowRequestRepository) ListByUser(ctx context.Context, userID int32) ([]domain.BorrowRequest, error) {
	query := `SELECT ` + borrowJoinedColumns + `
	          FROM borrow_requests r
	          JOIN users u ON u.id = r.user_id
	          JOIN books b ON b.id = r.book_id
	          WHERE r.user_id = $1
	          ORDER BY r.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.BorrowRequest
	for rows.Next() {
		var req domain.BorrowRequest
		if err := scanBorrowRequest(rows, &req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}

func (r *borrowRequestRepository) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.BorrowRequest, error) {
	query := `SELECT ` + borrowJoinedColumns + `
	          FROM borrow_requests r
	          JOIN users u ON u.id = r.user_id
	          JOIN books b ON b.id = r.book_id
	          WHERE r.status = 'approved' AND r.expected_return_date < $1
	          ORDER BY r.expected_return_date ASC`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []domain.BorrowRequest
	for rows.Next() {
		var req domain.BorrowRequest
		if err := scanBorrowRequest(rows, &req); err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	return requests, rows.Err()
}
