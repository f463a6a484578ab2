package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository"
)

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

const userColumns = `id, full_name, email, password_hash, date_of_birth, street, city, state, pincode, role, profile_image_key, reset_token_hash, reset_token_expires_on, created_on, updated_on`

func scanUser(row interface{ Scan(...any) error }, u *domain.User) error {
	return row.Scan(&u.ID, &u.FullName, &u.Email, &u.PasswordHash, &u.DateOfBirth, &u.Address.Street, &u.Address.City, &u.Address.State, &u.Address.Pincode, &u.Role, &u.ProfileImageKey, &u.ResetTokenHash, &u.ResetTokenExpiresOn, &u.CreatedOn, &u.UpdatedOn)
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (full_name, email, password_hash, date_of_birth, street, city, state, pincode, role, profile_image_key, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query, u.FullName, u.Email, u.PasswordHash, u.DateOfBirth, u.Address.Street, u.Address.City, u.Address.State, u.Address.Pincode, u.Role, u.ProfileImageKey, now, now).Scan(&u.ID)
}

func (r *userRepository) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	err := scanUser(r.db.QueryRowContext(ctx, query, id), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	err := scanUser(r.db.QueryRowContext(ctx, query, email), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET full_name=$1, email=$2, date_of_birth=$3, street=$4, city=$5, state=$6, pincode=$7, role=$8, profile_image_key=$9, updated_on=$10 WHERE id=$11`
	res, err := r.db.ExecContext(ctx, query, u.FullName, u.Email, u.DateOfBirth, u.Address.Street, u.Address.City, u.Address.State, u.Address.Pincode, u.Role, u.ProfileImageKey, time.Now(), u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("User not found")
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int32, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (full_name ILIKE $%d OR email ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Role != "" {
		query += fmt.Sprintf(" AND role = $%d", argIdx)
		args = append(args, filter.Role)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := scanUser(rows, &u); err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	return users, count, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		// borrow_requests rows keep their user reference, so the delete is
		// refused while borrow history exists.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return domain.Conflict("User has borrow history and cannot be deleted")
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("User not found")
	}
	return nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID int32, passwordHash string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET password_hash=$1, updated_on=$2 WHERE id=$3`, passwordHash, time.Now(), userID)
	return err
}

func (r *userRepository) SetResetToken(ctx context.Context, userID int32, tokenHash string, expiresOn time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET reset_token_hash=$1, reset_token_expires_on=$2, updated_on=$3 WHERE id=$4`, tokenHash, expiresOn, time.Now(), userID)
	return err
}

func (r *userRepository) GetByResetToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE reset_token_hash = $1 AND reset_token_expires_on > $2`
	err := scanUser(r.db.QueryRowContext(ctx, query, tokenHash, time.Now()), u)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.Invalid("Invalid or expired reset token")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) ClearResetToken(ctx context.Context, userID int32) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET reset_token_hash=NULL, reset_token_expires_on=NULL, updated_on=$1 WHERE id=$2`, time.Now(), userID)
	return err
}

func (r *userRepository) AddFavorite(ctx context.Context, userID, bookID int32) (bool, error) {
	query := `INSERT INTO user_favorites (user_id, book_id, created_on) VALUES ($1, $2, $3) ON CONFLICT (user_id, book_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, userID, bookID, time.Now())
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *userRepository) RemoveFavorite(ctx context.Context, userID, bookID int32) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_favorites WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *userRepository) ListFavoriteIDs(ctx context.Context, userID int32) ([]int32, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT book_id FROM user_favorites WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *userRepository) ListFavoriteBooks(ctx context.Context, userID int32) ([]domain.Book, error) {
	query := `SELECT b.id, b.title, b.author, b.description, b.category, b.publication_year, b.isbn, b.price_cents, b.cover_image_key, b.total_copies, b.available_copies, b.borrowed_count, b.rating, b.created_on, b.updated_on
	          FROM books b
	          JOIN user_favorites f ON f.book_id = b.id
	          WHERE f.user_id = $1
	          ORDER BY f.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, err
		}
		b.IsFavorite = true
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *userRepository) AppendBorrowedBook(ctx context.Context, userID int32, entry *domain.BorrowedBook) error {
	query := `INSERT INTO user_borrowed_books (user_id, book_id, return_date, status, created_on) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, userID, entry.BookID, entry.ReturnDate, entry.Status, time.Now()).Scan(&entry.ID)
}

func (r *userRepository) UpdateBorrowedBookStatus(ctx context.Context, userID, bookID int32, status domain.BorrowStatus) error {
	// Scoped to the most recent entry for this (user, book) pair so a second
	// borrow cycle never rewrites a prior returned entry.
	query := `UPDATE user_borrowed_books SET status = $1
	          WHERE id = (SELECT id FROM user_borrowed_books
	                      WHERE user_id = $2 AND book_id = $3
	                      ORDER BY created_on DESC, id DESC LIMIT 1)`
	res, err := r.db.ExecContext(ctx, query, status, userID, bookID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Borrowed book entry not found")
	}
	return nil
}

func (r *userRepository) ListBorrowedBooks(ctx context.Context, userID int32) ([]domain.BorrowedBook, error) {
	query := `SELECT e.id, e.book_id, b.title, b.author, e.return_date, e.status, e.created_on
	          FROM user_borrowed_books e
	          JOIN books b ON b.id = e.book_id
	          WHERE e.user_id = $1
	          ORDER BY e.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.BorrowedBook
	for rows.Next() {
		var e domain.BorrowedBook
		if err := rows.Scan(&e.ID, &e.BookID, &e.BookTitle, &e.BookAuthor, &e.ReturnDate, &e.Status, &e.CreatedOn); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
