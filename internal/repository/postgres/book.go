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

type bookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &bookRepository{db: db}
}

const bookColumns = `id, title, author, description, category, publication_year, isbn, price_cents, cover_image_key, total_copies, available_copies, borrowed_count, rating, created_on, updated_on`

func scanBook(row interface{ Scan(...any) error }, b *domain.Book) error {
	return row.Scan(&b.ID, &b.Title, &b.Author, &b.Description, &b.Category, &b.PublicationYear, &b.ISBN, &b.PriceCents, &b.CoverImageKey, &b.TotalCopies, &b.AvailableCopies, &b.BorrowedCount, &b.Rating, &b.CreatedOn, &b.UpdatedOn)
}

func (r *bookRepository) Create(ctx context.Context, b *domain.Book) error {
	// available_copies always starts equal to total_copies
	query := `INSERT INTO books (title, author, description, category, publication_year, isbn, price_cents, cover_image_key, total_copies, available_copies, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9, $10, $11) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query, b.Title, b.Author, b.Description, b.Category, b.PublicationYear, b.ISBN, b.PriceCents, b.CoverImageKey, b.TotalCopies, now, now).Scan(&b.ID)
	if err != nil {
		return err
	}
	b.AvailableCopies = b.TotalCopies
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	b := &domain.Book{}
	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`
	err := scanBook(r.db.QueryRowContext(ctx, query, id), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFound("Book not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookRepository) Update(ctx context.Context, b *domain.Book) error {
	query := `UPDATE books SET title=$1, author=$2, description=$3, category=$4, publication_year=$5, isbn=$6, price_cents=$7, cover_image_key=$8, total_copies=$9, updated_on=$10 WHERE id=$11`
	res, err := r.db.ExecContext(ctx, query, b.Title, b.Author, b.Description, b.Category, b.PublicationYear, b.ISBN, b.PriceCents, b.CoverImageKey, b.TotalCopies, time.Now(), b.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Book not found")
	}
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFound("Book not found")
	}
	return nil
}

func (r *bookRepository) List(ctx context.Context, filter repository.BookFilter) ([]domain.Book, int32, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (title ILIKE $%d OR author ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+filter.Search+"%")
		argIdx++
	}
	if filter.Category != "" {
		query += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, filter.Category)
		argIdx++
	}
	if filter.MinRating > 0 {
		query += fmt.Sprintf(" AND rating >= $%d", argIdx)
		args = append(args, filter.MinRating)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") as sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "price_asc":
		query += " ORDER BY price_cents ASC"
	case "price_desc":
		query += " ORDER BY price_cents DESC"
	case "rating_asc":
		query += " ORDER BY rating ASC"
	case "rating_desc":
		query += " ORDER BY rating DESC"
	default:
		query += " ORDER BY created_on DESC"
	}

	offset := (filter.Page - 1) * filter.PageSize
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.PageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var books []domain.Book
	for rows.Next() {
		var b domain.Book
		if err := scanBook(rows, &b); err != nil {
			return nil, 0, err
		}
		books = append(books, b)
	}
	return books, count, rows.Err()
}

func (r *bookRepository) ReserveCopy(ctx context.Context, bookID int32) error {
	// Conditional atomic decrement. Two concurrent approvals cannot
	// over-commit: one of them sees zero rows affected.
	query := `UPDATE books
	          SET available_copies = available_copies - 1,
	              borrowed_count = borrowed_count + 1,
	              updated_on = $1
	          WHERE id = $2 AND available_copies >= 1`
	res, err := r.db.ExecContext(ctx, query, time.Now(), bookID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.Conflict("No available copies of this book")
	}
	return nil
}

func (r *bookRepository) ReleaseCopy(ctx context.Context, bookID int32) error {
	// Bounded above by total_copies so the availability invariant holds even
	// against a double return.
	query := `UPDATE books
	          SET available_copies = available_copies + 1,
	              updated_on = $1
	          WHERE id = $2 AND available_copies < total_copies`
	res, err := r.db.ExecContext(ctx, query, time.Now(), bookID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.InvalidState("Book has no outstanding copies")
	}
	return nil
}

func (r *bookRepository) AddReview(ctx context.Context, rv *domain.Review) error {
	query := `INSERT INTO book_reviews (book_id, user_id, rating, comment, created_on) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	return r.db.QueryRowContext(ctx, query, rv.BookID, rv.UserID, rv.Rating, rv.Comment, time.Now()).Scan(&rv.ID)
}

func (r *bookRepository) ListReviews(ctx context.Context, bookID int32) ([]domain.Review, error) {
	query := `SELECT r.id, r.book_id, r.user_id, u.full_name, r.rating, r.comment, r.created_on
	          FROM book_reviews r
	          JOIN users u ON u.id = r.user_id
	          WHERE r.book_id = $1
	          ORDER BY r.created_on DESC`
	rows, err := r.db.QueryContext(ctx, query, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.BookID, &rv.UserID, &rv.UserName, &rv.Rating, &rv.Comment, &rv.CreatedOn); err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

func (r *bookRepository) HasReview(ctx context.Context, bookID, userID int32) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM book_reviews WHERE book_id = $1 AND user_id = $2)`
	err := r.db.QueryRowContext(ctx, query, bookID, userID).Scan(&exists)
	return exists, err
}

func (r *bookRepository) UpdateRating(ctx context.Context, bookID int32, rating float64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE books SET rating = $1, updated_on = $2 WHERE id = $3`, rating, time.Now(), bookID)
	return err
}
