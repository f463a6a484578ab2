package postgres_test

import (
	"context"
	"testing"
	"time"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestBookRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		book := &domain.Book{
			Title:           "Neuromancer",
			Author:          "William Gibson",
			Category:        "Science Fiction",
			PublicationYear: 1984,
			ISBN:            "9780441569595",
			PriceCents:      1500,
			TotalCopies:     4,
		}

		mock.ExpectQuery("INSERT INTO books").
			WithArgs(book.Title, book.Author, book.Description, book.Category, book.PublicationYear, book.ISBN, book.PriceCents, book.CoverImageKey, book.TotalCopies, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		err := repo.Create(ctx, book)
		assert.NoError(t, err)
		assert.Equal(t, int32(1), book.ID)
		assert.Equal(t, book.TotalCopies, book.AvailableCopies)
	})
}

func TestBookRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "title", "author", "description", "category", "publication_year", "isbn", "price_cents", "cover_image_key", "total_copies", "available_copies", "borrowed_count", "rating", "created_on", "updated_on"}).
			AddRow(1, "Neuromancer", "William Gibson", "", "Science Fiction", 1984, "9780441569595", 1500, "", 4, 3, 12, 4.5, time.Now(), time.Now())

		mock.ExpectQuery("SELECT (.+) FROM books WHERE id = \\$1").
			WithArgs(int32(1)).
			WillReturnRows(rows)

		book, err := repo.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.NotNil(t, book)
		assert.Equal(t, int32(3), book.AvailableCopies)
	})

	t.Run("Not Found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM books WHERE id = \\$1").
			WithArgs(int32(99)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		book, err := repo.GetByID(ctx, 99)
		assert.Error(t, err)
		assert.Nil(t, book)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestBookRepository_ReserveCopy(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE books").
			WithArgs(sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReserveCopy(ctx, 1)
		assert.NoError(t, err)
	})

	t.Run("No Copies Left", func(t *testing.T) {
		mock.ExpectExec("UPDATE books").
			WithArgs(sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReserveCopy(ctx, 1)
		assert.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}

func TestBookRepository_ReleaseCopy(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec("UPDATE books").
			WithArgs(sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.ReleaseCopy(ctx, 1)
		assert.NoError(t, err)
	})

	t.Run("All Copies Already In", func(t *testing.T) {
		mock.ExpectExec("UPDATE books").
			WithArgs(sqlmock.AnyArg(), int32(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.ReleaseCopy(ctx, 1)
		assert.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestBookRepository_HasReview(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewBookRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(int32(1), int32(7)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	reviewed, err := repo.HasReview(ctx, 1, 7)
	assert.NoError(t, err)
	assert.True(t, reviewed)
}
