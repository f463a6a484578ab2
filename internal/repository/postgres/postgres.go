package postgres

import (
	"database/sql"

	"libraryhub-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.BookRepository
	repository.BorrowRequestRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		UserRepository:          NewUserRepository(db),
		BookRepository:          NewBookRepository(db),
		BorrowRequestRepository: NewBorrowRequestRepository(db),
	}
}
