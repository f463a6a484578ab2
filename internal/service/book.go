package service

import (
	"context"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository"
	"libraryhub-backend/internal/storage"
)

type bookService struct {
	bookRepo repository.BookRepository
	userRepo repository.UserRepository
	store    storage.Storage
}

func NewBookService(bookRepo repository.BookRepository, userRepo repository.UserRepository, store storage.Storage) BookService {
	return &bookService{
		bookRepo: bookRepo,
		userRepo: userRepo,
		store:    store,
	}
}

func validateBookInput(input BookInput) error {
	if input.Title == "" {
		return domain.Invalid("Please provide a book title")
	}
	if input.Author == "" {
		return domain.Invalid("Please provide an author name")
	}
	if !domain.ValidCategory(input.Category) {
		return domain.Invalid("Please provide a valid book category")
	}
	if input.PriceCents < 0 {
		return domain.Invalid("Price cannot be negative")
	}
	if input.TotalCopies < 1 {
		return domain.Invalid("There must be at least one copy")
	}
	if len(input.ISBN) != 10 && len(input.ISBN) != 13 {
		return domain.Invalid("Please provide a valid ISBN (10 or 13 digits)")
	}
	return nil
}

func (s *bookService) CreateBook(ctx context.Context, input BookInput) (*domain.Book, error) {
	if err := validateBookInput(input); err != nil {
		return nil, err
	}

	book := &domain.Book{
		Title:           input.Title,
		Author:          input.Author,
		Description:     input.Description,
		Category:        input.Category,
		PublicationYear: input.PublicationYear,
		ISBN:            input.ISBN,
		PriceCents:      input.PriceCents,
		TotalCopies:     input.TotalCopies,
		CoverImageKey:   input.CoverImageKey,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	book.CoverImageURL = s.store.URL(book.CoverImageKey)
	return book, nil
}

func (s *bookService) GetBook(ctx context.Context, bookID, callerID int32) (*domain.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.bookRepo.ListReviews(ctx, bookID)
	if err != nil {
		return nil, err
	}
	book.Reviews = reviews
	book.CoverImageURL = s.store.URL(book.CoverImageKey)

	if callerID != 0 {
		favoriteIDs, err := s.userRepo.ListFavoriteIDs(ctx, callerID)
		if err != nil {
			return nil, err
		}
		book.IsFavorite = containsID(favoriteIDs, book.ID)
	}
	return book, nil
}

func (s *bookService) UpdateBook(ctx context.Context, bookID int32, input BookInput) (*domain.Book, error) {
	if err := validateBookInput(input); err != nil {
		return nil, err
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if input.CoverImageKey != "" && book.CoverImageKey != "" && input.CoverImageKey != book.CoverImageKey {
		// Replacing the cover; drop the old file.
		if err := s.store.Delete(ctx, book.CoverImageKey); err != nil {
			return nil, err
		}
	}

	book.Title = input.Title
	book.Author = input.Author
	book.Description = input.Description
	book.Category = input.Category
	book.PublicationYear = input.PublicationYear
	book.ISBN = input.ISBN
	book.PriceCents = input.PriceCents
	book.TotalCopies = input.TotalCopies
	if input.CoverImageKey != "" {
		book.CoverImageKey = input.CoverImageKey
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	book.CoverImageURL = s.store.URL(book.CoverImageKey)
	return book, nil
}

func (s *bookService) DeleteBook(ctx context.Context, bookID int32) error {
	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return err
	}
	if book.CoverImageKey != "" {
		if err := s.store.Delete(ctx, book.CoverImageKey); err != nil {
			return err
		}
	}
	return s.bookRepo.Delete(ctx, bookID)
}

func (s *bookService) ListBooks(ctx context.Context, filter repository.BookFilter, callerID int32) ([]domain.Book, int32, error) {
	books, total, err := s.bookRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	var favoriteIDs []int32
	if callerID != 0 {
		favoriteIDs, err = s.userRepo.ListFavoriteIDs(ctx, callerID)
		if err != nil {
			return nil, 0, err
		}
	}

	for i := range books {
		books[i].CoverImageURL = s.store.URL(books[i].CoverImageKey)
		books[i].IsFavorite = containsID(favoriteIDs, books[i].ID)
	}
	return books, total, nil
}

func (s *bookService) AddReview(ctx context.Context, bookID, userID, rating int32, comment string) (*domain.Book, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.Invalid("Rating must be between 1 and 5")
	}
	if comment == "" {
		return nil, domain.Invalid("Please provide a review comment")
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	reviewed, err := s.bookRepo.HasReview(ctx, bookID, userID)
	if err != nil {
		return nil, err
	}
	if reviewed {
		return nil, domain.Conflict("Book already reviewed")
	}

	review := &domain.Review{
		BookID:  bookID,
		UserID:  userID,
		Rating:  rating,
		Comment: comment,
	}
	if err := s.bookRepo.AddReview(ctx, review); err != nil {
		return nil, err
	}

	// Full recompute of the mean, not an incremental update. Cheap at this
	// scale and immune to drift.
	reviews, err := s.bookRepo.ListReviews(ctx, bookID)
	if err != nil {
		return nil, err
	}
	var sum int32
	for _, rv := range reviews {
		sum += rv.Rating
	}
	mean := float64(sum) / float64(len(reviews))
	if err := s.bookRepo.UpdateRating(ctx, bookID, mean); err != nil {
		return nil, err
	}

	book.Reviews = reviews
	book.Rating = mean
	return book, nil
}

func containsID(ids []int32, id int32) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
