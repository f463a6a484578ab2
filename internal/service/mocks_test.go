package service_test

import (
	"context"
	"io"
	"time"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/repository"
	"libraryhub-backend/internal/security"

	"github.com/stretchr/testify/mock"
)

// MockBookRepo
type MockBookRepo struct {
	mock.Mock
}

func (m *MockBookRepo) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) GetByID(ctx context.Context, id int32) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}
func (m *MockBookRepo) Update(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}
func (m *MockBookRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockBookRepo) List(ctx context.Context, filter repository.BookFilter) ([]domain.Book, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Book), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookRepo) ReserveCopy(ctx context.Context, bookID int32) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}
func (m *MockBookRepo) ReleaseCopy(ctx context.Context, bookID int32) error {
	args := m.Called(ctx, bookID)
	return args.Error(0)
}
func (m *MockBookRepo) AddReview(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}
func (m *MockBookRepo) ListReviews(ctx context.Context, bookID int32) ([]domain.Review, error) {
	args := m.Called(ctx, bookID)
	return args.Get(0).([]domain.Review), args.Error(1)
}
func (m *MockBookRepo) HasReview(ctx context.Context, bookID, userID int32) (bool, error) {
	args := m.Called(ctx, bookID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookRepo) UpdateRating(ctx context.Context, bookID int32, rating float64) error {
	args := m.Called(ctx, bookID, rating)
	return args.Error(0)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) UpdatePassword(ctx context.Context, userID int32, passwordHash string) error {
	args := m.Called(ctx, userID, passwordHash)
	return args.Error(0)
}
func (m *MockUserRepo) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) SetResetToken(ctx context.Context, userID int32, tokenHash string, expiresOn time.Time) error {
	args := m.Called(ctx, userID, tokenHash, expiresOn)
	return args.Error(0)
}
func (m *MockUserRepo) GetByResetToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) ClearResetToken(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}
func (m *MockUserRepo) AddFavorite(ctx context.Context, userID, bookID int32) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) RemoveFavorite(ctx context.Context, userID, bookID int32) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepo) ListFavoriteIDs(ctx context.Context, userID int32) ([]int32, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]int32), args.Error(1)
}
func (m *MockUserRepo) ListFavoriteBooks(ctx context.Context, userID int32) ([]domain.Book, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockUserRepo) AppendBorrowedBook(ctx context.Context, userID int32, entry *domain.BorrowedBook) error {
	args := m.Called(ctx, userID, entry)
	return args.Error(0)
}
func (m *MockUserRepo) UpdateBorrowedBookStatus(ctx context.Context, userID, bookID int32, status domain.BorrowStatus) error {
	args := m.Called(ctx, userID, bookID, status)
	return args.Error(0)
}
func (m *MockUserRepo) ListBorrowedBooks(ctx context.Context, userID int32) ([]domain.BorrowedBook, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BorrowedBook), args.Error(1)
}

// MockBorrowRequestRepo
type MockBorrowRequestRepo struct {
	mock.Mock
}

func (m *MockBorrowRequestRepo) Create(ctx context.Context, req *domain.BorrowRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockBorrowRequestRepo) GetByID(ctx context.Context, id int32) (*domain.BorrowRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BorrowRequest), args.Error(1)
}
func (m *MockBorrowRequestRepo) Update(ctx context.Context, req *domain.BorrowRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockBorrowRequestRepo) HasActiveRequest(ctx context.Context, userID, bookID int32) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}
func (m *MockBorrowRequestRepo) List(ctx context.Context, filter repository.BorrowRequestFilter) ([]domain.BorrowRequest, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.BorrowRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockBorrowRequestRepo) ListByUser(ctx context.Context, userID int32) ([]domain.BorrowRequest, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BorrowRequest), args.Error(1)
}
func (m *MockBorrowRequestRepo) ListOverdue(ctx context.Context, cutoff time.Time) ([]domain.BorrowRequest, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).([]domain.BorrowRequest), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendWelcome(ctx context.Context, email, name string) error {
	args := m.Called(ctx, email, name)
	return args.Error(0)
}
func (m *MockEmailService) SendBorrowApproved(ctx context.Context, email, name, bookTitle, bookAuthor string, returnDate time.Time) error {
	args := m.Called(ctx, email, name, bookTitle, bookAuthor, returnDate)
	return args.Error(0)
}
func (m *MockEmailService) SendBorrowRejected(ctx context.Context, email, name, bookTitle, reason string) error {
	args := m.Called(ctx, email, name, bookTitle, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendPasswordReset(ctx context.Context, email, name, resetURL string) error {
	args := m.Called(ctx, email, name, resetURL)
	return args.Error(0)
}
func (m *MockEmailService) SendOverdueReminder(ctx context.Context, email, name, bookTitle string, daysLate, fineCents int32) error {
	args := m.Called(ctx, email, name, bookTitle, daysLate, fineCents)
	return args.Error(0)
}

// MockTokenManager
type MockTokenManager struct {
	mock.Mock
}

func (m *MockTokenManager) GenerateAccessToken(userID int32, email, role string) (string, error) {
	args := m.Called(userID, email, role)
	return args.String(0), args.Error(1)
}
func (m *MockTokenManager) ValidateToken(token string) (*security.UserClaims, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*security.UserClaims), args.Error(1)
}

// MockStorage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Save(ctx context.Context, key string, reader io.Reader) error {
	args := m.Called(ctx, key, reader)
	return args.Error(0)
}
func (m *MockStorage) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}
func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
func (m *MockStorage) URL(key string) string {
	args := m.Called(key)
	return args.String(0)
}
