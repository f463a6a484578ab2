package service

import (
	"context"
	"math"
	"time"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/logger"
	"libraryhub-backend/internal/repository"
)

type borrowService struct {
	requestRepo repository.BorrowRequestRepository
	bookRepo    repository.BookRepository
	userRepo    repository.UserRepository
	emailSvc    EmailService

	taxRatePercent int32
	dailyFineCents int32
}

func NewBorrowService(
	requestRepo repository.BorrowRequestRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	taxRatePercent int32,
	dailyFineCents int32,
) BorrowService {
	return &borrowService{
		requestRepo:    requestRepo,
		bookRepo:       bookRepo,
		userRepo:       userRepo,
		emailSvc:       emailSvc,
		taxRatePercent: taxRatePercent,
		dailyFineCents: dailyFineCents,
	}
}

// TotalWithTax returns the borrowing charge for a book price: the price plus
// the configured tax rate.
func TotalWithTax(priceCents, taxRatePercent int32) int32 {
	return priceCents + priceCents*taxRatePercent/100
}

// LateFineCents computes the late-return fine: every started calendar day
// past the expected return date costs dailyFineCents. Returns on or before
// the expected date cost nothing.
func LateFineCents(expected, actual time.Time, dailyFineCents int32) int32 {
	if !actual.After(expected) {
		return 0
	}
	daysLate := int32(math.Ceil(actual.Sub(expected).Hours() / 24))
	return daysLate * dailyFineCents
}

func (s *borrowService) CreateRequest(ctx context.Context, userID, bookID int32, expectedReturnDate time.Time) (*domain.BorrowRequest, error) {
	if !expectedReturnDate.After(time.Now()) {
		return nil, domain.Invalid("Expected return date must be in the future")
	}

	book, err := s.bookRepo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.AvailableCopies < 1 {
		return nil, domain.Conflict("Book is not available for borrowing")
	}

	active, err := s.requestRepo.HasActiveRequest(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, domain.Conflict("You already have an active request for this book")
	}

	req := &domain.BorrowRequest{
		UserID:             userID,
		BookID:             bookID,
		ExpectedReturnDate: expectedReturnDate,
		Status:             domain.BorrowStatusPending,
		TotalAmountCents:   TotalWithTax(book.PriceCents, s.taxRatePercent),
	}
	if err := s.requestRepo.Create(ctx, req); err != nil {
		return nil, err
	}

	s.appendMirror(ctx, userID, bookID, expectedReturnDate)

	req.BookTitle = book.Title
	req.BookAuthor = book.Author
	return req, nil
}

func (s *borrowService) Approve(ctx context.Context, requestID int32) (*domain.BorrowRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.BorrowStatusPending {
		return nil, domain.InvalidState("Only pending requests can be approved")
	}

	// Inventory commit happens here, not at request creation: the guarded
	// decrement either claims a copy or fails without touching anything.
	if err := s.bookRepo.ReserveCopy(ctx, req.BookID); err != nil {
		return nil, err
	}

	req.Status = domain.BorrowStatusApproved
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.syncMirror(ctx, req)
	s.notify(req.ID, "approval", func(ctx context.Context) error {
		return s.emailSvc.SendBorrowApproved(ctx, req.UserEmail, req.UserFullName, req.BookTitle, req.BookAuthor, req.ExpectedReturnDate)
	})

	return req, nil
}

func (s *borrowService) Reject(ctx context.Context, requestID int32) (*domain.BorrowRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status == domain.BorrowStatusApproved {
		return nil, domain.InvalidState("An approved request cannot be rejected")
	}
	if req.Status != domain.BorrowStatusPending {
		return nil, domain.InvalidState("Only pending requests can be rejected")
	}

	req.Status = domain.BorrowStatusRejected
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.syncMirror(ctx, req)
	s.notify(req.ID, "rejection", func(ctx context.Context) error {
		return s.emailSvc.SendBorrowRejected(ctx, req.UserEmail, req.UserFullName, req.BookTitle, "Something went wrong, please try again later")
	})

	return req, nil
}

func (s *borrowService) Cancel(ctx context.Context, callerID, requestID int32) (*domain.BorrowRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.UserID != callerID {
		return nil, domain.Forbidden("Not authorized to cancel this request")
	}
	if req.Status != domain.BorrowStatusPending {
		return nil, domain.InvalidState("Only pending requests can be cancelled")
	}

	req.Status = domain.BorrowStatusCancelled
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.syncMirror(ctx, req)
	return req, nil
}

func (s *borrowService) Return(ctx context.Context, requestID int32) (*domain.BorrowRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.BorrowStatusApproved {
		return nil, domain.InvalidState("Only approved requests can be returned")
	}

	if err := s.bookRepo.ReleaseCopy(ctx, req.BookID); err != nil {
		return nil, err
	}

	now := time.Now()
	req.ActualReturnDate = &now
	req.FineAmountCents = LateFineCents(req.ExpectedReturnDate, now, s.dailyFineCents)
	req.Status = domain.BorrowStatusReturned
	if err := s.requestRepo.Update(ctx, req); err != nil {
		return nil, err
	}

	s.syncMirror(ctx, req)
	return req, nil
}

func (s *borrowService) List(ctx context.Context, filter repository.BorrowRequestFilter) ([]domain.BorrowRequest, int32, error) {
	return s.requestRepo.List(ctx, filter)
}

func (s *borrowService) ListByUser(ctx context.Context, userID int32) ([]domain.BorrowRequest, error) {
	return s.requestRepo.ListByUser(ctx, userID)
}

// appendMirror adds the pending borrow-history entry on the user. The request
// row is the source of truth; a failed mirror write is logged, not surfaced.
func (s *borrowService) appendMirror(ctx context.Context, userID, bookID int32, returnDate time.Time) {
	entry := &domain.BorrowedBook{
		BookID:     bookID,
		ReturnDate: returnDate,
		Status:     domain.BorrowStatusPending,
	}
	if err := s.userRepo.AppendBorrowedBook(ctx, userID, entry); err != nil {
		logger.ErrorContext(ctx, "Failed to append borrow-history mirror entry", "error", err, "user_id", userID, "book_id", bookID)
	}
}

// syncMirror propagates the request's status to the user's borrow-history
// entry. Same best-effort contract as appendMirror.
func (s *borrowService) syncMirror(ctx context.Context, req *domain.BorrowRequest) {
	if err := s.userRepo.UpdateBorrowedBookStatus(ctx, req.UserID, req.BookID, req.Status); err != nil {
		logger.ErrorContext(ctx, "Failed to sync borrow-history mirror entry", "error", err, "user_id", req.UserID, "book_id", req.BookID, "status", req.Status)
	}
}

// notify sends an outcome email on a detached goroutine. Delivery failures
// are logged and never feed back into the workflow result.
func (s *borrowService) notify(requestID int32, kind string, send func(context.Context) error) {
	go func() {
		if err := send(context.Background()); err != nil {
			logger.Error("Failed to send borrow "+kind+" email", "error", err, "request_id", requestID)
		}
	}()
}
