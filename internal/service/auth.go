package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/logger"
	"libraryhub-backend/internal/repository"
	"libraryhub-backend/internal/security"
	"libraryhub-backend/internal/storage"
)

type authService struct {
	userRepo         repository.UserRepository
	tokenManager     security.TokenManager
	emailSvc         EmailService
	store            storage.Storage
	resetTokenExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	tokenManager security.TokenManager,
	emailSvc EmailService,
	store storage.Storage,
	resetTokenExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		tokenManager:     tokenManager,
		emailSvc:         emailSvc,
		store:            store,
		resetTokenExpiry: resetTokenExpiry,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*domain.User, string, error) {
	if input.FullName == "" || input.Email == "" {
		return nil, "", domain.Invalid("Please provide your full name and email")
	}
	if len(input.Password) < 6 {
		return nil, "", domain.Invalid("Password must be at least 6 characters")
	}
	if input.DateOfBirth.IsZero() {
		return nil, "", domain.Invalid("Please provide your date of birth")
	}

	if _, err := s.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, "", domain.Conflict("You are already registered")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &domain.User{
		FullName:        input.FullName,
		Email:           input.Email,
		PasswordHash:    string(hash),
		DateOfBirth:     input.DateOfBirth,
		Address:         input.Address,
		Role:            domain.UserRoleMember,
		ProfileImageKey: input.ProfileImageKey,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	// Welcome email is best-effort; registration already succeeded.
	go func() {
		if err := s.emailSvc.SendWelcome(context.Background(), user.Email, user.FullName); err != nil {
			logger.Error("Failed to send welcome email", "error", err, "user_id", user.ID)
		}
	}()

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	user.ProfileImageURL = s.store.URL(user.ProfileImageKey)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.Invalid("Please provide an email and password")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.Invalid("Invalid credentials")
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.Invalid("Invalid credentials")
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	user.ProfileImageURL = s.store.URL(user.ProfileImageKey)
	return user, token, nil
}

func (s *authService) GetMe(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.ProfileImageURL = s.store.URL(user.ProfileImageKey)
	if user.FavoriteBookIDs, err = s.userRepo.ListFavoriteIDs(ctx, userID); err != nil {
		return nil, err
	}
	if user.BorrowedBooks, err = s.userRepo.ListBorrowedBooks(ctx, userID); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) (*domain.User, string, error) {
	if len(newPassword) < 6 {
		return nil, "", domain.Invalid("Password must be at least 6 characters")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return nil, "", domain.Invalid("Password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, "", err
	}

	token, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	user.ProfileImageURL = s.store.URL(user.ProfileImageKey)
	return user, token, nil
}

func (s *authService) ForgotPassword(ctx context.Context, email, resetBaseURL string) error {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	raw := make([]byte, 20)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)

	// Only the SHA-256 of the token is stored; the plain token goes out by
	// email and is shown to nobody else.
	hashed := sha256.Sum256([]byte(token))
	expiresOn := time.Now().Add(s.resetTokenExpiry)
	if err := s.userRepo.SetResetToken(ctx, user.ID, hex.EncodeToString(hashed[:]), expiresOn); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/%s", resetBaseURL, token)
	go func() {
		if err := s.emailSvc.SendPasswordReset(context.Background(), user.Email, user.FullName, resetURL); err != nil {
			logger.Error("Failed to send password reset email", "error", err, "user_id", user.ID)
		}
	}()
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, string, error) {
	if len(newPassword) < 6 {
		return nil, "", domain.Invalid("Password must be at least 6 characters")
	}

	hashed := sha256.Sum256([]byte(token))
	user, err := s.userRepo.GetByResetToken(ctx, hex.EncodeToString(hashed[:]))
	if err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return nil, "", err
	}
	if err := s.userRepo.ClearResetToken(ctx, user.ID); err != nil {
		return nil, "", err
	}

	accessToken, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, "", err
	}
	return user, accessToken, nil
}
