package service_test

import (
	"context"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newAuthService(t *testing.T) (service.AuthService, *MockUserRepo, *MockTokenManager, *MockEmailService, *MockStorage) {
	t.Helper()
	userRepo := new(MockUserRepo)
	tokens := new(MockTokenManager)
	emailSvc := new(MockEmailService)
	store := new(MockStorage)
	svc := service.NewAuthService(userRepo, tokens, emailSvc, store, time.Hour)
	return svc, userRepo, tokens, emailSvc, store
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	input := service.RegisterInput{
		FullName:    "Ada Lovelace",
		Email:       "ada@test.com",
		Password:    "secret123",
		DateOfBirth: time.Date(1990, 12, 10, 0, 0, 0, 0, time.UTC),
	}

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, tokens, emailSvc, store := newAuthService(t)
		userRepo.On("GetByEmail", ctx, input.Email).Return(nil, domain.NotFound("User not found"))
		userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)
		tokens.On("GenerateAccessToken", mock.Anything, input.Email, "user").Return("signed-token", nil)
		store.On("URL", mock.Anything).Return("")
		// Welcome email runs on a detached goroutine.
		emailSvc.On("SendWelcome", mock.Anything, input.Email, input.FullName).Return(nil).Maybe()

		user, token, err := svc.Register(ctx, input)
		assert.NoError(t, err)
		assert.NotNil(t, user)
		assert.Equal(t, "signed-token", token)
		assert.Equal(t, domain.UserRoleMember, user.Role)
		// Plaintext password is never stored.
		assert.NotEqual(t, input.Password, user.PasswordHash)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)))
	})

	t.Run("Already Registered", func(t *testing.T) {
		svc, userRepo, _, _, _ := newAuthService(t)
		userRepo.On("GetByEmail", ctx, input.Email).Return(&domain.User{ID: 1, Email: input.Email}, nil)

		user, token, err := svc.Register(ctx, input)
		assert.Error(t, err)
		assert.Nil(t, user)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, domain.ErrConflict)
	})

	t.Run("Short Password", func(t *testing.T) {
		svc, _, _, _, _ := newAuthService(t)
		bad := input
		bad.Password = "abc"

		_, _, err := svc.Register(ctx, bad)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.DefaultCost)
	user := &domain.User{ID: 1, Email: "ada@test.com", PasswordHash: string(hash), Role: domain.UserRoleMember}

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, tokens, _, store := newAuthService(t)
		userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)
		tokens.On("GenerateAccessToken", user.ID, user.Email, "user").Return("signed-token", nil)
		store.On("URL", mock.Anything).Return("")

		res, token, err := svc.Login(ctx, user.Email, "secret123")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, res.ID)
		assert.Equal(t, "signed-token", token)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		svc, userRepo, _, _, _ := newAuthService(t)
		userRepo.On("GetByEmail", ctx, user.Email).Return(user, nil)

		res, token, err := svc.Login(ctx, user.Email, "wrong")
		assert.Error(t, err)
		assert.Nil(t, res)
		assert.Empty(t, token)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Unknown Email Maps To Invalid Credentials", func(t *testing.T) {
		svc, userRepo, _, _, _ := newAuthService(t)
		userRepo.On("GetByEmail", ctx, "nobody@test.com").Return(nil, domain.NotFound("User not found"))

		_, _, err := svc.Login(ctx, "nobody@test.com", "secret123")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "Invalid credentials")
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	user := &domain.User{ID: 1, Email: "ada@test.com", Role: domain.UserRoleMember}

	t.Run("Success Clears Token", func(t *testing.T) {
		svc, userRepo, tokens, _, _ := newAuthService(t)
		userRepo.On("GetByResetToken", ctx, mock.AnythingOfType("string")).Return(user, nil)
		userRepo.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)
		userRepo.On("ClearResetToken", ctx, user.ID).Return(nil)
		tokens.On("GenerateAccessToken", user.ID, user.Email, "user").Return("fresh-token", nil)

		res, token, err := svc.ResetPassword(ctx, "sometoken", "newsecret")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, res.ID)
		assert.Equal(t, "fresh-token", token)
		userRepo.AssertCalled(t, "ClearResetToken", ctx, user.ID)
	})

	t.Run("Expired Or Unknown Token", func(t *testing.T) {
		svc, userRepo, _, _, _ := newAuthService(t)
		userRepo.On("GetByResetToken", ctx, mock.AnythingOfType("string")).Return(nil, domain.Invalid("Invalid or expired reset token"))

		_, _, err := svc.ResetPassword(ctx, "expired", "newsecret")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	currentHash, _ := bcrypt.GenerateFromPassword([]byte("oldsecret"), bcrypt.DefaultCost)
	user := &domain.User{ID: 1, Email: "ada@test.com", PasswordHash: string(currentHash), Role: domain.UserRoleMember}

	t.Run("Success Issues Fresh Token", func(t *testing.T) {
		svc, userRepo, tokens, _, store := newAuthService(t)
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil)
		userRepo.On("UpdatePassword", ctx, user.ID, mock.AnythingOfType("string")).Return(nil)
		tokens.On("GenerateAccessToken", user.ID, user.Email, "user").Return("fresh-token", nil)
		store.On("URL", mock.Anything).Return("")

		res, token, err := svc.ChangePassword(ctx, user.ID, "oldsecret", "newsecret")
		assert.NoError(t, err)
		assert.Equal(t, user.ID, res.ID)
		assert.Equal(t, "fresh-token", token)
	})

	t.Run("Wrong Current Password", func(t *testing.T) {
		svc, userRepo, _, _, _ := newAuthService(t)
		userRepo.On("GetByID", ctx, user.ID).Return(user, nil)

		_, _, err := svc.ChangePassword(ctx, user.ID, "not-the-password", "newsecret")
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.Contains(t, err.Error(), "Password is incorrect")
		userRepo.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Short New Password", func(t *testing.T) {
		svc, userRepo, _, _, _ := newAuthService(t)

		_, _, err := svc.ChangePassword(ctx, user.ID, "oldsecret", "tiny")
		assert.ErrorIs(t, err, domain.ErrValidation)
		userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})
}
