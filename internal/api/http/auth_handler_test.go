package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpapi "libraryhub-backend/internal/api/http"
	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/security"
	"libraryhub-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, input service.RegisterInput) (*domain.User, string, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) GetMe(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockAuthService) ForgotPassword(ctx context.Context, email, resetBaseURL string) error {
	args := m.Called(ctx, email, resetBaseURL)
	return args.Error(0)
}
func (m *MockAuthService) ResetPassword(ctx context.Context, token, newPassword string) (*domain.User, string, error) {
	args := m.Called(ctx, token, newPassword)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}
func (m *MockAuthService) ChangePassword(ctx context.Context, userID int32, currentPassword, newPassword string) (*domain.User, string, error) {
	args := m.Called(ctx, userID, currentPassword, newPassword)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*domain.User), args.String(1), args.Error(2)
}

func newAuthRouter(t *testing.T) (*MockAuthService, http.Handler, security.TokenManager) {
	t.Helper()
	authSvc := new(MockAuthService)
	tm := security.NewTokenManager("test-secret", time.Hour)
	mw := httpapi.NewMiddleware(tm)

	router := httpapi.NewRouter(
		httpapi.NewAuthHandler(authSvc, nil, "http://localhost", 7),
		httpapi.NewBookHandler(nil, nil),
		httpapi.NewUserHandler(nil, nil),
		httpapi.NewBorrowHandler(nil),
		httpapi.NewUploadHandler(nil, 5, nil),
		mw,
	)
	return authSvc, router, tm
}

func TestAuthHandler_UpdatePassword(t *testing.T) {
	t.Run("Success Rotates Cookie", func(t *testing.T) {
		authSvc, router, tm := newAuthRouter(t)
		authSvc.On("ChangePassword", mock.Anything, int32(1), "oldsecret", "newsecret").
			Return(&domain.User{ID: 1, Email: "ada@test.com"}, "fresh-token", nil)

		body := `{"current_password":"oldsecret","new_password":"newsecret"}`
		req := httptest.NewRequest(http.MethodPut, "/api/auth/update-password", strings.NewReader(body))
		req.Header.Set("Authorization", bearer(t, tm, 1, "user"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "fresh-token")

		var tokenCookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == "token" {
				tokenCookie = c
			}
		}
		if assert.NotNil(t, tokenCookie) {
			assert.Equal(t, "fresh-token", tokenCookie.Value)
		}
	})

	t.Run("Requires Auth", func(t *testing.T) {
		authSvc, router, _ := newAuthRouter(t)

		body := `{"current_password":"oldsecret","new_password":"newsecret"}`
		req := httptest.NewRequest(http.MethodPut, "/api/auth/update-password", strings.NewReader(body))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		authSvc.AssertNotCalled(t, "ChangePassword", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Wrong Current Password Maps To 400", func(t *testing.T) {
		authSvc, router, tm := newAuthRouter(t)
		authSvc.On("ChangePassword", mock.Anything, int32(1), "guess", "newsecret").
			Return(nil, "", domain.Invalid("Password is incorrect"))

		body := `{"current_password":"guess","new_password":"newsecret"}`
		req := httptest.NewRequest(http.MethodPut, "/api/auth/update-password", strings.NewReader(body))
		req.Header.Set("Authorization", bearer(t, tm, 1, "user"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
