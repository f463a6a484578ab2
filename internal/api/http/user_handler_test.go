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
	"libraryhub-backend/internal/repository"
	"libraryhub-backend/internal/security"
	"libraryhub-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockUserService
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateProfile(ctx context.Context, userID int32, input service.UpdateProfileInput) (*domain.User, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) AddFavorite(ctx context.Context, userID, bookID int32) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}
func (m *MockUserService) RemoveFavorite(ctx context.Context, userID, bookID int32) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}
func (m *MockUserService) ListFavorites(ctx context.Context, userID int32) ([]domain.Book, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Book), args.Error(1)
}
func (m *MockUserService) ListBorrowedBooks(ctx context.Context, userID int32) ([]domain.BorrowedBook, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.BorrowedBook), args.Error(1)
}
func (m *MockUserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserService) GetUser(ctx context.Context, userID int32) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) UpdateUser(ctx context.Context, userID int32, input service.AdminUserUpdateInput) (*domain.User, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserService) DeleteUser(ctx context.Context, userID int32) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func newUserRouter(t *testing.T) (*MockUserService, http.Handler, security.TokenManager) {
	t.Helper()
	userSvc := new(MockUserService)
	tm := security.NewTokenManager("test-secret", time.Hour)
	mw := httpapi.NewMiddleware(tm)

	router := httpapi.NewRouter(
		httpapi.NewAuthHandler(nil, nil, "http://localhost", 7),
		httpapi.NewBookHandler(nil, nil),
		httpapi.NewUserHandler(userSvc, nil),
		httpapi.NewBorrowHandler(nil),
		httpapi.NewUploadHandler(nil, 5, nil),
		mw,
	)
	return userSvc, router, tm
}

func TestUserHandler_List(t *testing.T) {
	t.Run("Admin Lists Users", func(t *testing.T) {
		userSvc, router, tm := newUserRouter(t)
		userSvc.On("ListUsers", mock.Anything, repository.UserFilter{Search: "ada", Page: 1, PageSize: 10}).
			Return([]domain.User{{ID: 1, FullName: "Ada Lovelace", Email: "ada@test.com"}}, int32(1), nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users?search=ada", nil)
		req.Header.Set("Authorization", bearer(t, tm, 99, "admin"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Ada Lovelace")
		assert.Contains(t, rec.Body.String(), `"total":1`)
	})

	t.Run("Non-Admin Is Forbidden", func(t *testing.T) {
		userSvc, router, tm := newUserRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req.Header.Set("Authorization", bearer(t, tm, 1, "user"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		userSvc.AssertNotCalled(t, "ListUsers", mock.Anything, mock.Anything)
	})
}

func TestUserHandler_Get(t *testing.T) {
	userSvc, router, tm := newUserRouter(t)
	userSvc.On("GetUser", mock.Anything, int32(1)).
		Return(&domain.User{ID: 1, FullName: "Ada Lovelace"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/users/1", nil)
	req.Header.Set("Authorization", bearer(t, tm, 99, "admin"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ada Lovelace")
}

func TestUserHandler_Update(t *testing.T) {
	t.Run("Role Change", func(t *testing.T) {
		userSvc, router, tm := newUserRouter(t)
		userSvc.On("UpdateUser", mock.Anything, int32(1), service.AdminUserUpdateInput{Role: "admin"}).
			Return(&domain.User{ID: 1, Role: domain.UserRoleAdmin}, nil)

		req := httptest.NewRequest(http.MethodPut, "/api/users/1", strings.NewReader(`{"role":"admin"}`))
		req.Header.Set("Authorization", bearer(t, tm, 99, "admin"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"role":"admin"`)
	})

	t.Run("Invalid Role Maps To 400", func(t *testing.T) {
		userSvc, router, tm := newUserRouter(t)
		userSvc.On("UpdateUser", mock.Anything, int32(1), service.AdminUserUpdateInput{Role: "superuser"}).
			Return(nil, domain.Invalid("Role must be user or admin"))

		req := httptest.NewRequest(http.MethodPut, "/api/users/1", strings.NewReader(`{"role":"superuser"}`))
		req.Header.Set("Authorization", bearer(t, tm, 99, "admin"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUserHandler_Delete(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		userSvc, router, tm := newUserRouter(t)
		userSvc.On("DeleteUser", mock.Anything, int32(1)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
		req.Header.Set("Authorization", bearer(t, tm, 99, "admin"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "User deleted successfully")
	})

	t.Run("Borrow History Maps To 409", func(t *testing.T) {
		userSvc, router, tm := newUserRouter(t)
		userSvc.On("DeleteUser", mock.Anything, int32(1)).
			Return(domain.Conflict("User has borrow history and cannot be deleted"))

		req := httptest.NewRequest(http.MethodDelete, "/api/users/1", nil)
		req.Header.Set("Authorization", bearer(t, tm, 99, "admin"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
