package service

import (
	"context"

	"libraryhub-backend/internal/domain"
	"libraryhub-backend/internal/logger"
	"libraryhub-backend/internal/repository"
	"libraryhub-backend/internal/storage"
)

type userService struct {
	userRepo repository.UserRepository
	bookRepo repository.BookRepository
	store    storage.Storage
}

func NewUserService(userRepo repository.UserRepository, bookRepo repository.BookRepository, store storage.Storage) UserService {
	return &userService{
		userRepo: userRepo,
		bookRepo: bookRepo,
		store:    store,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
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

func (s *userService) UpdateProfile(ctx context.Context, userID int32, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = *input.DateOfBirth
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.ProfileImageKey != "" {
		if user.ProfileImageKey != "" && user.ProfileImageKey != input.ProfileImageKey {
			if err := s.store.Delete(ctx, user.ProfileImageKey); err != nil {
				return nil, err
			}
		}
		user.ProfileImageKey = input.ProfileImageKey
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.ProfileImageURL = s.store.URL(user.ProfileImageKey)
	return user, nil
}

func (s *userService) AddFavorite(ctx context.Context, userID, bookID int32) error {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return err
	}
	added, err := s.userRepo.AddFavorite(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if !added {
		return domain.Conflict("Book already in favorites")
	}
	return nil
}

func (s *userService) RemoveFavorite(ctx context.Context, userID, bookID int32) error {
	removed, err := s.userRepo.RemoveFavorite(ctx, userID, bookID)
	if err != nil {
		return err
	}
	if !removed {
		return domain.NotFound("Book not in your favorites")
	}
	return nil
}

func (s *userService) ListFavorites(ctx context.Context, userID int32) ([]domain.Book, error) {
	books, err := s.userRepo.ListFavoriteBooks(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range books {
		books[i].CoverImageURL = s.store.URL(books[i].CoverImageKey)
	}
	return books, nil
}

func (s *userService) ListBorrowedBooks(ctx context.Context, userID int32) ([]domain.BorrowedBook, error) {
	return s.userRepo.ListBorrowedBooks(ctx, userID)
}

func (s *userService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, int32, error) {
	users, total, err := s.userRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	for i := range users {
		users[i].ProfileImageURL = s.store.URL(users[i].ProfileImageKey)
	}
	return users, total, nil
}

func (s *userService) GetUser(ctx context.Context, userID int32) (*domain.User, error) {
	return s.GetProfile(ctx, userID)
}

func (s *userService) UpdateUser(ctx context.Context, userID int32, input AdminUserUpdateInput) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.FullName != "" {
		user.FullName = input.FullName
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Role != "" {
		role := domain.UserRole(input.Role)
		if role != domain.UserRoleMember && role != domain.UserRoleAdmin {
			return nil, domain.Invalid("Role must be user or admin")
		}
		user.Role = role
	}
	if input.DateOfBirth != nil {
		user.DateOfBirth = *input.DateOfBirth
	}
	if input.Address != nil {
		user.Address = *input.Address
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	user.ProfileImageURL = s.store.URL(user.ProfileImageKey)
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID int32) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	// The account is already gone; a leftover image only costs disk space.
	if user.ProfileImageKey != "" {
		if err := s.store.Delete(ctx, user.ProfileImageKey); err != nil {
			logger.Error("Failed to delete profile image", "error", err, "user_id", userID)
		}
	}
	return nil
}
