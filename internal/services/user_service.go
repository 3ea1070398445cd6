package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"palboti_backend/internal/auth"
	"palboti_backend/internal/repositories"
	"palboti_backend/internal/services/dto"
	"palboti_backend/pkg/apperrors"
)

type UserService interface {
	GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.UserResponse, error)
	GetByEmail(ctx context.Context, db *gorm.DB, email string) (*dto.UserResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	UpdatePassword(ctx context.Context, db *gorm.DB, id string, req dto.UpdatePasswordRequest) error
	Delete(ctx context.Context, db *gorm.DB, id string) error
	List(ctx context.Context, db *gorm.DB, limit, offset int) (*dto.UserListResponse, error)
}

type userService struct {
	users  repositories.UserRepository
	tokens repositories.TokenRepository
}

func NewUserService(users repositories.UserRepository, tokens repositories.TokenRepository) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) GetByEmail(ctx context.Context, db *gorm.DB, email string) (*dto.UserResponse, error) {
	user, err := s.users.FindByEmail(db, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, db *gorm.DB, id string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.users.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.LastLogin != nil {
		if err := s.users.UpdateLastLogin(db, user.ID, *req.LastLogin); err != nil {
			return nil, apperrors.InternalError(err)
		}
		user.LastLogin = req.LastLogin
	}

	if req.Name != nil {
		user.Name = *req.Name
		if err := s.users.Update(db, user); err != nil {
			return nil, apperrors.InternalError(err)
		}
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (s *userService) UpdatePassword(ctx context.Context, db *gorm.DB, id string, req dto.UpdatePasswordRequest) error {
	user, err := s.users.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if !user.HasPassword() || !auth.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.users.UpdatePassword(db, user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// Delete removes the account and revokes every outstanding session.
func (s *userService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := s.tokens.DeleteByUserID(tx, id); err != nil {
			return err
		}
		return s.users.Delete(tx, id)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *userService) List(ctx context.Context, db *gorm.DB, limit, offset int) (*dto.UserListResponse, error) {
	users, err := s.users.FindAll(db, limit, offset)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	total, err := s.users.CountAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := &dto.UserListResponse{
		Users: make([]dto.UserResponse, 0, len(users)),
		Total: total,
	}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(&users[i]))
	}
	return resp, nil
}
