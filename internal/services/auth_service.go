package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"palboti_backend/internal/auth"
	"palboti_backend/internal/email"
	"palboti_backend/internal/logger"
	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"
	"palboti_backend/internal/services/dto"
	"palboti_backend/pkg/apperrors"
)

// AuthService covers the whole session lifecycle: registration, login,
// token refresh, logout, password reset and email verification.
type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, db *gorm.DB, req dto.LoginRequest) (*dto.AuthResponse, error)
	Logout(ctx context.Context, db *gorm.DB, refreshToken string) error
	Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.RefreshResponse, error)
	ForgotPassword(ctx context.Context, db *gorm.DB, req dto.ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, db *gorm.DB, req dto.ResetPasswordRequest) error
	SendVerificationEmail(ctx context.Context, db *gorm.DB, req dto.SendVerificationRequest) error
	VerifyEmail(ctx context.Context, db *gorm.DB, token string) error
}

type authService struct {
	tokens    *auth.TokenService
	users     repositories.UserRepository
	tokenRepo repositories.TokenRepository
	notifiers repositories.NotifierRepository
	mailer    *email.Mailer
	resetTTL  time.Duration
}

func NewAuthService(
	tokens *auth.TokenService,
	users repositories.UserRepository,
	tokenRepo repositories.TokenRepository,
	notifiers repositories.NotifierRepository,
	mailer *email.Mailer,
	resetTTL time.Duration,
) AuthService {
	return &authService{
		tokens:    tokens,
		users:     users,
		tokenRepo: tokenRepo,
		notifiers: notifiers,
		mailer:    mailer,
		resetTTL:  resetTTL,
	}
}

func (s *authService) issuePair(db *gorm.DB, user *models.User) (dto.TokenResponse, dto.TokenResponse, error) {
	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return dto.TokenResponse{}, dto.TokenResponse{}, err
	}
	refresh, err := s.tokens.IssueRefreshToken(db, user)
	if err != nil {
		return dto.TokenResponse{}, dto.TokenResponse{}, err
	}
	return dto.TokenResponse(access), dto.TokenResponse(refresh), nil
}

// normalizeEmail case-folds addresses so uniqueness and lookups are
// case-insensitive.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Register(ctx context.Context, db *gorm.DB, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if req.Password == "" {
		return nil, apperrors.ErrPasswordRequired
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		Name:         req.Name,
		PasswordHash: hash,
		Role:         models.UserRoleOperator,
	}

	var access, refresh dto.TokenResponse
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.Create(tx, user); err != nil {
			return err
		}
		access, refresh, err = s.issuePair(tx, user)
		return err
	})
	if err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	s.sendVerificationAsync(db, user)

	return &dto.AuthResponse{
		User:         dto.NewUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// sendVerificationAsync delivers the welcome and verification mails in
// the background so a slow SMTP server never delays registration.
func (s *authService) sendVerificationAsync(db *gorm.DB, user *models.User) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		// The request context is canceled once the handler returns, so the
		// goroutine needs its own session detached from it.
		bg := db.Session(&gorm.Session{Context: ctx, NewDB: true})

		if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil {
			logger.WithError(err).Warn("failed to send welcome email", "user_id", user.ID)
		}

		verify, err := s.tokens.IssueVerifyToken(bg, user)
		if err != nil {
			logger.WithError(err).Warn("failed to issue verification token", "user_id", user.ID)
			return
		}
		if err := s.notifiers.Upsert(bg, user.ID, user.Email, models.NotifyTypeEmailVerification); err != nil {
			// Audit trail only, never blocks the flow.
			logger.WithError(err).Warn("failed to record notifier", "user_id", user.ID)
		}
		if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.Name, verify.Token); err != nil {
			logger.WithError(err).Warn("failed to send verification email", "user_id", user.ID)
		}
	}()
}

func (s *authService) Login(ctx context.Context, db *gorm.DB, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	// Accounts without a password (never fully provisioned) are treated
	// the same as missing accounts.
	if !user.HasPassword() {
		return nil, apperrors.ErrUserNotFound
	}
	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	access, refresh, err := s.issuePair(db, user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		User:         dto.NewUserResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

// Logout revokes the presented refresh token. An empty token means the
// session is already gone, which is not an error.
func (s *authService) Logout(ctx context.Context, db *gorm.DB, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	err := s.tokenRepo.DeleteByValue(db, refreshToken, models.TokenKindRefresh)
	if err != nil {
		if errors.Is(err, repositories.ErrTokenNotFound) {
			return apperrors.ErrRefreshTokenNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

// Refresh validates the presented refresh token and mints a new access
// token. The refresh token itself is not rotated: the caller keeps the
// same token until it expires.
func (s *authService) Refresh(ctx context.Context, db *gorm.DB, refreshToken string) (*dto.RefreshResponse, error) {
	row, err := s.tokens.Verify(db, refreshToken, models.TokenKindRefresh)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, apperrors.ErrRefreshExpired
		case errors.Is(err, auth.ErrTokenInvalid), errors.Is(err, auth.ErrTokenNotFound):
			return nil, apperrors.ErrInvalidToken
		default:
			return nil, apperrors.InternalError(err)
		}
	}

	// The account may have been deleted since the token was issued.
	user, err := s.users.FindByID(db, row.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	access, err := s.tokens.IssueAccessToken(user)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.RefreshResponse{
		AccessToken:  dto.TokenResponse(access),
		RefreshToken: dto.TokenResponse{Token: row.Value, ExpiresAt: row.ExpiresAt},
	}, nil
}

func (s *authService) ForgotPassword(ctx context.Context, db *gorm.DB, req dto.ForgotPasswordRequest) error {
	user, err := s.users.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	reset, err := s.tokens.IssueResetToken(db, user)
	if err != nil {
		return apperrors.InternalError(err)
	}

	ttl := fmt.Sprintf("%d minutes", int(s.resetTTL.Minutes()))
	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, reset.Token, ttl); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, req dto.ResetPasswordRequest) error {
	row, err := s.tokens.Verify(db, req.Token, models.TokenKindPasswordReset)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired),
			errors.Is(err, auth.ErrTokenInvalid),
			errors.Is(err, auth.ErrTokenNotFound):
			return apperrors.ErrResetTokenInvalid
		default:
			return apperrors.InternalError(err)
		}
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}

	user, err := s.users.FindByID(db, row.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.UpdatePassword(tx, user.ID, hash); err != nil {
			return err
		}
		// A consumed reset link invalidates every outstanding one.
		return s.tokenRepo.DeleteByUserAndKind(tx, user.ID, models.TokenKindPasswordReset)
	})
	if err != nil {
		return apperrors.InternalError(err)
	}

	go func() {
		bg, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.mailer.SendPasswordResetSuccess(bg, user.Email, user.Name); err != nil {
			logger.WithError(err).Warn("failed to send reset confirmation", "user_id", user.ID)
		}
	}()
	return nil
}

func (s *authService) SendVerificationEmail(ctx context.Context, db *gorm.DB, req dto.SendVerificationRequest) error {
	user, err := s.users.FindByEmail(db, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrUserNotFound
		}
		return apperrors.InternalError(err)
	}

	if user.IsVerified {
		return apperrors.NewConflictError("Email is already verified")
	}

	verify, err := s.tokens.IssueVerifyToken(db, user)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.notifiers.Upsert(db, user.ID, user.Email, models.NotifyTypeEmailVerification); err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.mailer.SendVerificationEmail(ctx, user.Email, user.Name, verify.Token); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *authService) VerifyEmail(ctx context.Context, db *gorm.DB, token string) error {
	row, err := s.tokens.Verify(db, token, models.TokenKindEmailValidation)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenExpired),
			errors.Is(err, auth.ErrTokenInvalid),
			errors.Is(err, auth.ErrTokenNotFound):
			return apperrors.ErrVerifyTokenInvalid
		default:
			return apperrors.InternalError(err)
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.MarkVerified(tx, row.UserID); err != nil {
			return err
		}
		if err := s.tokenRepo.DeleteByUserAndKind(tx, row.UserID, models.TokenKindEmailValidation); err != nil {
			return err
		}
		return s.notifiers.DeleteByUserAndType(tx, row.UserID, models.NotifyTypeEmailVerification)
	})
	if err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
