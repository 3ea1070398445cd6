package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"palboti_backend/internal/auth"
	"palboti_backend/internal/email"
	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"
	"palboti_backend/internal/services/dto"
	"palboti_backend/pkg/apperrors"
)

// recordingProvider captures outbound mail instead of dialing SMTP.
type recordingProvider struct {
	mu   sync.Mutex
	sent []email.Message
}

func (p *recordingProvider) Send(_ context.Context, msg email.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

func (p *recordingProvider) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

type authFixture struct {
	db      *gorm.DB
	svc     AuthService
	tokens  *auth.TokenService
	mail    *recordingProvider
	users   repositories.UserRepository
	tokRepo repositories.TokenRepository
}

func setupAuth(t *testing.T, refreshTTL time.Duration) *authFixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Token{}, &models.Notifier{}))

	userRepo := repositories.NewUserRepository()
	tokenRepo := repositories.NewTokenRepository()
	notifierRepo := repositories.NewNotifierRepository()

	tokens := auth.NewTokenService(auth.TokenConfig{
		Secret:     "test-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: refreshTTL,
		ResetTTL:   time.Hour,
		VerifyTTL:  time.Hour,
	}, tokenRepo)

	mail := &recordingProvider{}
	mailer := email.NewMailer(mail, email.Config{ClientURL: "http://localhost:3000"})

	svc := NewAuthService(tokens, userRepo, tokenRepo, notifierRepo, mailer, time.Hour)

	return &authFixture{
		db:      db,
		svc:     svc,
		tokens:  tokens,
		mail:    mail,
		users:   userRepo,
		tokRepo: tokenRepo,
	}
}

func registerReq(email string) dto.RegisterRequest {
	return dto.RegisterRequest{Email: email, Name: "Test User", Password: "Pw1!"}
}

func assertAppErrorStatus(t *testing.T, err error, status int) {
	t.Helper()
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, status, appErr.HTTPCode)
}

func TestRegisterAndLogin(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	resp, err := f.svc.Register(ctx, f.db, registerReq("worker@palboti.io"))
	require.NoError(t, err)
	assert.Equal(t, "worker@palboti.io", resp.User.Email)
	assert.NotEmpty(t, resp.AccessToken.Token)
	assert.NotEmpty(t, resp.RefreshToken.Token)
	assert.False(t, resp.User.IsVerified)

	login, err := f.svc.Login(ctx, f.db, dto.LoginRequest{
		Email: "worker@palboti.io", Password: "Pw1!",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)

	// lastLogin is only touched by the explicit profile update.
	user, err := f.users.FindByID(f.db, resp.User.ID)
	require.NoError(t, err)
	assert.Nil(t, user.LastLogin)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, f.db, registerReq("dup@palboti.io"))
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, f.db, registerReq("DUP@Palboti.io"))
	assertAppErrorStatus(t, err, 409)

	var count int64
	require.NoError(t, f.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestRegisterWithoutPassword(t *testing.T) {
	f := setupAuth(t, time.Hour)

	req := registerReq("nopass@palboti.io")
	req.Password = ""
	_, err := f.svc.Register(context.Background(), f.db, req)
	assertAppErrorStatus(t, err, 401)
}

func TestRegisterAcceptsShortPassword(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	req := registerReq("short@palboti.io")
	req.Password = "Pw1!"
	_, err := f.svc.Register(ctx, f.db, req)
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "short@palboti.io", Password: "Pw1!"})
	require.NoError(t, err)
}

func TestConcurrentSessionsGetDistinctRefreshTokens(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.db, registerReq("worker@palboti.io"))
	require.NoError(t, err)

	// A login in the same second as registration must mint a second,
	// distinct refresh token rather than collide with the first.
	login, err := f.svc.Login(ctx, f.db, dto.LoginRequest{
		Email: "worker@palboti.io", Password: "Pw1!",
	})
	require.NoError(t, err)
	assert.NotEqual(t, reg.RefreshToken.Token, login.RefreshToken.Token)

	count, err := f.tokRepo.CountByUserID(f.db, reg.User.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestLoginFailures(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, f.db, registerReq("worker@palboti.io"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "ghost@palboti.io", Password: "Pw1!"})
	assertAppErrorStatus(t, err, 404)

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "worker@palboti.io", Password: "wrong-password"})
	assertAppErrorStatus(t, err, 401)
}

func TestLoginIsCaseInsensitiveOnEmail(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, f.db, registerReq("Worker@Palboti.IO"))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "worker@palboti.io", Password: "Pw1!"})
	require.NoError(t, err)
}

func TestRefreshKeepsSameToken(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.db, registerReq("worker@palboti.io"))
	require.NoError(t, err)

	resp, err := f.svc.Refresh(ctx, f.db, reg.RefreshToken.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken.Token)
	assert.Equal(t, reg.RefreshToken.Token, resp.RefreshToken.Token)
	assert.WithinDuration(t, reg.RefreshToken.ExpiresAt, resp.RefreshToken.ExpiresAt, time.Second)
}

func TestRefreshAfterLogoutIsUnauthorized(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.db, registerReq("worker@palboti.io"))
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, f.db, reg.RefreshToken.Token))

	_, err = f.svc.Refresh(ctx, f.db, reg.RefreshToken.Token)
	assertAppErrorStatus(t, err, 401)
}

func TestRefreshWithGarbageTokenIsUnauthorized(t *testing.T) {
	f := setupAuth(t, time.Hour)

	_, err := f.svc.Refresh(context.Background(), f.db, "garbage")
	assertAppErrorStatus(t, err, 401)
}

func TestRefreshExpiredTokenIsUnauthorizedAndCleaned(t *testing.T) {
	f := setupAuth(t, -time.Minute)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.db, registerReq("worker@palboti.io"))
	require.NoError(t, err)

	_, err = f.svc.Refresh(ctx, f.db, reg.RefreshToken.Token)
	assertAppErrorStatus(t, err, 401)

	var count int64
	require.NoError(t, f.db.Model(&models.Token{}).
		Where("kind = ?", models.TokenKindRefresh).Count(&count).Error)
	assert.Zero(t, count)
}

func TestLogoutWithoutTokenIsNoop(t *testing.T) {
	f := setupAuth(t, time.Hour)

	assert.NoError(t, f.svc.Logout(context.Background(), f.db, ""))
}

func TestLogoutUnknownTokenIsNotFound(t *testing.T) {
	f := setupAuth(t, time.Hour)

	err := f.svc.Logout(context.Background(), f.db, "never-issued")
	assertAppErrorStatus(t, err, 404)
}

func TestPasswordResetFlow(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, f.db, registerReq("worker@palboti.io"))
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(ctx, f.db, dto.ForgotPasswordRequest{Email: "worker@palboti.io"}))

	var row models.Token
	require.NoError(t, f.db.Where("kind = ?", models.TokenKindPasswordReset).First(&row).Error)

	err = f.svc.ResetPassword(ctx, f.db, dto.ResetPasswordRequest{
		Token: row.Value, Password: "Pw2!",
	})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "worker@palboti.io", Password: "Pw1!"})
	assertAppErrorStatus(t, err, 401)

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "worker@palboti.io", Password: "Pw2!"})
	require.NoError(t, err)

	// Every reset token is consumed by the first successful reset.
	var count int64
	require.NoError(t, f.db.Model(&models.Token{}).
		Where("kind = ?", models.TokenKindPasswordReset).Count(&count).Error)
	assert.Zero(t, count)

	err = f.svc.ResetPassword(ctx, f.db, dto.ResetPasswordRequest{
		Token: row.Value, Password: "Pw3!",
	})
	assertAppErrorStatus(t, err, 404)
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	f := setupAuth(t, time.Hour)

	err := f.svc.ForgotPassword(context.Background(), f.db, dto.ForgotPasswordRequest{Email: "ghost@palboti.io"})
	assertAppErrorStatus(t, err, 404)
}

func TestEmailVerificationFlow(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	user := &models.User{Email: "verify@palboti.io", Name: "V", PasswordHash: "x"}
	require.NoError(t, f.users.Create(f.db, user))

	err := f.svc.SendVerificationEmail(ctx, f.db, dto.SendVerificationRequest{Email: "verify@palboti.io"})
	require.NoError(t, err)
	assert.Equal(t, 1, f.mail.count())

	notifierRepo := repositories.NewNotifierRepository()
	notifier, err := notifierRepo.FindByUserAndType(f.db, user.ID, models.NotifyTypeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, user.Email, notifier.Email)

	var row models.Token
	require.NoError(t, f.db.Where("kind = ?", models.TokenKindEmailValidation).First(&row).Error)

	require.NoError(t, f.svc.VerifyEmail(ctx, f.db, row.Value))

	got, err := f.users.FindByID(f.db, user.ID)
	require.NoError(t, err)
	assert.True(t, got.IsVerified)

	// No verification tokens or notifier rows survive.
	var tokens int64
	require.NoError(t, f.db.Model(&models.Token{}).
		Where("kind = ?", models.TokenKindEmailValidation).Count(&tokens).Error)
	assert.Zero(t, tokens)
	_, err = notifierRepo.FindByUserAndType(f.db, user.ID, models.NotifyTypeEmailVerification)
	require.Error(t, err)

	err = f.svc.VerifyEmail(ctx, f.db, row.Value)
	assertAppErrorStatus(t, err, 404)
}

func TestSendVerificationWhenAlreadyVerified(t *testing.T) {
	f := setupAuth(t, time.Hour)

	user := &models.User{Email: "done@palboti.io", Name: "D", PasswordHash: "x", IsVerified: true}
	require.NoError(t, f.users.Create(f.db, user))

	err := f.svc.SendVerificationEmail(context.Background(), f.db, dto.SendVerificationRequest{Email: "done@palboti.io"})
	assertAppErrorStatus(t, err, 409)
}

func TestEndToEndSessionLifecycle(t *testing.T) {
	f := setupAuth(t, time.Hour)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.db, dto.RegisterRequest{
		Email: "a@x.com", Name: "A", Password: "Pw1!",
	})
	require.NoError(t, err)
	require.NotEmpty(t, reg.AccessToken.Token)
	require.NotEmpty(t, reg.RefreshToken.Token)

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "a@x.com", Password: "Pw1!"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "a@x.com", Password: "wrong"})
	assertAppErrorStatus(t, err, 401)

	require.NoError(t, f.svc.ForgotPassword(ctx, f.db, dto.ForgotPasswordRequest{Email: "a@x.com"}))

	var row models.Token
	require.NoError(t, f.db.Where("kind = ?", models.TokenKindPasswordReset).First(&row).Error)

	require.NoError(t, f.svc.ResetPassword(ctx, f.db, dto.ResetPasswordRequest{
		Token: row.Value, Password: "Pw2!",
	}))

	_, err = f.svc.Login(ctx, f.db, dto.LoginRequest{Email: "a@x.com", Password: "Pw2!"})
	require.NoError(t, err)
}
