package auth

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"
)

func setupTokenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Token{}))
	return db
}

func testTokenService(ttl time.Duration) *TokenService {
	return NewTokenService(TokenConfig{
		Secret:     "test-secret",
		AccessTTL:  ttl,
		RefreshTTL: ttl,
		ResetTTL:   ttl,
		VerifyTTL:  ttl,
	}, repositories.NewTokenRepository())
}

func testUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{Email: "worker@palboti.io", Name: "Worker", PasswordHash: "x"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestAccessTokenRoundTrip(t *testing.T) {
	db := setupTokenDB(t)
	svc := testTokenService(time.Minute)
	user := testUser(t, db)

	issued, err := svc.IssueAccessToken(user)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.Token)

	row, err := svc.Verify(db, issued.Token, models.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, row.UserID)

	// Access tokens are never persisted.
	var count int64
	require.NoError(t, db.Model(&models.Token{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRefreshTokenPersisted(t *testing.T) {
	db := setupTokenDB(t)
	svc := testTokenService(time.Minute)
	user := testUser(t, db)

	issued, err := svc.IssueRefreshToken(db, user)
	require.NoError(t, err)

	row, err := svc.Verify(db, issued.Token, models.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, user.ID, row.UserID)
	assert.Equal(t, models.TokenKindRefresh, row.Kind)
}

func TestTokensIssuedSameSecondAreDistinct(t *testing.T) {
	db := setupTokenDB(t)
	svc := testTokenService(time.Minute)
	user := testUser(t, db)

	// Back-to-back issuance lands within one second, so the signed
	// payloads would be identical without a per-token id and the unique
	// index on the value column would reject the second row.
	first, err := svc.IssueRefreshToken(db, user)
	require.NoError(t, err)
	second, err := svc.IssueRefreshToken(db, user)
	require.NoError(t, err)
	assert.NotEqual(t, first.Token, second.Token)

	live, err := repositories.NewTokenRepository().CountByUserID(db, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, live)
}

func TestVerifyFailsAfterDeletion(t *testing.T) {
	db := setupTokenDB(t)
	svc := testTokenService(time.Minute)
	user := testUser(t, db)

	issued, err := svc.IssueRefreshToken(db, user)
	require.NoError(t, err)

	repo := repositories.NewTokenRepository()
	require.NoError(t, repo.DeleteByValue(db, issued.Token, models.TokenKindRefresh))

	_, err = svc.Verify(db, issued.Token, models.TokenKindRefresh)
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestVerifyKindMismatch(t *testing.T) {
	db := setupTokenDB(t)
	svc := testTokenService(time.Minute)
	user := testUser(t, db)

	issued, err := svc.IssueRefreshToken(db, user)
	require.NoError(t, err)

	_, err = svc.Verify(db, issued.Token, models.TokenKindPasswordReset)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyGarbageToken(t *testing.T) {
	db := setupTokenDB(t)
	svc := testTokenService(time.Minute)

	_, err := svc.Verify(db, "not-a-jwt", models.TokenKindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyWrongSecret(t *testing.T) {
	db := setupTokenDB(t)
	user := testUser(t, db)

	svc := testTokenService(time.Minute)
	issued, err := svc.IssueRefreshToken(db, user)
	require.NoError(t, err)

	other := NewTokenService(TokenConfig{Secret: "other-secret", RefreshTTL: time.Minute},
		repositories.NewTokenRepository())
	_, err = other.Verify(db, issued.Token, models.TokenKindRefresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestExpiredTokenDeletedOnVerify(t *testing.T) {
	db := setupTokenDB(t)
	user := testUser(t, db)

	// Negative TTL issues an already-expired token.
	svc := testTokenService(-time.Minute)
	issued, err := svc.IssueRefreshToken(db, user)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Token{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	_, err = svc.Verify(db, issued.Token, models.TokenKindRefresh)
	assert.ErrorIs(t, err, ErrTokenExpired)

	// The stale row must be gone after the first presentation. The row
	// was already expired, so the live-token count never saw it either.
	require.NoError(t, db.Model(&models.Token{}).Count(&count).Error)
	assert.Zero(t, count)

	live, err := repositories.NewTokenRepository().CountByUserID(db, user.ID)
	require.NoError(t, err)
	assert.Zero(t, live)

	// A second presentation behaves the same.
	_, err = svc.Verify(db, issued.Token, models.TokenKindRefresh)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseAccessTokenRejectsOtherKinds(t *testing.T) {
	db := setupTokenDB(t)
	svc := testTokenService(time.Minute)
	user := testUser(t, db)

	refresh, err := svc.IssueRefreshToken(db, user)
	require.NoError(t, err)

	_, err = svc.ParseAccessToken(refresh.Token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	access, err := svc.IssueAccessToken(user)
	require.NoError(t, err)

	claims, err := svc.ParseAccessToken(access.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.Subject)
}
