package repositories

import (
	"errors"
	"time"

	"palboti_backend/internal/models"

	"gorm.io/gorm"
)

// ErrTokenNotFound is returned when no row matches the presented value.
// Already-consumed and never-issued tokens are indistinguishable to the
// caller on purpose.
var ErrTokenNotFound = errors.New("token not found")

type TokenRepository interface {
	Create(db *gorm.DB, token *models.Token) error

	// FindByValue looks a token up by its string value and kind.
	FindByValue(db *gorm.DB, value string, kind models.TokenKind) (*models.Token, error)

	// DeleteByValue removes a single token row; ErrTokenNotFound when
	// nothing matched.
	DeleteByValue(db *gorm.DB, value string, kind models.TokenKind) error

	// DeleteByUserAndKind bulk-deletes every token of one kind for a
	// user (single-use consumption of reset/verify tokens).
	DeleteByUserAndKind(db *gorm.DB, userID string, kind models.TokenKind) error

	DeleteByUserID(db *gorm.DB, userID string) error
	CleanExpired(db *gorm.DB) error
	CountByUserID(db *gorm.DB, userID string) (int64, error)
}

type tokenRepository struct{}

func NewTokenRepository() TokenRepository {
	return &tokenRepository{}
}

func (r *tokenRepository) Create(db *gorm.DB, token *models.Token) error {
	return db.Create(token).Error
}

func (r *tokenRepository) FindByValue(db *gorm.DB, value string, kind models.TokenKind) (*models.Token, error) {
	var token models.Token
	err := db.Where("token = ? AND kind = ?", value, kind).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return &token, nil
}

func (r *tokenRepository) DeleteByValue(db *gorm.DB, value string, kind models.TokenKind) error {
	result := db.Where("token = ? AND kind = ?", value, kind).Delete(&models.Token{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *tokenRepository) DeleteByUserAndKind(db *gorm.DB, userID string, kind models.TokenKind) error {
	return db.Where("user_id = ? AND kind = ?", userID, kind).Delete(&models.Token{}).Error
}

func (r *tokenRepository) DeleteByUserID(db *gorm.DB, userID string) error {
	return db.Where("user_id = ?", userID).Delete(&models.Token{}).Error
}

func (r *tokenRepository) CleanExpired(db *gorm.DB) error {
	return db.Where("expires_at < ?", time.Now()).Delete(&models.Token{}).Error
}

func (r *tokenRepository) CountByUserID(db *gorm.DB, userID string) (int64, error) {
	var count int64
	err := db.Model(&models.Token{}).
		Where("user_id = ? AND expires_at > ?", userID, time.Now()).
		Count(&count).Error
	return count, err
}
