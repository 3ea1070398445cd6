package repositories

import (
	"errors"
	"time"

	"palboti_backend/internal/models"

	"gorm.io/gorm"
)

type NotifierRepository interface {
	// Upsert records that a notification of notifyType went out to the
	// user, reusing the existing row when one is pending.
	Upsert(db *gorm.DB, userID, email, notifyType string) error

	DeleteByUserAndType(db *gorm.DB, userID, notifyType string) error
	FindByUserAndType(db *gorm.DB, userID, notifyType string) (*models.Notifier, error)
}

type notifierRepository struct{}

func NewNotifierRepository() NotifierRepository {
	return &notifierRepository{}
}

func (r *notifierRepository) Upsert(db *gorm.DB, userID, email, notifyType string) error {
	var existing models.Notifier
	err := db.Where("user_id = ? AND notify_type = ?", userID, notifyType).First(&existing).Error
	if err == nil {
		existing.Email = email
		existing.NotifiedAt = time.Now()
		return db.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	notifier := models.Notifier{
		UserID:     userID,
		Email:      email,
		NotifyType: notifyType,
		NotifiedAt: time.Now(),
	}
	return db.Create(&notifier).Error
}

func (r *notifierRepository) DeleteByUserAndType(db *gorm.DB, userID, notifyType string) error {
	return db.Where("user_id = ? AND notify_type = ?", userID, notifyType).
		Delete(&models.Notifier{}).Error
}

func (r *notifierRepository) FindByUserAndType(db *gorm.DB, userID, notifyType string) (*models.Notifier, error) {
	var notifier models.Notifier
	err := db.Where("user_id = ? AND notify_type = ?", userID, notifyType).First(&notifier).Error
	if err != nil {
		return nil, err
	}
	return &notifier, nil
}
