package repositories

import (
	"errors"

	"palboti_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSlotNotFound    = errors.New("slot not found")
)

type ProductRepository interface {
	Create(db *gorm.DB, product *models.Product) error
	FindByID(db *gorm.DB, id string) (*models.Product, error)
	FindByUserID(db *gorm.DB, userID string) ([]models.Product, error)
	Update(db *gorm.DB, product *models.Product) error
	Delete(db *gorm.DB, id string) error
}

type productRepository struct{}

func NewProductRepository() ProductRepository {
	return &productRepository{}
}

func (r *productRepository) Create(db *gorm.DB, product *models.Product) error {
	return db.Create(product).Error
}

func (r *productRepository) FindByID(db *gorm.DB, id string) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByUserID(db *gorm.DB, userID string) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepository) Update(db *gorm.DB, product *models.Product) error {
	return db.Save(product).Error
}

func (r *productRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

type SlotRepository interface {
	Create(db *gorm.DB, slot *models.Slot) error
	FindByZone(db *gorm.DB, zone string) ([]models.Slot, error)
	Delete(db *gorm.DB, id string) error
}

type slotRepository struct{}

func NewSlotRepository() SlotRepository {
	return &slotRepository{}
}

func (r *slotRepository) Create(db *gorm.DB, slot *models.Slot) error {
	return db.Create(slot).Error
}

func (r *slotRepository) FindByZone(db *gorm.DB, zone string) ([]models.Slot, error) {
	var slots []models.Slot
	err := db.Where("zone = ?", zone).Order("stage").Find(&slots).Error
	return slots, err
}

func (r *slotRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Slot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSlotNotFound
	}
	return nil
}
