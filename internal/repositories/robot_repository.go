package repositories

import (
	"errors"

	"palboti_backend/internal/models"

	"gorm.io/gorm"
)

var ErrRobotNotFound = errors.New("robot not found")

type RobotRepository interface {
	Create(db *gorm.DB, robot *models.Robot) error
	FindByID(db *gorm.DB, id string) (*models.Robot, error)
	FindByName(db *gorm.DB, name string) (*models.Robot, error)
	FindAll(db *gorm.DB) ([]models.Robot, error)
	Update(db *gorm.DB, robot *models.Robot) error
	Delete(db *gorm.DB, id string) error
}

type robotRepository struct{}

func NewRobotRepository() RobotRepository {
	return &robotRepository{}
}

func (r *robotRepository) Create(db *gorm.DB, robot *models.Robot) error {
	return db.Create(robot).Error
}

func (r *robotRepository) FindByID(db *gorm.DB, id string) (*models.Robot, error) {
	var robot models.Robot
	if err := db.First(&robot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRobotNotFound
		}
		return nil, err
	}
	return &robot, nil
}

func (r *robotRepository) FindByName(db *gorm.DB, name string) (*models.Robot, error) {
	var robot models.Robot
	if err := db.First(&robot, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRobotNotFound
		}
		return nil, err
	}
	return &robot, nil
}

func (r *robotRepository) FindAll(db *gorm.DB) ([]models.Robot, error) {
	var robots []models.Robot
	err := db.Order("created_at").Find(&robots).Error
	return robots, err
}

func (r *robotRepository) Update(db *gorm.DB, robot *models.Robot) error {
	return db.Save(robot).Error
}

func (r *robotRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Robot{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRobotNotFound
	}
	return nil
}
