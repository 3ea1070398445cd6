package repositories

import (
	"errors"

	"palboti_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrInsightNotFound = errors.New("insight not found")
)

type TaskRepository interface {
	Create(db *gorm.DB, task *models.Task) error
	FindByID(db *gorm.DB, id string) (*models.Task, error)
	FindByUserID(db *gorm.DB, userID string) ([]models.Task, error)
	Update(db *gorm.DB, task *models.Task) error
	Delete(db *gorm.DB, id string) error
}

type taskRepository struct{}

func NewTaskRepository() TaskRepository {
	return &taskRepository{}
}

func (r *taskRepository) Create(db *gorm.DB, task *models.Task) error {
	return db.Create(task).Error
}

func (r *taskRepository) FindByID(db *gorm.DB, id string) (*models.Task, error) {
	var task models.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *taskRepository) FindByUserID(db *gorm.DB, userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tasks).Error
	return tasks, err
}

func (r *taskRepository) Update(db *gorm.DB, task *models.Task) error {
	return db.Save(task).Error
}

func (r *taskRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

type InsightRepository interface {
	Create(db *gorm.DB, insight *models.Insight) error
	FindByID(db *gorm.DB, id string) (*models.Insight, error)
	FindByCategory(db *gorm.DB, category string) ([]models.Insight, error)
	Update(db *gorm.DB, insight *models.Insight) error
	Delete(db *gorm.DB, id string) error
}

type insightRepository struct{}

func NewInsightRepository() InsightRepository {
	return &insightRepository{}
}

func (r *insightRepository) Create(db *gorm.DB, insight *models.Insight) error {
	return db.Create(insight).Error
}

func (r *insightRepository) FindByID(db *gorm.DB, id string) (*models.Insight, error) {
	var insight models.Insight
	if err := db.First(&insight, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInsightNotFound
		}
		return nil, err
	}
	return &insight, nil
}

func (r *insightRepository) FindByCategory(db *gorm.DB, category string) ([]models.Insight, error) {
	var insights []models.Insight
	err := db.Where("category = ?", category).Order("created_at DESC").Find(&insights).Error
	return insights, err
}

func (r *insightRepository) Update(db *gorm.DB, insight *models.Insight) error {
	return db.Save(insight).Error
}

func (r *insightRepository) Delete(db *gorm.DB, id string) error {
	result := db.Delete(&models.Insight{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsightNotFound
	}
	return nil
}
