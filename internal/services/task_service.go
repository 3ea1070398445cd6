package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"palboti_backend/internal/models"
	"palboti_backend/internal/repositories"
	"palboti_backend/internal/services/dto"
	"palboti_backend/pkg/apperrors"
)

type TaskService interface {
	Create(ctx context.Context, db *gorm.DB, userID, userEmail string, req dto.CreateTaskRequest) (*dto.TaskResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.TaskResponse, error)
	ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]dto.TaskResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, req dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type InsightService interface {
	Create(ctx context.Context, db *gorm.DB, userID string, req dto.CreateInsightRequest) (*dto.InsightResponse, error)
	ListByCategory(ctx context.Context, db *gorm.DB, category string) ([]dto.InsightResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error
}

type taskService struct {
	tasks repositories.TaskRepository
}

func NewTaskService(tasks repositories.TaskRepository) TaskService {
	return &taskService{tasks: tasks}
}

func (s *taskService) Create(ctx context.Context, db *gorm.DB, userID, userEmail string, req dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	task := &models.Task{
		UserID:      userID,
		Email:       userEmail,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
	}
	if err := s.tasks.Create(db, task); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewTaskResponse(task)
	return &resp, nil
}

func (s *taskService) GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.TaskResponse, error) {
	task, err := s.tasks.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewTaskResponse(task)
	return &resp, nil
}

func (s *taskService) ListByUser(ctx context.Context, db *gorm.DB, userID string) ([]dto.TaskResponse, error) {
	tasks, err := s.tasks.FindByUserID(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, dto.NewTaskResponse(&tasks[i]))
	}
	return out, nil
}

func (s *taskService) Update(ctx context.Context, db *gorm.DB, id string, req dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, err := s.tasks.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Status != nil {
		task.Status = *req.Status
	}

	if err := s.tasks.Update(db, task); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewTaskResponse(task)
	return &resp, nil
}

func (s *taskService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.tasks.Delete(db, id); err != nil {
		if errors.Is(err, repositories.ErrTaskNotFound) {
			return apperrors.ErrTaskNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

type insightService struct {
	insights repositories.InsightRepository
}

func NewInsightService(insights repositories.InsightRepository) InsightService {
	return &insightService{insights: insights}
}

func (s *insightService) Create(ctx context.Context, db *gorm.DB, userID string, req dto.CreateInsightRequest) (*dto.InsightResponse, error) {
	insight := &models.Insight{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Impact:      req.Impact,
	}
	if err := s.insights.Create(db, insight); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewInsightResponse(insight)
	return &resp, nil
}

func (s *insightService) ListByCategory(ctx context.Context, db *gorm.DB, category string) ([]dto.InsightResponse, error) {
	insights, err := s.insights.FindByCategory(db, category)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.InsightResponse, 0, len(insights))
	for i := range insights {
		out = append(out, dto.NewInsightResponse(&insights[i]))
	}
	return out, nil
}

func (s *insightService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.insights.Delete(db, id); err != nil {
		if errors.Is(err, repositories.ErrInsightNotFound) {
			return apperrors.ErrInsightNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}
