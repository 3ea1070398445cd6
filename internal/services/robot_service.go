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

type RobotService interface {
	Create(ctx context.Context, db *gorm.DB, req dto.CreateRobotRequest) (*dto.RobotResponse, error)
	GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.RobotResponse, error)
	List(ctx context.Context, db *gorm.DB) ([]dto.RobotResponse, error)
	Update(ctx context.Context, db *gorm.DB, id string, req dto.UpdateRobotRequest) (*dto.RobotResponse, error)
	Delete(ctx context.Context, db *gorm.DB, id string) error

	// ApplyTelemetry ingests one MQTT status report. Unknown robots are
	// created on the fly so a freshly flashed unit shows up without
	// manual registration.
	ApplyTelemetry(ctx context.Context, db *gorm.DB, report dto.RobotTelemetry) error
}

type robotService struct {
	robots repositories.RobotRepository
}

func NewRobotService(robots repositories.RobotRepository) RobotService {
	return &robotService{robots: robots}
}

func (s *robotService) Create(ctx context.Context, db *gorm.DB, req dto.CreateRobotRequest) (*dto.RobotResponse, error) {
	robot := &models.Robot{
		Name:     req.Name,
		Location: req.Location,
		Status:   models.RobotStatus(req.Status),
		Charge:   req.Charge,
	}
	if err := s.robots.Create(db, robot); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewRobotResponse(robot)
	return &resp, nil
}

func (s *robotService) GetByID(ctx context.Context, db *gorm.DB, id string) (*dto.RobotResponse, error) {
	robot, err := s.robots.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRobotNotFound) {
			return nil, apperrors.ErrRobotNotFound
		}
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewRobotResponse(robot)
	return &resp, nil
}

func (s *robotService) List(ctx context.Context, db *gorm.DB) ([]dto.RobotResponse, error) {
	robots, err := s.robots.FindAll(db)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	out := make([]dto.RobotResponse, 0, len(robots))
	for i := range robots {
		out = append(out, dto.NewRobotResponse(&robots[i]))
	}
	return out, nil
}

func (s *robotService) Update(ctx context.Context, db *gorm.DB, id string, req dto.UpdateRobotRequest) (*dto.RobotResponse, error) {
	robot, err := s.robots.FindByID(db, id)
	if err != nil {
		if errors.Is(err, repositories.ErrRobotNotFound) {
			return nil, apperrors.ErrRobotNotFound
		}
		return nil, apperrors.InternalError(err)
	}

	if req.Name != nil {
		robot.Name = *req.Name
	}
	if req.Location != nil {
		robot.Location = *req.Location
	}
	if req.Status != nil {
		robot.Status = models.RobotStatus(*req.Status)
	}
	if req.Charge != nil {
		robot.Charge = *req.Charge
	}

	if err := s.robots.Update(db, robot); err != nil {
		return nil, apperrors.InternalError(err)
	}
	resp := dto.NewRobotResponse(robot)
	return &resp, nil
}

func (s *robotService) Delete(ctx context.Context, db *gorm.DB, id string) error {
	if err := s.robots.Delete(db, id); err != nil {
		if errors.Is(err, repositories.ErrRobotNotFound) {
			return apperrors.ErrRobotNotFound
		}
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *robotService) ApplyTelemetry(ctx context.Context, db *gorm.DB, report dto.RobotTelemetry) error {
	robot, err := s.robots.FindByName(db, report.RobotID)
	if err != nil {
		if !errors.Is(err, repositories.ErrRobotNotFound) {
			return err
		}
		robot = &models.Robot{Name: report.RobotID}
		if err := s.robots.Create(db, robot); err != nil {
			return err
		}
	}

	if report.Status != "" {
		robot.Status = models.RobotStatus(report.Status)
	}
	if report.Location != "" {
		robot.Location = report.Location
	}
	if report.Charge != "" {
		robot.Charge = report.Charge
	}
	return s.robots.Update(db, robot)
}
