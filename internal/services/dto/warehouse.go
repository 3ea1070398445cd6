package dto

import (
	"time"

	"gorm.io/datatypes"

	"palboti_backend/internal/models"
)

// Robots

type CreateRobotRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Location string `json:"location" validate:"required"`
	Status   string `json:"status" validate:"required,oneof=online offline maintenance error"`
	Charge   string `json:"charge"`
}

type UpdateRobotRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Location *string `json:"location,omitempty"`
	Status   *string `json:"status,omitempty" validate:"omitempty,oneof=online offline maintenance error"`
	Charge   *string `json:"charge,omitempty"`
}

type RobotResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  string    `json:"location"`
	Status    string    `json:"status"`
	Charge    string    `json:"charge"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RobotTelemetry is the JSON payload robots publish over MQTT.
type RobotTelemetry struct {
	RobotID  string `json:"robot_id"`
	Status   string `json:"status"`
	Charge   string `json:"charge"`
	Location string `json:"location"`
}

func NewRobotResponse(r *models.Robot) RobotResponse {
	return RobotResponse{
		ID:        r.ID,
		Name:      r.Name,
		Location:  r.Location,
		Status:    string(r.Status),
		Charge:    r.Charge,
		UpdatedAt: r.UpdatedAt,
	}
}

// Products

type CreateProductRequest struct {
	Category string         `json:"category" validate:"required"`
	Status   string         `json:"status" validate:"required"`
	Stage    int            `json:"stage" validate:"min=0"`
	Location *string        `json:"location,omitempty"`
	Tags     datatypes.JSON `json:"tags,omitempty"`
}

type UpdateProductRequest struct {
	Category *string        `json:"category,omitempty"`
	Status   *string        `json:"status,omitempty"`
	Stage    *int           `json:"stage,omitempty" validate:"omitempty,min=0"`
	Location *string        `json:"location,omitempty"`
	Tags     datatypes.JSON `json:"tags,omitempty"`
}

type ProductResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Category  string         `json:"category"`
	Status    string         `json:"status"`
	Stage     int            `json:"stage"`
	Location  *string        `json:"location,omitempty"`
	Tags      datatypes.JSON `json:"tags,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

func NewProductResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Category:  p.Category,
		Status:    p.Status,
		Stage:     p.Stage,
		Location:  p.Location,
		Tags:      p.Tags,
		CreatedAt: p.CreatedAt,
	}
}

// Slots

type CreateSlotRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Zone      string `json:"zone" validate:"required,oneof=init A1 A2 A3 A4"`
	Stage     int    `json:"stage" validate:"min=0"`
}

type SlotResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	ProductID string `json:"product_id"`
	Zone      string `json:"zone"`
	Stage     int    `json:"stage"`
}

func NewSlotResponse(s *models.Slot) SlotResponse {
	return SlotResponse{
		ID:        s.ID,
		UserID:    s.UserID,
		ProductID: s.ProductID,
		Zone:      string(s.Zone),
		Stage:     s.Stage,
	}
}

// Tasks

type CreateTaskRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"required"`
}

type UpdateTaskRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
}

type TaskResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewTaskResponse(t *models.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		Email:       t.Email,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
	}
}

// Insights

type CreateInsightRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required"`
	Impact      string `json:"impact"`
}

type InsightResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Impact      string    `json:"impact"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewInsightResponse(i *models.Insight) InsightResponse {
	return InsightResponse{
		ID:          i.ID,
		UserID:      i.UserID,
		Title:       i.Title,
		Description: i.Description,
		Category:    i.Category,
		Impact:      i.Impact,
		CreatedAt:   i.CreatedAt,
	}
}
