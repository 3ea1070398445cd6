package handlers

import (
	"palboti_backend/internal/services"
	"palboti_backend/internal/validator"
)

// AppHandlers aggregates every HTTP handler for route registration.
type AppHandlers struct {
	Auth    *AuthHandler
	User    *UserHandler
	Robot   *RobotHandler
	Product *ProductHandler
	Slot    *SlotHandler
	Task    *TaskHandler
	Insight *InsightHandler
}

func NewAppHandlers(v *validator.Validator, svcs *services.ServiceContainer) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		Auth:    NewAuthHandler(base, svcs.Auth),
		User:    NewUserHandler(base, svcs.User),
		Robot:   NewRobotHandler(base, svcs.Robot),
		Product: NewProductHandler(base, svcs.Product),
		Slot:    NewSlotHandler(base, svcs.Slot),
		Task:    NewTaskHandler(base, svcs.Task),
		Insight: NewInsightHandler(base, svcs.Insight),
	}
}
