package services

// ServiceContainer aggregates every service the handlers depend on.
type ServiceContainer struct {
	Auth    AuthService
	User    UserService
	Robot   RobotService
	Product ProductService
	Slot    SlotService
	Task    TaskService
	Insight InsightService
}
