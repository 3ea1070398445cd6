package models

// Warehouse zones a robot or slot can occupy.
const (
	ZoneInit = "init"
	ZoneA1   = "A1"
	ZoneA2   = "A2"
	ZoneA3   = "A3"
	ZoneA4   = "A4"
)

type RobotStatus string

const (
	RobotStatusOnline      RobotStatus = "online"
	RobotStatusOffline     RobotStatus = "offline"
	RobotStatusMaintenance RobotStatus = "maintenance"
	RobotStatusError       RobotStatus = "error"
)

type Robot struct {
	BaseModel
	Name     string      `gorm:"not null" json:"name"`
	Location string      `gorm:"type:varchar(10);default:'init'" json:"location"`
	Status   RobotStatus `gorm:"type:varchar(20);default:'offline'" json:"status"`
	Charge   string      `json:"charge"`
}
