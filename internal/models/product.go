package models

import "gorm.io/datatypes"

type Product struct {
	BaseModel
	UserID   string         `gorm:"not null;index" json:"userId"`
	Category string         `gorm:"not null" json:"category"`
	Status   string         `gorm:"not null" json:"status"`
	Stage    int            `gorm:"not null" json:"stage"`
	Location *string        `json:"location"`
	Tags     datatypes.JSON `json:"tags"`
}

type Slot struct {
	BaseModel
	UserID    string `gorm:"not null;index" json:"userId"`
	ProductID string `gorm:"not null;index" json:"productId"`
	Zone      string `gorm:"type:varchar(10);not null" json:"zone"`
	Stage     int    `gorm:"not null" json:"stage"`
}
