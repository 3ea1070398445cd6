package models

type Task struct {
	BaseModel
	UserID      string `gorm:"not null;index" json:"userId"`
	Email       string `gorm:"not null;index" json:"email"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Status      string `gorm:"not null" json:"status"`
}

type Insight struct {
	BaseModel
	UserID      string `gorm:"not null;index" json:"userId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Category    string `gorm:"not null;index" json:"category"`
	Impact      string `json:"impact"`
}
