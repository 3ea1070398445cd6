package models

import "time"

type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleOperator UserRole = "operator"
)

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"not null" json:"name"`
	PasswordHash string     `json:"-"`
	Role         UserRole   `gorm:"type:varchar(20);default:'operator'" json:"role"`
	IsVerified   bool       `gorm:"default:false" json:"isVerified"`
	LastLogin    *time.Time `json:"lastLogin"`

	// Relations
	Tokens    []Token    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Notifiers []Notifier `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Products  []Product  `gorm:"foreignKey:UserID" json:"-"`
	Tasks     []Task     `gorm:"foreignKey:UserID" json:"-"`
}

// HasPassword reports whether the account can log in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}
