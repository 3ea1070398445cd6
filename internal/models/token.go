package models

import "time"

// TokenKind discriminates persisted token rows. Access tokens are never
// stored, they are verified by signature and embedded expiry alone.
type TokenKind string

const (
	TokenKindAccess          TokenKind = "access"
	TokenKindRefresh         TokenKind = "refresh"
	TokenKindPasswordReset   TokenKind = "password_reset"
	TokenKindEmailValidation TokenKind = "email_validation"
)

// Token is one issued credential. A row is consumed (deleted) exactly
// once: on successful use or when expiry is detected during
// verification.
type Token struct {
	BaseModel
	UserID string    `gorm:"not null;index" json:"userId"`
	Value  string    `gorm:"column:token;not null;uniqueIndex" json:"-"`
	Kind   TokenKind `gorm:"type:varchar(20);not null;index" json:"kind"`
	// ExpiresAt mirrors the JWT exp claim so existence/expiry checks do
	// not need to re-verify the signature.
	ExpiresAt time.Time `gorm:"not null" json:"expiresAt"`
}

// Notification types recorded in Notifier rows.
const (
	NotifyTypeEmailVerification = "email_verification"
	NotifyTypePasswordReset     = "password_reset"
	NotifyTypeRobotAlert        = "robot_alert"
)

// Notifier is an audit row for a pending/sent notification. It is never
// authoritative: its absence must not block any flow.
type Notifier struct {
	BaseModel
	UserID     string    `gorm:"not null;index" json:"userId"`
	Email      string    `gorm:"not null" json:"email"`
	NotifyType string    `gorm:"type:varchar(30);not null" json:"notifyType"`
	NotifiedAt time.Time `gorm:"not null" json:"notifiedAt"`
}
