package models

import "time"

type User struct {
	BaseModel
	Username      string        `gorm:"uniqueIndex;not null"`
	Email         string        `gorm:"uniqueIndex;not null"`
	PasswordHash  string        `gorm:"not null"`
	Phone         string        `gorm:"index"`
	Role          UserRole      `gorm:"type:varchar(20);not null;default:'client'"`
	AccountStatus AccountStatus `gorm:"type:varchar(30);not null;default:'active'"`

	// Relations
	Profile       *UserProfile   `gorm:"foreignKey:UserID"`
	Cases         []Case         `gorm:"foreignKey:UserID"`
	Agreements    []Agreement    `gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
}

type UserProfile struct {
	BaseModel
	UserID     string `gorm:"uniqueIndex;not null"`
	FullName   string
	NationalID string `gorm:"index"`
	Address    string
	IDCardPath string
}

type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}

// IsStaff reports whether the user may use the staff endpoints.
func (u *User) IsStaff() bool {
	return u.Role == UserRoleLawyer || u.Role == UserRoleAdmin
}

// IsSuspended reports whether the account is gated behind an agreement step.
func (u *User) IsSuspended() bool {
	return u.AccountStatus == AccountStatusPendingAgreement ||
		u.AccountStatus == AccountStatusPaymentPending
}
