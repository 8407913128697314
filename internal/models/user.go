package models

import "time"

// User represents an account in the diary. Accounts are identified by
// email; the username is display-only. Registration is closed, so rows
// are created by the seed step or by an administrator.
type User struct {
	ID          uint   `gorm:"primaryKey"`
	Email       string `gorm:"uniqueIndex;size:255;not null"`
	Username    string `gorm:"size:150"`
	Password    string `gorm:"size:255;not null"` // bcrypt hash, never rendered
	IsStaff     bool   `gorm:"not null;default:false"`
	IsSuperuser bool   `gorm:"not null;default:false"`
	IsActive    bool   `gorm:"not null;default:true"`
	LastLogin   *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DisplayName prefers the username and falls back to the email.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
