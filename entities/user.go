package entities

import (
	"strings"
	"time"
)

type User struct {
	UserID         uint      `gorm:"primaryKey" json:"user_id"`
	Username       string    `gorm:"size:80;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:120;uniqueIndex;not null" json:"email"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	Role           string    `gorm:"size:20;default:staff" json:"role"`     // admin|owner|director|staff|contractor|trial
	Status         string    `gorm:"size:20;default:active" json:"status"` // active|inactive|suspended|trial
	FirstName      string    `gorm:"size:50" json:"first_name"`
	LastName       string    `gorm:"size:50" json:"last_name"`
	Phone          string    `gorm:"size:20" json:"phone"`
	Address        string    `json:"address"`
	Notes          string    `json:"notes"`
	IsActive       bool      `gorm:"default:true" json:"is_active"`
	IsAdmin        bool      `json:"is_admin"`
	CanManageUsers bool      `json:"can_manage_users"`
	CalendarToken  string    `gorm:"size:64;index" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (u User) FullName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full == "" {
		return u.Username
	}
	return full
}

// CanEditUsers reports whether u may use the user administration endpoints.
func (u User) CanEditUsers() bool {
	return u.IsAdmin || u.CanManageUsers || u.Role == "admin" || u.Role == "owner" || u.Role == "director"
}
