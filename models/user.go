package models

import (
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is both a guest account and, with IsAdmin set, a console account.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:191;not null" json:"email"` // stored lowercased
	Phone     string    `gorm:"size:50" json:"phone"`
	Password  string    `gorm:"size:255;not null" json:"-"` // bcrypt digest, never returned in JSON
	IsAdmin   bool      `gorm:"column:is_admin;default:false" json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) Role() Role {
	if u.IsAdmin {
		return RoleAdmin
	}
	return RoleUser
}
