// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// Role is the access level assigned to a user account.
type Role string

const (
	// RoleAdmin can manage every post, user, and site setting.
	RoleAdmin Role = "ADMIN"
	// RolePoster can create and manage only their own posts.
	RolePoster Role = "POSTER"
)

// Valid reports whether r is one of the known role values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePoster
}

// User represents an author or administrator account in Inkwell.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	Role      Role           `gorm:"type:varchar(16);not null;default:POSTER" json:"role"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	Avatar    string         `json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Posts     []Post         `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// PublicUser is the author projection embedded in post responses.
type PublicUser struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Avatar string `json:"avatar"`
}

// Public returns the embeddable author projection for u.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Avatar: u.Avatar}
}
