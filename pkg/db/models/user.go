package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a platform account. Organization scoping happens via memberships.
type User struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email           string     `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash    string     `gorm:"column:password_hash;not null"`
	FullName        string     `gorm:"column:full_name;not null"`
	IsPlatformAdmin bool       `gorm:"column:is_platform_admin;not null;default:false"`
	LastLoginAt     *time.Time `gorm:"column:last_login_at"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
