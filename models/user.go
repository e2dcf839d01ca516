package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"   // system administrator
	RoleTeacher UserRole = "teacher" // course owner
	RoleStudent UserRole = "student" // learner
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	}
	return false
}

// ParseRole maps a raw claim or form value to a role. Unknown values are rejected.
func ParseRole(s string) (UserRole, bool) {
	r := UserRole(s)
	return r, r.Valid()
}

// Column sizes of full_name and email, in characters.
const (
	MaxFullNameLength = 150
	MaxEmailLength    = 150
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	FullName     string    `gorm:"size:150;not null" json:"full_name"`
	Email        string    `gorm:"size:150;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:text;not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null;default:'student'" json:"role"`
	AvatarURL    string    `gorm:"type:text" json:"avatar_url"`
	Bio          string    `gorm:"type:text" json:"bio"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
