package models

import (
	"time"

	"github.com/google/uuid"
)

const MaxCategoryNameLength = 100

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"category_id"`
	Name      string    `gorm:"size:100;not null;unique" json:"name"`
	Slug      string    `gorm:"size:100;uniqueIndex" json:"slug"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
