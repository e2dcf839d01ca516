package models

import (
	"time"

	"github.com/google/uuid"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

func (l CourseLevel) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

const DefaultThumbnailURL = "/thumbnail.png"

// MaxTitleLength is the column size of course, chapter and lesson titles, in characters.
const MaxTitleLength = 255

type Course struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"course_id"`
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	ThumbnailURL string      `gorm:"type:text" json:"thumbnail_url"`
	Price        float64     `gorm:"not null;default:0" json:"price"`
	Level        CourseLevel `gorm:"type:varchar(20);not null;default:'beginner'" json:"level"`
	TeacherID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"teacher_id"`
	CategoryID   *uuid.UUID  `gorm:"type:uuid;index" json:"category_id"`
	CreatedAt    time.Time   `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}
