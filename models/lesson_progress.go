package models

import (
	"time"

	"github.com/google/uuid"
)

// LessonProgress is created lazily on the first completion or watch-time write.
// IsCompleted never goes back to false once set.
type LessonProgress struct {
	ID                uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"progress_id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson" json:"user_id"`
	LessonID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_lesson;index" json:"lesson_id"`
	IsCompleted       bool      `gorm:"not null;default:false" json:"is_completed"`
	LastWatchedSecond int       `gorm:"not null;default:0" json:"last_watched_second"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
