package models

import (
	"github.com/google/uuid"
)

type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentDocument ContentType = "document"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentVideo, ContentDocument:
		return true
	}
	return false
}

type Lesson struct {
	ID              uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"lesson_id"`
	ChapterID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_chapter_lesson_order" json:"chapter_id"`
	Title           string      `gorm:"size:255;not null" json:"title"`
	ContentType     ContentType `gorm:"type:varchar(20);not null;default:'video'" json:"content_type"`
	VideoURL        *string     `gorm:"type:text" json:"video_url"`
	ContentText     *string     `gorm:"type:text" json:"content_text"`
	DurationSeconds int         `gorm:"not null;default:0" json:"duration_seconds"`
	IsPreview       bool        `gorm:"not null;default:false" json:"is_preview"`
	OrderIndex      int         `gorm:"not null;uniqueIndex:idx_chapter_lesson_order" json:"order_index"`
}
