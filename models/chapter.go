package models

import (
	"github.com/google/uuid"
)

// Chapter rows are owned by their course: they are replaced wholesale when the
// course content is updated.
type Chapter struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"chapter_id"`
	CourseID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_chapter_order" json:"course_id"`
	Title      string    `gorm:"size:255;not null" json:"title"`
	OrderIndex int       `gorm:"not null;uniqueIndex:idx_course_chapter_order" json:"order_index"`
}
