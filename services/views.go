package services

import (
	"time"

	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
)

type TeacherInfo struct {
	ID        uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
	Bio       string    `json:"bio,omitempty"`
}

type CategoryInfo struct {
	ID   uuid.UUID `json:"category_id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// CourseSummary is a course row with its teacher and category joined in.
type CourseSummary struct {
	models.Course
	Teacher  *TeacherInfo  `json:"teacher"`
	Category *CategoryInfo `json:"category"`
}

// PublicLesson is the lesson shape shown before enrollment: no video_url,
// content_text or order_index.
type PublicLesson struct {
	ID              uuid.UUID          `json:"lesson_id"`
	Title           string             `json:"title"`
	DurationSeconds int                `json:"duration_seconds"`
	IsPreview       bool               `json:"is_preview"`
	ContentType     models.ContentType `json:"content_type"`
}

type PublicChapter struct {
	ID         uuid.UUID      `json:"chapter_id"`
	Title      string         `json:"title"`
	OrderIndex int            `json:"order_index"`
	Lessons    []PublicLesson `json:"lessons"`
}

type CourseDetail struct {
	CourseSummary
	Chapters      []PublicChapter `json:"chapters"`
	LessonsCount  int             `json:"lessons_count"`
	TotalDuration int             `json:"total_duration_seconds"`
	StudentsCount int64           `json:"students_count"`
}

type ProgressState struct {
	IsCompleted       bool `json:"is_completed"`
	LastWatchedSecond int  `json:"last_watched_second"`
}

type LessonWithProgress struct {
	models.Lesson
	Progress ProgressState `json:"progress"`
}

type EnrolledChapter struct {
	ID         uuid.UUID            `json:"chapter_id"`
	Title      string               `json:"title"`
	OrderIndex int                  `json:"order_index"`
	Lessons    []LessonWithProgress `json:"lessons"`
}

type EnrolledCourseDetail struct {
	CourseSummary
	Chapters []EnrolledChapter `json:"chapters"`
	Summary  ProgressSummary   `json:"progress_summary"`
}

type LessonDetail struct {
	LessonWithProgress
	CourseID     uuid.UUID `json:"course_id"`
	ChapterTitle string    `json:"chapter_title"`
}

type ProgressSummary struct {
	CompletedLessons int `json:"completed_lessons"`
	TotalLessons     int `json:"total_lessons"`
}

type EnrolledCourse struct {
	CourseSummary
	EnrolledAt time.Time       `json:"enrolled_at"`
	Progress   ProgressSummary `json:"progress"`
}

type TeachingCourse struct {
	CourseSummary
	ChaptersCount int64 `json:"chapters_count"`
	StudentsCount int64 `json:"students_count"`
}

type ReviewerInfo struct {
	ID        uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
}

type ReviewView struct {
	models.Review
	User *ReviewerInfo `json:"user"`
}

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type SenderInfo struct {
	ID        uuid.UUID `json:"user_id"`
	FullName  string    `json:"full_name"`
	AvatarURL string    `json:"avatar_url"`
}

type ChatHistoryItem struct {
	models.ChatMessage
	Sender *SenderInfo `json:"sender"`
}

// ChatEvent is the receive_message frame pushed to every chat socket.
type ChatEvent struct {
	Type      string    `json:"type"`
	MessageID uuid.UUID `json:"message_id"`
	UserID    uuid.UUID `json:"user_id"`
	Author    string    `json:"author"`
	Message   string    `json:"message"`
	Time      string    `json:"time"`
	CreatedAt time.Time `json:"created_at"`
}
