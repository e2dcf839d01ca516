package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// ChapterTree is a chapter with its lessons, used to rebuild course content.
type ChapterTree struct {
	Chapter models.Chapter
	Lessons []models.Lesson
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetCategoriesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Category, error)
	CategoryExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type CourseRepository interface {
	// CreateCourse inserts the course and its content in one transaction.
	// content may be empty.
	CreateCourse(ctx context.Context, course *models.Course, content []ChapterTree) error
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	// ListCourses returns every course, newest first.
	ListCourses(ctx context.Context) ([]models.Course, error)
	ListCoursesByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Course, error)
	ListCoursesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Course, error)
	// UpdateCourse writes the course's scalar fields. A non-nil content
	// (including an empty one) also replaces every chapter and lesson. Both
	// happen in one transaction. IDs of new rows are written back.
	UpdateCourse(ctx context.Context, course *models.Course, content []ChapterTree) error
	// DeleteCourse removes the course with its chapters, lessons, enrollments,
	// reviews and the progress rows of its lessons.
	DeleteCourse(ctx context.Context, id uuid.UUID) error

	// ListChapters returns chapters of a course ordered by order_index.
	ListChapters(ctx context.Context, courseID uuid.UUID) ([]models.Chapter, error)
	// ListLessons returns lessons of the given chapters ordered by order_index.
	ListLessons(ctx context.Context, chapterIDs []uuid.UUID) ([]models.Lesson, error)
	CountChapters(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	GetChapter(ctx context.Context, id uuid.UUID) (*models.Chapter, error)
	GetLesson(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
}

type EnrollmentRepository interface {
	CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	GetEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error)
	// ListEnrollmentsByUser returns the user's enrollments, newest first.
	ListEnrollmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error)
	CountEnrollments(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}

type ProgressRepository interface {
	GetProgress(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error)
	// ListProgress loads the user's progress rows restricted to lessonIDs in one query.
	ListProgress(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]models.LessonProgress, error)
	// MarkComplete creates or updates the row with is_completed = true.
	MarkComplete(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error)
	// SaveWatchPosition creates or updates last_watched_second, leaving
	// is_completed untouched on existing rows.
	SaveWatchPosition(ctx context.Context, userID, lessonID uuid.UUID, second int) (*models.LessonProgress, error)
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id uuid.UUID) (*models.Review, error)
	GetReviewByUserCourse(ctx context.Context, userID, courseID uuid.UUID) (*models.Review, error)
	// ListReviewsByCourse returns reviews of a course, newest first.
	ListReviewsByCourse(ctx context.Context, courseID uuid.UUID) ([]models.Review, error)
	UpdateReview(ctx context.Context, review *models.Review) error
	DeleteReview(ctx context.Context, id uuid.UUID) error
}

type ChatRepository interface {
	CreateMessage(ctx context.Context, msg *models.ChatMessage) error
	// ListRecentMessages returns the newest limit messages ordered oldest first.
	ListRecentMessages(ctx context.Context, limit int) ([]models.ChatMessage, error)
	// DeleteMessagesBefore removes messages created before t and returns how many.
	DeleteMessagesBefore(ctx context.Context, t time.Time) (int64, error)
}

// Store groups every repository. Both GormStore and MemoryStore implement it.
type Store interface {
	UserRepository
	CategoryRepository
	CourseRepository
	EnrollmentRepository
	ProgressRepository
	ReviewRepository
	ChatRepository
	Ping(ctx context.Context) error
}
