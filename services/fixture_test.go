package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/repository"
)

type fixture struct {
	store   *repository.MemoryStore
	teacher Actor
	student Actor
	admin   Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: repository.NewMemoryStore()}
	f.teacher = f.user(t, "Teacher A", "a@example.com", models.RoleTeacher)
	f.student = f.user(t, "Student B", "b@example.com", models.RoleStudent)
	f.admin = f.user(t, "Admin", "admin@example.com", models.RoleAdmin)
	return f
}

func (f *fixture) user(t *testing.T, name, email string, role models.UserRole) Actor {
	t.Helper()
	u := models.User{FullName: name, Email: email, PasswordHash: "x", Role: role, AvatarURL: "/avatar.png"}
	require.NoError(t, f.store.CreateUser(context.Background(), &u))
	return Actor{ID: u.ID, Role: u.Role}
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// course creates a course with one chapter holding two video lessons.
func (f *fixture) course(t *testing.T) (*models.Course, []models.Lesson) {
	t.Helper()
	ctx := context.Background()
	course, err := NewCourseService(f.store).CreateCourse(ctx, f.teacher, CreateCourseInput{
		Title: "Go in practice",
		Chapters: []ChapterInput{{
			Title: "Basics",
			Lessons: []LessonInput{
				{Title: "Lesson 1", VideoURL: strPtr("https://video/1"), DurationSeconds: 120},
				{Title: "Lesson 2", VideoURL: strPtr("https://video/2"), DurationSeconds: 300, IsPreview: true},
			},
		}},
	})
	require.NoError(t, err)

	chapters, err := f.store.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	lessons, err := f.store.ListLessons(ctx, []uuid.UUID{chapters[0].ID})
	require.NoError(t, err)
	return course, lessons
}
