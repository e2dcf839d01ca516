//go:build integration

package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcode/course-platform-backend/config"
	"github.com/fcode/course-platform-backend/models"
)

// Run with: TEST_DB_NAME=course_platform_test go test -tags integration ./repository
// The remaining DB_* variables are read the same way the server reads them.
func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	name := os.Getenv("TEST_DB_NAME")
	if name == "" {
		t.Skip("TEST_DB_NAME not set")
	}
	cfg := config.Load()
	cfg.DBName = name
	db, err := config.InitDB(cfg)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewGormStore(db)
}

func gormUser(t *testing.T, s *GormStore) models.User {
	t.Helper()
	ctx := context.Background()
	u := models.User{FullName: "Tester", Email: uuid.NewString() + "@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, &u))
	t.Cleanup(func() { s.db.Delete(&models.User{}, "id = ?", u.ID) })
	return u
}

func gormCourse(t *testing.T, s *GormStore, teacherID uuid.UUID, content []ChapterTree) models.Course {
	t.Helper()
	c := models.Course{Title: "integration", TeacherID: teacherID, Level: models.LevelBeginner}
	require.NoError(t, s.CreateCourse(context.Background(), &c, content))
	t.Cleanup(func() { _ = s.DeleteCourse(context.Background(), c.ID) })
	return c
}

func TestGormStorePing(t *testing.T) {
	s := newGormStore(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.NoError(t, s.Ping(ctx))
}

func TestGormStoreUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	u := gormUser(t, s)

	dup := models.User{FullName: "Other", Email: u.Email, PasswordHash: "x"}
	assert.ErrorIs(t, s.CreateUser(ctx, &dup), ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormStoreCourseContentOrdered(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	teacher := gormUser(t, s)
	trees := []ChapterTree{
		{Chapter: models.Chapter{Title: "B", OrderIndex: 2}, Lessons: []models.Lesson{{Title: "b1", OrderIndex: 1}}},
		{Chapter: models.Chapter{Title: "A", OrderIndex: 1}, Lessons: []models.Lesson{
			{Title: "a2", OrderIndex: 2},
			{Title: "a1", OrderIndex: 1},
		}},
	}
	course := gormCourse(t, s, teacher.ID, trees)

	chapters, err := s.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "A", chapters[0].Title)

	lessons, err := s.ListLessons(ctx, []uuid.UUID{chapters[0].ID})
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "a1", lessons[0].Title)

	counts, err := s.CountChapters(ctx, []uuid.UUID{course.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[course.ID])
}

func TestGormStoreUpdateCourseRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	teacher := gormUser(t, s)
	course := gormCourse(t, s, teacher.ID, []ChapterTree{
		{Chapter: models.Chapter{Title: "kept", OrderIndex: 1}},
	})

	course.Title = "changed"
	dup := []ChapterTree{
		{Chapter: models.Chapter{Title: "x", OrderIndex: 1}},
		{Chapter: models.Chapter{Title: "y", OrderIndex: 1}},
	}
	assert.ErrorIs(t, s.UpdateCourse(ctx, &course, dup), ErrDuplicate)

	got, err := s.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "integration", got.Title)
	chapters, err := s.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "kept", chapters[0].Title)

	missing := models.Course{ID: uuid.New(), Title: "x", Level: models.LevelBeginner}
	assert.ErrorIs(t, s.UpdateCourse(ctx, &missing, nil), ErrNotFound)
}

func TestGormStoreProgressUpsert(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	student := gormUser(t, s)
	lesson := uuid.New()
	t.Cleanup(func() { s.db.Delete(&models.LessonProgress{}, "lesson_id = ?", lesson) })

	p, err := s.SaveWatchPosition(ctx, student.ID, lesson, 42)
	require.NoError(t, err)
	assert.False(t, p.IsCompleted)

	p, err = s.MarkComplete(ctx, student.ID, lesson)
	require.NoError(t, err)
	assert.True(t, p.IsCompleted)
	assert.Equal(t, 42, p.LastWatchedSecond)

	p, err = s.SaveWatchPosition(ctx, student.ID, lesson, 7)
	require.NoError(t, err)
	assert.True(t, p.IsCompleted)
	assert.Equal(t, 7, p.LastWatchedSecond)

	rows, err := s.ListProgress(ctx, student.ID, []uuid.UUID{lesson, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestGormStoreDeleteCourseCascades(t *testing.T) {
	ctx := context.Background()
	s := newGormStore(t)
	teacher := gormUser(t, s)
	student := gormUser(t, s)
	trees := []ChapterTree{{
		Chapter: models.Chapter{Title: "ch", OrderIndex: 1},
		Lessons: []models.Lesson{{Title: "l", OrderIndex: 1}},
	}}
	course := gormCourse(t, s, teacher.ID, trees)
	lessonID := trees[0].Lessons[0].ID

	require.NoError(t, s.CreateEnrollment(ctx, &models.Enrollment{UserID: student.ID, CourseID: course.ID}))
	assert.ErrorIs(t, s.CreateEnrollment(ctx, &models.Enrollment{UserID: student.ID, CourseID: course.ID}), ErrDuplicate)
	_, err := s.MarkComplete(ctx, student.ID, lessonID)
	require.NoError(t, err)
	require.NoError(t, s.CreateReview(ctx, &models.Review{UserID: student.ID, CourseID: course.ID, Rating: 5}))

	require.NoError(t, s.DeleteCourse(ctx, course.ID))

	_, err = s.GetCourse(ctx, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetLesson(ctx, lessonID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetEnrollment(ctx, student.ID, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetProgress(ctx, student.ID, lessonID)
	assert.ErrorIs(t, err, ErrNotFound)
	reviews, err := s.ListReviewsByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)

	assert.ErrorIs(t, s.DeleteCourse(ctx, course.ID), ErrNotFound)
}
