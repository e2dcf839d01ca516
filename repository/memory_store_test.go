package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcode/course-platform-backend/models"
)

func seedCourse(t *testing.T, s *MemoryStore, teacherID uuid.UUID, title string) models.Course {
	t.Helper()
	c := models.Course{Title: title, TeacherID: teacherID, Level: models.LevelBeginner}
	require.NoError(t, s.CreateCourse(context.Background(), &c, nil))
	return c
}

func TestMemoryStoreUserEmailUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	u := models.User{FullName: "An", Email: "an@example.com", PasswordHash: "x"}
	require.NoError(t, s.CreateUser(ctx, &u))
	assert.NotEqual(t, uuid.Nil, u.ID)
	assert.Equal(t, models.RoleStudent, u.Role)

	dup := models.User{FullName: "Other", Email: "an@example.com"}
	assert.ErrorIs(t, s.CreateUser(ctx, &dup), ErrDuplicate)

	got, err := s.GetUserByEmail(ctx, "an@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = s.GetUserByID(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCoursesNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	teacher := uuid.New()
	first := seedCourse(t, s, teacher, "first")
	second := seedCourse(t, s, teacher, "second")
	seedCourse(t, s, uuid.New(), "other teacher")

	all, err := s.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "other teacher", all[0].Title)

	mine, err := s.ListCoursesByTeacher(ctx, teacher)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Equal(t, first.ID, mine[1].ID)
}

func TestMemoryStoreUpdateCourseReplacesContent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course := seedCourse(t, s, uuid.New(), "c")

	trees := []ChapterTree{
		{Chapter: models.Chapter{Title: "B", OrderIndex: 2}, Lessons: []models.Lesson{{Title: "b1", OrderIndex: 1}}},
		{Chapter: models.Chapter{Title: "A", OrderIndex: 1}, Lessons: []models.Lesson{
			{Title: "a2", OrderIndex: 2},
			{Title: "a1", OrderIndex: 1},
		}},
	}
	require.NoError(t, s.UpdateCourse(ctx, &course, trees))
	assert.NotEqual(t, uuid.Nil, trees[0].Chapter.ID)
	assert.Equal(t, trees[0].Chapter.ID, trees[0].Lessons[0].ChapterID)

	chapters, err := s.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "A", chapters[0].Title)

	lessons, err := s.ListLessons(ctx, []uuid.UUID{chapters[0].ID})
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "a1", lessons[0].Title)
	assert.Equal(t, "a2", lessons[1].Title)

	oldLesson := trees[1].Lessons[0].ID
	course.Title = "renamed"
	require.NoError(t, s.UpdateCourse(ctx, &course, nil))
	chapters, err = s.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)

	require.NoError(t, s.UpdateCourse(ctx, &course, []ChapterTree{{Chapter: models.Chapter{Title: "only", OrderIndex: 1}}}))
	chapters, err = s.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	_, err = s.GetLesson(ctx, oldLesson)
	assert.ErrorIs(t, err, ErrNotFound)

	counts, err := s.CountChapters(ctx, []uuid.UUID{course.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[course.ID])
}

func TestMemoryStoreRejectsDuplicateOrderWithoutWriting(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	dup := []ChapterTree{
		{Chapter: models.Chapter{Title: "x", OrderIndex: 1}},
		{Chapter: models.Chapter{Title: "y", OrderIndex: 1}},
	}

	c := models.Course{Title: "c", TeacherID: uuid.New(), Level: models.LevelBeginner}
	assert.ErrorIs(t, s.CreateCourse(ctx, &c, dup), ErrDuplicate)
	all, err := s.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	course := seedCourse(t, s, uuid.New(), "c")
	course.Title = "changed"
	assert.ErrorIs(t, s.UpdateCourse(ctx, &course, dup), ErrDuplicate)
	got, err := s.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "c", got.Title)
}

func TestMemoryStoreEnrollmentUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	user, course := uuid.New(), uuid.New()

	require.NoError(t, s.CreateEnrollment(ctx, &models.Enrollment{UserID: user, CourseID: course}))
	assert.ErrorIs(t, s.CreateEnrollment(ctx, &models.Enrollment{UserID: user, CourseID: course}), ErrDuplicate)

	counts, err := s.CountEnrollments(ctx, []uuid.UUID{course, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[course])
}

func TestMemoryStoreProgressUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	user, lesson := uuid.New(), uuid.New()

	p, err := s.SaveWatchPosition(ctx, user, lesson, 42)
	require.NoError(t, err)
	assert.False(t, p.IsCompleted)
	assert.Equal(t, 42, p.LastWatchedSecond)

	p, err = s.MarkComplete(ctx, user, lesson)
	require.NoError(t, err)
	assert.True(t, p.IsCompleted)
	assert.Equal(t, 42, p.LastWatchedSecond)

	p, err = s.SaveWatchPosition(ctx, user, lesson, 7)
	require.NoError(t, err)
	assert.True(t, p.IsCompleted)
	assert.Equal(t, 7, p.LastWatchedSecond)

	rows, err := s.ListProgress(ctx, user, []uuid.UUID{lesson, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestMemoryStoreDeleteCourseCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	student := uuid.New()
	course := seedCourse(t, s, uuid.New(), "c")
	trees := []ChapterTree{{Chapter: models.Chapter{Title: "ch", OrderIndex: 1}, Lessons: []models.Lesson{{Title: "l", OrderIndex: 1}}}}
	require.NoError(t, s.UpdateCourse(ctx, &course, trees))
	lessonID := trees[0].Lessons[0].ID

	require.NoError(t, s.CreateEnrollment(ctx, &models.Enrollment{UserID: student, CourseID: course.ID}))
	_, err := s.MarkComplete(ctx, student, lessonID)
	require.NoError(t, err)
	require.NoError(t, s.CreateReview(ctx, &models.Review{UserID: student, CourseID: course.ID, Rating: 5}))

	require.NoError(t, s.DeleteCourse(ctx, course.ID))

	_, err = s.GetCourse(ctx, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetLesson(ctx, lessonID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetEnrollment(ctx, student, course.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.GetProgress(ctx, student, lessonID)
	assert.ErrorIs(t, err, ErrNotFound)
	reviews, err := s.ListReviewsByCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
	assert.Empty(t, s.courseOrder)
	assert.Empty(t, s.enrollmentOrder)
	assert.Empty(t, s.reviewOrder)

	assert.ErrorIs(t, s.DeleteCourse(ctx, course.ID), ErrNotFound)
}

func TestMemoryStoreReviews(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	course := uuid.New()
	a, b := uuid.New(), uuid.New()

	ra := models.Review{UserID: a, CourseID: course, Rating: 4}
	require.NoError(t, s.CreateReview(ctx, &ra))
	rb := models.Review{UserID: b, CourseID: course, Rating: 2}
	require.NoError(t, s.CreateReview(ctx, &rb))
	assert.ErrorIs(t, s.CreateReview(ctx, &models.Review{UserID: a, CourseID: course, Rating: 1}), ErrDuplicate)

	list, err := s.ListReviewsByCourse(ctx, course)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, rb.ID, list[0].ID)

	ra.Rating = 5
	require.NoError(t, s.UpdateReview(ctx, &ra))
	got, err := s.GetReview(ctx, ra.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Rating)

	require.NoError(t, s.DeleteReview(ctx, ra.ID))
	assert.ErrorIs(t, s.DeleteReview(ctx, ra.ID), ErrNotFound)
	assert.Equal(t, []uuid.UUID{rb.ID}, s.reviewOrder)
}

func TestMemoryStoreRecentMessagesOldestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sender := uuid.New()
	for _, text := range []string{"1", "2", "3", "4"} {
		require.NoError(t, s.CreateMessage(ctx, &models.ChatMessage{SenderID: sender, Content: text}))
	}

	msgs, err := s.ListRecentMessages(ctx, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, "2", msgs[0].Content)
	assert.Equal(t, "4", msgs[2].Content)
}

func TestMemoryStoreDeleteMessagesBefore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	sender := uuid.New()
	for _, text := range []string{"a", "b"} {
		require.NoError(t, s.CreateMessage(ctx, &models.ChatMessage{SenderID: sender, Content: text}))
	}

	n, err := s.DeleteMessagesBefore(ctx, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = s.DeleteMessagesBefore(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	msgs, err := s.ListRecentMessages(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
