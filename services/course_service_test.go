package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fcode/course-platform-backend/models"
)

func TestCreateCourseDefaultsAndRoles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCourseService(f.store)

	_, err := svc.CreateCourse(ctx, f.student, CreateCourseInput{Title: "x"})
	assert.ErrorIs(t, err, ErrForbidden)

	course, err := svc.CreateCourse(ctx, f.teacher, CreateCourseInput{Title: "  Intro  "})
	require.NoError(t, err)
	assert.Equal(t, "Intro", course.Title)
	assert.Equal(t, models.DefaultThumbnailURL, course.ThumbnailURL)
	assert.Equal(t, 0.0, course.Price)
	assert.Equal(t, models.LevelBeginner, course.Level)
	assert.Equal(t, f.teacher.ID, course.TeacherID)

	_, err = svc.CreateCourse(ctx, f.admin, CreateCourseInput{Title: "by admin", Level: "advanced"})
	assert.NoError(t, err)
}

func TestCreateCourseValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCourseService(f.store)
	negative := -1.0

	cases := map[string]CreateCourseInput{
		"empty title":      {Title: " "},
		"negative price":   {Title: "x", Price: &negative},
		"unknown level":    {Title: "x", Level: "expert"},
		"unknown category": {Title: "x", CategoryID: ptrUUID(uuid.New())},
		"video without url": {Title: "x", Chapters: []ChapterInput{{
			Title: "c", Lessons: []LessonInput{{Title: "l"}},
		}}},
		"bad content type": {Title: "x", Chapters: []ChapterInput{{
			Title: "c", Lessons: []LessonInput{{Title: "l", ContentType: "audio"}},
		}}},
		"chapter without title": {Title: "x", Chapters: []ChapterInput{{Title: ""}}},
		"title too long":        {Title: strings.Repeat("a", models.MaxTitleLength+1)},
		"chapter title too long": {Title: "x", Chapters: []ChapterInput{{
			Title: strings.Repeat("a", models.MaxTitleLength+1),
		}}},
		"lesson title too long": {Title: "x", Chapters: []ChapterInput{{
			Title: "c", Lessons: []LessonInput{{
				Title: strings.Repeat("a", models.MaxTitleLength+1), VideoURL: strPtr("https://v"),
			}},
		}}},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateCourse(ctx, f.teacher, in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	all, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func TestListCoursesJoinsTeacherAndCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCourseService(f.store)

	empty, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	cat, err := svc.CreateCategory(ctx, f.admin, "Web Development")
	require.NoError(t, err)
	assert.Equal(t, "web-development", cat.Slug)

	_, err = svc.CreateCourse(ctx, f.teacher, CreateCourseInput{Title: "old"})
	require.NoError(t, err)
	_, err = svc.CreateCourse(ctx, f.teacher, CreateCourseInput{Title: "new", CategoryID: &cat.ID})
	require.NoError(t, err)

	list, err := svc.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Title)
	require.NotNil(t, list[0].Teacher)
	assert.Equal(t, "Teacher A", list[0].Teacher.FullName)
	assert.Equal(t, "/avatar.png", list[0].Teacher.AvatarURL)
	require.NotNil(t, list[0].Category)
	assert.Equal(t, "Web Development", list[0].Category.Name)
	assert.Nil(t, list[1].Category)
}

func TestGetCourseDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course, _ := f.course(t)
	svc := NewCourseService(f.store)

	detail, err := svc.GetCourseDetail(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, detail.Chapters, 1)
	assert.Len(t, detail.Chapters[0].Lessons, 2)
	assert.Equal(t, 2, detail.LessonsCount)
	assert.Equal(t, 420, detail.TotalDuration)
	assert.Equal(t, "Teacher A", detail.Teacher.FullName)

	_, err = svc.GetCourseDetail(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestUpdateCourseOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course, _ := f.course(t)
	svc := NewCourseService(f.store)
	other := f.user(t, "Other Teacher", "o@example.com", models.RoleTeacher)

	_, err := svc.UpdateCourse(ctx, other, course.ID, UpdateCourseInput{Title: strPtr("hijack")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.UpdateCourse(ctx, f.teacher, uuid.New(), UpdateCourseInput{})
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdateCourse(ctx, f.admin, course.ID, UpdateCourseInput{Title: strPtr("renamed"), Level: strPtr("advanced")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, models.LevelAdvanced, updated.Level)

	_, err = svc.UpdateCourse(ctx, f.teacher, course.ID, UpdateCourseInput{Level: strPtr("guru")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateCourseReplacesChapters(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course, oldLessons := f.course(t)
	svc := NewCourseService(f.store)

	_, err := svc.UpdateCourse(ctx, f.teacher, course.ID, UpdateCourseInput{})
	require.NoError(t, err)
	chapters, err := f.store.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	assert.Len(t, chapters, 1)

	_, err = svc.UpdateCourse(ctx, f.teacher, course.ID, UpdateCourseInput{Chapters: []ChapterInput{
		{Title: "First", Lessons: []LessonInput{
			{Title: "Reading", ContentType: "document", ContentText: strPtr("text")},
		}},
		{Title: "Second", Lessons: []LessonInput{
			{Title: "A", VideoURL: strPtr("https://v/a")},
			{Title: "B", VideoURL: strPtr("https://v/b")},
		}},
	}})
	require.NoError(t, err)

	chapters, err = f.store.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "First", chapters[0].Title)
	assert.Equal(t, 1, chapters[0].OrderIndex)
	assert.Equal(t, 2, chapters[1].OrderIndex)

	lessons, err := f.store.ListLessons(ctx, []uuid.UUID{chapters[1].ID})
	require.NoError(t, err)
	require.Len(t, lessons, 2)
	assert.Equal(t, "A", lessons[0].Title)
	assert.Equal(t, 1, lessons[0].OrderIndex)
	assert.Equal(t, 2, lessons[1].OrderIndex)

	_, err = f.store.GetLesson(ctx, oldLessons[0].ID)
	assert.Error(t, err)

	_, err = svc.UpdateCourse(ctx, f.teacher, course.ID, UpdateCourseInput{Chapters: []ChapterInput{}})
	require.NoError(t, err)
	chapters, err = f.store.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestUpdateCourseRejectsLongLessonTitleWithoutWriting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course, lessons := f.course(t)
	svc := NewCourseService(f.store)

	_, err := svc.UpdateCourse(ctx, f.teacher, course.ID, UpdateCourseInput{
		Title: strPtr("Renamed"),
		Chapters: []ChapterInput{{Title: "New", Lessons: []LessonInput{{
			Title: strings.Repeat("é", models.MaxTitleLength+1), VideoURL: strPtr("https://v"),
		}}}},
	})
	assert.ErrorIs(t, err, ErrValidation)

	stored, err := f.store.GetCourse(ctx, course.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go in practice", stored.Title)
	chapters, err := f.store.ListChapters(ctx, course.ID)
	require.NoError(t, err)
	require.Len(t, chapters, 1)
	assert.Equal(t, "Basics", chapters[0].Title)
	_, err = f.store.GetLesson(ctx, lessons[0].ID)
	assert.NoError(t, err)

	exact := strings.Repeat("é", models.MaxTitleLength)
	_, err = svc.UpdateCourse(ctx, f.teacher, course.ID, UpdateCourseInput{Title: &exact})
	assert.NoError(t, err)
}

func TestDeleteCourse(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course, _ := f.course(t)
	svc := NewCourseService(f.store)

	assert.ErrorIs(t, svc.DeleteCourse(ctx, f.student, course.ID), ErrForbidden)
	require.NoError(t, svc.DeleteCourse(ctx, f.teacher, course.ID))
	assert.ErrorIs(t, svc.DeleteCourse(ctx, f.teacher, course.ID), ErrCourseNotFound)
}

func TestListTeachingCourses(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	course, _ := f.course(t)
	_, err := NewEnrollmentService(f.store).Enroll(ctx, f.student.ID, course.ID)
	require.NoError(t, err)

	list, err := NewCourseService(f.store).ListTeachingCourses(ctx, f.teacher)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ChaptersCount)
	assert.Equal(t, int64(1), list[0].StudentsCount)

	list, err = NewCourseService(f.store).ListTeachingCourses(ctx, f.student)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	svc := NewCourseService(f.store)

	_, err := svc.CreateCategory(ctx, f.teacher, "Data")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateCategory(ctx, f.admin, "Data")
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, f.admin, "Data")
	assert.ErrorIs(t, err, ErrCategoryExists)
	_, err = svc.CreateCategory(ctx, f.admin, strings.Repeat("c", models.MaxCategoryNameLength+1))
	assert.ErrorIs(t, err, ErrValidation)

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}
