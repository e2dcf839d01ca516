package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/repository"
)

// summarizeCourses joins teachers and categories onto courses with one
// batched lookup each.
func summarizeCourses(ctx context.Context, store repository.Store, courses []models.Course, withBio bool) ([]CourseSummary, error) {
	teacherIDs := make([]uuid.UUID, 0, len(courses))
	var categoryIDs []uuid.UUID
	for _, c := range courses {
		teacherIDs = append(teacherIDs, c.TeacherID)
		if c.CategoryID != nil {
			categoryIDs = append(categoryIDs, *c.CategoryID)
		}
	}

	teachers, err := store.GetUsersByIDs(ctx, teacherIDs)
	if err != nil {
		return nil, err
	}
	categories, err := store.GetCategoriesByIDs(ctx, categoryIDs)
	if err != nil {
		return nil, err
	}

	out := make([]CourseSummary, len(courses))
	for i, c := range courses {
		out[i] = CourseSummary{Course: c}
		if t, ok := teachers[c.TeacherID]; ok {
			out[i].Teacher = &TeacherInfo{ID: t.ID, FullName: t.FullName, AvatarURL: t.AvatarURL}
			if withBio {
				out[i].Teacher.Bio = t.Bio
			}
		}
		if c.CategoryID != nil {
			if cat, ok := categories[*c.CategoryID]; ok {
				out[i].Category = &CategoryInfo{ID: cat.ID, Name: cat.Name, Slug: cat.Slug}
			}
		}
	}
	return out, nil
}

func summarizeCourse(ctx context.Context, store repository.Store, course *models.Course) (CourseSummary, error) {
	list, err := summarizeCourses(ctx, store, []models.Course{*course}, true)
	if err != nil {
		return CourseSummary{}, err
	}
	return list[0], nil
}

// loadTree returns a course's chapters and lessons, both ordered by order_index.
func loadTree(ctx context.Context, store repository.Store, courseID uuid.UUID) ([]models.Chapter, []models.Lesson, error) {
	chapters, err := store.ListChapters(ctx, courseID)
	if err != nil {
		return nil, nil, err
	}
	lessons, err := store.ListLessons(ctx, chapterIDs(chapters))
	if err != nil {
		return nil, nil, err
	}
	return chapters, lessons, nil
}

func getCourse(ctx context.Context, store repository.Store, courseID uuid.UUID) (*models.Course, error) {
	course, err := store.GetCourse(ctx, courseID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCourseNotFound
	}
	return course, err
}
