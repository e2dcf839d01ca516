package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/repository"
)

type LessonInput struct {
	Title           string  `json:"title"`
	ContentType     string  `json:"content_type"`
	VideoURL        *string `json:"video_url"`
	ContentText     *string `json:"content_text"`
	DurationSeconds int     `json:"duration_seconds"`
	IsPreview       bool    `json:"is_preview"`
}

type ChapterInput struct {
	Title   string        `json:"title"`
	Lessons []LessonInput `json:"lessons"`
}

type CreateCourseInput struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	ThumbnailURL string     `json:"thumbnail_url"`
	Price        *float64   `json:"price"`
	Level        string     `json:"level"`
	CategoryID   *uuid.UUID `json:"category_id"`
	// Chapters, when present, is applied as the initial content.
	Chapters []ChapterInput `json:"chapters"`
}

// UpdateCourseInput patches only the non-nil fields. A non-nil Chapters
// (including an empty list) replaces the whole chapter/lesson tree.
type UpdateCourseInput struct {
	Title        *string        `json:"title"`
	Description  *string        `json:"description"`
	ThumbnailURL *string        `json:"thumbnail_url"`
	Price        *float64       `json:"price"`
	Level        *string        `json:"level"`
	CategoryID   *uuid.UUID     `json:"category_id"`
	Chapters     []ChapterInput `json:"chapters"`
}

type CourseService struct {
	store repository.Store
}

func NewCourseService(store repository.Store) *CourseService {
	return &CourseService{store: store}
}

func (s *CourseService) ListCourses(ctx context.Context) ([]CourseSummary, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, err
	}
	return summarizeCourses(ctx, s.store, courses, false)
}

// GetCourseDetail is the public course page: lessons carry metadata only.
func (s *CourseService) GetCourseDetail(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error) {
	course, err := getCourse(ctx, s.store, courseID)
	if err != nil {
		return nil, err
	}
	summary, err := summarizeCourse(ctx, s.store, course)
	if err != nil {
		return nil, err
	}
	chapters, lessons, err := loadTree(ctx, s.store, courseID)
	if err != nil {
		return nil, err
	}
	students, err := s.store.CountEnrollments(ctx, []uuid.UUID{courseID})
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{
		CourseSummary: summary,
		Chapters:      PublicTree(chapters, lessons),
		LessonsCount:  len(lessons),
		StudentsCount: students[courseID],
	}
	for _, l := range lessons {
		detail.TotalDuration += l.DurationSeconds
	}
	return detail, nil
}

func (s *CourseService) CreateCourse(ctx context.Context, actor Actor, in CreateCourseInput) (*models.Course, error) {
	if !canAuthorCourses(actor.Role) {
		return nil, ErrNotCourseAuthor
	}

	course := &models.Course{
		Title:        strings.TrimSpace(in.Title),
		Description:  in.Description,
		ThumbnailURL: strings.TrimSpace(in.ThumbnailURL),
		Level:        models.LevelBeginner,
		TeacherID:    actor.ID,
		CategoryID:   in.CategoryID,
	}
	if err := checkTitle(course.Title); err != nil {
		return nil, err
	}
	if course.ThumbnailURL == "" {
		course.ThumbnailURL = models.DefaultThumbnailURL
	}
	if in.Price != nil {
		course.Price = *in.Price
	}
	if course.Price < 0 {
		return nil, validationf("Price must not be negative")
	}
	if in.Level != "" {
		course.Level = models.CourseLevel(in.Level)
	}
	if !course.Level.Valid() {
		return nil, validationf("Level must be beginner, intermediate or advanced")
	}
	if err := s.checkCategory(ctx, course.CategoryID); err != nil {
		return nil, err
	}

	trees, err := buildTrees(in.Chapters)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateCourse(ctx, course, trees); err != nil {
		return nil, err
	}
	return course, nil
}

// UpdateCourse patches scalar fields and, when chapters are supplied, rebuilds
// the content tree from scratch. Lesson IDs change on every rebuild, so
// progress rows of the old lessons no longer match any lesson.
func (s *CourseService) UpdateCourse(ctx context.Context, actor Actor, courseID uuid.UUID, in UpdateCourseInput) (*models.Course, error) {
	course, err := getCourse(ctx, s.store, courseID)
	if err != nil {
		return nil, err
	}
	if !canManageCourse(actor, course) {
		return nil, ErrNotCourseOwner
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if err := checkTitle(title); err != nil {
			return nil, err
		}
		course.Title = title
	}
	if in.Description != nil {
		course.Description = *in.Description
	}
	if in.ThumbnailURL != nil {
		course.ThumbnailURL = strings.TrimSpace(*in.ThumbnailURL)
		if course.ThumbnailURL == "" {
			course.ThumbnailURL = models.DefaultThumbnailURL
		}
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, validationf("Price must not be negative")
		}
		course.Price = *in.Price
	}
	if in.Level != nil {
		level := models.CourseLevel(*in.Level)
		if !level.Valid() {
			return nil, validationf("Level must be beginner, intermediate or advanced")
		}
		course.Level = level
	}
	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, in.CategoryID); err != nil {
			return nil, err
		}
		course.CategoryID = in.CategoryID
	}

	// A nil content leaves the existing chapters in place.
	var content []repository.ChapterTree
	if in.Chapters != nil {
		if content, err = buildTrees(in.Chapters); err != nil {
			return nil, err
		}
	}

	if err := s.store.UpdateCourse(ctx, course, content); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) DeleteCourse(ctx context.Context, actor Actor, courseID uuid.UUID) error {
	course, err := getCourse(ctx, s.store, courseID)
	if err != nil {
		return err
	}
	if !canManageCourse(actor, course) {
		return ErrNotCourseOwner
	}
	if err := s.store.DeleteCourse(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return nil
}

// ListTeachingCourses returns the caller's own courses with chapter and
// student counts.
func (s *CourseService) ListTeachingCourses(ctx context.Context, actor Actor) ([]TeachingCourse, error) {
	courses, err := s.store.ListCoursesByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	summaries, err := summarizeCourses(ctx, s.store, courses, false)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(courses))
	for i, c := range courses {
		ids[i] = c.ID
	}
	chapters, err := s.store.CountChapters(ctx, ids)
	if err != nil {
		return nil, err
	}
	students, err := s.store.CountEnrollments(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]TeachingCourse, len(summaries))
	for i, sum := range summaries {
		out[i] = TeachingCourse{
			CourseSummary: sum,
			ChaptersCount: chapters[sum.ID],
			StudentsCount: students[sum.ID],
		}
	}
	return out, nil
}

func (s *CourseService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CourseService) CreateCategory(ctx context.Context, actor Actor, name string) (*models.Category, error) {
	if !canManageCategories(actor.Role) {
		return nil, ErrAdminOnly
	}
	name = strings.TrimSpace(name)
	switch {
	case name == "":
		return nil, validationf("Name is required")
	case utf8.RuneCountInString(name) > models.MaxCategoryNameLength:
		return nil, validationf("Name must be at most %d characters", models.MaxCategoryNameLength)
	}
	category := &models.Category{Name: name, Slug: slug.Make(name)}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}
	return category, nil
}

func (s *CourseService) checkCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.store.CategoryExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCategoryNotFound
	}
	return nil
}

// buildTrees validates the payload and assigns order_index = position+1 at
// both levels.
func buildTrees(in []ChapterInput) ([]repository.ChapterTree, error) {
	trees := make([]repository.ChapterTree, 0, len(in))
	for i, ch := range in {
		title := strings.TrimSpace(ch.Title)
		if err := checkTitle(title); err != nil {
			return nil, validationf("Chapter %d: %s", i+1, err.Error())
		}
		tree := repository.ChapterTree{
			Chapter: models.Chapter{Title: title, OrderIndex: i + 1},
			Lessons: make([]models.Lesson, 0, len(ch.Lessons)),
		}
		for j, l := range ch.Lessons {
			lesson, err := buildLesson(l, j+1)
			if err != nil {
				return nil, validationf("Chapter %d, lesson %d: %s", i+1, j+1, err.Error())
			}
			tree.Lessons = append(tree.Lessons, lesson)
		}
		trees = append(trees, tree)
	}
	return trees, nil
}

func buildLesson(in LessonInput, order int) (models.Lesson, error) {
	lesson := models.Lesson{
		Title:           strings.TrimSpace(in.Title),
		ContentType:     models.ContentVideo,
		VideoURL:        trimmedOrNil(in.VideoURL),
		ContentText:     trimmedOrNil(in.ContentText),
		DurationSeconds: in.DurationSeconds,
		IsPreview:       in.IsPreview,
		OrderIndex:      order,
	}
	if in.ContentType != "" {
		lesson.ContentType = models.ContentType(in.ContentType)
	}
	if err := checkTitle(lesson.Title); err != nil {
		return lesson, err
	}
	switch {
	case !lesson.ContentType.Valid():
		return lesson, errors.New("content_type must be video or document")
	case lesson.ContentType == models.ContentVideo && lesson.VideoURL == nil:
		return lesson, errors.New("video_url is required for video lessons")
	case lesson.DurationSeconds < 0:
		return lesson, errors.New("duration_seconds must not be negative")
	}
	return lesson, nil
}

func checkTitle(title string) error {
	switch {
	case title == "":
		return validationf("Title is required")
	case utf8.RuneCountInString(title) > models.MaxTitleLength:
		return validationf("Title must be at most %d characters", models.MaxTitleLength)
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
