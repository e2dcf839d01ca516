package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/repository"
)

// EnrollmentService gates lesson content and progress behind enrollment.
// Enrollment is looked up on every call and never cached.
type EnrollmentService struct {
	store repository.Store
}

func NewEnrollmentService(store repository.Store) *EnrollmentService {
	return &EnrollmentService{store: store}
}

func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	if _, err := getCourse(ctx, s.store, courseID); err != nil {
		return nil, err
	}
	enrolled, err := s.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, ErrEnrollmentExists
	}

	enrollment := &models.Enrollment{UserID: userID, CourseID: courseID}
	if err := s.store.CreateEnrollment(ctx, enrollment); err != nil {
		// A concurrent enroll for the same pair won the unique index.
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEnrollmentExists
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	_, err := s.store.GetEnrollment(ctx, userID, courseID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repository.ErrNotFound):
		return false, nil
	}
	return false, err
}

func (s *EnrollmentService) requireEnrollment(ctx context.Context, userID, courseID uuid.UUID) error {
	enrolled, err := s.IsEnrolled(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return ErrEnrollmentRequired
	}
	return nil
}

// GetEnrolledCourseDetail returns the full tree with the caller's progress on
// every lesson. Enrollment is checked before the course is loaded.
func (s *EnrollmentService) GetEnrolledCourseDetail(ctx context.Context, userID, courseID uuid.UUID) (*EnrolledCourseDetail, error) {
	if err := s.requireEnrollment(ctx, userID, courseID); err != nil {
		return nil, err
	}
	course, err := getCourse(ctx, s.store, courseID)
	if err != nil {
		return nil, err
	}
	summary, err := summarizeCourse(ctx, s.store, course)
	if err != nil {
		return nil, err
	}
	chapters, err := s.progressTree(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return &EnrolledCourseDetail{
		CourseSummary: summary,
		Chapters:      chapters,
		Summary:       Summarize(chapters),
	}, nil
}

// progressTree loads the course tree and the user's progress for all of its
// lessons in a single query, then merges them.
func (s *EnrollmentService) progressTree(ctx context.Context, userID, courseID uuid.UUID) ([]EnrolledChapter, error) {
	chapters, lessons, err := loadTree(ctx, s.store, courseID)
	if err != nil {
		return nil, err
	}
	progress, err := s.store.ListProgress(ctx, userID, lessonIDs(lessons))
	if err != nil {
		return nil, err
	}
	return MergeProgress(chapters, lessons, progress), nil
}

// resolveLesson finds the lesson, its chapter and course, and checks the
// caller is enrolled in that course.
func (s *EnrollmentService) resolveLesson(ctx context.Context, userID, lessonID uuid.UUID) (*models.Lesson, *models.Chapter, error) {
	lesson, err := s.store.GetLesson(ctx, lessonID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	chapter, err := s.store.GetChapter(ctx, lesson.ChapterID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if err := s.requireEnrollment(ctx, userID, chapter.CourseID); err != nil {
		return nil, nil, err
	}
	return lesson, chapter, nil
}

func (s *EnrollmentService) GetLessonDetail(ctx context.Context, userID, lessonID uuid.UUID) (*LessonDetail, error) {
	lesson, chapter, err := s.resolveLesson(ctx, userID, lessonID)
	if err != nil {
		return nil, err
	}
	var state ProgressState
	p, err := s.store.GetProgress(ctx, userID, lessonID)
	switch {
	case err == nil:
		state = ProgressState{IsCompleted: p.IsCompleted, LastWatchedSecond: p.LastWatchedSecond}
	case !errors.Is(err, repository.ErrNotFound):
		return nil, err
	}
	return &LessonDetail{
		LessonWithProgress: LessonWithProgress{Lesson: *lesson, Progress: state},
		CourseID:           chapter.CourseID,
		ChapterTitle:       chapter.Title,
	}, nil
}

// MarkLessonComplete sets is_completed. The flag is never cleared afterwards.
func (s *EnrollmentService) MarkLessonComplete(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error) {
	if _, _, err := s.resolveLesson(ctx, userID, lessonID); err != nil {
		return nil, err
	}
	return s.store.MarkComplete(ctx, userID, lessonID)
}

// UpdateLessonProgress stores the playback position. Missing or negative
// values are stored as 0.
func (s *EnrollmentService) UpdateLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, lastWatchedSecond *int) (*models.LessonProgress, error) {
	if _, _, err := s.resolveLesson(ctx, userID, lessonID); err != nil {
		return nil, err
	}
	second := 0
	if lastWatchedSecond != nil && *lastWatchedSecond > 0 {
		second = *lastWatchedSecond
	}
	return s.store.SaveWatchPosition(ctx, userID, lessonID, second)
}

const summaryWorkers = 4

// ListMyEnrolledCourses returns enrolled courses, newest enrollment first,
// each with a completed/total lesson count.
func (s *EnrollmentService) ListMyEnrolledCourses(ctx context.Context, userID uuid.UUID) ([]EnrolledCourse, error) {
	enrollments, err := s.store.ListEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(enrollments))
	for i, e := range enrollments {
		ids[i] = e.CourseID
	}
	byID, err := s.store.ListCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	courses := make([]models.Course, 0, len(enrollments))
	enrolledAt := make([]models.Enrollment, 0, len(enrollments))
	for _, e := range enrollments {
		if c, ok := byID[e.CourseID]; ok {
			courses = append(courses, c)
			enrolledAt = append(enrolledAt, e)
		}
	}
	summaries, err := summarizeCourses(ctx, s.store, courses, false)
	if err != nil {
		return nil, err
	}

	out := make([]EnrolledCourse, len(summaries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(summaryWorkers)
	for i := range summaries {
		i := i
		g.Go(func() error {
			tree, err := s.progressTree(gctx, userID, summaries[i].ID)
			if err != nil {
				return err
			}
			out[i] = EnrolledCourse{
				CourseSummary: summaries[i],
				EnrolledAt:    enrolledAt[i].CreatedAt,
				Progress:      Summarize(tree),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
