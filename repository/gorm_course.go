package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fcode/course-platform-backend/models"
)

type courseCount struct {
	CourseID uuid.UUID
	Count    int64
}

func (s *GormStore) CreateCourse(ctx context.Context, course *models.Course, content []ChapterTree) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(course).Error; err != nil {
			return err
		}
		return insertContent(tx, course.ID, content)
	}))
}

func (s *GormStore) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var course models.Course
	if err := s.db.WithContext(ctx).First(&course, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

func (s *GormStore) ListCourses(ctx context.Context) ([]models.Course, error) {
	var courses []models.Course
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, translate(err)
	}
	return courses, nil
}

func (s *GormStore) ListCoursesByTeacher(ctx context.Context, teacherID uuid.UUID) ([]models.Course, error) {
	var courses []models.Course
	err := s.db.WithContext(ctx).
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses).Error
	if err != nil {
		return nil, translate(err)
	}
	return courses, nil
}

func (s *GormStore) ListCoursesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Course, error) {
	out := make(map[uuid.UUID]models.Course, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var courses []models.Course
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, translate(err)
	}
	for _, c := range courses {
		out[c.ID] = c
	}
	return out, nil
}

func (s *GormStore) UpdateCourse(ctx context.Context, course *models.Course, content []ChapterTree) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Course{}).
			Where("id = ?", course.ID).
			Updates(map[string]interface{}{
				"title":         course.Title,
				"description":   course.Description,
				"thumbnail_url": course.ThumbnailURL,
				"price":         course.Price,
				"level":         course.Level,
				"category_id":   course.CategoryID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if content == nil {
			return nil
		}
		if err := deleteContent(tx, course.ID, false); err != nil {
			return err
		}
		return insertContent(tx, course.ID, content)
	}))
}

func (s *GormStore) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	return translate(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteContent(tx, id, true); err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

// deleteContent removes the chapters and lessons of a course. Progress rows of
// those lessons are removed only when withProgress is set; a content replace
// leaves them orphaned.
func deleteContent(tx *gorm.DB, courseID uuid.UUID, withProgress bool) error {
	var chapterIDs []uuid.UUID
	if err := tx.Model(&models.Chapter{}).Where("course_id = ?", courseID).Pluck("id", &chapterIDs).Error; err != nil {
		return err
	}
	if len(chapterIDs) == 0 {
		return nil
	}
	if withProgress {
		var lessonIDs []uuid.UUID
		if err := tx.Model(&models.Lesson{}).Where("chapter_id IN ?", chapterIDs).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&models.LessonProgress{}).Error; err != nil {
				return err
			}
		}
	}
	if err := tx.Where("chapter_id IN ?", chapterIDs).Delete(&models.Lesson{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", chapterIDs).Delete(&models.Chapter{}).Error
}

func (s *GormStore) ListChapters(ctx context.Context, courseID uuid.UUID) ([]models.Chapter, error) {
	var chapters []models.Chapter
	err := s.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("order_index ASC").
		Find(&chapters).Error
	if err != nil {
		return nil, translate(err)
	}
	return chapters, nil
}

func (s *GormStore) ListLessons(ctx context.Context, chapterIDs []uuid.UUID) ([]models.Lesson, error) {
	if len(chapterIDs) == 0 {
		return nil, nil
	}
	var lessons []models.Lesson
	err := s.db.WithContext(ctx).
		Where("chapter_id IN ?", chapterIDs).
		Order("order_index ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, translate(err)
	}
	return lessons, nil
}

func (s *GormStore) CountChapters(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return s.countByCourse(ctx, &models.Chapter{}, courseIDs)
}

func (s *GormStore) countByCourse(ctx context.Context, model interface{}, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []courseCount
	err := s.db.WithContext(ctx).Model(model).
		Select("course_id, COUNT(*) AS count").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	for _, r := range rows {
		out[r.CourseID] = r.Count
	}
	return out, nil
}

func (s *GormStore) GetChapter(ctx context.Context, id uuid.UUID) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := s.db.WithContext(ctx).First(&chapter, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &chapter, nil
}

func (s *GormStore) GetLesson(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.WithContext(ctx).First(&lesson, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &lesson, nil
}

func insertContent(tx *gorm.DB, courseID uuid.UUID, trees []ChapterTree) error {
	for i := range trees {
		chapter := &trees[i].Chapter
		chapter.CourseID = courseID
		if err := tx.Create(chapter).Error; err != nil {
			return err
		}
		for j := range trees[i].Lessons {
			lesson := &trees[i].Lessons[j]
			lesson.ChapterID = chapter.ID
			if err := tx.Create(lesson).Error; err != nil {
				return err
			}
		}
	}
	return nil
}
