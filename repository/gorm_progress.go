package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/fcode/course-platform-backend/models"
)

var progressKey = []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}}

func (s *GormStore) GetProgress(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error) {
	var progress models.LessonProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	if err != nil {
		return nil, translate(err)
	}
	return &progress, nil
}

func (s *GormStore) ListProgress(ctx context.Context, userID uuid.UUID, lessonIDs []uuid.UUID) ([]models.LessonProgress, error) {
	if len(lessonIDs) == 0 {
		return nil, nil
	}
	var rows []models.LessonProgress
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&rows).Error
	if err != nil {
		return nil, translate(err)
	}
	return rows, nil
}

func (s *GormStore) MarkComplete(ctx context.Context, userID, lessonID uuid.UUID) (*models.LessonProgress, error) {
	row := models.LessonProgress{UserID: userID, LessonID: lessonID, IsCompleted: true}
	return s.upsertProgress(ctx, &row, map[string]interface{}{
		"is_completed": true,
		"updated_at":   time.Now(),
	})
}

func (s *GormStore) SaveWatchPosition(ctx context.Context, userID, lessonID uuid.UUID, second int) (*models.LessonProgress, error) {
	row := models.LessonProgress{UserID: userID, LessonID: lessonID, LastWatchedSecond: second}
	return s.upsertProgress(ctx, &row, map[string]interface{}{
		"last_watched_second": second,
		"updated_at":          time.Now(),
	})
}

// upsertProgress relies on idx_user_lesson so concurrent first writes for the
// same pair collapse into one row.
func (s *GormStore) upsertProgress(ctx context.Context, row *models.LessonProgress, updates map[string]interface{}) (*models.LessonProgress, error) {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   progressKey,
		DoUpdates: clause.Assignments(updates),
	}).Create(row).Error
	if err != nil {
		return nil, translate(err)
	}
	return s.GetProgress(ctx, row.UserID, row.LessonID)
}
