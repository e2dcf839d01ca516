package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
)

func (s *GormStore) CreateEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	return translate(s.db.WithContext(ctx).Create(enrollment).Error)
}

func (s *GormStore) GetEnrollment(ctx context.Context, userID, courseID uuid.UUID) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &enrollment, nil
}

func (s *GormStore) ListEnrollmentsByUser(ctx context.Context, userID uuid.UUID) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, translate(err)
	}
	return enrollments, nil
}

func (s *GormStore) CountEnrollments(ctx context.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	return s.countByCourse(ctx, &models.Enrollment{}, courseIDs)
}
