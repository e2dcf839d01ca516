package repository

import (
	"context"
	"time"

	"github.com/fcode/course-platform-backend/models"
)

func (s *GormStore) CreateMessage(ctx context.Context, msg *models.ChatMessage) error {
	return translate(s.db.WithContext(ctx).Create(msg).Error)
}

func (s *GormStore) ListRecentMessages(ctx context.Context, limit int) ([]models.ChatMessage, error) {
	var msgs []models.ChatMessage
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&msgs).Error
	if err != nil {
		return nil, translate(err)
	}
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

func (s *GormStore) DeleteMessagesBefore(ctx context.Context, t time.Time) (int64, error) {
	res := s.db.WithContext(ctx).Where("created_at < ?", t).Delete(&models.ChatMessage{})
	return res.RowsAffected, translate(res.Error)
}
