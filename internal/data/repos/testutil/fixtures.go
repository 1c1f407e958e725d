package testutil

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/qnadesk/gephi-export/internal/domain"
)

func SeedMacrotopic(tb testing.TB, ctx context.Context, tx *gorm.DB, id int64, name string, status int) *domain.Macrotopic {
	tb.Helper()
	m := &domain.Macrotopic{
		ID:     id,
		Name:   name,
		Status: status,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed macrotopic: %v", err)
	}
	return m
}

func SeedTopic(tb testing.TB, ctx context.Context, tx *gorm.DB, id int64, name string, macrotopicID int64, status int) *domain.Topic {
	tb.Helper()
	topic := &domain.Topic{
		ID:           id,
		Name:         name,
		MacrotopicID: macrotopicID,
		Status:       status,
	}
	if err := tx.WithContext(ctx).Create(topic).Error; err != nil {
		tb.Fatalf("seed topic: %v", err)
	}
	return topic
}

func SeedSubtopic(tb testing.TB, ctx context.Context, tx *gorm.DB, id int64, name string, topicID int64, status int) *domain.QnaSubtopic {
	tb.Helper()
	s := &domain.QnaSubtopic{
		ID:      id,
		Name:    name,
		TopicID: topicID,
		Status:  status,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed subtopic: %v", err)
	}
	return s
}
