package repo

import (
	"context"

	"gorm.io/gorm"

	"go-forum-api/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func NewCommentRepo(db *gorm.DB) *CommentRepo { return &CommentRepo{db: db} }

func (r *CommentRepo) AddComment(ctx context.Context, userID, conversationID uint, content string) (*domain.Comment, error) {
	c := &domain.Comment{
		Content:        content,
		UserID:         userID,
		ConversationID: conversationID,
	}
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}
