package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"go-forum-api/internal/domain"
)

type ConversationRepo struct{ db *gorm.DB }

func NewConversationRepo(db *gorm.DB) *ConversationRepo { return &ConversationRepo{db: db} }

// GetConversations 按 created_at 倒序取一页，topicID 条件始终走参数绑定
func (r *ConversationRepo) GetConversations(ctx context.Context, page, limit int, topicID *uint) ([]domain.Conversation, int64, error) {
	tx := r.db.WithContext(ctx).Model(&domain.Conversation{})
	if topicID != nil {
		tx = tx.Where("topic_id = ?", *topicID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	var items []domain.Conversation
	if err := tx.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ConversationRepo) GetConversationDetails(ctx context.Context, id uint) (*domain.Conversation, error) {
	var c domain.Conversation
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &c, err
}

func (r *ConversationRepo) GetUserForConversation(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Joins("JOIN conversations ON conversations.user_id = users.id").
		Where("conversations.id = ?", id).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &u, err
}

func (r *ConversationRepo) GetTopicForConversation(ctx context.Context, id uint) (*domain.Topic, error) {
	var t domain.Topic
	err := r.db.WithContext(ctx).
		Joins("JOIN conversations ON conversations.topic_id = topics.id").
		Where("conversations.id = ?", id).
		First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &t, err
}

func (r *ConversationRepo) GetCommentCountForConversation(ctx context.Context, id uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).
		Where("conversation_id = ?", id).
		Count(&n).Error
	return n, err
}

// GetCommentsForConversation 升序：旧评论在前
func (r *ConversationRepo) GetCommentsForConversation(ctx context.Context, id uint) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", id).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

func (r *ConversationRepo) SetPinned(ctx context.Context, id uint, pinned bool) error {
	res := r.db.WithContext(ctx).Model(&domain.Conversation{}).
		Where("id = ?", id).
		Update("is_pinned", pinned)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConversationNotFound
	}
	return nil
}

func (r *ConversationRepo) ListTopics(ctx context.Context) ([]domain.Topic, error) {
	var topics []domain.Topic
	err := r.db.WithContext(ctx).Order("id ASC").Find(&topics).Error
	return topics, err
}
