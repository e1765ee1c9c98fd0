package domain

import (
	"context"
	"time"
)

type Conversation struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	IsPinned  bool      `gorm:"not null;default:false" json:"isPinned"`
	UserID    uint      `gorm:"not null;index" json:"userId"`
	TopicID   *uint     `gorm:"index" json:"topicId"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Conversation) TableName() string { return "conversations" }

type Topic struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"size:64;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
}

func (Topic) TableName() string { return "topics" }

type ConversationRepository interface {
	GetConversations(ctx context.Context, page, limit int, topicID *uint) ([]Conversation, int64, error)
	GetConversationDetails(ctx context.Context, id uint) (*Conversation, error)
	GetUserForConversation(ctx context.Context, id uint) (*User, error)
	GetTopicForConversation(ctx context.Context, id uint) (*Topic, error)
	GetCommentCountForConversation(ctx context.Context, id uint) (int64, error)
	GetCommentsForConversation(ctx context.Context, id uint) ([]Comment, error)
	SetPinned(ctx context.Context, id uint, pinned bool) error
	ListTopics(ctx context.Context) ([]Topic, error)
}
