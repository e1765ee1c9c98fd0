package domain

import (
	"context"
	"time"
)

type Comment struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Content        string     `gorm:"type:text;not null" json:"content"`
	UserID         uint       `gorm:"not null;index" json:"userId"`
	ConversationID uint       `gorm:"not null;index" json:"conversationId"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

func (Comment) TableName() string { return "comments" }

type CommentRepository interface {
	AddComment(ctx context.Context, userID, conversationID uint, content string) (*Comment, error)
}
