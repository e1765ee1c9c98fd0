package service

import (
	"time"

	"go-forum-api/internal/domain"
)

// 对外 DTO：实体不直接过传输层，全部经这里映射

type CreatedUserDTO struct {
	ID       uint   `json:"id"`
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthenticatedUserDTO struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TopicDTO struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type CommentDTO struct {
	ID             uint      `json:"id"`
	Content        string    `json:"content"`
	UserID         uint      `json:"userId"`
	Username       string    `json:"username"`
	ConversationID uint      `json:"conversationId"`
	CreatedAt      time.Time `json:"createdAt"`
}

type ConversationDTO struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	IsPinned     bool      `json:"isPinned"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Username     string    `json:"username"`
	Topic        *TopicDTO `json:"topic"`
	CommentCount int64     `json:"commentCount"`
}

type ConversationDetailsDTO struct {
	ConversationDTO
	Comments []CommentDTO `json:"comments"`
}

type ConversationPageDTO struct {
	Conversations []ConversationDTO `json:"conversations"`
	TotalPages    int               `json:"totalPages"`
	CurrentPage   int               `json:"currentPage"`
}

func toCreatedUserDTO(u *domain.User) CreatedUserDTO {
	return CreatedUserDTO{ID: u.ID, FullName: u.FullName, Username: u.Username, Email: u.Email}
}

func toAuthenticatedUserDTO(u *domain.User) AuthenticatedUserDTO {
	return AuthenticatedUserDTO{ID: u.ID, Username: u.Username, Email: u.Email}
}

func toTopicDTO(t *domain.Topic) *TopicDTO {
	if t == nil {
		return nil
	}
	return &TopicDTO{ID: t.ID, Name: t.Name, Description: t.Description}
}

func toCommentDTO(c *domain.Comment, username string) CommentDTO {
	return CommentDTO{
		ID:             c.ID,
		Content:        c.Content,
		UserID:         c.UserID,
		Username:       username,
		ConversationID: c.ConversationID,
		CreatedAt:      c.CreatedAt,
	}
}

func toConversationDTO(c *domain.Conversation, owner *domain.User, topic *domain.Topic, commentCount int64) ConversationDTO {
	username := ""
	if owner != nil {
		username = owner.Username
	}
	return ConversationDTO{
		ID:           c.ID,
		Title:        c.Title,
		Content:      c.Content,
		IsPinned:     c.IsPinned,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
		Username:     username,
		Topic:        toTopicDTO(topic),
		CommentCount: commentCount,
	}
}
