package service

import (
	"context"

	"go-forum-api/internal/domain"
	"go-forum-api/internal/sse"
)

type CommentService struct {
	comments domain.CommentRepository
	users    domain.UserRepository
	broker   *sse.Broker // 可为 nil（测试或禁用实时推送）
}

func NewCommentService(comments domain.CommentRepository, users domain.UserRepository, broker *sse.Broker) *CommentService {
	return &CommentService{comments: comments, users: users, broker: broker}
}

// AddComment 仅邮箱已验证用户可评论；成功后向该会话的 SSE 订阅者广播
func (s *CommentService) AddComment(ctx context.Context, userID, conversationID uint, content string) (*CommentDTO, error) {
	u, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if !u.EmailVerified {
		return nil, domain.ErrEmailNotVerified
	}

	c, err := s.comments.AddComment(ctx, userID, conversationID, content)
	if err != nil {
		return nil, err
	}

	dto := toCommentDTO(c, u.Username)
	if s.broker != nil {
		s.broker.Publish(conversationID, sse.Event{Name: "comment", Data: dto})
	}
	return &dto, nil
}
