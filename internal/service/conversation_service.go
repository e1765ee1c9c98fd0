package service

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"go-forum-api/internal/core/cache"
	"go-forum-api/internal/domain"
)

const topicsCacheKey = "forum:topics"

type ConversationService struct {
	conversations domain.ConversationRepository
	users         domain.UserRepository
	cache         *cache.Cache // 可为 nil（未配 redis 时直读库）
}

func NewConversationService(conversations domain.ConversationRepository, users domain.UserRepository, c *cache.Cache) *ConversationService {
	return &ConversationService{conversations: conversations, users: users, cache: c}
}

// GetConversations 取一页 + 总数，再对页内每条并发补齐 owner/topic/评论数
func (s *ConversationService) GetConversations(ctx context.Context, page, limit int, topicID *uint) (*ConversationPageDTO, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	items, totalItems, err := s.conversations.GetConversations(ctx, page, limit, topicID)
	if err != nil {
		return nil, err
	}
	// totalPages 只看 count，页内空（越界页）不归零
	totalPages := int(math.Ceil(float64(totalItems) / float64(limit)))
	if len(items) == 0 {
		return &ConversationPageDTO{Conversations: []ConversationDTO{}, TotalPages: totalPages, CurrentPage: page}, nil
	}

	dtos := make([]ConversationDTO, len(items))
	g, gctx := errgroup.WithContext(ctx)
	for i := range items {
		i := i
		g.Go(func() error {
			conv := &items[i]
			owner, err := s.conversations.GetUserForConversation(gctx, conv.ID)
			if err != nil {
				return err
			}
			topic, err := s.conversations.GetTopicForConversation(gctx, conv.ID)
			if err != nil {
				return err
			}
			count, err := s.conversations.GetCommentCountForConversation(gctx, conv.ID)
			if err != nil {
				return err
			}
			dtos[i] = toConversationDTO(conv, owner, topic, count)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &ConversationPageDTO{Conversations: dtos, TotalPages: totalPages, CurrentPage: page}, nil
}

// GetConversationDetails 会话/作者/主题/评论四路并发取
func (s *ConversationService) GetConversationDetails(ctx context.Context, id uint) (*ConversationDetailsDTO, error) {
	var (
		conv     *domain.Conversation
		owner    *domain.User
		topic    *domain.Topic
		comments []domain.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { conv, err = s.conversations.GetConversationDetails(gctx, id); return })
	g.Go(func() (err error) { owner, err = s.conversations.GetUserForConversation(gctx, id); return })
	g.Go(func() (err error) { topic, err = s.conversations.GetTopicForConversation(gctx, id); return })
	g.Go(func() (err error) { comments, err = s.conversations.GetCommentsForConversation(gctx, id); return })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, domain.ErrConversationNotFound
	}
	if owner == nil {
		return nil, domain.ErrOwnerNotFound
	}

	// 同一作者多条评论只查一次
	usernames := map[uint]string{owner.ID: owner.Username}
	commentDTOs := make([]CommentDTO, 0, len(comments))
	for i := range comments {
		name, ok := usernames[comments[i].UserID]
		if !ok {
			author, err := s.users.GetUserByID(ctx, comments[i].UserID)
			if err != nil {
				return nil, err
			}
			if author != nil {
				name = author.Username
			}
			usernames[comments[i].UserID] = name
		}
		commentDTOs = append(commentDTOs, toCommentDTO(&comments[i], name))
	}

	return &ConversationDetailsDTO{
		ConversationDTO: toConversationDTO(conv, owner, topic, int64(len(comments))),
		Comments:        commentDTOs,
	}, nil
}

func (s *ConversationService) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return s.conversations.SetPinned(ctx, id, pinned)
}

// ListTopics 静态参照数据，redis 缓存 5 分钟；无缓存时直读
func (s *ConversationService) ListTopics(ctx context.Context) ([]TopicDTO, error) {
	load := func(ctx context.Context) (*[]TopicDTO, error) {
		topics, err := s.conversations.ListTopics(ctx)
		if err != nil {
			return nil, err
		}
		dtos := make([]TopicDTO, 0, len(topics))
		for i := range topics {
			dtos = append(dtos, *toTopicDTO(&topics[i]))
		}
		return &dtos, nil
	}
	if s.cache == nil {
		dtos, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return *dtos, nil
	}
	dtos, err := cache.GetOrLoadJSON(s.cache, ctx, topicsCacheKey, 5*time.Minute, load)
	if err != nil {
		return nil, err
	}
	return *dtos, nil
}
