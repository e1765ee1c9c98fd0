package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-forum-api/internal/domain"
	"go-forum-api/internal/repo"
	"go-forum-api/internal/sse"
)

type forumFixture struct {
	db       *gorm.DB
	users    *UserService
	convs    *ConversationService
	comments *CommentService
	mail     *fakeMailer
	broker   *sse.Broker
}

func newForumFixture(t *testing.T) *forumFixture {
	t.Helper()
	db := newTestDB(t)
	userRepo := repo.NewUserRepo(db)
	convRepo := repo.NewConversationRepo(db)
	commentRepo := repo.NewCommentRepo(db)
	mail := &fakeMailer{}
	broker := sse.NewBroker()
	t.Cleanup(broker.Close)
	return &forumFixture{
		db:       db,
		users:    NewUserService(userRepo, mail, zap.NewNop()),
		convs:    NewConversationService(convRepo, userRepo, nil),
		comments: NewCommentService(commentRepo, userRepo, broker),
		mail:     mail,
		broker:   broker,
	}
}

func (f *forumFixture) registerVerified(t *testing.T, username, email string) *CreatedUserDTO {
	t.Helper()
	ctx := context.Background()
	dto, err := f.users.Register(ctx, registerInput(username, email))
	require.NoError(t, err)
	require.NoError(t, f.users.VerifyEmail(ctx, f.mail.lastSent(t).Token))
	return dto
}

func (f *forumFixture) seedConversation(t *testing.T, userID uint, topicID *uint, title string, createdAt time.Time) *domain.Conversation {
	t.Helper()
	c := &domain.Conversation{
		Title:     title,
		Content:   "content of " + title,
		UserID:    userID,
		TopicID:   topicID,
		CreatedAt: createdAt,
	}
	require.NoError(t, f.db.Create(c).Error)
	return c
}

func TestGetConversationsPaging(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	owner := f.registerVerified(t, "owner", "owner@example.com")
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		f.seedConversation(t, owner.ID, nil, string(rune('a'+i)), base.Add(time.Duration(i)*time.Hour))
	}

	page, err := f.convs.GetConversations(ctx, 1, 3, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 3, page.TotalPages) // ceil(7/3)
	require.Len(t, page.Conversations, 3)
	assert.Equal(t, "g", page.Conversations[0].Title)
	assert.Equal(t, "owner", page.Conversations[0].Username)

	last, err := f.convs.GetConversations(ctx, 3, 3, nil)
	require.NoError(t, err)
	require.Len(t, last.Conversations, 1)
	assert.Equal(t, "a", last.Conversations[0].Title)

	// 页号越界：空页，但 totalPages 仍按 count 算
	beyond, err := f.convs.GetConversations(ctx, 9, 3, nil)
	require.NoError(t, err)
	assert.Empty(t, beyond.Conversations)
	assert.Equal(t, 3, beyond.TotalPages)
	assert.Equal(t, 9, beyond.CurrentPage)
}

func TestGetConversationsTopicFilter(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	owner := f.registerVerified(t, "owner", "owner@example.com")
	topic := &domain.Topic{Name: "Technology"}
	require.NoError(t, f.db.Create(topic).Error)
	empty := &domain.Topic{Name: "Programming"}
	require.NoError(t, f.db.Create(empty).Error)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	f.seedConversation(t, owner.ID, &topic.ID, "tech talk", now)
	f.seedConversation(t, owner.ID, nil, "misc", now.Add(time.Minute))

	page, err := f.convs.GetConversations(ctx, 1, 10, &topic.ID)
	require.NoError(t, err)
	require.Len(t, page.Conversations, 1)
	assert.Equal(t, "tech talk", page.Conversations[0].Title)
	require.NotNil(t, page.Conversations[0].Topic)
	assert.Equal(t, "Technology", page.Conversations[0].Topic.Name)

	none, err := f.convs.GetConversations(ctx, 1, 10, &empty.ID)
	require.NoError(t, err)
	assert.Empty(t, none.Conversations)
	assert.Equal(t, 0, none.TotalPages)
}

func TestGetConversationDetails(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	owner := f.registerVerified(t, "owner", "owner@example.com")
	commenter := f.registerVerified(t, "commenter", "c@example.com")
	topic := &domain.Topic{Name: "Technology"}
	require.NoError(t, f.db.Create(topic).Error)
	conv := f.seedConversation(t, owner.ID, &topic.ID, "tech talk", time.Now())

	_, err := f.comments.AddComment(ctx, owner.ID, conv.ID, "first")
	require.NoError(t, err)
	_, err = f.comments.AddComment(ctx, commenter.ID, conv.ID, "second")
	require.NoError(t, err)

	got, err := f.convs.GetConversationDetails(ctx, conv.ID)
	require.NoError(t, err)
	assert.Equal(t, "tech talk", got.Title)
	assert.Equal(t, "owner", got.Username)
	assert.Equal(t, int64(2), got.CommentCount)
	require.NotNil(t, got.Topic)
	assert.Equal(t, "Technology", got.Topic.Name)

	// 评论升序，且各自带作者用户名
	require.Len(t, got.Comments, 2)
	assert.Equal(t, "first", got.Comments[0].Content)
	assert.Equal(t, "owner", got.Comments[0].Username)
	assert.Equal(t, "second", got.Comments[1].Content)
	assert.Equal(t, "commenter", got.Comments[1].Username)

	_, err = f.convs.GetConversationDetails(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrConversationNotFound)
}

func TestAddCommentRequiresVerifiedEmail(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	owner := f.registerVerified(t, "owner", "owner@example.com")
	conv := f.seedConversation(t, owner.ID, nil, "talk", time.Now())

	john, err := f.users.Register(ctx, registerInput("johndoe", "john@example.com"))
	require.NoError(t, err)
	johnToken := f.mail.lastSent(t).Token

	_, err = f.comments.AddComment(ctx, john.ID, conv.ID, "hello")
	assert.ErrorIs(t, err, domain.ErrEmailNotVerified)

	require.NoError(t, f.users.VerifyEmail(ctx, johnToken))
	dto, err := f.comments.AddComment(ctx, john.ID, conv.ID, "hello")
	require.NoError(t, err)
	assert.Equal(t, "johndoe", dto.Username)

	_, err = f.comments.AddComment(ctx, 9999, conv.ID, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestAddCommentPublishesEvent(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	owner := f.registerVerified(t, "owner", "owner@example.com")
	conv := f.seedConversation(t, owner.ID, nil, "talk", time.Now())
	other := f.seedConversation(t, owner.ID, nil, "other", time.Now())

	sub := f.broker.Subscribe(conv.ID)
	defer f.broker.Unsubscribe(sub)

	dto, err := f.comments.AddComment(ctx, owner.ID, conv.ID, "hello")
	require.NoError(t, err)

	select {
	case ev := <-sub.C():
		assert.Equal(t, "comment", ev.Name)
		got, ok := ev.Data.(CommentDTO)
		require.True(t, ok)
		assert.Equal(t, dto.ID, got.ID)
		assert.Equal(t, "hello", got.Content)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	// 别的会话的评论不会串台
	_, err = f.comments.AddComment(ctx, owner.ID, other.ID, "elsewhere")
	require.NoError(t, err)
	select {
	case ev := <-sub.C():
		t.Fatalf("unexpected event: %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSetPinned(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	owner := f.registerVerified(t, "owner", "owner@example.com")
	conv := f.seedConversation(t, owner.ID, nil, "talk", time.Now())

	require.NoError(t, f.convs.SetPinned(ctx, conv.ID, true))
	got, err := f.convs.GetConversationDetails(ctx, conv.ID)
	require.NoError(t, err)
	assert.True(t, got.IsPinned)

	assert.ErrorIs(t, f.convs.SetPinned(ctx, 9999, true), domain.ErrConversationNotFound)
}

func TestListTopicsWithoutCache(t *testing.T) {
	f := newForumFixture(t)
	ctx := context.Background()

	require.NoError(t, repo.SeedTopics(f.db))
	topics, err := f.convs.ListTopics(ctx)
	require.NoError(t, err)
	require.Len(t, topics, 2)
	assert.Equal(t, "Technology", topics[0].Name)
	assert.Equal(t, "Programming", topics[1].Name)
}
