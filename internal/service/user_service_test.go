package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"go-forum-api/internal/domain"
	"go-forum-api/internal/repo"
)

func newUserService(t *testing.T) (*UserService, *fakeMailer, *repo.UserRepo) {
	t.Helper()
	db := newTestDB(t)
	users := repo.NewUserRepo(db)
	mail := &fakeMailer{}
	return NewUserService(users, mail, zap.NewNop()), mail, users
}

func registerInput(username, email string) RegisterInput {
	return RegisterInput{
		FullName: "John Doe",
		Username: username,
		Email:    email,
		Password: "password123",
	}
}

func TestRegisterCreatesUserAndSendsToken(t *testing.T) {
	svc, mail, users := newUserService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, registerInput("johndoe", "john@example.com"))
	require.NoError(t, err)
	require.NotNil(t, dto)
	assert.NotZero(t, dto.ID)
	assert.Equal(t, "johndoe", dto.Username)

	sent := mail.lastSent(t)
	assert.Equal(t, "john@example.com", sent.To)
	require.Len(t, sent.Token, 64)

	u, err := users.GetUserByID(ctx, dto.ID)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.False(t, u.EmailVerified)
	require.NotNil(t, u.VerificationToken)
	assert.Equal(t, sent.Token, *u.VerificationToken)
	require.NotNil(t, u.VerificationTokenExpiresAt)
	ttl := time.Until(*u.VerificationTokenExpiresAt)
	assert.Greater(t, ttl, 23*time.Hour)
	assert.LessOrEqual(t, ttl, 24*time.Hour)
}

func TestRegisterDuplicateEmailAndUsername(t *testing.T) {
	svc, mail, _ := newUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput("johndoe", "john@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerInput("janedoe", "john@example.com"))
	assert.ErrorIs(t, err, domain.ErrEmailTaken)

	_, err = svc.Register(ctx, registerInput("johndoe", "jane@example.com"))
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)

	// 只发出过一封邮件，只落了一行
	assert.Len(t, mail.sent, 1)
	list, err := svc.ListUsers(ctx, 0, 20, "")
	require.NoError(t, err)
	assert.Equal(t, int64(1), list.Total)
}

func TestRegisterMailFailureKeepsUser(t *testing.T) {
	svc, mail, users := newUserService(t)
	ctx := context.Background()
	mail.failAll = true

	_, err := svc.Register(ctx, registerInput("johndoe", "john@example.com"))
	require.Error(t, err)

	// 用户行保留，token 已持久化，可走重发补偿
	u, err := users.GetUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotNil(t, u.VerificationToken)
}

func TestVerifyEmailLifecycle(t *testing.T) {
	svc, mail, users := newUserService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, registerInput("johndoe", "john@example.com"))
	require.NoError(t, err)
	token := mail.lastSent(t).Token

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "no-such-token"), domain.ErrInvalidToken)

	require.NoError(t, svc.VerifyEmail(ctx, token))
	u, err := users.GetUserByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.True(t, u.EmailVerified)
	assert.Nil(t, u.VerificationToken)

	// 一次性：再次使用同一 token 视为无效
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), domain.ErrInvalidToken)
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	svc, mail, users := newUserService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, registerInput("johndoe", "john@example.com"))
	require.NoError(t, err)
	token := mail.lastSent(t).Token

	require.NoError(t, users.SetVerificationToken(ctx, dto.ID, token, time.Now().Add(-time.Minute)))
	assert.ErrorIs(t, svc.VerifyEmail(ctx, token), domain.ErrTokenExpired)

	u, err := users.GetUserByID(ctx, dto.ID)
	require.NoError(t, err)
	assert.False(t, u.EmailVerified)
}

func TestAuthenticate(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, registerInput("johndoe", "john@example.com"))
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "johndoe", "password123")
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)
	assert.Equal(t, "john@example.com", got.Email)

	_, err = svc.Authenticate(ctx, "johndoe", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "password123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestRememberMeTokenFlow(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	dto, err := svc.Register(ctx, registerInput("johndoe", "john@example.com"))
	require.NoError(t, err)

	token, err := svc.IssueRememberMeToken(ctx, dto.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, err := svc.AuthenticateByRememberMeToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, dto.ID, got.ID)

	require.NoError(t, svc.ClearRememberMeToken(ctx, dto.ID))
	_, err = svc.AuthenticateByRememberMeToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}
