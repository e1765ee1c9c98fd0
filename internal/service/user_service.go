package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"go-forum-api/internal/domain"
	"go-forum-api/internal/mailer"
	"go-forum-api/pkg/utils"
)

const verificationTokenTTL = 24 * time.Hour

type UserService struct {
	users  domain.UserRepository
	mail   mailer.Sender
	logger *zap.Logger
}

func NewUserService(users domain.UserRepository, mail mailer.Sender, logger *zap.Logger) *UserService {
	return &UserService{users: users, mail: mail, logger: logger}
}

type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// Register 注册：查重 -> 哈希 -> user + 验证 token 同一事务 -> 提交后发邮件
// 邮件失败向上传播，用户行保留（见 DESIGN.md 的补偿说明）
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*CreatedUserDTO, error) {
	if existing, err := s.users.GetUserByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailTaken
	}
	if existing, err := s.users.GetUserByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUsernameTaken
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	token, err := utils.NewSecureToken()
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		FullName:      in.FullName,
		Username:      in.Username,
		Email:         in.Email,
		PasswordHash:  hash,
		EmailVerified: false,
	}
	err = s.users.WithTx(func(tx domain.UserRepository) error {
		if err := tx.CreateUser(ctx, u); err != nil {
			return err
		}
		return tx.SetVerificationToken(ctx, u.ID, token, time.Now().Add(verificationTokenTTL))
	})
	if err != nil {
		return nil, err
	}

	if err := s.mail.SendVerificationEmail(u.Email, token); err != nil {
		s.logger.Error("verification email send failed",
			zap.Uint("user_id", u.ID), zap.Error(err))
		return nil, err
	}

	dto := toCreatedUserDTO(u)
	return &dto, nil
}

func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if u == nil {
		return domain.ErrInvalidToken
	}
	if u.VerificationTokenExpiresAt != nil && time.Now().After(*u.VerificationTokenExpiresAt) {
		return domain.ErrTokenExpired
	}
	return s.users.UpdateEmailVerification(ctx, u.ID, true)
}

// Authenticate 用户名或密码不匹配统一返回 ErrInvalidCredentials，不区分哪个错
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*AuthenticatedUserDTO, error) {
	u, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || u.PasswordHash == "" {
		return nil, domain.ErrInvalidCredentials
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	dto := toAuthenticatedUserDTO(u)
	return &dto, nil
}

// IssueRememberMeToken 登录勾选 remember-me 时签发并持久化
func (s *UserService) IssueRememberMeToken(ctx context.Context, userID uint) (string, error) {
	token, err := utils.NewSecureToken()
	if err != nil {
		return "", err
	}
	if err := s.users.SetRememberMeToken(ctx, userID, &token); err != nil {
		return "", err
	}
	return token, nil
}

func (s *UserService) AuthenticateByRememberMeToken(ctx context.Context, token string) (*AuthenticatedUserDTO, error) {
	u, err := s.users.GetUserByRememberMeToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrInvalidCredentials
	}
	dto := toAuthenticatedUserDTO(u)
	return &dto, nil
}

func (s *UserService) ClearRememberMeToken(ctx context.Context, userID uint) error {
	return s.users.SetRememberMeToken(ctx, userID, nil)
}

type UserRow struct {
	ID            uint      `json:"id"`
	FullName      string    `json:"fullName"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

type UserListDTO struct {
	Total int64     `json:"total"`
	Items []UserRow `json:"items"`
}

func (s *UserService) ListUsers(ctx context.Context, offset, limit int, q string) (*UserListDTO, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	users, total, err := s.users.ListUsers(ctx, offset, limit, q)
	if err != nil {
		return nil, err
	}
	out := &UserListDTO{Total: total, Items: make([]UserRow, 0, len(users))}
	for _, u := range users {
		out.Items = append(out.Items, UserRow{
			ID: u.ID, FullName: u.FullName, Username: u.Username,
			Email: u.Email, EmailVerified: u.EmailVerified, CreatedAt: u.CreatedAt,
		})
	}
	return out, nil
}
