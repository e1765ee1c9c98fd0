package domain

import (
	"context"
	"time"
)

type User struct {
	ID                         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName                   string     `gorm:"column:full_name;size:128;not null" json:"fullName"`
	Username                   string     `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Email                      string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash               string     `gorm:"size:100;not null" json:"-"`
	EmailVerified              bool       `gorm:"not null;default:false" json:"emailVerified"`
	VerificationToken          *string    `gorm:"size:64;index" json:"-"`
	VerificationTokenExpiresAt *time.Time `json:"-"`
	RememberMeToken            *string    `gorm:"size:64;index" json:"-"`
	CreatedAt                  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt                  time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

type UserRepository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	SetVerificationToken(ctx context.Context, userID uint, token string, expiresAt time.Time) error
	GetByVerificationToken(ctx context.Context, token string) (*User, error)
	UpdateEmailVerification(ctx context.Context, userID uint, verified bool) error
	SetRememberMeToken(ctx context.Context, userID uint, token *string) error
	GetUserByRememberMeToken(ctx context.Context, token string) (*User, error)
	ListUsers(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	// WithTx 把 user + token 写入包进同一事务（注册用）
	WithTx(fn func(tx UserRepository) error) error
}
