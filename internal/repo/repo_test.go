package repo

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-forum-api/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&domain.User{}, &domain.Topic{}, &domain.Conversation{}, &domain.Comment{},
	))
	return db
}

func mustCreateUser(t *testing.T, db *gorm.DB, username, email string, verified bool) *domain.User {
	t.Helper()
	u := &domain.User{
		FullName:      "Test User",
		Username:      username,
		Email:         email,
		PasswordHash:  "x",
		EmailVerified: verified,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}
