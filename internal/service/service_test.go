package service

import (
	"sync"
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

type sentMail struct {
	To    string
	Token string
}

// fakeMailer 记录发送内容，按需模拟失败
type fakeMailer struct {
	mu      sync.Mutex
	sent    []sentMail
	failAll bool
}

func (m *fakeMailer) SendVerificationEmail(to, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errSendFailed
	}
	m.sent = append(m.sent, sentMail{To: to, Token: token})
	return nil
}

func (m *fakeMailer) lastSent(t *testing.T) sentMail {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

type sendError string

func (e sendError) Error() string { return string(e) }

const errSendFailed = sendError("smtp unavailable")
