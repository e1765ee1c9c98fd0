package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-forum-api/internal/core/auth"
	"go-forum-api/internal/core/cache"
	"go-forum-api/internal/core/config"
	"go-forum-api/internal/core/database"
	"go-forum-api/internal/core/logger"
	"go-forum-api/internal/core/server"
	"go-forum-api/internal/domain"
	"go-forum-api/internal/mailer"
	"go-forum-api/internal/repo"
	"go-forum-api/internal/service"
	"go-forum-api/internal/sse"
	"go-forum-api/internal/transport/http/handler"
	"go-forum-api/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load(os.Getenv("CONFIG_PATH"))
	log, cleanup := newLogger(cfg)
	defer cleanup()

	// 数据库（失败会直接 Fatal）
	db := mustOpenDB(cfg, log)
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrate(
			&domain.User{}, &domain.Topic{}, &domain.Conversation{}, &domain.Comment{},
		); err != nil {
			log.Fatal("automigrate failed", zap.Error(err))
		}
		if err := repo.SeedTopics(db); err != nil {
			log.Fatal("seed topics failed", zap.Error(err))
		}
		log.Info("automigrate done")
	}

	// JWT
	jwter := &auth.JWTer{
		Secret: []byte(cfg.JWT.Secret),
		Issuer: cfg.JWT.Issuer,
		TTL:    time.Duration(cfg.JWT.AccessTokenTTLMin) * time.Minute,
	}

	// Redis 缓存：探活失败降级为直读库
	var c *cache.Cache
	if cfg.Redis.Addr != "" {
		c = cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := c.Ping(pingCtx); err != nil {
			log.Warn("redis unreachable, topic cache disabled", zap.Error(err))
			c = nil
		}
		pingCancel()
	}

	mail := mailer.NewSMTPSender(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		BaseURL:  cfg.App.BaseURL,
	})

	broker := sse.NewBroker()

	// 依赖装配
	userRepo := repo.NewUserRepo(db)
	convRepo := repo.NewConversationRepo(db)
	commentRepo := repo.NewCommentRepo(db)

	userSvc := service.NewUserService(userRepo, mail, log)
	convSvc := service.NewConversationService(convRepo, userRepo, c)
	commentSvc := service.NewCommentService(commentRepo, userRepo, broker)

	r := router.NewAPIEngine(log, router.APIDeps{
		Auth:          handler.NewAuthHandler(userSvc, jwter, log),
		Conversations: handler.NewConversationHandler(convSvc, commentSvc, log),
		SSE:           handler.NewSSEHandler(broker),
		JWTer:         jwter,
	})

	// HTTP Server
	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("forum api starting",
		zap.String("addr", addr),
		zap.String("open", baseURL),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
	)

	// 异步启动
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("forum api start FAILED", zap.Error(err))
		}
	}()
	log.Info("forum api started SUCCESS")

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	broker.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	if c != nil {
		_ = c.Close()
	}
	log.Info("forum api stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, func()) {
	opt := logger.Options{Level: cfg.Log.Level, JSON: cfg.Log.JSON}
	if cfg.Log.File != "" {
		opt.Rotation = &logger.Rotation{
			Filename:   cfg.Log.File,
			MaxSizeMB:  cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAgeDays: cfg.Log.MaxAgeDays,
			Compress:   cfg.Log.Compress,
		}
	}
	return logger.New(opt)
}

func mustOpenDB(cfg *config.Config, l *zap.Logger) *gorm.DB {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
	})
	if err != nil {
		l.Fatal("db open", zap.Error(err))
	}
	return db
}
