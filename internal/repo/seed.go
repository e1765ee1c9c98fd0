package repo

import (
	"gorm.io/gorm"

	"go-forum-api/internal/domain"
)

// SeedTopics 参照数据：topics 表为空时写入默认主题
func SeedTopics(db *gorm.DB) error {
	var n int64
	if err := db.Model(&domain.Topic{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	defaults := []domain.Topic{
		{Name: "Technology", Description: "Discussions about the latest in tech"},
		{Name: "Programming", Description: "Share your coding experiences"},
	}
	return db.Create(&defaults).Error
}
