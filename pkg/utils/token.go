package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSecureToken 生成 32 字节随机 hex（邮箱验证 / remember-me）
func NewSecureToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
