package api

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"weeklyreport/internal/exporter"
)

type reportDownload struct {
	filePath  string
	fileName  string
	format    exporter.Format
	expiresAt time.Time
}

// downloadStore 一次性下载令牌
type downloadStore struct {
	mu    sync.Mutex
	items map[string]reportDownload
	now   func() time.Time
}

func newDownloadStore() *downloadStore {
	return &downloadStore{
		items: make(map[string]reportDownload),
		now:   time.Now,
	}
}

func (s *downloadStore) put(filePath, fileName string, format exporter.Format, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token = newRandomToken(24)
	s.items[token] = reportDownload{
		filePath:  filePath,
		fileName:  fileName,
		format:    format,
		expiresAt: s.now().Add(ttl),
	}
	return token
}

// take 取出并作废令牌
func (s *downloadStore) take(token string) (reportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items[token]
	if !ok {
		return reportDownload{}, false
	}
	delete(s.items, token)
	if s.now().After(v.expiresAt) {
		return reportDownload{}, false
	}
	return v, true
}

// purgeExpired 移除过期令牌并返回，由调用方删除文件
func (s *downloadStore) purgeExpired() []reportDownload {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var expired []reportDownload
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			expired = append(expired, v)
			delete(s.items, k)
		}
	}
	return expired
}

func (s *downloadStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
