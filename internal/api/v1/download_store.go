package v1

import (
	"crypto/rand"
	"encoding/base64"
	"os"
	"sync"
	"time"
)

type reportDownload struct {
	filePath  string
	expiresAt time.Time
}

// reportDownloadStore hands out short-lived tokens for generated report
// files sitting in the temp directory.
type reportDownloadStore struct {
	mu    sync.Mutex
	items map[string]reportDownload
}

func newReportDownloadStore() *reportDownloadStore {
	return &reportDownloadStore{
		items: make(map[string]reportDownload),
	}
}

func (s *reportDownloadStore) put(filePath string, ttl time.Duration) (token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	token = newRandomToken(24)
	s.items[token] = reportDownload{
		filePath:  filePath,
		expiresAt: time.Now().Add(ttl),
	}
	return token
}

func (s *reportDownloadStore) get(token string) (reportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(time.Now())

	v, ok := s.items[token]
	if !ok {
		return reportDownload{}, false
	}
	if time.Now().After(v.expiresAt) {
		_ = os.Remove(v.filePath)
		delete(s.items, token)
		return reportDownload{}, false
	}
	return v, true
}

// purgeExpiredLocked drops expired tokens and their report files; the
// workbook only lives in the temp directory for the download window.
func (s *reportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			_ = os.Remove(v.filePath)
			delete(s.items, k)
		}
	}
}

func newRandomToken(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
