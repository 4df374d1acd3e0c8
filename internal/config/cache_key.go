package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// PaperSessionKey returns the key holding a paper session's criteria, options and selection.
func (r *CacheKeyStruct) PaperSessionKey(sessionID string) string {
	return fmt.Sprintf("paper:%s:session", sessionID)
}

// UploadRateKey returns the fixed-window counter key for uploads from one client.
func (r *CacheKeyStruct) UploadRateKey(clientIP string, window int64) string {
	return fmt.Sprintf("ratelimit:upload:%s:%d", clientIP, window)
}

var CacheKey = NewCacheKeyStruct()
