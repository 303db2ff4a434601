package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/shandysiswandi/newsletter/internal/pkg/secret"
)

// ErrEmptyInput is returned when asked to digest an empty string.
var ErrEmptyInput = errors.New("hash: input is empty")

// HMACSHA256 digests strings with a keyed HMAC-SHA256 and hex-encodes the
// result. Digests are stable for a given key, so they can be used as lookup
// keys for values that must not be stored in plain text.
type HMACSHA256 struct {
	key []byte
}

// NewHMACSHA256 creates a hasher keyed with key. The key is copied out of the
// secret once; it is never logged.
func NewHMACSHA256(key secret.String) *HMACSHA256 {
	return &HMACSHA256{key: []byte(key.Expose())}
}

// Hash returns the lowercase hex digest of str.
func (s *HMACSHA256) Hash(str string) ([]byte, error) {
	if str == "" {
		return nil, ErrEmptyInput
	}
	return hex.AppendEncode(nil, s.sum(str)), nil
}

func (s *HMACSHA256) sum(str string) []byte {
	mac := hmac.New(sha256.New, s.key)
	_, _ = mac.Write([]byte(str))
	return mac.Sum(nil)
}
