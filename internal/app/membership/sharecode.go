// internal/app/membership/sharecode.go
package membership

import (
	"context"
	"crypto/rand"
	"strconv"
	"strings"
)

// Share codes are 6-character uppercase alphanumerics. They are shared
// between groups and user profiles, so generation checks both
// namespaces before accepting a candidate.
const (
	shareCodeLength   = 6
	shareCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// shareCodeAttempts bounds random generation before falling back to
	// a timestamp-derived code that guarantees termination.
	shareCodeAttempts = 10
)

// randomShareCode returns a random 6-character code.
func randomShareCode() (string, error) {
	buf := make([]byte, shareCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = shareCodeAlphabet[int(b)%len(shareCodeAlphabet)]
	}
	return string(buf), nil
}

// fallbackShareCode derives a code from nanosecond timestamp bits. Two
// calls in the same nanosecond collide, which is the CodeExhaustion case.
func fallbackShareCode(unixNano int64) string {
	s := strings.ToUpper(strconv.FormatInt(unixNano, 36))
	if len(s) > shareCodeLength {
		s = s[len(s)-shareCodeLength:]
	}
	for len(s) < shareCodeLength {
		s = "0" + s
	}
	return s
}

// normalizeShareCode canonicalizes user input for exact matching.
func normalizeShareCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// shareCodeTaken checks both code namespaces (groups and user profiles).
func (s *Service) shareCodeTaken(ctx context.Context, code string) (bool, error) {
	taken, err := s.groups.ShareCodeInUse(ctx, code)
	if err != nil || taken {
		return taken, err
	}
	return s.users.ShareCodeInUse(ctx, code)
}
