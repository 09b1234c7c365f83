package entry

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// IDStrategy computes a stable identifier from an entry title. The strategy
// is resolved at construction time by callers that accept one; ComputeID is
// the default.
type IDStrategy func(title string) string

// ComputeID returns the lowercase hex md5 digest of the trimmed title.
// Same title always yields the same id; no side effects.
func ComputeID(title string) string {
	sum := md5.Sum([]byte(strings.TrimSpace(title)))
	return hex.EncodeToString(sum[:])
}
