// Package keygen allocates the human-facing keys: space keys from name
// initials, issue ids from a space counter, and project issue keys.
package keygen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// MaxProjectKeyAttempts bounds the random retries before the timestamp fallback.
	MaxProjectKeyAttempts = 100

	projectKeyPrefixLen = 3
	unknownSpaceKey     = "UNK"
)

// SpaceKey concatenates the upper-cased first letter of every
// whitespace-delimited word: "Marketing Team" -> "MT".
func SpaceKey(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteString(strings.ToUpper(string(r)))
	}
	return b.String()
}

// IssueID formats the post-increment counter of a space. The counter is
// zero-padded to three digits and simply widens past 999.
func IssueID(spaceKey string, counter int64) string {
	if spaceKey == "" {
		spaceKey = unknownSpaceKey
	}
	return fmt.Sprintf("%s-%03d", spaceKey, counter)
}

// NormalizeProjectKey upper-cases and trims a caller-supplied issue key.
func NormalizeProjectKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// ProjectKeyPrefix is the first three characters of the name, upper-cased.
func ProjectKeyPrefix(name string) string {
	name = strings.TrimSpace(name)
	runes := []rune(name)
	if len(runes) > projectKeyPrefixLen {
		runes = runes[:projectKeyPrefixLen]
	}
	return strings.ToUpper(string(runes))
}

// ExistsFunc reports whether a project issue key is already taken.
type ExistsFunc func(ctx context.Context, key string) (bool, error)

// ProjectKeyGenerator produces <PREFIX>-<4 digits> keys, retrying random
// suffixes up to MaxAttempts times and falling back to a millisecond
// timestamp suffix when every attempt collides.
type ProjectKeyGenerator struct {
	Intn        func(n int) int
	Now         func() time.Time
	MaxAttempts int
}

func NewProjectKeyGenerator() ProjectKeyGenerator {
	return ProjectKeyGenerator{Intn: rand.IntN, Now: time.Now, MaxAttempts: MaxProjectKeyAttempts}
}

func (g ProjectKeyGenerator) Generate(ctx context.Context, name string, exists ExistsFunc) (string, error) {
	intn := g.Intn
	if intn == nil {
		intn = rand.IntN
	}
	now := g.Now
	if now == nil {
		now = time.Now
	}
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = MaxProjectKeyAttempts
	}

	prefix := ProjectKeyPrefix(name)
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		key := fmt.Sprintf("%s-%d", prefix, 1000+intn(9000))
		taken, err := exists(ctx, key)
		if err != nil {
			return "", err
		}
		if !taken {
			return key, nil
		}
	}
	return fmt.Sprintf("%s-%d", prefix, now().UnixMilli()), nil
}
