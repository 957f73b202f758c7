package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"time"
)

const referenceDateLayout = "20060102"

// ReferenceExistsFunc reports whether a candidate reference is already taken.
type ReferenceExistsFunc func(ctx context.Context, reference string) (bool, error)

// ReferenceGenerator produces human-facing booking references of the form
// PREFIX-YYYYMMDD-NNNN. Random four-digit suffixes are tried a bounded number
// of times; after that a timestamp-derived suffix is advanced deterministically
// until a free value is found, so generation cannot loop forever on collisions.
type ReferenceGenerator struct {
	prefix      string
	maxAttempts int
	now         func() time.Time
}

// NewReferenceGenerator constructs a generator with sane bounds.
func NewReferenceGenerator(prefix string, maxAttempts int) *ReferenceGenerator {
	if prefix == "" {
		prefix = "APP"
	}
	if maxAttempts <= 0 {
		maxAttempts = 10
	}
	return &ReferenceGenerator{prefix: prefix, maxAttempts: maxAttempts, now: time.Now}
}

// Generate returns a reference unique according to exists.
func (g *ReferenceGenerator) Generate(ctx context.Context, date time.Time, exists ReferenceExistsFunc) (string, error) {
	dateStr := date.Format(referenceDateLayout)

	for attempt := 0; attempt < g.maxAttempts; attempt++ {
		candidate := fmt.Sprintf("%s-%s-%04d", g.prefix, dateStr, randomSuffix())
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check reference %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return g.fallback(ctx, dateStr, exists)
}

// fallback derives an eight-digit suffix from the clock and increments it
// until an unused value is found. The modulo cycle bounds the walk.
func (g *ReferenceGenerator) fallback(ctx context.Context, dateStr string, exists ReferenceExistsFunc) (string, error) {
	const space = int64(100000000)
	start := g.now().UTC().UnixNano() % space
	suffix := start
	for {
		candidate := fmt.Sprintf("%s-%s-%08d", g.prefix, dateStr, suffix)
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check reference %s: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
		suffix = (suffix + 1) % space
		if suffix == start {
			return "", fmt.Errorf("reference space exhausted for %s", dateStr)
		}
	}
}

// randomSuffix returns a value in [1000, 9999].
func randomSuffix() int {
	buf := make([]byte, 2)
	if _, err := rand.Read(buf); err != nil {
		return 1000 + int(time.Now().UnixNano()%9000)
	}
	return 1000 + int(binary.BigEndian.Uint16(buf))%9000
}
