// Package idgen issues human-readable complaint identifiers of the form
// <PREFIX>-<YEAR>-<SEQ>, with SEQ zero-padded to at least four digits and
// restarting every calendar year.
package idgen

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"smartgriev/backend/internal/config"
)

var suffixPattern = regexp.MustCompile(`-(\d+)$`)

// Counter hands out strictly increasing sequence numbers per year. Two calls
// for the same year never return the same value.
type Counter interface {
	Next(ctx context.Context, year int) (int64, error)
}

// LastIDReader returns the most recently created complaint ID that starts
// with prefix, or "" when there is none.
type LastIDReader interface {
	LastComplaintID(ctx context.Context, prefix string) (string, error)
}

// Generator issues complaint IDs of the form PREFIX-YYYY-NNNN, with a
// per-year sequence drawn from a Counter.
type Generator struct {
	prefix  string
	counter Counter
	now     func() time.Time
}

// NewGenerator returns a Generator. A nil clock means time.Now.
func NewGenerator(prefix string, counter Counter, now func() time.Time) *Generator {
	if prefix == "" {
		prefix = config.DefaultIDPrefix
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{prefix: prefix, counter: counter, now: now}
}

// Prefix returns the configured ID prefix.
func (g *Generator) Prefix() string {
	return g.prefix
}

// Next draws the next identifier for the current year.
func (g *Generator) Next(ctx context.Context) (string, error) {
	year := g.now().Year()
	seq, err := g.counter.Next(ctx, year)
	if err != nil {
		return "", fmt.Errorf("draw sequence for %d: %w", year, err)
	}
	return Format(g.prefix, year, seq), nil
}

// Format renders an identifier. Sequences wider than the pad width are
// printed in full.
func Format(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s%0*d", YearPrefix(prefix, year), config.SequenceWidth, seq)
}

// YearPrefix is the part of an identifier shared by every complaint of a year.
func YearPrefix(prefix string, year int) string {
	return fmt.Sprintf("%s-%d-", prefix, year)
}

// ParseSequence extracts the trailing numeric suffix of id.
func ParseSequence(id string) (int64, bool) {
	m := suffixPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// LastSequence returns the suffix of the latest stored ID for year, or 0 when
// there is none or it cannot be parsed. Lookup errors are returned as is.
func LastSequence(ctx context.Context, reader LastIDReader, prefix string, year int) (int64, error) {
	last, err := reader.LastComplaintID(ctx, YearPrefix(prefix, year))
	if err != nil {
		return 0, err
	}
	if n, ok := ParseSequence(last); ok {
		return n, nil
	}
	return 0, nil
}
