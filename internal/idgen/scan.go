package idgen

import (
	"context"
	"sync"
)

// ScanCounter derives the next sequence from the most recent stored ID. Calls
// are serialized and the last issued value per year is remembered, so
// concurrent submissions in one process never collide even before the
// earlier complaint is persisted. It is not safe across processes; use an
// atomic backend (redis or postgres) for that.
type ScanCounter struct {
	reader LastIDReader
	prefix string

	mu   sync.Mutex
	last map[int]int64
}

func NewScanCounter(reader LastIDReader, prefix string) *ScanCounter {
	return &ScanCounter{
		reader: reader,
		prefix: prefix,
		last:   make(map[int]int64),
	}
}

func (c *ScanCounter) Next(ctx context.Context, year int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, err := LastSequence(ctx, c.reader, c.prefix, year)
	if err != nil {
		return 0, err
	}

	next := stored + 1
	if issued := c.last[year]; issued >= next {
		next = issued + 1
	}
	c.last[year] = next
	return next, nil
}
