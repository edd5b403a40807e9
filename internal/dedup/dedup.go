// Package dedup removes transactions that already exist in an account's
// activity history. Existing activities are hashed with the same fingerprint
// the processors stamp on new transactions, so membership is a set lookup.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/ndewijer/Broker-Statement-Importer/internal/fingerprint"
	"github.com/ndewijer/Broker-Statement-Importer/internal/model"
)

// DefaultPageSize is the number of activities requested per history page.
const DefaultPageSize = 100

// HashSet is the set of fingerprints present in an account's history.
type HashSet map[string]struct{}

// Contains reports whether hash is in the set.
func (s HashSet) Contains(hash string) bool {
	_, ok := s[hash]
	return ok
}

// ActivitySearcher pages through the activity history of an account.
// Pages are zero-based.
type ActivitySearcher interface {
	Search(ctx context.Context, accountID string, page, pageSize int) ([]model.Activity, error)
}

// Collector builds the hash set of an account by walking its history.
type Collector struct {
	searcher ActivitySearcher
	hasher   *fingerprint.Hasher
	pageSize int
}

// NewCollector creates a Collector. A non-positive pageSize uses DefaultPageSize.
func NewCollector(searcher ActivitySearcher, hasher *fingerprint.Hasher, pageSize int) *Collector {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Collector{
		searcher: searcher,
		hasher:   hasher,
		pageSize: pageSize,
	}
}

// Collect requests pages until a page comes back shorter than the page size.
func (c *Collector) Collect(ctx context.Context, accountID string) (HashSet, error) {
	hashes := make(HashSet)
	if accountID == "" {
		return hashes, nil
	}

	for page := 0; ; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		activities, err := c.searcher.Search(ctx, accountID, page, c.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to search activities page %d: %w", page, err)
		}

		for _, a := range activities {
			hashes[c.hasher.Activity(a)] = struct{}{}
		}

		if len(activities) < c.pageSize {
			return hashes, nil
		}
	}
}

// Cache keeps a hash set per account for a bounded time. Every write to an
// account's history must call Invalidate.
type Cache struct {
	collector *Collector
	store     *cache.Cache
}

// NewCache wraps collector with a snapshot cache expiring after ttl.
func NewCache(collector *Collector, ttl time.Duration) *Cache {
	return &Cache{
		collector: collector,
		store:     cache.New(ttl, 2*ttl),
	}
}

// Hashes returns the cached set for accountID, collecting it on a miss.
func (c *Cache) Hashes(ctx context.Context, accountID string) (HashSet, error) {
	if cached, found := c.store.Get(accountID); found {
		return cached.(HashSet), nil
	}

	hashes, err := c.collector.Collect(ctx, accountID)
	if err != nil {
		return nil, err
	}

	c.store.SetDefault(accountID, hashes)
	return hashes, nil
}

// Invalidate drops the snapshot of accountID.
func (c *Cache) Invalidate(accountID string) {
	c.store.Delete(accountID)
}

// Filter removes every transaction row whose hash is in seen and returns the
// filtered copy with the number of removed rows. Error rows are kept so the
// user still sees why a source row was not imported. Tables left without rows
// keep their place.
func Filter(parsed model.ParsedData, seen HashSet) (model.ParsedData, int) {
	out := parsed
	out.Tables = make([]model.Table, len(parsed.Tables))

	removed := 0
	for i, table := range parsed.Tables {
		rows := make([]model.Row, 0, len(table.Rows))
		for _, row := range table.Rows {
			if row.Transaction != nil && seen.Contains(row.Transaction.Comment) {
				removed++
				continue
			}
			rows = append(rows, row)
		}
		table.Rows = rows
		out.Tables[i] = table
	}

	return out, removed
}
