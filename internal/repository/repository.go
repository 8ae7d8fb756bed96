// Package repository is the data-access layer. There is no database:
// the authoritative data lives in Excel workbooks on the file host, and
// each repository is a thin read-modify-write cycle over one workbook
// (download, parse, mutate, serialize, upload under lock retry).
package repository

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/config"
	"github.com/newwebie/admin-apontamentos/internal/storage"
	"github.com/newwebie/admin-apontamentos/pkg/redis"
)

// Repository aggregates every data-access component.
type Repository struct {
	Staffing  StaffingRepository
	Findings  FindingsRepository
	Snapshots SnapshotStore
}

// NewRepository wires the repositories over the storage gateway. rdb
// may be nil; the snapshot store then falls back to process memory.
func NewRepository(gw storage.Gateway, cfg *config.Config, rdb *redis.Client, logger *zap.Logger) *Repository {
	return &Repository{
		Staffing:  NewStaffingRepo(gw, &cfg.Storage, &cfg.Retry, logger),
		Findings:  NewFindingsRepo(gw, &cfg.Storage, &cfg.Retry, logger),
		Snapshots: NewSnapshotStore(rdb, cfg.Snapshot.TTL, logger),
	}
}

// byteCache is a single-entry read cache for downloaded workbook bytes.
// A successful save invalidates it so the next read observes the write.
type byteCache struct {
	mu      sync.Mutex
	data    []byte
	fetched time.Time
	ttl     time.Duration
}

func newByteCache(ttl time.Duration) *byteCache {
	return &byteCache{ttl: ttl}
}

func (c *byteCache) get() ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.data == nil || c.ttl <= 0 || time.Since(c.fetched) > c.ttl {
		return nil, false
	}
	return c.data, true
}

func (c *byteCache) put(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = data
	c.fetched = time.Now()
}

func (c *byteCache) invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = nil
}
