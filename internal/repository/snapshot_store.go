package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/internal/sheet"
	"github.com/newwebie/admin-apontamentos/pkg/redis"
)

// GridSnapshot is the pre-edit state of a grid, kept server-side for
// the lifetime of one editing session. The submit endpoint diffs the
// user's edited rows against it.
type GridSnapshot struct {
	Grid    string      `json:"grid"`
	Columns []string    `json:"columns"`
	Rows    []sheet.Row `json:"rows"`
}

// Table rebuilds the snapshot as a sheet.Table.
func (s *GridSnapshot) Table() *sheet.Table {
	t := &sheet.Table{Columns: append([]string(nil), s.Columns...)}
	for _, r := range s.Rows {
		t.Append(r.Clone())
	}
	return t
}

// SnapshotStore holds grid snapshots under generated IDs with a TTL.
// Get returns (nil, nil) when the snapshot expired or never existed.
type SnapshotStore interface {
	Put(ctx context.Context, snap *GridSnapshot) (string, error)
	Get(ctx context.Context, id string) (*GridSnapshot, error)
}

const snapshotKeyPrefix = "grid:snapshot:"

// NewSnapshotStore prefers Redis so snapshots survive restarts and are
// shared between replicas; without Redis it degrades to process memory.
func NewSnapshotStore(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) SnapshotStore {
	if rdb == nil {
		logger.Warn("Redis unavailable, grid snapshots held in process memory")
		return newMemorySnapshotStore(ttl)
	}
	return &redisSnapshotStore{rdb: rdb, ttl: ttl}
}

// ── Redis implementation ──

type redisSnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func (s *redisSnapshotStore) Put(ctx context.Context, snap *GridSnapshot) (string, error) {
	id := uuid.New().String()
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, snapshotKeyPrefix+id, data, s.ttl); err != nil {
		return "", err
	}
	return id, nil
}

func (s *redisSnapshotStore) Get(ctx context.Context, id string) (*GridSnapshot, error) {
	data, err := s.rdb.Get(ctx, snapshotKeyPrefix+id)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	var snap GridSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ── in-memory implementation ──

type memorySnapshotStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memorySnapshotEntry
}

type memorySnapshotEntry struct {
	snap    *GridSnapshot
	expires time.Time
}

func newMemorySnapshotStore(ttl time.Duration) *memorySnapshotStore {
	return &memorySnapshotStore{ttl: ttl, entries: make(map[string]memorySnapshotEntry)}
}

func (s *memorySnapshotStore) Put(_ context.Context, snap *GridSnapshot) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Lazy eviction keeps the map from growing without bound.
	now := time.Now()
	for id, e := range s.entries {
		if now.After(e.expires) {
			delete(s.entries, id)
		}
	}

	id := uuid.New().String()
	s.entries[id] = memorySnapshotEntry{snap: snap, expires: now.Add(s.ttl)}
	return id, nil
}

func (s *memorySnapshotStore) Get(_ context.Context, id string) (*GridSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || time.Now().After(e.expires) {
		delete(s.entries, id)
		return nil, nil
	}
	return e.snap, nil
}
