package service

import (
	"context"

	"github.com/newwebie/admin-apontamentos/internal/repository"
	"github.com/newwebie/admin-apontamentos/internal/sheet"
	pkgerrors "github.com/newwebie/admin-apontamentos/pkg/errors"
)

// Grid names used to tag snapshots, so a snapshot taken on one grid can
// never be submitted against another.
const (
	gridSlots    = "slots"
	gridRoster   = "roster"
	gridFindings = "findings"
)

// Persisted date layouts (Brazilian convention, as the sheets carry).
const (
	dateLayout      = "02/01/2006"
	timestampLayout = "02/01/2006 15:04"
)

// snapshotFromTable freezes a table as a grid snapshot.
func snapshotFromTable(grid string, t *sheet.Table) *repository.GridSnapshot {
	snap := &repository.GridSnapshot{
		Grid:    grid,
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]sheet.Row, 0, len(t.Rows)),
	}
	for _, r := range t.Rows {
		snap.Rows = append(snap.Rows, r.Clone())
	}
	return snap
}

// tableFromRows rebuilds the user's edited grid as a table over the
// snapshot's column set. Cells for unknown columns are dropped.
func tableFromRows(columns []string, rows []map[string]string) *sheet.Table {
	t := sheet.NewTable(columns...)
	for _, r := range rows {
		row := make(sheet.Row, len(columns))
		for _, c := range columns {
			row[c] = r[c]
		}
		t.Append(row)
	}
	return t
}

// loadSnapshot fetches a snapshot by ID and checks it belongs to the
// expected grid. Expired, unknown and cross-grid IDs all come back as
// ErrSnapshotExpired: the client's remedy is the same — reload the grid.
func loadSnapshot(ctx context.Context, store repository.SnapshotStore, id, grid string) (*repository.GridSnapshot, error) {
	snap, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if snap == nil || snap.Grid != grid {
		return nil, pkgerrors.ErrSnapshotExpired
	}
	return snap, nil
}
