package dto

// ── shared grid DTOs ──
//
// Every editable grid follows the same protocol: GET returns the rows
// plus a snapshot_id pinning the pre-edit state server-side; POST sends
// the edited rows back referencing that snapshot, and the server merges
// the difference into the authoritative sheet.

// GridResponse is one editable grid worth of data.
type GridResponse struct {
	SnapshotID string              `json:"snapshot_id"`
	Columns    []string            `json:"columns"`
	Rows       []map[string]string `json:"rows"`
}

// SubmitGridRequest is the user's edited copy of a grid. Rows may be
// empty: submitting an emptied grid deletes every row.
type SubmitGridRequest struct {
	SnapshotID string              `json:"snapshot_id" binding:"required,uuid"`
	Rows       []map[string]string `json:"rows"`
}

// SubmitGridResult reports what the merge changed. NoChanges means the
// submission matched the snapshot after normalization and nothing was
// written.
type SubmitGridResult struct {
	NoChanges bool `json:"no_changes"`
	Inserted  int  `json:"inserted"`
	Modified  int  `json:"modified"`
	Deleted   int  `json:"deleted"`
}
