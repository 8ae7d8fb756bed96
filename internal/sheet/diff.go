package sheet

import "strings"

// RowChange pairs a modified row with its pre-edit state. Old is the
// snapshot row; New carries the edited values for the whole row.
type RowChange struct {
	Key string
	Old Row
	New Row
}

// Delta is the minimal difference between a snapshot and the user's
// edited copy of the same table. Insertions and deletions in the same
// submission stay independent; they are never paired as renames.
type Delta struct {
	Inserted []Row
	Modified []RowChange
	Deleted  []string
}

// Empty reports whether applying the delta would change nothing.
func (d *Delta) Empty() bool {
	return len(d.Inserted) == 0 && len(d.Modified) == 0 && len(d.Deleted) == 0
}

// Stamp names the audit columns and the values written into every
// inserted or modified row. Unmodified rows are never stamped.
type Stamp struct {
	AtColumn string
	ByColumn string
	At       string
	By       string
}

// ComputeDelta reconciles the user's edited copy of a table against the
// snapshot that was shown to them.
//
// Only comparableCols take part in equality: the key column and audit
// columns are excluded so re-rendering never flags a row as changed.
// Rows are matched by keyCol. Edited rows with a blank or unknown key
// are insertions and receive a key from newKey; rows whose comparable
// cells are all blank are deletion markers. A row edited back to its
// snapshot values does not appear in Modified.
func ComputeDelta(snapshot, edited *Table, keyCol string, comparableCols []string, newKey func() string) *Delta {
	delta := &Delta{}

	snapIdx := snapshot.IndexBy(keyCol)

	// Split the edited rows into ones matched to the snapshot by key
	// and fresh ones added through the grid.
	editedIdx := make(map[string]Row, len(edited.Rows))
	var fresh []Row
	for _, r := range edited.Rows {
		k := strings.TrimSpace(r[keyCol])
		if _, inSnap := snapIdx[k]; k != "" && inSnap {
			if _, dup := editedIdx[k]; !dup {
				editedIdx[k] = r
			}
			continue
		}
		fresh = append(fresh, r)
	}

	// Deletions: in the snapshot but gone from the edit, or present
	// with every comparable field blank. Remaining matched rows are
	// modified iff any comparable cell differs after normalization;
	// any difference at all marks the whole row dirty.
	for _, snapRow := range snapshot.Rows {
		k := strings.TrimSpace(snapRow[keyCol])
		if k == "" {
			continue
		}
		editedRow, ok := editedIdx[k]
		if !ok {
			delta.Deleted = append(delta.Deleted, k)
			continue
		}
		if allBlank(editedRow, comparableCols) {
			delta.Deleted = append(delta.Deleted, k)
			continue
		}
		if !rowsEqual(snapRow, editedRow, comparableCols) {
			delta.Modified = append(delta.Modified, RowChange{
				Key: k,
				Old: snapRow.Clone(),
				New: editedRow.Clone(),
			})
		}
	}

	// Insertions: rows the snapshot never had. Fully blank new rows
	// (grid padding) are ignored; real ones get a freshly generated
	// key, never one derived from row position.
	for _, r := range fresh {
		if allBlank(r, comparableCols) {
			continue
		}
		ins := r.Clone()
		ins[keyCol] = newKey()
		delta.Inserted = append(delta.Inserted, ins)
	}

	return delta
}

// Apply folds the delta into the authoritative table, which may have
// moved since the snapshot was taken. Inserted and modified rows are
// stamped with the audit columns; deletions remove rows outright;
// every other row is left untouched.
func (d *Delta) Apply(authoritative *Table, keyCol string, stamp Stamp) {
	if d.Empty() {
		return
	}

	deleted := make(map[string]bool, len(d.Deleted))
	for _, k := range d.Deleted {
		deleted[k] = true
	}
	changed := make(map[string]Row, len(d.Modified))
	for _, ch := range d.Modified {
		changed[ch.Key] = ch.New
	}

	out := make([]Row, 0, len(authoritative.Rows)+len(d.Inserted))
	for _, r := range authoritative.Rows {
		k := strings.TrimSpace(r[keyCol])
		if deleted[k] {
			continue
		}
		if repl, ok := changed[k]; ok {
			nr := repl.Clone()
			nr[keyCol] = k
			applyStamp(nr, stamp)
			out = append(out, nr)
			delete(changed, k)
			continue
		}
		out = append(out, r)
	}

	// A modified row whose key vanished from the authoritative table
	// was removed by a concurrent writer; last-writer-wins, so the
	// edited row is re-added.
	for _, ch := range d.Modified {
		if repl, ok := changed[ch.Key]; ok {
			nr := repl.Clone()
			nr[keyCol] = ch.Key
			applyStamp(nr, stamp)
			out = append(out, nr)
			delete(changed, ch.Key)
		}
	}

	for _, r := range d.Inserted {
		nr := r.Clone()
		applyStamp(nr, stamp)
		out = append(out, nr)
	}

	authoritative.Rows = out
}

// ── helpers ──

func applyStamp(r Row, stamp Stamp) {
	if stamp.AtColumn != "" {
		r[stamp.AtColumn] = stamp.At
	}
	if stamp.ByColumn != "" {
		r[stamp.ByColumn] = stamp.By
	}
}

func rowsEqual(a, b Row, cols []string) bool {
	for _, c := range cols {
		if NormalizeCell(a[c]) != NormalizeCell(b[c]) {
			return false
		}
	}
	return true
}

func allBlank(r Row, cols []string) bool {
	for _, c := range cols {
		if NormalizeCell(r[c]) != "" {
			return false
		}
	}
	return true
}
