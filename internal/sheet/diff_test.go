package sheet

import (
	"fmt"
	"testing"
)

// ── test helpers ──

func sequentialKeys(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

func findingsTable(rows ...Row) *Table {
	t := NewTable("ID", "Status", "Descrição", "Data Atualização", "Atualizado Por")
	for _, r := range rows {
		t.Append(r)
	}
	return t
}

var comparable = []string{"Status", "Descrição"}

// ── ComputeDelta ──

func TestComputeDelta_IdenticalTablesIsNoop(t *testing.T) {
	table := findingsTable(
		Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"},
		Row{"ID": "2", "Status": "REALIZADO", "Descrição": "y"},
	)

	delta := ComputeDelta(table, table.Clone(), "ID", comparable, sequentialKeys("n"))
	if !delta.Empty() {
		t.Fatalf("expected empty delta, got %+v", delta)
	}
}

func TestComputeDelta_InsertDeleteUnchanged(t *testing.T) {
	snapshot := findingsTable(
		Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"},
		Row{"ID": "2", "Status": "PENDENTE", "Descrição": "y"},
	)
	edited := findingsTable(
		Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"},
		Row{"ID": "", "Status": "PENDENTE", "Descrição": "z"},
	)

	delta := ComputeDelta(snapshot, edited, "ID", comparable, sequentialKeys("n"))

	if len(delta.Deleted) != 1 || delta.Deleted[0] != "2" {
		t.Errorf("expected deleted=[2], got %v", delta.Deleted)
	}
	if len(delta.Inserted) != 1 || delta.Inserted[0]["Descrição"] != "z" {
		t.Errorf("expected one insertion with Descrição=z, got %v", delta.Inserted)
	}
	if delta.Inserted[0]["ID"] != "n1" {
		t.Errorf("inserted row must get a freshly generated key, got %q", delta.Inserted[0]["ID"])
	}
	if len(delta.Modified) != 0 {
		t.Errorf("unchanged row must not be modified, got %v", delta.Modified)
	}
}

func TestComputeDelta_WholeRowDirtyOnAnyDifference(t *testing.T) {
	snapshot := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"})
	edited := findingsTable(Row{"ID": "1", "Status": "VERIFICANDO", "Descrição": "x"})

	delta := ComputeDelta(snapshot, edited, "ID", comparable, sequentialKeys("n"))
	if len(delta.Modified) != 1 {
		t.Fatalf("expected one modified row, got %v", delta.Modified)
	}
	ch := delta.Modified[0]
	if ch.Key != "1" || ch.Old["Status"] != "PENDENTE" || ch.New["Status"] != "VERIFICANDO" {
		t.Errorf("unexpected change: %+v", ch)
	}
}

func TestComputeDelta_EditedBackToOriginalIsNotModified(t *testing.T) {
	snapshot := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"})
	// The user flipped the status and flipped it back before submitting.
	edited := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"})

	delta := ComputeDelta(snapshot, edited, "ID", comparable, sequentialKeys("n"))
	if !delta.Empty() {
		t.Errorf("expected empty delta, got %+v", delta)
	}
}

func TestComputeDelta_AllComparableFieldsBlankIsDeletion(t *testing.T) {
	snapshot := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"})
	edited := findingsTable(Row{"ID": "1", "Status": "", "Descrição": "  "})

	delta := ComputeDelta(snapshot, edited, "ID", comparable, sequentialKeys("n"))
	if len(delta.Deleted) != 1 || delta.Deleted[0] != "1" {
		t.Errorf("a row cleared of every comparable field is a deletion marker, got %+v", delta)
	}
	if len(delta.Modified) != 0 || len(delta.Inserted) != 0 {
		t.Errorf("expected no other changes, got %+v", delta)
	}
}

func TestComputeDelta_AuditColumnsDoNotFlagChanges(t *testing.T) {
	snapshot := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x", "Data Atualização": "01/01/2025"})
	edited := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x", "Data Atualização": "05/05/2025"})

	delta := ComputeDelta(snapshot, edited, "ID", comparable, sequentialKeys("n"))
	if !delta.Empty() {
		t.Errorf("audit columns are not comparable, got %+v", delta)
	}
}

func TestComputeDelta_NullTokensCollapse(t *testing.T) {
	snapshot := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": "nan"})
	edited := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": ""})

	delta := ComputeDelta(snapshot, edited, "ID", comparable, sequentialKeys("n"))
	if !delta.Empty() {
		t.Errorf("null-like tokens must compare equal to blank, got %+v", delta)
	}
}

func TestComputeDelta_FullyBlankNewRowIgnored(t *testing.T) {
	snapshot := findingsTable(Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"})
	edited := findingsTable(
		Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"},
		Row{"ID": "", "Status": "", "Descrição": ""},
	)

	delta := ComputeDelta(snapshot, edited, "ID", comparable, sequentialKeys("n"))
	if !delta.Empty() {
		t.Errorf("grid padding rows are not insertions, got %+v", delta)
	}
}

// ── Apply ──

func TestDeltaApply_StampsOnlyTouchedRows(t *testing.T) {
	authoritative := findingsTable(
		Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x", "Data Atualização": "01/01/2025", "Atualizado Por": "ana"},
		Row{"ID": "2", "Status": "PENDENTE", "Descrição": "y", "Data Atualização": "01/01/2025", "Atualizado Por": "ana"},
	)
	delta := &Delta{
		Modified: []RowChange{{
			Key: "2",
			Old: Row{"ID": "2", "Status": "PENDENTE", "Descrição": "y"},
			New: Row{"ID": "2", "Status": "REALIZADO", "Descrição": "y"},
		}},
	}

	stamp := Stamp{AtColumn: "Data Atualização", ByColumn: "Atualizado Por", At: "10/02/2026 09:30", By: "carla"}
	delta.Apply(authoritative, "ID", stamp)

	if got := authoritative.Rows[0]["Atualizado Por"]; got != "ana" {
		t.Errorf("untouched row must keep its audit fields, got %q", got)
	}
	if got := authoritative.Rows[1]["Status"]; got != "REALIZADO" {
		t.Errorf("modified row must carry the edited values, got %q", got)
	}
	if got := authoritative.Rows[1]["Data Atualização"]; got != "10/02/2026 09:30" {
		t.Errorf("modified row must be stamped, got %q", got)
	}
}

func TestDeltaApply_DeletionsRemoveRows(t *testing.T) {
	authoritative := findingsTable(
		Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"},
		Row{"ID": "2", "Status": "PENDENTE", "Descrição": "y"},
	)
	delta := &Delta{Deleted: []string{"1"}}
	delta.Apply(authoritative, "ID", Stamp{})

	if len(authoritative.Rows) != 1 || authoritative.Rows[0]["ID"] != "2" {
		t.Errorf("expected only row 2 to survive, got %v", authoritative.Rows)
	}
}

func TestDeltaApply_PreservesConcurrentRows(t *testing.T) {
	// Row 3 appeared between the snapshot and this submission; the
	// merge must not clobber it.
	authoritative := findingsTable(
		Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"},
		Row{"ID": "3", "Status": "PENDENTE", "Descrição": "concurrent"},
	)
	delta := &Delta{
		Modified: []RowChange{{
			Key: "1",
			Old: Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"},
			New: Row{"ID": "1", "Status": "REALIZADO", "Descrição": "x"},
		}},
	}
	delta.Apply(authoritative, "ID", Stamp{})

	if len(authoritative.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(authoritative.Rows))
	}
	if authoritative.Rows[1]["Descrição"] != "concurrent" {
		t.Errorf("concurrently inserted row was clobbered: %v", authoritative.Rows)
	}
}

func TestDeltaApply_ModifiedRowGoneFromAuthoritativeIsReadded(t *testing.T) {
	authoritative := findingsTable(Row{"ID": "2", "Status": "PENDENTE", "Descrição": "y"})
	delta := &Delta{
		Modified: []RowChange{{
			Key: "1",
			Old: Row{"ID": "1", "Status": "PENDENTE", "Descrição": "x"},
			New: Row{"ID": "1", "Status": "REALIZADO", "Descrição": "x"},
		}},
	}
	delta.Apply(authoritative, "ID", Stamp{})

	if len(authoritative.Rows) != 2 {
		t.Fatalf("last-writer-wins: the edited row must be re-added, got %v", authoritative.Rows)
	}
}
