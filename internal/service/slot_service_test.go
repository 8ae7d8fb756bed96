package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/internal/dto"
	"github.com/newwebie/admin-apontamentos/internal/model"
	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

func newSlotService(t *testing.T) (SlotService, *mockStaffingRepo) {
	t.Helper()
	repo, staffing, _, _ := newTestRepository(newTestBook(), sheet.NewTable(model.FindingColumns()...))
	svc := NewSlotService(repo, zap.NewNop()).(*slotService)
	svc.nowFn = fixedNow
	return svc, staffing
}

// ── List ──

func TestSlotService_List_ReconcilesCounts(t *testing.T) {
	svc, staffing := newSlotService(t)

	// Stale hand-edited Ativos must never surface.
	staffing.book.Slots.Rows[0][model.ColSlotActives] = "7"

	slots, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("esperadas 2 vagas, vieram %d", len(slots))
	}
	if slots[0].ActiveCount != 2 || slots[0].Available != 0 {
		t.Errorf("V001 reconciliada errada: %+v", slots[0])
	}
	if slots[1].ActiveCount != 0 || slots[1].Available != 1 {
		t.Errorf("V002 reconciliada errada: %+v", slots[1])
	}
}

// ── SubmitGrid ──

func TestSlotService_SubmitGrid_CapacityEdit(t *testing.T) {
	svc, staffing := newSlotService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}

	for _, r := range grid.Rows {
		if r[model.ColSlotID] == "V001" {
			r[model.ColSlotCapacity] = "3"
		}
	}

	result, err := svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       grid.Rows,
	}, "coord.ana")
	if err != nil {
		t.Fatalf("SubmitGrid: %v", err)
	}
	if result.Modified != 1 {
		t.Fatalf("esperada 1 modificação, veio %+v", result)
	}

	row := staffing.book.Slots.IndexBy(model.ColSlotID)["V001"]
	if row[model.ColSlotCapacity] != "3" {
		t.Errorf("capacidade persistida = %q", row[model.ColSlotCapacity])
	}
	if row[model.ColSlotUpdatedBy] != "coord.ana" {
		t.Errorf("carimbo ausente: %q", row[model.ColSlotUpdatedBy])
	}
	// Derived column was reconciled, not copied from the client.
	if row[model.ColSlotActives] != "2" {
		t.Errorf("Ativos = %q, esperado 2", row[model.ColSlotActives])
	}
}

func TestSlotService_SubmitGrid_EditedActivesIgnored(t *testing.T) {
	svc, staffing := newSlotService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}

	// Only the derived column differs: the merge must see no change.
	for _, r := range grid.Rows {
		r[model.ColSlotActives] = "42"
	}

	result, err := svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       grid.Rows,
	}, "coord.ana")
	if err != nil {
		t.Fatalf("SubmitGrid: %v", err)
	}
	if !result.NoChanges {
		t.Error("editar apenas Ativos deveria ser no-op")
	}
	if staffing.updates != 0 {
		t.Error("no-op não pode gravar")
	}
}

func TestSlotService_SubmitGrid_DeleteOccupiedRejected(t *testing.T) {
	svc, staffing := newSlotService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}

	var rows []map[string]string
	for _, r := range grid.Rows {
		if r[model.ColSlotID] == "V001" {
			continue // V001 still has active people
		}
		rows = append(rows, r)
	}

	_, err = svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       rows,
	}, "coord.ana")
	if !errors.Is(err, ErrSlotOccupied) {
		t.Fatalf("esperado ErrSlotOccupied, veio %v", err)
	}
	if staffing.updates != 0 {
		t.Error("remoção rejeitada não pode gravar")
	}
}

func TestSlotService_SubmitGrid_InsertGetsGeneratedID(t *testing.T) {
	svc, staffing := newSlotService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}

	rows := append(grid.Rows, map[string]string{
		model.ColSlotRole:       "Farmacêutico",
		model.ColSlotSchedule:   "6x1",
		model.ColSlotTimeWindow: "08:00 às 17:00",
		model.ColSlotClass:      "Turma 3",
		model.ColSlotCapacity:   "1",
	})

	result, err := svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       rows,
	}, "coord.ana")
	if err != nil {
		t.Fatalf("SubmitGrid: %v", err)
	}
	if result.Inserted != 1 {
		t.Fatalf("esperada 1 inserção, veio %+v", result)
	}

	for _, r := range staffing.book.Slots.Rows {
		if r[model.ColSlotRole] == "Farmacêutico" {
			if len(r[model.ColSlotID]) != 5 {
				t.Errorf("ID gerado = %q, esperado token de 5 caracteres", r[model.ColSlotID])
			}
			if r[model.ColSlotActives] != "0" {
				t.Errorf("vaga nova deveria reconciliar Ativos=0, veio %q", r[model.ColSlotActives])
			}
		}
	}
}

func TestSlotService_SubmitGrid_InvalidCapacity(t *testing.T) {
	svc, _ := newSlotService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}

	for _, r := range grid.Rows {
		if r[model.ColSlotID] == "V002" {
			r[model.ColSlotCapacity] = "muitos"
		}
	}

	_, err = svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       grid.Rows,
	}, "coord.ana")
	if !errors.Is(err, ErrInvalidCapacity) {
		t.Fatalf("esperado ErrInvalidCapacity, veio %v", err)
	}
}

// ── Catalog ──

func TestSlotService_Catalog(t *testing.T) {
	svc, _ := newSlotService(t)

	cat, err := svc.Catalog(context.Background())
	if err != nil {
		t.Fatalf("Catalog: %v", err)
	}
	if len(cat.Roles) != 2 {
		t.Errorf("cargos distintos = %v", cat.Roles)
	}
	if len(cat.Contracts) != 3 || len(cat.Statuses) != 5 {
		t.Error("enumerações fixas incompletas")
	}
	if len(cat.TerminationReasons[model.ContractCLT]) != 2 {
		t.Errorf("motivos CLT = %v", cat.TerminationReasons[model.ContractCLT])
	}
}
