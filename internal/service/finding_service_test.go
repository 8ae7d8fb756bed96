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

func newFindingService(t *testing.T) (FindingService, *mockFindingsRepo) {
	t.Helper()
	table := sheet.NewTable(model.FindingColumns()...)
	table.Append(findingRow("101AB", "EST-01", model.FindingPendente, ""))
	table.Append(findingRow("202CD", "EST-01", model.FindingRealizado, ""))
	table.Append(findingRow("303EF", "EST-02", model.FindingVerificando, "01/02/2025"))

	repo, _, findings, _ := newTestRepository(newTestBook(), table)
	svc := NewFindingService(repo, zap.NewNop()).(*findingService)
	svc.nowFn = fixedNow
	return svc, findings
}

// ── List ──

func TestFindingService_List_Filters(t *testing.T) {
	svc, _ := newFindingService(t)

	all, err := svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("esperados 3 apontamentos, vieram %d", len(all))
	}

	byStudy, _ := svc.List(context.Background(), &dto.FindingListRequest{Study: "est-01"})
	if len(byStudy) != 2 {
		t.Errorf("filtro por estudo: %d resultados, esperados 2", len(byStudy))
	}

	byStatus, _ := svc.List(context.Background(), &dto.FindingListRequest{Status: "pendente"})
	if len(byStatus) != 1 || byStatus[0].ID != "101AB" {
		t.Errorf("filtro por status: %+v", byStatus)
	}

	byID, _ := svc.List(context.Background(), &dto.FindingListRequest{ID: "202"})
	if len(byID) != 1 || byID[0].ID != "202CD" {
		t.Errorf("filtro por ID: %+v", byID)
	}
}

// ── SubmitGrid: status side effect ──

func TestFindingService_SubmitGrid_VerificandoStampedOnce(t *testing.T) {
	svc, findings := newFindingService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	for _, r := range grid.Rows {
		if r[model.ColFindingID] == "101AB" {
			r[model.ColFindingStatus] = model.FindingVerificando
		}
	}

	result, err := svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       grid.Rows,
	}, "qa.bruno")
	if err != nil {
		t.Fatalf("SubmitGrid: %v", err)
	}
	if result.Modified != 1 {
		t.Fatalf("delta inesperado: %+v", result)
	}

	row := findings.table.IndexBy(model.ColFindingID)["101AB"]
	stamped := row[model.ColFindingVerification]
	if stamped != "10/03/2025" {
		t.Fatalf("Data de Verificação = %q, esperado 10/03/2025", stamped)
	}

	// Re-submit the same rows from a fresh snapshot: unchanged rows are
	// never re-stamped.
	grid2, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid 2: %v", err)
	}
	result2, err := svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid2.SnapshotID,
		Rows:       grid2.Rows,
	}, "qa.bruno")
	if err != nil {
		t.Fatalf("SubmitGrid 2: %v", err)
	}
	if !result2.NoChanges {
		t.Error("reenvio intocado deveria ser no-op")
	}
	row = findings.table.IndexBy(model.ColFindingID)["101AB"]
	if row[model.ColFindingVerification] != stamped {
		t.Errorf("carimbo original perdido: %q", row[model.ColFindingVerification])
	}
}

func TestFindingService_SubmitGrid_ExistingStampPreserved(t *testing.T) {
	svc, findings := newFindingService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	// 303EF is already VERIFICANDO with a stamp; edit another field and
	// blank the stamp cell — the original date must survive.
	for _, r := range grid.Rows {
		if r[model.ColFindingID] == "303EF" {
			r[model.ColFindingJustify] = "atualizada"
			r[model.ColFindingVerification] = ""
		}
	}

	if _, err := svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       grid.Rows,
	}, "qa.bruno"); err != nil {
		t.Fatalf("SubmitGrid: %v", err)
	}

	row := findings.table.IndexBy(model.ColFindingID)["303EF"]
	if row[model.ColFindingVerification] != "01/02/2025" {
		t.Errorf("carimbo existente = %q, esperado 01/02/2025", row[model.ColFindingVerification])
	}
}

func TestFindingService_SubmitGrid_InsertInVerificandoStamped(t *testing.T) {
	svc, findings := newFindingService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	rows := append(grid.Rows, map[string]string{
		model.ColFindingStudy:       "EST-03",
		model.ColFindingStatus:      model.FindingVerificando,
		model.ColFindingDescription: "novo apontamento",
	})

	result, err := svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       rows,
	}, "qa.bruno")
	if err != nil {
		t.Fatalf("SubmitGrid: %v", err)
	}
	if result.Inserted != 1 {
		t.Fatalf("delta inesperado: %+v", result)
	}

	for _, r := range findings.table.Rows {
		if r[model.ColFindingStudy] == "EST-03" {
			if len(r[model.ColFindingID]) != 5 {
				t.Errorf("ID sintético = %q, esperado 5 caracteres", r[model.ColFindingID])
			}
			if r[model.ColFindingVerification] != "10/03/2025" {
				t.Errorf("inserção em VERIFICANDO deveria carimbar, veio %q", r[model.ColFindingVerification])
			}
		}
	}
}

func TestFindingService_SubmitGrid_BlankRowIsDeletion(t *testing.T) {
	svc, findings := newFindingService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	for _, r := range grid.Rows {
		if r[model.ColFindingID] == "202CD" {
			for _, c := range model.FindingComparableColumns() {
				r[c] = ""
			}
		}
	}

	result, err := svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       grid.Rows,
	}, "qa.bruno")
	if err != nil {
		t.Fatalf("SubmitGrid: %v", err)
	}
	if result.Deleted != 1 {
		t.Fatalf("linha em branco deveria contar como remoção: %+v", result)
	}
	if _, ok := findings.table.IndexBy(model.ColFindingID)["202CD"]; ok {
		t.Error("202CD deveria ter sido removido")
	}
}

func TestFindingService_SubmitGrid_InvalidStatus(t *testing.T) {
	svc, _ := newFindingService(t)

	grid, err := svc.Grid(context.Background())
	if err != nil {
		t.Fatalf("Grid: %v", err)
	}
	for _, r := range grid.Rows {
		if r[model.ColFindingID] == "101AB" {
			r[model.ColFindingStatus] = "EM ANDAMENTO"
		}
	}

	_, err = svc.SubmitGrid(context.Background(), &dto.SubmitGridRequest{
		SnapshotID: grid.SnapshotID,
		Rows:       grid.Rows,
	}, "qa.bruno")
	if !errors.Is(err, ErrInvalidFindingStatus) {
		t.Fatalf("esperado ErrInvalidFindingStatus, veio %v", err)
	}
}

// ── Catalog ──

func TestFindingService_Catalog(t *testing.T) {
	svc, _ := newFindingService(t)

	cat := svc.Catalog()
	if len(cat.Statuses) != 5 {
		t.Errorf("status = %v", cat.Statuses)
	}
	if len(cat.Participants) != 1000 || cat.Participants[0] != "N/A" || cat.Participants[1] != "PP01" {
		t.Errorf("participantes inesperados: primeiro=%v, total=%d", cat.Participants[:2], len(cat.Participants))
	}
}
