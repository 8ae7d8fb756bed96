package service

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/internal/dto"
	"github.com/newwebie/admin-apontamentos/internal/model"
	"github.com/newwebie/admin-apontamentos/internal/repository"
	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// ── slot ledger business errors ──

var (
	ErrSlotNotFound    = errors.New("vaga não encontrada")
	ErrSlotOccupied    = errors.New("a vaga ainda possui colaboradores ativos e não pode ser removida")
	ErrInvalidCapacity = errors.New("quantidade de staff inválida")
)

// SlotService exposes the slot ledger: the authorized positions, their
// derived occupancy and the bulk-edit grid.
type SlotService interface {
	List(ctx context.Context) ([]dto.SlotResponse, error)
	Grid(ctx context.Context) (*dto.GridResponse, error)
	SubmitGrid(ctx context.Context, req *dto.SubmitGridRequest, actor string) (*dto.SubmitGridResult, error)
	Catalog(ctx context.Context) (*dto.StaffingCatalogResponse, error)
}

type slotService struct {
	repo   *repository.Repository
	logger *zap.Logger
	nowFn  func() time.Time
}

// NewSlotService creates a SlotService.
func NewSlotService(repo *repository.Repository, logger *zap.Logger) SlotService {
	return &slotService{repo: repo, logger: logger, nowFn: time.Now}
}

// ────────────────────── List ──────────────────────

func (s *slotService) List(ctx context.Context) ([]dto.SlotResponse, error) {
	book, err := s.repo.Staffing.Load(ctx)
	if err != nil {
		s.logger.Error("falha ao carregar planilha de staffing", zap.Error(err))
		return nil, err
	}

	reconcileActiveCounts(book.Slots, book.Roster)

	result := make([]dto.SlotResponse, 0, len(book.Slots.Rows))
	for _, r := range book.Slots.Rows {
		slot := model.SlotFromRow(r)
		if slot.ID == "" {
			continue
		}
		result = append(result, toSlotResponse(slot))
	}
	return result, nil
}

// ────────────────────── Grid ──────────────────────

func (s *slotService) Grid(ctx context.Context) (*dto.GridResponse, error) {
	book, err := s.repo.Staffing.Load(ctx)
	if err != nil {
		s.logger.Error("falha ao carregar planilha de staffing", zap.Error(err))
		return nil, err
	}

	reconcileActiveCounts(book.Slots, book.Roster)

	snap := snapshotFromTable(gridSlots, book.Slots)
	id, err := s.repo.Snapshots.Put(ctx, snap)
	if err != nil {
		s.logger.Error("falha ao gravar snapshot da grade", zap.Error(err))
		return nil, err
	}

	return &dto.GridResponse{SnapshotID: id, Columns: snap.Columns, Rows: rowsAsMaps(snap.Rows)}, nil
}

// ────────────────────── SubmitGrid ──────────────────────

func (s *slotService) SubmitGrid(ctx context.Context, req *dto.SubmitGridRequest, actor string) (*dto.SubmitGridResult, error) {
	snap, err := loadSnapshot(ctx, s.repo.Snapshots, req.SnapshotID, gridSlots)
	if err != nil {
		return nil, err
	}

	snapTable := snap.Table()
	edited := tableFromRows(snap.Columns, req.Rows)

	// Fresh rows get their key inside the merge; seed the taken set with
	// everything the user can currently see.
	taken := takenIDs(append(append([]sheet.Row{}, snapTable.Rows...), edited.Rows...), model.ColSlotID)
	delta := sheet.ComputeDelta(snapTable, edited, model.ColSlotID, model.SlotComparableColumns(), func() string {
		id := generateRowID(taken)
		taken[id] = true
		return id
	})

	if delta.Empty() {
		return &dto.SubmitGridResult{NoChanges: true}, nil
	}
	if err := validateSlotDelta(delta); err != nil {
		return nil, err
	}

	stamp := sheet.Stamp{
		AtColumn: model.ColSlotUpdatedAt,
		ByColumn: model.ColSlotUpdatedBy,
		At:       s.nowFn().Format(timestampLayout),
		By:       actor,
	}

	err = s.repo.Staffing.Update(ctx, func(book *repository.StaffingBook) error {
		// A slot still holding active people must not disappear.
		counts := activeCountBySlot(book.Roster)
		for _, key := range delta.Deleted {
			if counts[key] > 0 {
				return ErrSlotOccupied
			}
		}

		// Generated IDs were unique against the snapshot; re-check them
		// against the authoritative ledger and regenerate on collision.
		authTaken := takenIDs(book.Slots.Rows, model.ColSlotID)
		for _, r := range delta.Inserted {
			if authTaken[r[model.ColSlotID]] {
				r[model.ColSlotID] = generateRowID(authTaken)
			}
			authTaken[r[model.ColSlotID]] = true
		}

		delta.Apply(book.Slots, model.ColSlotID, stamp)
		reconcileActiveCounts(book.Slots, book.Roster)
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSlotOccupied) {
			s.logger.Error("falha ao salvar grade de vagas", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("grade de vagas salva",
		zap.String("actor", actor),
		zap.Int("inserted", len(delta.Inserted)),
		zap.Int("modified", len(delta.Modified)),
		zap.Int("deleted", len(delta.Deleted)))

	return &dto.SubmitGridResult{
		Inserted: len(delta.Inserted),
		Modified: len(delta.Modified),
		Deleted:  len(delta.Deleted),
	}, nil
}

// ────────────────────── Catalog ──────────────────────

// Catalog returns the distinct categorical values declared in the slot
// ledger plus the fixed domain enumerations, for the form select boxes.
func (s *slotService) Catalog(ctx context.Context) (*dto.StaffingCatalogResponse, error) {
	book, err := s.repo.Staffing.Load(ctx)
	if err != nil {
		s.logger.Error("falha ao carregar planilha de staffing", zap.Error(err))
		return nil, err
	}

	return &dto.StaffingCatalogResponse{
		Roles:       distinctValues(book.Slots, model.ColSlotRole),
		Schedules:   distinctValues(book.Slots, model.ColSlotSchedule),
		TimeWindows: distinctValues(book.Slots, model.ColSlotTimeWindow),
		Classes:     distinctValues(book.Slots, model.ColSlotClass),
		Contracts:   model.Contracts,
		Statuses:    model.Statuses,
		TerminationReasons: map[string][]string{
			model.ContractCLT:      model.ReasonsCLT,
			model.ContractAutonomo: model.ReasonsAutonomo,
		},
	}, nil
}

// ── internal helpers ──

func toSlotResponse(slot model.Slot) dto.SlotResponse {
	available := slot.Capacity - slot.ActiveCount
	if available < 0 {
		available = 0
	}
	return dto.SlotResponse{
		ID:          slot.ID,
		Role:        slot.Role,
		Department:  slot.Department,
		Schedule:    slot.Schedule,
		TimeWindow:  slot.TimeWindow,
		Class:       slot.Class,
		ShiftLabel:  slot.ShiftLabel,
		Supervisor:  slot.Supervisor,
		Capacity:    slot.Capacity,
		ActiveCount: slot.ActiveCount,
		Available:   available,
	}
}

// validateSlotDelta rejects capacity cells that are not non-negative
// integers before anything touches storage.
func validateSlotDelta(delta *sheet.Delta) error {
	check := func(r sheet.Row) error {
		cell := strings.TrimSpace(r[model.ColSlotCapacity])
		if cell == "" {
			return ErrInvalidCapacity
		}
		n, err := strconv.Atoi(cell)
		if err != nil {
			f, ferr := strconv.ParseFloat(cell, 64)
			if ferr != nil || f != float64(int(f)) {
				return ErrInvalidCapacity
			}
			n = int(f)
		}
		if n < 0 {
			return ErrInvalidCapacity
		}
		return nil
	}
	for _, r := range delta.Inserted {
		if err := check(r); err != nil {
			return err
		}
	}
	for _, ch := range delta.Modified {
		if err := check(ch.New); err != nil {
			return err
		}
	}
	return nil
}

func distinctValues(t *sheet.Table, col string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range t.Rows {
		v := sheet.NormalizeCell(r[col])
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func rowsAsMaps(rows []sheet.Row) []map[string]string {
	out := make([]map[string]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]string(r))
	}
	return out
}
