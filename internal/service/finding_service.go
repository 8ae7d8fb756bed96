package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/internal/dto"
	"github.com/newwebie/admin-apontamentos/internal/model"
	"github.com/newwebie/admin-apontamentos/internal/repository"
	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// ── findings business errors ──

var ErrInvalidFindingStatus = errors.New("status de apontamento inválido")

// FindingService exposes the apontamentos triage: filtered listing and
// the bulk-edit grid with its status side effect.
type FindingService interface {
	List(ctx context.Context, req *dto.FindingListRequest) ([]dto.FindingResponse, error)
	Grid(ctx context.Context) (*dto.GridResponse, error)
	SubmitGrid(ctx context.Context, req *dto.SubmitGridRequest, actor string) (*dto.SubmitGridResult, error)
	Catalog() *dto.FindingCatalogResponse
}

type findingService struct {
	repo   *repository.Repository
	logger *zap.Logger
	nowFn  func() time.Time
}

// NewFindingService creates a FindingService.
func NewFindingService(repo *repository.Repository, logger *zap.Logger) FindingService {
	return &findingService{repo: repo, logger: logger, nowFn: time.Now}
}

// ────────────────────── List ──────────────────────

func (s *findingService) List(ctx context.Context, req *dto.FindingListRequest) ([]dto.FindingResponse, error) {
	table, err := s.repo.Findings.Load(ctx)
	if err != nil {
		s.logger.Error("falha ao carregar planilha de apontamentos", zap.Error(err))
		return nil, err
	}

	result := make([]dto.FindingResponse, 0, len(table.Rows))
	for _, r := range table.Rows {
		f := model.FindingFromRow(r)
		if f.ID == "" {
			continue
		}
		if !matchesFindingFilter(f, req) {
			continue
		}
		result = append(result, toFindingResponse(f))
	}
	return result, nil
}

// ────────────────────── Grid ──────────────────────

func (s *findingService) Grid(ctx context.Context) (*dto.GridResponse, error) {
	table, err := s.repo.Findings.Load(ctx)
	if err != nil {
		s.logger.Error("falha ao carregar planilha de apontamentos", zap.Error(err))
		return nil, err
	}

	snap := snapshotFromTable(gridFindings, table)
	id, err := s.repo.Snapshots.Put(ctx, snap)
	if err != nil {
		s.logger.Error("falha ao gravar snapshot da grade", zap.Error(err))
		return nil, err
	}

	return &dto.GridResponse{SnapshotID: id, Columns: snap.Columns, Rows: rowsAsMaps(snap.Rows)}, nil
}

// ────────────────────── SubmitGrid ──────────────────────

func (s *findingService) SubmitGrid(ctx context.Context, req *dto.SubmitGridRequest, actor string) (*dto.SubmitGridResult, error) {
	snap, err := loadSnapshot(ctx, s.repo.Snapshots, req.SnapshotID, gridFindings)
	if err != nil {
		return nil, err
	}

	snapTable := snap.Table()
	edited := tableFromRows(snap.Columns, req.Rows)

	taken := takenIDs(append(append([]sheet.Row{}, snapTable.Rows...), edited.Rows...), model.ColFindingID)
	delta := sheet.ComputeDelta(snapTable, edited, model.ColFindingID, model.FindingComparableColumns(), func() string {
		id := generateRowID(taken)
		taken[id] = true
		return id
	})

	if delta.Empty() {
		return &dto.SubmitGridResult{NoChanges: true}, nil
	}
	if err := validateFindingStatuses(delta); err != nil {
		return nil, err
	}

	s.stampVerification(delta)

	stamp := sheet.Stamp{
		AtColumn: model.ColFindingUpdatedAt,
		ByColumn: model.ColFindingUpdatedBy,
		At:       s.nowFn().Format(timestampLayout),
		By:       actor,
	}

	err = s.repo.Findings.Update(ctx, func(table *sheet.Table) error {
		authTaken := takenIDs(table.Rows, model.ColFindingID)
		for _, r := range delta.Inserted {
			if authTaken[r[model.ColFindingID]] {
				r[model.ColFindingID] = generateRowID(authTaken)
			}
			authTaken[r[model.ColFindingID]] = true
		}

		delta.Apply(table, model.ColFindingID, stamp)
		return nil
	})
	if err != nil {
		s.logger.Error("falha ao salvar grade de apontamentos", zap.Error(err))
		return nil, err
	}

	s.logger.Info("grade de apontamentos salva",
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

func (s *findingService) Catalog() *dto.FindingCatalogResponse {
	return &dto.FindingCatalogResponse{
		Statuses:     model.FindingStatuses,
		Origins:      model.FindingOrigins,
		Severities:   model.FindingSeverities,
		Periods:      model.FindingPeriods,
		Participants: model.FindingParticipants(),
	}
}

// ── internal helpers ──

// stampVerification fills Data de Verificação when a row enters the
// VERIFICANDO status with the cell still blank. The stamp is written
// once: rows already VERIFICANDO keep whatever date they carry, and a
// row created directly in VERIFICANDO is stamped on insertion.
func (s *findingService) stampVerification(delta *sheet.Delta) {
	today := s.nowFn().Format(dateLayout)

	for _, ch := range delta.Modified {
		oldStatus := sheet.NormalizeCell(ch.Old[model.ColFindingStatus])
		newStatus := sheet.NormalizeCell(ch.New[model.ColFindingStatus])
		if !strings.EqualFold(newStatus, model.FindingVerificando) {
			continue
		}
		if strings.EqualFold(oldStatus, model.FindingVerificando) {
			// Already verifying: preserve the original stamp even if the
			// client sent the cell back blank.
			if sheet.NormalizeCell(ch.New[model.ColFindingVerification]) == "" {
				ch.New[model.ColFindingVerification] = ch.Old[model.ColFindingVerification]
			}
			continue
		}
		if sheet.NormalizeCell(ch.New[model.ColFindingVerification]) == "" {
			ch.New[model.ColFindingVerification] = today
		}
	}

	for _, r := range delta.Inserted {
		if strings.EqualFold(sheet.NormalizeCell(r[model.ColFindingStatus]), model.FindingVerificando) &&
			sheet.NormalizeCell(r[model.ColFindingVerification]) == "" {
			r[model.ColFindingVerification] = today
		}
	}
}

// validateFindingStatuses rejects unknown status values on touched rows.
// Blank is allowed: legacy rows predate the status taxonomy.
func validateFindingStatuses(delta *sheet.Delta) error {
	check := func(r sheet.Row) error {
		status := sheet.NormalizeCell(r[model.ColFindingStatus])
		if status == "" {
			return nil
		}
		for _, v := range model.FindingStatuses {
			if strings.EqualFold(status, v) {
				return nil
			}
		}
		return ErrInvalidFindingStatus
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

func matchesFindingFilter(f model.Finding, req *dto.FindingListRequest) bool {
	if req == nil {
		return true
	}
	if req.ID != "" && !strings.Contains(strings.ToLower(f.ID), strings.ToLower(req.ID)) {
		return false
	}
	if req.Status != "" && !strings.EqualFold(f.Status, req.Status) {
		return false
	}
	if req.Study != "" && !strings.Contains(strings.ToLower(f.Study), strings.ToLower(req.Study)) {
		return false
	}
	return true
}

func toFindingResponse(f model.Finding) dto.FindingResponse {
	return dto.FindingResponse{
		ID:           f.ID,
		Study:        f.Study,
		Status:       f.Status,
		Document:     f.Document,
		Origin:       f.Origin,
		Severity:     f.Severity,
		Participant:  f.Participant,
		Period:       f.Period,
		Description:  f.Description,
		Justify:      f.Justify,
		RaisedAt:     f.RaisedAt,
		Verification: f.Verification,
		Deadline:     f.Deadline,
		ResolvedAt:   f.ResolvedAt,
		UpdatedAt:    f.UpdatedAt,
		UpdatedBy:    f.UpdatedBy,
	}
}
