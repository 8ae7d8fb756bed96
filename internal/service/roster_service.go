package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/newwebie/admin-apontamentos/internal/dto"
	"github.com/newwebie/admin-apontamentos/internal/model"
	"github.com/newwebie/admin-apontamentos/internal/repository"
	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// ── roster business errors ──

var (
	ErrPersonNotFound           = errors.New("colaborador não encontrado")
	ErrDuplicateDocument        = errors.New("já existe um colaborador cadastrado com este CPF/CNPJ")
	ErrSlotFull                 = errors.New("limite de colaboradores atingido para esta vaga")
	ErrInvalidContract          = errors.New("tipo de contrato inválido")
	ErrInvalidStatus            = errors.New("status do profissional inválido")
	ErrInvalidTerminationReason = errors.New("motivo de desligamento inválido para o tipo de contrato")
	ErrInvalidDate              = errors.New("data inválida, use o formato DD/MM/AAAA")
)

// RosterService manages the colaboradores sheet: single-record forms,
// the bulk-edit grid and lookups with reconciled slot data.
type RosterService interface {
	List(ctx context.Context) ([]dto.PersonResponse, error)
	Get(ctx context.Context, id string) (*dto.PersonResponse, error)
	Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdatePersonRequest, actor string) (*dto.PersonResponse, error)
	Grid(ctx context.Context) (*dto.GridResponse, error)
	SubmitGrid(ctx context.Context, req *dto.SubmitGridRequest, actor string) (*dto.SubmitGridResult, error)
}

type rosterService struct {
	repo   *repository.Repository
	logger *zap.Logger
	nowFn  func() time.Time
}

// NewRosterService creates a RosterService.
func NewRosterService(repo *repository.Repository, logger *zap.Logger) RosterService {
	return &rosterService{repo: repo, logger: logger, nowFn: time.Now}
}

// ────────────────────── List ──────────────────────

func (s *rosterService) List(ctx context.Context) ([]dto.PersonResponse, error) {
	book, err := s.repo.Staffing.Load(ctx)
	if err != nil {
		s.logger.Error("falha ao carregar planilha de staffing", zap.Error(err))
		return nil, err
	}

	result := make([]dto.PersonResponse, 0, len(book.Roster.Rows))
	for _, r := range book.Roster.Rows {
		p := model.PersonFromRow(r)
		if p.RowID == "" && p.Name == "" {
			continue
		}
		result = append(result, toPersonResponse(p))
	}
	return result, nil
}

// ────────────────────── Get ──────────────────────

func (s *rosterService) Get(ctx context.Context, id string) (*dto.PersonResponse, error) {
	book, err := s.repo.Staffing.Load(ctx)
	if err != nil {
		s.logger.Error("falha ao carregar planilha de staffing", zap.Error(err))
		return nil, err
	}

	row, ok := findRosterRow(book.Roster, id)
	if !ok {
		return nil, ErrPersonNotFound
	}
	resp := toPersonResponse(model.PersonFromRow(row))
	return &resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *rosterService) Create(ctx context.Context, req *dto.CreatePersonRequest) (*dto.PersonResponse, error) {
	if !model.ValidContract(req.Contract) {
		return nil, ErrInvalidContract
	}
	// Nobody is hired already terminated.
	if !model.ValidStatus(req.Status) || req.Status == model.StatusDesligado {
		return nil, ErrInvalidStatus
	}
	if _, err := time.Parse(dateLayout, req.EntryDate); err != nil {
		return nil, ErrInvalidDate
	}

	now := s.nowFn()
	person := model.Person{
		RowID:        uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Document:     strings.TrimSpace(req.Document),
		SlotID:       strings.TrimSpace(req.SlotID),
		ContractType: req.Contract,
		Status:       req.Status,
		Active:       model.IsActiveStatus(req.Status),
		EntryDate:    req.EntryDate,
		Supervisor:   strings.TrimSpace(req.Supervisor),
		CreatedBy:    strings.TrimSpace(req.CreatedBy),
		CreatedAt:    now.Format(dateLayout),
		UpdatedAt:    now.Format(timestampLayout),
		UpdatedBy:    strings.TrimSpace(req.CreatedBy),
	}

	// All checks run inside the mutate so they see the freshest copy of
	// both sheets, not the cached one.
	err := s.repo.Staffing.Update(ctx, func(book *repository.StaffingBook) error {
		slotRow, ok := findSlotRow(book.Slots, person.SlotID)
		if !ok {
			return ErrSlotNotFound
		}

		if hasDocument(book.Roster, person.Document, "") {
			return ErrDuplicateDocument
		}

		if ok, capacity, _, _ := canAdmit(book.Slots, book.Roster, person.SlotID, ""); !ok {
			return fmt.Errorf("%w (máximo %d)", ErrSlotFull, capacity)
		}

		// Descriptive fields come from the slot at assignment time.
		slot := model.SlotFromRow(slotRow)
		person.Role = slot.Role
		person.Schedule = slot.Schedule
		person.TimeWindow = slot.TimeWindow
		person.Class = slot.Class
		person.ShiftLabel = deriveShiftLabel(slot.Schedule, slot.TimeWindow, slot.ShiftLabel)

		book.Roster.Append(person.ToRow())
		reconcileActiveCounts(book.Slots, book.Roster)
		return nil
	})
	if err != nil {
		if !isRosterBusinessError(err) {
			s.logger.Error("falha ao cadastrar colaborador", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("colaborador cadastrado",
		zap.String("id", person.RowID),
		zap.String("slot", person.SlotID),
		zap.String("actor", person.CreatedBy))

	resp := toPersonResponse(person)
	return &resp, nil
}

// ────────────────────── Update ──────────────────────

func (s *rosterService) Update(ctx context.Context, id string, req *dto.UpdatePersonRequest, actor string) (*dto.PersonResponse, error) {
	var updated model.Person

	err := s.repo.Staffing.Update(ctx, func(book *repository.StaffingBook) error {
		row, ok := findRosterRow(book.Roster, id)
		if !ok {
			return ErrPersonNotFound
		}
		person := model.PersonFromRow(row)

		if req.Name != nil {
			person.Name = strings.TrimSpace(*req.Name)
		}

		if req.Contract != nil && *req.Contract != person.ContractType {
			if !model.ValidContract(*req.Contract) {
				return ErrInvalidContract
			}
			person.ContractType = *req.Contract
			// The reason taxonomy follows the contract; a reason recorded
			// under the old contract no longer applies.
			person.ReasonCLT = ""
			person.ReasonAutonomo = ""
		}

		if req.SlotID != nil && strings.TrimSpace(*req.SlotID) != person.SlotID {
			newSlot := strings.TrimSpace(*req.SlotID)
			slotRow, ok := findSlotRow(book.Slots, newSlot)
			if !ok {
				return ErrSlotNotFound
			}
			// The row being moved must not count against its own target.
			if ok, capacity, _, _ := canAdmit(book.Slots, book.Roster, newSlot, person.RowID); !ok && person.Active {
				return fmt.Errorf("%w (máximo %d)", ErrSlotFull, capacity)
			}
			slot := model.SlotFromRow(slotRow)
			person.SlotID = newSlot
			person.Role = slot.Role
			person.Schedule = slot.Schedule
			person.TimeWindow = slot.TimeWindow
			person.Class = slot.Class
			person.ShiftLabel = deriveShiftLabel(slot.Schedule, slot.TimeWindow, slot.ShiftLabel)
		}

		if req.Status != nil && *req.Status != person.Status {
			if !model.ValidStatus(*req.Status) {
				return ErrInvalidStatus
			}
			// Re-activation must fit the slot again.
			if model.IsActiveStatus(*req.Status) && !person.Active {
				if ok, capacity, _, _ := canAdmit(book.Slots, book.Roster, person.SlotID, person.RowID); !ok {
					return fmt.Errorf("%w (máximo %d)", ErrSlotFull, capacity)
				}
			}
			person.Status = *req.Status
			person.Active = model.IsActiveStatus(*req.Status)
			if person.Active {
				// Back on the roster: the termination record is history.
				person.ExitDate = ""
				person.ReasonCLT = ""
				person.ReasonAutonomo = ""
			}
		}

		if req.EntryDate != nil {
			if _, err := time.Parse(dateLayout, *req.EntryDate); err != nil {
				return ErrInvalidDate
			}
			person.EntryDate = *req.EntryDate
		}

		if req.ExitDate != nil {
			if *req.ExitDate != "" {
				if _, err := time.Parse(dateLayout, *req.ExitDate); err != nil {
					return ErrInvalidDate
				}
			}
			person.ExitDate = *req.ExitDate
		}

		if req.TerminationReason != nil {
			if err := setTerminationReason(&person, *req.TerminationReason); err != nil {
				return err
			}
		}

		if req.Supervisor != nil {
			person.Supervisor = strings.TrimSpace(*req.Supervisor)
		}

		if hasDocument(book.Roster, person.Document, person.RowID) {
			return ErrDuplicateDocument
		}

		person.UpdatedAt = s.nowFn().Format(timestampLayout)
		person.UpdatedBy = actor

		replaceRosterRow(book.Roster, person)
		reconcileActiveCounts(book.Slots, book.Roster)
		updated = person
		return nil
	})
	if err != nil {
		if !isRosterBusinessError(err) {
			s.logger.Error("falha ao atualizar colaborador", zap.String("id", id), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("colaborador atualizado", zap.String("id", id), zap.String("actor", actor))

	resp := toPersonResponse(updated)
	return &resp, nil
}

// ────────────────────── Grid ──────────────────────

func (s *rosterService) Grid(ctx context.Context) (*dto.GridResponse, error) {
	book, err := s.repo.Staffing.Load(ctx)
	if err != nil {
		s.logger.Error("falha ao carregar planilha de staffing", zap.Error(err))
		return nil, err
	}

	snap := snapshotFromTable(gridRoster, book.Roster)
	id, err := s.repo.Snapshots.Put(ctx, snap)
	if err != nil {
		s.logger.Error("falha ao gravar snapshot da grade", zap.Error(err))
		return nil, err
	}

	return &dto.GridResponse{SnapshotID: id, Columns: snap.Columns, Rows: rowsAsMaps(snap.Rows)}, nil
}

// ────────────────────── SubmitGrid ──────────────────────

func (s *rosterService) SubmitGrid(ctx context.Context, req *dto.SubmitGridRequest, actor string) (*dto.SubmitGridResult, error) {
	snap, err := loadSnapshot(ctx, s.repo.Snapshots, req.SnapshotID, gridRoster)
	if err != nil {
		return nil, err
	}

	snapTable := snap.Table()
	edited := tableFromRows(snap.Columns, req.Rows)

	delta := sheet.ComputeDelta(snapTable, edited, model.ColPersonID, model.RosterComparableColumns(), func() string {
		return uuid.New().String()
	})

	if delta.Empty() {
		return &dto.SubmitGridResult{NoChanges: true}, nil
	}
	if err := validateRosterDelta(delta); err != nil {
		return nil, err
	}

	stamp := sheet.Stamp{
		AtColumn: model.ColPersonUpdatedAt,
		ByColumn: model.ColPersonUpdatedBy,
		At:       s.nowFn().Format(timestampLayout),
		By:       actor,
	}

	err = s.repo.Staffing.Update(ctx, func(book *repository.StaffingBook) error {
		if err := checkRosterDeltaAgainst(book, delta); err != nil {
			return err
		}
		delta.Apply(book.Roster, model.ColPersonID, stamp)
		reconcileActiveCounts(book.Slots, book.Roster)
		return nil
	})
	if err != nil {
		if !isRosterBusinessError(err) {
			s.logger.Error("falha ao salvar grade de colaboradores", zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("grade de colaboradores salva",
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

// ── internal helpers ──

// validateRosterDelta checks the per-row enumerations on touched rows
// and derives the Ativo flag from the status, so the flag can never be
// edited into contradiction through the grid.
func validateRosterDelta(delta *sheet.Delta) error {
	check := func(r sheet.Row) error {
		if c := sheet.NormalizeCell(r[model.ColPersonContract]); c != "" && !model.ValidContract(c) {
			return ErrInvalidContract
		}
		status := sheet.NormalizeCell(r[model.ColPersonStatus])
		if status != "" && !model.ValidStatus(status) {
			return ErrInvalidStatus
		}
		if status != "" {
			if model.IsActiveStatus(status) {
				r[model.ColPersonActive] = "Sim"
			} else {
				r[model.ColPersonActive] = "Não"
			}
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

// checkRosterDeltaAgainst validates the delta against the freshest copy
// of both sheets: no duplicate documents and no slot pushed over its
// capacity by this submission. A slot already over capacity from an
// outside edit only fails if the delta makes it worse.
func checkRosterDeltaAgainst(book *repository.StaffingBook, delta *sheet.Delta) error {
	before := activeCountBySlot(book.Roster)

	work := book.Roster.Clone()
	delta.Apply(work, model.ColPersonID, sheet.Stamp{})

	seen := make(map[string]string, len(work.Rows))
	for _, r := range work.Rows {
		doc := model.NormalizeDocument(r[model.ColPersonDocument])
		if doc == "" {
			continue
		}
		if _, dup := seen[doc]; dup {
			return ErrDuplicateDocument
		}
		seen[doc] = strings.TrimSpace(r[model.ColPersonID])
	}

	after := activeCountBySlot(work)
	for slotID, count := range after {
		if count <= before[slotID] {
			continue
		}
		_, capacity, _, found := canAdmit(book.Slots, work, slotID, "")
		if found && count > capacity {
			return fmt.Errorf("%w (vaga %s, máximo %d)", ErrSlotFull, slotID, capacity)
		}
	}
	return nil
}

// setTerminationReason writes the reason into the column matching the
// person's contract and clears the other. Blank clears both. Horista
// engagements carry no reason taxonomy.
func setTerminationReason(person *model.Person, reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		person.ReasonCLT = ""
		person.ReasonAutonomo = ""
		return nil
	}
	if !model.ValidTerminationReason(person.ContractType, reason) {
		return ErrInvalidTerminationReason
	}
	switch person.ContractType {
	case model.ContractCLT:
		person.ReasonCLT = reason
		person.ReasonAutonomo = ""
	case model.ContractAutonomo:
		person.ReasonAutonomo = reason
		person.ReasonCLT = ""
	}
	return nil
}

func findRosterRow(roster *sheet.Table, id string) (sheet.Row, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	for _, r := range roster.Rows {
		if strings.TrimSpace(r[model.ColPersonID]) == id {
			return r, true
		}
	}
	return nil, false
}

func findSlotRow(slots *sheet.Table, id string) (sheet.Row, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	for _, r := range slots.Rows {
		if strings.TrimSpace(r[model.ColSlotID]) == id {
			return r, true
		}
	}
	return nil, false
}

// replaceRosterRow writes the person back over their existing row,
// keeping the row's position in the sheet.
func replaceRosterRow(roster *sheet.Table, person model.Person) {
	for i, r := range roster.Rows {
		if strings.TrimSpace(r[model.ColPersonID]) == person.RowID {
			roster.Rows[i] = person.ToRow()
			return
		}
	}
}

// hasDocument reports whether any roster row other than excludeRowID
// carries the same document after digit normalization.
func hasDocument(roster *sheet.Table, document, excludeRowID string) bool {
	doc := model.NormalizeDocument(document)
	if doc == "" {
		return false
	}
	for _, r := range roster.Rows {
		if excludeRowID != "" && strings.TrimSpace(r[model.ColPersonID]) == excludeRowID {
			continue
		}
		if model.NormalizeDocument(r[model.ColPersonDocument]) == doc {
			return true
		}
	}
	return false
}

func isRosterBusinessError(err error) bool {
	return errors.Is(err, ErrPersonNotFound) ||
		errors.Is(err, ErrDuplicateDocument) ||
		errors.Is(err, ErrSlotFull) ||
		errors.Is(err, ErrSlotNotFound) ||
		errors.Is(err, ErrInvalidContract) ||
		errors.Is(err, ErrInvalidStatus) ||
		errors.Is(err, ErrInvalidTerminationReason) ||
		errors.Is(err, ErrInvalidDate)
}

func toPersonResponse(p model.Person) dto.PersonResponse {
	reason := p.ReasonCLT
	if reason == "" {
		reason = p.ReasonAutonomo
	}
	return dto.PersonResponse{
		ID:                p.RowID,
		Name:              p.Name,
		Document:          p.Document,
		SlotID:            p.SlotID,
		Role:              p.Role,
		Schedule:          p.Schedule,
		TimeWindow:        p.TimeWindow,
		Class:             p.Class,
		ShiftLabel:        p.ShiftLabel,
		Contract:          p.ContractType,
		Status:            p.Status,
		Active:            p.Active,
		EntryDate:         p.EntryDate,
		ExitDate:          p.ExitDate,
		TerminationReason: reason,
		Supervisor:        p.Supervisor,
		CreatedBy:         p.CreatedBy,
		UpdatedAt:         p.UpdatedAt,
		UpdatedBy:         p.UpdatedBy,
	}
}
