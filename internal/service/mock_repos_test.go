package service

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/newwebie/admin-apontamentos/internal/model"
	"github.com/newwebie/admin-apontamentos/internal/repository"
	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// ── mock StaffingRepository ──
//
// Mimics the real repository's read-modify-write shape: Load hands out
// a copy, Update mutates a copy and only commits it when mutate
// succeeds.

type mockStaffingRepo struct {
	book    *repository.StaffingBook
	updates int
}

func newMockStaffingRepo(book *repository.StaffingBook) *mockStaffingRepo {
	return &mockStaffingRepo{book: book}
}

func cloneBook(b *repository.StaffingBook) *repository.StaffingBook {
	return &repository.StaffingBook{
		Slots:  b.Slots.Clone(),
		Roster: b.Roster.Clone(),
	}
}

func (m *mockStaffingRepo) Load(_ context.Context) (*repository.StaffingBook, error) {
	return cloneBook(m.book), nil
}

func (m *mockStaffingRepo) Update(_ context.Context, mutate func(*repository.StaffingBook) error) error {
	work := cloneBook(m.book)
	if err := mutate(work); err != nil {
		return err
	}
	m.book = work
	m.updates++
	return nil
}

// ── mock FindingsRepository ──

type mockFindingsRepo struct {
	table   *sheet.Table
	updates int
}

func newMockFindingsRepo(table *sheet.Table) *mockFindingsRepo {
	return &mockFindingsRepo{table: table}
}

func (m *mockFindingsRepo) Load(_ context.Context) (*sheet.Table, error) {
	return m.table.Clone(), nil
}

func (m *mockFindingsRepo) Update(_ context.Context, mutate func(*sheet.Table) error) error {
	work := m.table.Clone()
	if err := mutate(work); err != nil {
		return err
	}
	m.table = work
	m.updates++
	return nil
}

// ── mock SnapshotStore ──
//
// Mimics the real store's serialization boundary: snapshots are stored
// as JSON, so callers never share memory with the stored copy.

type mockSnapshotStore struct {
	snaps map[string][]byte
	next  int
}

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{snaps: make(map[string][]byte)}
}

func (m *mockSnapshotStore) Put(_ context.Context, snap *repository.GridSnapshot) (string, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return "", err
	}
	m.next++
	id := "snap-" + strconv.Itoa(m.next)
	m.snaps[id] = data
	return id, nil
}

func (m *mockSnapshotStore) Get(_ context.Context, id string) (*repository.GridSnapshot, error) {
	data, ok := m.snaps[id]
	if !ok {
		return nil, nil
	}
	var snap repository.GridSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ── fixtures ──

func slotRow(id, role, schedule, window, class string, capacity int) sheet.Row {
	return sheet.Row{
		model.ColSlotID:         id,
		model.ColSlotRole:       role,
		model.ColSlotSchedule:   schedule,
		model.ColSlotTimeWindow: window,
		model.ColSlotClass:      class,
		model.ColSlotCapacity:   strconv.Itoa(capacity),
	}
}

func personRow(id, name, doc, slotID, status string) sheet.Row {
	active := "Não"
	if model.IsActiveStatus(status) {
		active = "Sim"
	}
	return sheet.Row{
		model.ColPersonID:       id,
		model.ColPersonName:     name,
		model.ColPersonDocument: doc,
		model.ColPersonSlotID:   slotID,
		model.ColPersonContract: model.ContractCLT,
		model.ColPersonStatus:   status,
		model.ColPersonActive:   active,
	}
}

func findingRow(id, study, status, verification string) sheet.Row {
	return sheet.Row{
		model.ColFindingID:           id,
		model.ColFindingStudy:        study,
		model.ColFindingStatus:       status,
		model.ColFindingVerification: verification,
		model.ColFindingDescription:  "desc " + id,
	}
}

func newTestBook() *repository.StaffingBook {
	slots := sheet.NewTable(model.SlotColumns()...)
	slots.Append(slotRow("V001", "Enfermeiro", "12x36 A", "07:00 às 19:00", "Turma 1", 2))
	slots.Append(slotRow("V002", "Técnico", "6x1", "19:00 às 06:00", "Turma 2", 1))

	roster := sheet.NewTable(model.PersonColumns()...)
	roster.Append(personRow("p1", "Ana Souza", "111.111.111-11", "V001", model.StatusApto))
	roster.Append(personRow("p2", "Bruno Lima", "222.222.222-22", "V001", model.StatusEmTreinamento))
	roster.Append(personRow("p3", "Carla Dias", "333.333.333-33", "V002", model.StatusDesligado))

	return &repository.StaffingBook{Slots: slots, Roster: roster}
}

func newTestRepository(book *repository.StaffingBook, findings *sheet.Table) (*repository.Repository, *mockStaffingRepo, *mockFindingsRepo, *mockSnapshotStore) {
	staffing := newMockStaffingRepo(book)
	findingsRepo := newMockFindingsRepo(findings)
	snaps := newMockSnapshotStore()
	repo := &repository.Repository{
		Staffing:  staffing,
		Findings:  findingsRepo,
		Snapshots: snaps,
	}
	return repo, staffing, findingsRepo, snaps
}
