// Package model holds the domain types persisted in the workbooks and
// their row mappings. Column names are the exact headers the sheets
// carry; downstream consumers re-read this same file, so renaming a
// header is a breaking change.
package model

import (
	"strconv"
	"strings"

	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// Workbook sheet names.
const (
	SheetSlots    = "Staff Operações Clínica"
	SheetRoster   = "Colaboradores"
	SheetFindings = "Apontamentos"
)

// Slot ledger columns.
const (
	ColSlotID         = "ID Vaga"
	ColSlotRole       = "Cargo"
	ColSlotDepartment = "Departamento"
	ColSlotSchedule   = "Escala"
	ColSlotTimeWindow = "Horário"
	ColSlotClass      = "Turma"
	ColSlotShift      = "Turno"
	ColSlotSupervisor = "Supervisão"
	ColSlotCapacity   = "Quantidade Staff"
	ColSlotActives    = "Ativos"
	ColSlotUpdatedAt  = "Data Atualização"
	ColSlotUpdatedBy  = "Atualizado Por"
)

// Slot is one authorized staffing position. ActiveCount is derived
// from the roster; it is recomputed on every load and before every
// save, never hand-edited.
type Slot struct {
	ID          string
	Role        string
	Department  string
	Schedule    string
	TimeWindow  string
	Class       string
	ShiftLabel  string
	Supervisor  string
	Capacity    int
	ActiveCount int
	UpdatedAt   string
	UpdatedBy   string
}

// SlotColumns is the canonical column order of the slot ledger sheet.
func SlotColumns() []string {
	return []string{
		ColSlotID, ColSlotRole, ColSlotDepartment, ColSlotSchedule,
		ColSlotTimeWindow, ColSlotClass, ColSlotShift, ColSlotSupervisor,
		ColSlotCapacity, ColSlotActives, ColSlotUpdatedAt, ColSlotUpdatedBy,
	}
}

// SlotComparableColumns lists the columns the merge engine compares for
// slot ledger grid edits. The key, the derived Ativos column and the
// audit columns are excluded: Ativos is recomputed before every save
// and must never count as a user edit.
func SlotComparableColumns() []string {
	return []string{
		ColSlotRole, ColSlotDepartment, ColSlotSchedule, ColSlotTimeWindow,
		ColSlotClass, ColSlotShift, ColSlotSupervisor, ColSlotCapacity,
	}
}

// SlotFromRow maps a sheet row into a Slot.
func SlotFromRow(r sheet.Row) Slot {
	return Slot{
		ID:          strings.TrimSpace(r[ColSlotID]),
		Role:        sheet.NormalizeCell(r[ColSlotRole]),
		Department:  sheet.NormalizeCell(r[ColSlotDepartment]),
		Schedule:    sheet.NormalizeCell(r[ColSlotSchedule]),
		TimeWindow:  sheet.NormalizeCell(r[ColSlotTimeWindow]),
		Class:       sheet.NormalizeCell(r[ColSlotClass]),
		ShiftLabel:  sheet.NormalizeCell(r[ColSlotShift]),
		Supervisor:  sheet.NormalizeCell(r[ColSlotSupervisor]),
		Capacity:    ParseCount(r[ColSlotCapacity]),
		ActiveCount: ParseCount(r[ColSlotActives]),
		UpdatedAt:   sheet.NormalizeCell(r[ColSlotUpdatedAt]),
		UpdatedBy:   sheet.NormalizeCell(r[ColSlotUpdatedBy]),
	}
}

// ToRow maps a Slot back into a sheet row.
func (s Slot) ToRow() sheet.Row {
	return sheet.Row{
		ColSlotID:         s.ID,
		ColSlotRole:       s.Role,
		ColSlotDepartment: s.Department,
		ColSlotSchedule:   s.Schedule,
		ColSlotTimeWindow: s.TimeWindow,
		ColSlotClass:      s.Class,
		ColSlotShift:      s.ShiftLabel,
		ColSlotSupervisor: s.Supervisor,
		ColSlotCapacity:   strconv.Itoa(s.Capacity),
		ColSlotActives:    strconv.Itoa(s.ActiveCount),
		ColSlotUpdatedAt:  s.UpdatedAt,
		ColSlotUpdatedBy:  s.UpdatedBy,
	}
}

// ParseCount reads an integer cell. Workbooks that went through pandas
// carry counts as "2.0"; both spellings parse, anything else counts as
// zero rather than failing the whole load.
func ParseCount(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 {
			return 0
		}
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 {
		return int(f)
	}
	return 0
}
