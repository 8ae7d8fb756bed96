package model

import (
	"strings"

	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// Roster columns.
const (
	ColPersonID             = "ID"
	ColPersonName           = "Nome Completo do Profissional"
	ColPersonDocument       = "CPF ou CNPJ"
	ColPersonSlotID         = "ID Vaga"
	ColPersonRole           = "Cargo"
	ColPersonSchedule       = "Escala"
	ColPersonTimeWindow     = "Horário"
	ColPersonClass          = "Turma"
	ColPersonShift          = "Turno"
	ColPersonContract       = "Tipo de Contrato"
	ColPersonStatus         = "Status do Profissional"
	ColPersonActive         = "Ativo"
	ColPersonEntry          = "Entrada"
	ColPersonExit           = "Saída"
	ColPersonReasonCLT      = "Motivo Desligamento (CLT)"
	ColPersonReasonAutonomo = "Motivo Rescisão (Autônomo)"
	ColPersonSupervisor     = "Supervisão Direta"
	ColPersonCreatedBy      = "Responsável pela Inclusão dos dados"
	ColPersonCreatedAt      = "CreatedAt"
	ColPersonUpdatedAt      = "Data Atualização"
	ColPersonUpdatedBy      = "Atualizado Por"
)

// Contract types.
const (
	ContractCLT      = "CLT"
	ContractAutonomo = "Autonomo"
	ContractHorista  = "Horista"
)

// Professional status values. A person is active iff their status is
// anything other than StatusDesligado.
const (
	StatusEmTreinamento = "Em Treinamento"
	StatusApto          = "Apto"
	StatusAfastado      = "Afastado"
	StatusDesistiu      = "Desistiu antes do onboarding"
	StatusDesligado     = "Desligado"
)

// Termination reasons, segregated by contract type. The two reason
// columns are mutually exclusive: whichever does not apply to the
// person's contract must stay blank.
var (
	ReasonsCLT = []string{
		"Pedido de Demissão",
		"Demissão pela Empresa",
	}
	ReasonsAutonomo = []string{
		"Comum Acordo",
		"Rescisão pelo Prestador",
		"Rescisão pela Empresa",
	}
)

// Contracts lists the valid contract types.
var Contracts = []string{ContractCLT, ContractAutonomo, ContractHorista}

// Statuses lists the valid professional status values.
var Statuses = []string{
	StatusEmTreinamento, StatusApto, StatusAfastado, StatusDesistiu, StatusDesligado,
}

// Person is one roster row: an employee or contractor bound to a slot.
// Rows are never physically deleted; termination flips Active to "Não"
// and Status to Desligado.
type Person struct {
	RowID          string
	Name           string
	Document       string
	SlotID         string
	Role           string
	Schedule       string
	TimeWindow     string
	Class          string
	ShiftLabel     string
	ContractType   string
	Status         string
	Active         bool
	EntryDate      string
	ExitDate       string
	ReasonCLT      string
	ReasonAutonomo string
	Supervisor     string
	CreatedBy      string
	CreatedAt      string
	UpdatedAt      string
	UpdatedBy      string
}

// PersonColumns is the canonical column order of the roster sheet.
func PersonColumns() []string {
	return []string{
		ColPersonID, ColPersonName, ColPersonDocument, ColPersonSlotID,
		ColPersonRole, ColPersonSchedule, ColPersonTimeWindow, ColPersonClass,
		ColPersonShift, ColPersonContract, ColPersonStatus, ColPersonActive,
		ColPersonEntry, ColPersonExit, ColPersonReasonCLT, ColPersonReasonAutonomo,
		ColPersonSupervisor, ColPersonCreatedBy, ColPersonCreatedAt,
		ColPersonUpdatedAt, ColPersonUpdatedBy,
	}
}

// RosterComparableColumns lists the columns the merge engine compares
// for roster grid edits: everything except the surrogate key and the
// audit columns.
func RosterComparableColumns() []string {
	return []string{
		ColPersonName, ColPersonDocument, ColPersonSlotID, ColPersonRole,
		ColPersonSchedule, ColPersonTimeWindow, ColPersonClass, ColPersonShift,
		ColPersonContract, ColPersonStatus, ColPersonActive, ColPersonEntry,
		ColPersonExit, ColPersonReasonCLT, ColPersonReasonAutonomo,
		ColPersonSupervisor, ColPersonCreatedBy, ColPersonCreatedAt,
	}
}

// PersonFromRow maps a sheet row into a Person.
func PersonFromRow(r sheet.Row) Person {
	return Person{
		RowID:          strings.TrimSpace(r[ColPersonID]),
		Name:           sheet.NormalizeCell(r[ColPersonName]),
		Document:       sheet.NormalizeCell(r[ColPersonDocument]),
		SlotID:         sheet.NormalizeCell(r[ColPersonSlotID]),
		Role:           sheet.NormalizeCell(r[ColPersonRole]),
		Schedule:       sheet.NormalizeCell(r[ColPersonSchedule]),
		TimeWindow:     sheet.NormalizeCell(r[ColPersonTimeWindow]),
		Class:          sheet.NormalizeCell(r[ColPersonClass]),
		ShiftLabel:     sheet.NormalizeCell(r[ColPersonShift]),
		ContractType:   sheet.NormalizeCell(r[ColPersonContract]),
		Status:         sheet.NormalizeCell(r[ColPersonStatus]),
		Active:         sheet.IsTruthy(r[ColPersonActive]),
		EntryDate:      sheet.NormalizeCell(r[ColPersonEntry]),
		ExitDate:       sheet.NormalizeCell(r[ColPersonExit]),
		ReasonCLT:      sheet.NormalizeCell(r[ColPersonReasonCLT]),
		ReasonAutonomo: sheet.NormalizeCell(r[ColPersonReasonAutonomo]),
		Supervisor:     sheet.NormalizeCell(r[ColPersonSupervisor]),
		CreatedBy:      sheet.NormalizeCell(r[ColPersonCreatedBy]),
		CreatedAt:      sheet.NormalizeCell(r[ColPersonCreatedAt]),
		UpdatedAt:      sheet.NormalizeCell(r[ColPersonUpdatedAt]),
		UpdatedBy:      sheet.NormalizeCell(r[ColPersonUpdatedBy]),
	}
}

// ToRow maps a Person back into a sheet row.
func (p Person) ToRow() sheet.Row {
	active := "Não"
	if p.Active {
		active = "Sim"
	}
	return sheet.Row{
		ColPersonID:             p.RowID,
		ColPersonName:           p.Name,
		ColPersonDocument:       p.Document,
		ColPersonSlotID:         p.SlotID,
		ColPersonRole:           p.Role,
		ColPersonSchedule:       p.Schedule,
		ColPersonTimeWindow:     p.TimeWindow,
		ColPersonClass:          p.Class,
		ColPersonShift:          p.ShiftLabel,
		ColPersonContract:       p.ContractType,
		ColPersonStatus:         p.Status,
		ColPersonActive:         active,
		ColPersonEntry:          p.EntryDate,
		ColPersonExit:           p.ExitDate,
		ColPersonReasonCLT:      p.ReasonCLT,
		ColPersonReasonAutonomo: p.ReasonAutonomo,
		ColPersonSupervisor:     p.Supervisor,
		ColPersonCreatedBy:      p.CreatedBy,
		ColPersonCreatedAt:      p.CreatedAt,
		ColPersonUpdatedAt:      p.UpdatedAt,
		ColPersonUpdatedBy:      p.UpdatedBy,
	}
}

// IsActiveStatus derives the active flag from the professional status.
func IsActiveStatus(status string) bool {
	return !strings.EqualFold(strings.TrimSpace(status), StatusDesligado)
}

// NormalizeDocument strips everything but digits from a CPF/CNPJ so
// duplicate checks compare by exact digit match regardless of
// formatting characters.
func NormalizeDocument(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidContract reports whether the contract type is known.
func ValidContract(c string) bool {
	for _, v := range Contracts {
		if v == c {
			return true
		}
	}
	return false
}

// ValidStatus reports whether the professional status is known.
func ValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// ValidTerminationReason reports whether reason is allowed for the
// given contract type. Horista engagements carry no reason taxonomy.
func ValidTerminationReason(contract, reason string) bool {
	var allowed []string
	switch contract {
	case ContractCLT:
		allowed = ReasonsCLT
	case ContractAutonomo:
		allowed = ReasonsAutonomo
	default:
		return false
	}
	for _, v := range allowed {
		if v == reason {
			return true
		}
	}
	return false
}
