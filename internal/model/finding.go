package model

import (
	"fmt"
	"strings"

	"github.com/newwebie/admin-apontamentos/internal/sheet"
)

// Findings (apontamentos) columns.
const (
	ColFindingID           = "ID"
	ColFindingStudy        = "Estudo"
	ColFindingStatus       = "Status"
	ColFindingDocument     = "Documentos"
	ColFindingOrigin       = "Origem Do Apontamento"
	ColFindingSeverity     = "Grau De Criticidade Do Apontamento"
	ColFindingParticipant  = "Participante"
	ColFindingPeriod       = "Período"
	ColFindingDescription  = "Descrição"
	ColFindingJustify      = "Justificativa"
	ColFindingRaisedAt     = "Data do Apontamento"
	ColFindingVerification = "Data de Verificação"
	ColFindingDeadline     = "Prazo Para Resolução"
	ColFindingResolvedAt   = "Data de Resolução"
	ColFindingUpdatedAt    = "Data Atualização"
	ColFindingUpdatedBy    = "Atualizado Por"
)

// Finding status values, as persisted.
const (
	FindingRealizadoConducao = "REALIZADO DURANTE A CONDUÇÃO"
	FindingRealizado         = "REALIZADO"
	FindingVerificando       = "VERIFICANDO"
	FindingPendente          = "PENDENTE"
	FindingNaoAplicavel      = "NÃO APLICÁVEL"
)

// FindingStatuses lists the valid status values.
var FindingStatuses = []string{
	FindingRealizadoConducao, FindingRealizado, FindingVerificando,
	FindingPendente, FindingNaoAplicavel,
}

// FindingOrigins lists where an apontamento may come from.
var FindingOrigins = []string{
	"Documentação Clínica",
	"Excelência Operacional",
	"Operações Clínicas",
	"Patrocinador / Monitor",
	"Garantia Da Qualidade",
}

// FindingSeverities lists the criticality grades.
var FindingSeverities = []string{"Baixo", "Médio", "Alto"}

// FindingPeriods lists the study periods.
var FindingPeriods = []string{
	"1° Período", "2° Período", "3° Período", "4° Período", "5° Período",
	"6° Período", "7° Período", "8° Período", "9° Período", "10° Período",
}

// FindingParticipants returns the participant codes: N/A plus
// PP01..PP999 (two-digit padding up to PP99, then plain numbers).
func FindingParticipants() []string {
	out := make([]string, 0, 1000)
	out = append(out, "N/A")
	for i := 1; i <= 999; i++ {
		out = append(out, fmt.Sprintf("PP%02d", i))
	}
	return out
}

// Finding is one audit/compliance item tied to a clinical study.
type Finding struct {
	ID           string
	Study        string
	Status       string
	Document     string
	Origin       string
	Severity     string
	Participant  string
	Period       string
	Description  string
	Justify      string
	RaisedAt     string
	Verification string
	Deadline     string
	ResolvedAt   string
	UpdatedAt    string
	UpdatedBy    string
}

// FindingColumns is the canonical column order of the findings sheet.
func FindingColumns() []string {
	return []string{
		ColFindingID, ColFindingStudy, ColFindingStatus, ColFindingDocument,
		ColFindingOrigin, ColFindingSeverity, ColFindingParticipant,
		ColFindingPeriod, ColFindingDescription, ColFindingJustify,
		ColFindingRaisedAt, ColFindingVerification, ColFindingDeadline,
		ColFindingResolvedAt, ColFindingUpdatedAt, ColFindingUpdatedBy,
	}
}

// FindingComparableColumns lists the columns the merge engine compares
// for findings grid edits: everything except the synthetic ID and the
// audit columns. Data de Verificação stays comparable because users may
// correct it by hand; only the automatic stamping is once-only.
func FindingComparableColumns() []string {
	return []string{
		ColFindingStudy, ColFindingStatus, ColFindingDocument, ColFindingOrigin,
		ColFindingSeverity, ColFindingParticipant, ColFindingPeriod,
		ColFindingDescription, ColFindingJustify, ColFindingRaisedAt,
		ColFindingVerification, ColFindingDeadline, ColFindingResolvedAt,
	}
}

// FindingFromRow maps a sheet row into a Finding.
func FindingFromRow(r sheet.Row) Finding {
	return Finding{
		ID:           strings.TrimSpace(r[ColFindingID]),
		Study:        sheet.NormalizeCell(r[ColFindingStudy]),
		Status:       sheet.NormalizeCell(r[ColFindingStatus]),
		Document:     sheet.NormalizeCell(r[ColFindingDocument]),
		Origin:       sheet.NormalizeCell(r[ColFindingOrigin]),
		Severity:     sheet.NormalizeCell(r[ColFindingSeverity]),
		Participant:  sheet.NormalizeCell(r[ColFindingParticipant]),
		Period:       sheet.NormalizeCell(r[ColFindingPeriod]),
		Description:  sheet.NormalizeCell(r[ColFindingDescription]),
		Justify:      sheet.NormalizeCell(r[ColFindingJustify]),
		RaisedAt:     sheet.NormalizeCell(r[ColFindingRaisedAt]),
		Verification: sheet.NormalizeCell(r[ColFindingVerification]),
		Deadline:     sheet.NormalizeCell(r[ColFindingDeadline]),
		ResolvedAt:   sheet.NormalizeCell(r[ColFindingResolvedAt]),
		UpdatedAt:    sheet.NormalizeCell(r[ColFindingUpdatedAt]),
		UpdatedBy:    sheet.NormalizeCell(r[ColFindingUpdatedBy]),
	}
}
