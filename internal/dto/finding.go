package dto

// ── findings (apontamentos) DTOs ──

// FindingListRequest filters the triage list.
type FindingListRequest struct {
	ID     string `form:"id"`
	Status string `form:"status"`
	Study  string `form:"study"`
}

// FindingResponse is one apontamento.
type FindingResponse struct {
	ID           string `json:"id"`
	Study        string `json:"study,omitempty"`
	Status       string `json:"status"`
	Document     string `json:"document,omitempty"`
	Origin       string `json:"origin,omitempty"`
	Severity     string `json:"severity,omitempty"`
	Participant  string `json:"participant,omitempty"`
	Period       string `json:"period,omitempty"`
	Description  string `json:"description,omitempty"`
	Justify      string `json:"justify,omitempty"`
	RaisedAt     string `json:"raised_at,omitempty"`
	Verification string `json:"verification,omitempty"`
	Deadline     string `json:"deadline,omitempty"`
	ResolvedAt   string `json:"resolved_at,omitempty"`
	UpdatedAt    string `json:"updated_at,omitempty"`
	UpdatedBy    string `json:"updated_by,omitempty"`
}

// FindingCatalogResponse feeds the triage grid select boxes.
type FindingCatalogResponse struct {
	Statuses     []string `json:"statuses"`
	Origins      []string `json:"origins"`
	Severities   []string `json:"severities"`
	Periods      []string `json:"periods"`
	Participants []string `json:"participants"`
}
