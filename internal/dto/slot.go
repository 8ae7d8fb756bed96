package dto

// ── slot ledger DTOs ──

// SlotResponse is one authorized position with its derived headcount.
type SlotResponse struct {
	ID          string `json:"id"`
	Role        string `json:"role"`
	Department  string `json:"department,omitempty"`
	Schedule    string `json:"schedule"`
	TimeWindow  string `json:"time_window"`
	Class       string `json:"class"`
	ShiftLabel  string `json:"shift_label,omitempty"`
	Supervisor  string `json:"supervisor,omitempty"`
	Capacity    int    `json:"capacity"`
	ActiveCount int    `json:"active_count"`
	Available   int    `json:"available"`
}

// StaffingCatalogResponse feeds the form select boxes: the distinct
// categorical values declared in the slot ledger plus the fixed
// domain enumerations.
type StaffingCatalogResponse struct {
	Roles              []string            `json:"roles"`
	Schedules          []string            `json:"schedules"`
	TimeWindows        []string            `json:"time_windows"`
	Classes            []string            `json:"classes"`
	Contracts          []string            `json:"contracts"`
	Statuses           []string            `json:"statuses"`
	TerminationReasons map[string][]string `json:"termination_reasons"`
}
