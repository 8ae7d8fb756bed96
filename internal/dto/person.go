package dto

// ── roster (colaboradores) DTOs ──

// CreatePersonRequest is the new-hire form payload.
type CreatePersonRequest struct {
	Name       string `json:"name"        binding:"required,min=3,max=150"`
	Document   string `json:"document"    binding:"required,min=11,max=20"`
	SlotID     string `json:"slot_id"     binding:"required"`
	Contract   string `json:"contract"    binding:"required"`
	Status     string `json:"status"      binding:"required"`
	EntryDate  string `json:"entry_date"  binding:"required"` // "02/01/2006"
	Supervisor string `json:"supervisor"  binding:"required"`
	CreatedBy  string `json:"created_by"  binding:"required"`
}

// UpdatePersonRequest is the single-record update form payload. Nil
// fields are left untouched.
type UpdatePersonRequest struct {
	Name              *string `json:"name"               binding:"omitempty,min=3,max=150"`
	SlotID            *string `json:"slot_id"`
	Contract          *string `json:"contract"`
	Status            *string `json:"status"`
	EntryDate         *string `json:"entry_date"`
	ExitDate          *string `json:"exit_date"`
	TerminationReason *string `json:"termination_reason"`
	Supervisor        *string `json:"supervisor"`
}

// PersonResponse is one roster row.
type PersonResponse struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Document          string `json:"document"`
	SlotID            string `json:"slot_id"`
	Role              string `json:"role"`
	Schedule          string `json:"schedule"`
	TimeWindow        string `json:"time_window"`
	Class             string `json:"class"`
	ShiftLabel        string `json:"shift_label"`
	Contract          string `json:"contract"`
	Status            string `json:"status"`
	Active            bool   `json:"active"`
	EntryDate         string `json:"entry_date,omitempty"`
	ExitDate          string `json:"exit_date,omitempty"`
	TerminationReason string `json:"termination_reason,omitempty"`
	Supervisor        string `json:"supervisor,omitempty"`
	CreatedBy         string `json:"created_by,omitempty"`
	UpdatedAt         string `json:"updated_at,omitempty"`
	UpdatedBy         string `json:"updated_by,omitempty"`
}
