package types

import "time"

// Status is the lifecycle state of a resignation request.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// DateLayout is the wire format for calendar dates (last working day,
// exit date). Timestamps use RFC 3339.
const DateLayout = "2006-01-02"

// Resignation is one employee's resignation request and its HR disposition.
// Employee name and email are denormalized snapshots taken at submission.
type Resignation struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`
	EmployeeEmail string `json:"employeeEmail"`

	// LastWorkingDay is the employee-proposed final day, YYYY-MM-DD.
	LastWorkingDay string `json:"lastWorkingDay"`
	Reason         string `json:"reason"`

	Status Status `json:"status"`

	// ExitDate is the HR-confirmed final day, set only on approval.
	ExitDate string `json:"exitDate,omitempty"`

	// RejectionReason is set only on rejection and may be empty.
	RejectionReason string `json:"rejectionReason,omitempty"`

	SubmittedAt time.Time  `json:"submittedAt"`
	ReviewedAt  *time.Time `json:"reviewedAt"`
	ReviewedBy  string     `json:"reviewedBy,omitempty"`
}
