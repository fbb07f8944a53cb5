package types

import "time"

// ExitInterview is an employee's post-approval questionnaire response.
// At most one exists per resignation.
type ExitInterview struct {
	ID            string `json:"id"`
	ResignationID string `json:"resignationId"`
	EmployeeID    string `json:"employeeId"`
	EmployeeName  string `json:"employeeName"`

	// Answers maps question keys to free-text responses.
	Answers map[string]string `json:"answers"`

	SubmittedAt time.Time  `json:"submittedAt"`
	ReviewedAt  *time.Time `json:"reviewedAt"`
	ReviewedBy  string     `json:"reviewedBy,omitempty"`
}
