package models

import "time"

// EnrollmentStatus tracks a registration through the wizard and review flow.
type EnrollmentStatus string

const (
	EnrollmentStatusPending  EnrollmentStatus = "pending"
	EnrollmentStatusApproved EnrollmentStatus = "approved"
	EnrollmentStatusRejected EnrollmentStatus = "rejected"
)

// Enrollment is a student's registration for a course batch.
type Enrollment struct {
	ID        string           `json:"id"`
	StudentID string           `json:"student"`
	CourseID  string           `json:"course"`
	BatchID   string           `json:"batch"`
	Status    EnrollmentStatus `json:"status"`
	Note      string           `json:"note,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// EntityID implements liststore identity.
func (e Enrollment) EntityID() string { return e.ID }
