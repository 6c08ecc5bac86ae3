package models

import "time"

// ReportStatus marks how far the supervisor review of a report has come.
type ReportStatus string

const (
	ReportStatusOpen     ReportStatus = "open"
	ReportStatusReviewed ReportStatus = "reviewed"
	ReportStatusClosed   ReportStatus = "closed"
)

// Report is a supervisor dashboard row: a flagged incident or a periodic
// progress report filed against a course or student.
type Report struct {
	ID         string       `json:"id"`
	Subject    string       `json:"subject"`
	CourseID   string       `json:"course,omitempty"`
	StudentID  string       `json:"student,omitempty"`
	ReporterID string       `json:"reporter"`
	Status     ReportStatus `json:"status"`
	Summary    string       `json:"summary"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// EntityID implements liststore identity.
func (r Report) EntityID() string { return r.ID }
