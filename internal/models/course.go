package models

import "time"

// CourseStatus is the moderation state a supervisor assigns to a course.
type CourseStatus string

const (
	CourseStatusPending  CourseStatus = "pending"
	CourseStatusApproved CourseStatus = "approved"
	CourseStatusRejected CourseStatus = "rejected"
)

// Course mirrors a course record owned by the backend.
type Course struct {
	ID                    string       `json:"id"`
	Title                 string       `json:"title"`
	Description           string       `json:"description"`
	TeacherID             string       `json:"teacher"`
	Status                CourseStatus `json:"status"`
	AcceptingApplications bool         `json:"accepting_applications"`
	IsHidden              bool         `json:"is_hidden"`
	Price                 float64      `json:"price"`
	CreatedAt             time.Time    `json:"created_at"`
	UpdatedAt             time.Time    `json:"updated_at"`
}

// EntityID implements liststore identity.
func (c Course) EntityID() string { return c.ID }
