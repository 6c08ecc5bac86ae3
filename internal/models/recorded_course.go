package models

import "time"

// RecordedCourse is an on-demand library entry for a finished live course.
type RecordedCourse struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course"`
	Title       string    `json:"title"`
	LessonCount int       `json:"lesson_count"`
	DurationMin int       `json:"duration_minutes"`
	IsHidden    bool      `json:"is_hidden"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntityID implements liststore identity.
func (r RecordedCourse) EntityID() string { return r.ID }
