package models

import "time"

// BatchType distinguishes group batches from one-on-one ones.
type BatchType string

const (
	BatchTypeGroup   BatchType = "group"
	BatchTypePrivate BatchType = "private"
)

// BatchStatus reflects the lifecycle the backend assigns to a batch.
type BatchStatus string

const (
	BatchStatusDraft    BatchStatus = "draft"
	BatchStatusActive   BatchStatus = "active"
	BatchStatusArchived BatchStatus = "archived"
)

// Batch is a student group attached to a course, mirrored from the backend.
type Batch struct {
	ID        string      `json:"id"`
	CourseID  string      `json:"course"`
	Name      string      `json:"name"`
	Type      BatchType   `json:"type"`
	Status    BatchStatus `json:"status"`
	Capacity  int         `json:"capacity"`
	StartsAt  *time.Time  `json:"starts_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// EntityID implements liststore identity.
func (b Batch) EntityID() string { return b.ID }
