package models

import "time"

// KnowledgeLab is a self-paced practice space attached to a subject area.
type KnowledgeLab struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	SubjectArea string    `json:"subject_area"`
	OwnerID     string    `json:"owner"`
	IsHidden    bool      `json:"is_hidden"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// EntityID implements liststore identity.
func (k KnowledgeLab) EntityID() string { return k.ID }
