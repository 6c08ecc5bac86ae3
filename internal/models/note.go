package models

import "time"

// AnnouncementNote is a note posted to a group feed. Pinned notes sort ahead
// of unpinned ones, newest first within each band.
type AnnouncementNote struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"group"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	IsPinned  bool      `json:"is_pinned"`
	IsHidden  bool      `json:"is_hidden"`
	AuthorID  string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EntityID implements liststore identity.
func (n AnnouncementNote) EntityID() string { return n.ID }
