package models

import "time"

// Topic is a community forum thread.
type Topic struct {
	ID         string    `json:"id"`
	ForumID    string    `json:"forum"`
	Title      string    `json:"title"`
	AuthorID   string    `json:"author"`
	IsPinned   bool      `json:"is_pinned"`
	IsHidden   bool      `json:"is_hidden"`
	ReplyCount int       `json:"reply_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// EntityID implements liststore identity.
func (t Topic) EntityID() string { return t.ID }
