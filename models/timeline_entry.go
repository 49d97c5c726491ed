package models

import "time"

// TimelineEntry is one item in a discussion's append-only timeline: a user
// comment or a status-change record written by the presentation flow. Entries
// are owned by their discussion and removed with it in the same transaction.
type TimelineEntry struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	DiscussionID string    `gorm:"index;size:36;not null" json:"discussion_id"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
