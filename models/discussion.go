package models

import "time"

// Discussion statuses. A discussion starts open; any transition between the
// four statuses is allowed, driven by explicit user selection.
const (
	StatusOpen       = "open"
	StatusInProgress = "in_progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

// ValidStatus reports whether s is one of the four discussion statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Discussion is a status-tracked thread escalated from a Suggestion.
// OriginalPostID is set once at creation and never changes; the origin's
// content and category are joined on read, not duplicated here.
type Discussion struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	OriginalPostID   uint      `gorm:"index;not null" json:"original_post_id,string"`
	Title            string    `gorm:"size:255;not null" json:"title"`
	Status           string    `gorm:"size:16;not null;default:'open';index" json:"status"`
	FreeSpaceContent *string   `gorm:"type:text" json:"free_space_content"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DiscussionDetail is a Discussion joined with its origin suggestion fields.
type DiscussionDetail struct {
	Discussion
	OriginalContent  string `json:"original_content"`
	OriginalCategory string `json:"original_category"`
}

// SortableColumn reports whether col may appear in an ORDER BY clause for
// discussions. Sort keys come straight from the query string, so anything
// outside this set is rejected.
func SortableColumn(col string) bool {
	switch col {
	case "created_at", "updated_at", "title", "status":
		return true
	}
	return false
}
