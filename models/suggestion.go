package models

import "time"

// Suggestion represents an anonymous feedback post on the board.
// Likes only ever grow, via a single atomic UPDATE.
type Suggestion struct {
	ID        uint      `gorm:"primaryKey" json:"id,string"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:32;default:'改善提案'" json:"category"`
	Likes     int64     `gorm:"not null;default:0" json:"likes"`
	CreatedAt time.Time `json:"created_at"`
}
