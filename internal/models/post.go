package models

import (
	"time"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	AuthorID uint   `gorm:"not null;index" json:"author_id"`
	Author   User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Title    string `gorm:"not null" json:"title"`
	Text     string `gorm:"type:text;not null" json:"text"`

	// Score is written only through VoteRepository/PostRepository score
	// deltas, in the same transaction as the matching ledger change.
	Score int `gorm:"not null;default:0" json:"score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
