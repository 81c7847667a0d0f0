package models

import (
	"time"
)

// Direction is the signed value of an updoot: +1 up, -1 down.
type Direction int

const (
	DirectionUp   Direction = 1
	DirectionDown Direction = -1
)

func (d Direction) Valid() bool {
	return d == DirectionUp || d == DirectionDown
}

// Vote is one ledger row: this author voted this direction on this post.
// The composite primary key enforces at most one vote per (author, post)
// pair at the storage layer; a flip updates the row in place.
type Vote struct {
	AuthorID  uint      `gorm:"primaryKey;autoIncrement:false" json:"author_id"`
	PostID    uint      `gorm:"primaryKey;autoIncrement:false" json:"post_id"`
	Direction Direction `gorm:"not null" json:"direction"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
