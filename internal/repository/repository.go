package repository

import (
	"context"
	"errors"
	"time"
	"updoot/internal/models"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// Store gives access to the repositories and to transactional execution.
// Handlers and services depend on this interface, never on gorm directly.
type Store interface {
	Votes() VoteRepository
	Posts() PostRepository
	Users() UserRepository

	// WithTransaction runs fn atomically: every write made through the
	// Store passed to fn commits together or rolls back together.
	WithTransaction(ctx context.Context, fn func(tx Store) error) error
}

// VoteRepository is the authoritative vote ledger: one row per
// (author, post) pair, keyed by the composite primary key.
type VoteRepository interface {
	// Find returns the pair's vote, or nil if the author has not voted
	// on the post. Inside a transaction the row is locked FOR UPDATE so
	// concurrent read-decide-write sequences on the same pair serialize.
	Find(ctx context.Context, authorID, postID uint) (*models.Vote, error)

	// Insert adds a first vote. Returns ErrDuplicateKey if a row for the
	// pair already exists, even when the caller checked first.
	Insert(ctx context.Context, vote *models.Vote) error

	// UpdateDirection flips an existing vote in place. Returns
	// ErrNotFound if the pair has no row.
	UpdateDirection(ctx context.Context, authorID, postID uint, direction models.Direction) error

	// DeleteAllForPost removes the post's ledger rows. Only used while
	// deleting the post itself, in the same transaction.
	DeleteAllForPost(ctx context.Context, postID uint) error

	// ListForPosts returns the author's vote direction for each of the
	// given posts in one query. Posts without a vote are absent from the
	// map.
	ListForPosts(ctx context.Context, authorID uint, postIDs []uint) (map[uint]models.Direction, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	FindByID(ctx context.Context, id uint) (*models.Post, error)

	// List returns up to limit posts ordered by creation time descending,
	// restricted to posts created before the cursor when it is non-zero.
	List(ctx context.Context, limit int, before time.Time) ([]models.Post, error)

	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error

	// ApplyScoreDelta atomically adds delta to the post's score. Must be
	// called in the same transaction as the ledger write it mirrors.
	// Returns ErrNotFound if the post does not exist.
	ApplyScoreDelta(ctx context.Context, postID uint, delta int) error
}

type UserRepository interface {
	// Create inserts the user. Returns ErrDuplicateKey when the username
	// or email is already taken.
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	Save(ctx context.Context, user *models.User) error
}
