package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore implements Store on a *gorm.DB handle. The same type wraps
// both the root connection and an open transaction, so repositories run
// against whichever handle the Store was built from.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Votes() VoteRepository { return &gormVoteRepository{db: s.db} }
func (s *GormStore) Posts() PostRepository { return &gormPostRepository{db: s.db} }
func (s *GormStore) Users() UserRepository { return &gormUserRepository{db: s.db} }

func (s *GormStore) WithTransaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
