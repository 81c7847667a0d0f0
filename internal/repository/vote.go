package repository

import (
	"context"
	"errors"
	"updoot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormVoteRepository struct {
	db *gorm.DB
}

func (r *gormVoteRepository) Find(ctx context.Context, authorID, postID uint) (*models.Vote, error) {
	var vote models.Vote
	// FOR UPDATE: a concurrent flip on the same pair blocks here until
	// the first transaction commits, then re-reads the committed row.
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("author_id = ? AND post_id = ?", authorID, postID).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *gormVoteRepository) Insert(ctx context.Context, vote *models.Vote) error {
	err := r.db.WithContext(ctx).Create(vote).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateKey
	}
	return err
}

func (r *gormVoteRepository) UpdateDirection(ctx context.Context, authorID, postID uint, direction models.Direction) error {
	result := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("author_id = ? AND post_id = ?", authorID, postID).
		Update("direction", direction)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormVoteRepository) DeleteAllForPost(ctx context.Context, postID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&models.Vote{}).Error
}

func (r *gormVoteRepository) ListForPosts(ctx context.Context, authorID uint, postIDs []uint) (map[uint]models.Direction, error) {
	votes := make(map[uint]models.Direction, len(postIDs))
	if len(postIDs) == 0 {
		return votes, nil
	}

	var rows []models.Vote
	err := r.db.WithContext(ctx).
		Where("author_id = ? AND post_id IN ?", authorID, postIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, v := range rows {
		votes[v.PostID] = v.Direction
	}
	return votes, nil
}
