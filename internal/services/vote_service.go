package services

import (
	"context"
	"errors"
	"fmt"
	"updoot/internal/models"
	"updoot/internal/repository"
)

type VoteStatus string

const (
	VoteAccepted  VoteStatus = "accepted"
	VoteDuplicate VoteStatus = "duplicate"
)

// VoteResult is the outcome of a cast vote. A duplicate is a normal
// negative outcome, not an error: users double-click vote buttons all
// the time.
type VoteResult struct {
	Status    VoteStatus       `json:"status"`
	Direction models.Direction `json:"direction"`
	Delta     int              `json:"delta"`
}

// VoteService coordinates the vote ledger and the post score counter.
// For each (author, post) pair it applies one of three transitions:
//
//	no vote yet            -> insert row,  score delta = direction
//	voted same direction   -> no writes,   reported as duplicate
//	voted other direction  -> flip row,    score delta = new - old (±2)
//
// Ledger write and score delta always commit in the same transaction.
type VoteService struct {
	store repository.Store
}

func NewVoteService(store repository.Store) *VoteService {
	return &VoteService{store: store}
}

// CastVote records authorID's vote on postID. authorID must come from
// the caller's session identity, never from the request body.
//
// Concurrent first votes on the same pair are serialized by the
// ledger's composite primary key: the losing insert is rejected and
// retried once against a fresh read, which resolves it to a flip or a
// duplicate. Concurrent flips are serialized by the row lock taken in
// VoteRepository.Find. Read-committed isolation is sufficient.
func (s *VoteService) CastVote(ctx context.Context, authorID, postID uint, direction models.Direction) (VoteResult, error) {
	if !direction.Valid() {
		return VoteResult{}, ErrInvalidDirection
	}

	result, err := s.castOnce(ctx, authorID, postID, direction)
	if errors.Is(err, repository.ErrDuplicateKey) {
		// Lost an insert race: the pair's row exists now, so a fresh
		// read resolves the request.
		result, err = s.castOnce(ctx, authorID, postID, direction)
	}
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, repository.ErrDuplicateKey):
		// Second race in a row. The pair certainly has a vote; report
		// the request as the duplicate it is.
		return VoteResult{Status: VoteDuplicate, Direction: direction}, nil
	case errors.Is(err, ErrPostNotFound):
		return VoteResult{}, err
	default:
		return VoteResult{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
}

func (s *VoteService) castOnce(ctx context.Context, authorID, postID uint, direction models.Direction) (VoteResult, error) {
	var result VoteResult

	err := s.store.WithTransaction(ctx, func(tx repository.Store) error {
		existing, err := tx.Votes().Find(ctx, authorID, postID)
		if err != nil {
			return err
		}

		switch {
		case existing == nil:
			vote := &models.Vote{AuthorID: authorID, PostID: postID, Direction: direction}
			if err := tx.Votes().Insert(ctx, vote); err != nil {
				return err
			}
			result = VoteResult{Status: VoteAccepted, Direction: direction, Delta: int(direction)}

		case existing.Direction == direction:
			// No writes: the transaction commits empty.
			result = VoteResult{Status: VoteDuplicate, Direction: direction}
			return nil

		default:
			// Flip. One combined adjustment removes the old vote's
			// contribution and adds the new one's, so the score never
			// passes through an intermediate value.
			if err := tx.Votes().UpdateDirection(ctx, authorID, postID, direction); err != nil {
				return err
			}
			result = VoteResult{
				Status:    VoteAccepted,
				Direction: direction,
				Delta:     int(direction) - int(existing.Direction),
			}
		}

		if err := tx.Posts().ApplyScoreDelta(ctx, postID, result.Delta); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrPostNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return VoteResult{}, err
	}
	return result, nil
}
