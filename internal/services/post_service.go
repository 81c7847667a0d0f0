package services

import (
	"context"
	"errors"
	"fmt"
	"time"
	"updoot/internal/models"
	"updoot/internal/repository"
	"updoot/internal/utils"
)

const (
	// MaxPageSize caps the page length a client may request.
	MaxPageSize = 50

	// SnippetLength is how much of a post body list views carry.
	SnippetLength = 100
)

// PostPage is one cursor page of posts, newest first. AllFetched is
// true when no older posts remain past this page.
type PostPage struct {
	Posts      []models.Post
	AllFetched bool
}

type PostService struct {
	store repository.Store
}

func NewPostService(store repository.Store) *PostService {
	return &PostService{store: store}
}

// Create stores a new post with the author's own updoot already in the
// ledger, so the starting score of 1 stays equal to the vote sum.
func (s *PostService) Create(ctx context.Context, authorID uint, title, text string) (*models.Post, []utils.FieldError, error) {
	if errs := utils.ValidatePost(title, text); len(errs) != 0 {
		return nil, errs, nil
	}

	post := &models.Post{
		AuthorID: authorID,
		Title:    title,
		Text:     text,
		Score:    1, // self vote
	}

	err := s.store.WithTransaction(ctx, func(tx repository.Store) error {
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}
		selfVote := &models.Vote{AuthorID: authorID, PostID: post.ID, Direction: models.DirectionUp}
		return tx.Votes().Insert(ctx, selfVote)
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return post, nil, nil
}

func (s *PostService) Get(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.store.Posts().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return post, nil
}

// List pages through posts newest first. A zero `before` means start
// from the newest post. The page is fetched one past the cap so
// AllFetched can be reported without a count query.
func (s *PostService) List(ctx context.Context, limit int, before time.Time) (PostPage, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	posts, err := s.store.Posts().List(ctx, limit+1, before)
	if err != nil {
		return PostPage{}, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	page := PostPage{AllFetched: len(posts) <= limit}
	if !page.AllFetched {
		posts = posts[:limit]
	}
	page.Posts = posts
	return page, nil
}

// Update edits title and text. Only the author may edit.
func (s *PostService) Update(ctx context.Context, authorID, postID uint, title, text string) (*models.Post, []utils.FieldError, error) {
	if errs := utils.ValidatePost(title, text); len(errs) != 0 {
		return nil, errs, nil
	}

	post, err := s.Get(ctx, postID)
	if err != nil {
		return nil, nil, err
	}
	if post.AuthorID != authorID {
		return nil, nil, ErrNotPostAuthor
	}

	post.Title = title
	post.Text = text
	if err := s.store.Posts().Update(ctx, post); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return post, nil, nil
}

// Delete removes the post and all its ledger rows in one transaction,
// so no orphaned votes survive the post.
func (s *PostService) Delete(ctx context.Context, authorID, postID uint) error {
	err := s.store.WithTransaction(ctx, func(tx repository.Store) error {
		post, err := tx.Posts().FindByID(ctx, postID)
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		if post.AuthorID != authorID {
			return ErrNotPostAuthor
		}

		if err := tx.Votes().DeleteAllForPost(ctx, postID); err != nil {
			return err
		}
		return tx.Posts().Delete(ctx, postID)
	})
	if err == nil || errors.Is(err, ErrPostNotFound) || errors.Is(err, ErrNotPostAuthor) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}
