package services

import (
	"context"
	"fmt"
	"time"
	"updoot/internal/models"
	"updoot/internal/repository"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	authorCacheSize = 500
	authorCacheTTL  = 5 * time.Minute
)

type cachedUser struct {
	user      models.User
	expiresAt time.Time
}

// Loader batches the per-post lookups list views need, so rendering a
// page of posts costs at most one query for authors and one for vote
// status instead of two per post.
type Loader struct {
	store   repository.Store
	authors *lru.Cache[uint, cachedUser]
}

func NewLoader(store repository.Store) *Loader {
	cache, err := lru.New[uint, cachedUser](authorCacheSize)
	if err != nil {
		// only reachable with a non-positive size
		panic(err)
	}
	return &Loader{store: store, authors: cache}
}

// Authors returns the author for every given post, keyed by user id.
// Recently seen authors come from the LRU cache.
func (l *Loader) Authors(ctx context.Context, posts []models.Post) (map[uint]models.User, error) {
	users := make(map[uint]models.User, len(posts))
	var missing []uint

	now := time.Now()
	for _, p := range posts {
		if _, seen := users[p.AuthorID]; seen {
			continue
		}
		if item, ok := l.authors.Get(p.AuthorID); ok && now.Before(item.expiresAt) {
			users[p.AuthorID] = item.user
			continue
		}
		missing = append(missing, p.AuthorID)
	}

	if len(missing) > 0 {
		fetched, err := l.store.Users().ListByIDs(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		for _, u := range fetched {
			users[u.ID] = u
			l.authors.Add(u.ID, cachedUser{user: u, expiresAt: now.Add(authorCacheTTL)})
		}
	}
	return users, nil
}

// VoteStatus returns authorID's vote direction per post. Always read
// fresh: a stale vote status right after voting would look like a bug.
func (l *Loader) VoteStatus(ctx context.Context, authorID uint, posts []models.Post) (map[uint]models.Direction, error) {
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	votes, err := l.store.Votes().ListForPosts(ctx, authorID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return votes, nil
}

// InvalidateAuthor drops a user from the cache, e.g. after a rename.
func (l *Loader) InvalidateAuthor(userID uint) {
	l.authors.Remove(userID)
}
