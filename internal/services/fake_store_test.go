package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
	"updoot/internal/models"
	"updoot/internal/repository"
)

// fakeStore is an in-memory repository.Store for exercising the
// services without Postgres. Transactions are snapshot-based: writes
// land on a copy and replace the live data only on commit, so a failed
// transaction leaves no partial state. Transactions serialize on one
// mutex, which is the strongest isolation the real store can give.
type fakeStore struct {
	mu   sync.Mutex
	data *fakeData
	root *fakeStore // nil on the root store, set on tx views

	// pretendNoVote makes the next n Votes().Find calls report no row,
	// simulating a read that raced an insert it cannot see yet.
	pretendNoVote int

	// failScoreDelta injects one ApplyScoreDelta failure.
	failScoreDelta bool
}

type pairKey struct {
	authorID uint
	postID   uint
}

type fakeData struct {
	users      map[uint]models.User
	posts      map[uint]models.Post
	votes      map[pairKey]models.Vote
	nextUserID uint
	nextPostID uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: &fakeData{
			users:      map[uint]models.User{},
			posts:      map[uint]models.Post{},
			votes:      map[pairKey]models.Vote{},
			nextUserID: 1,
			nextPostID: 1,
		},
	}
}

func (d *fakeData) clone() *fakeData {
	c := &fakeData{
		users:      make(map[uint]models.User, len(d.users)),
		posts:      make(map[uint]models.Post, len(d.posts)),
		votes:      make(map[pairKey]models.Vote, len(d.votes)),
		nextUserID: d.nextUserID,
		nextPostID: d.nextPostID,
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.posts {
		c.posts[k] = v
	}
	for k, v := range d.votes {
		c.votes[k] = v
	}
	return c
}

func (s *fakeStore) rootStore() *fakeStore {
	if s.root != nil {
		return s.root
	}
	return s
}

// lock takes the store mutex for a single operation outside a
// transaction. Inside a transaction the root mutex is already held.
func (s *fakeStore) lock() func() {
	if s.root != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *fakeStore) WithTransaction(ctx context.Context, fn func(tx repository.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	tx := &fakeStore{data: snapshot, root: s}
	if err := fn(tx); err != nil {
		return err
	}
	s.data = snapshot
	return nil
}

func (s *fakeStore) Votes() repository.VoteRepository { return &fakeVotes{s} }
func (s *fakeStore) Posts() repository.PostRepository { return &fakePosts{s} }
func (s *fakeStore) Users() repository.UserRepository { return &fakeUsers{s} }

// seedUser and seedPost bypass the repositories for test setup.
func (s *fakeStore) seedUser(username string) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := models.User{ID: s.data.nextUserID, Username: username, Email: username + "@example.com"}
	s.data.nextUserID++
	s.data.users[u.ID] = u
	return u
}

func (s *fakeStore) seedPost(authorID uint, title string) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := models.Post{ID: s.data.nextPostID, AuthorID: authorID, Title: title, CreatedAt: time.Now()}
	s.data.nextPostID++
	s.data.posts[p.ID] = p
	return p
}

func (s *fakeStore) score(postID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.posts[postID].Score
}

// sumVotes independently re-sums the ledger for a post, the check
// production code never performs.
func (s *fakeStore) sumVotes(postID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for k, v := range s.data.votes {
		if k.postID == postID {
			sum += int(v.Direction)
		}
	}
	return sum
}

func (s *fakeStore) voteCount(postID uint) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.data.votes {
		if k.postID == postID {
			n++
		}
	}
	return n
}

type fakeVotes struct{ s *fakeStore }

func (r *fakeVotes) Find(ctx context.Context, authorID, postID uint) (*models.Vote, error) {
	unlock := r.s.lock()
	defer unlock()

	root := r.s.rootStore()
	if root.pretendNoVote > 0 {
		root.pretendNoVote--
		return nil, nil
	}

	if v, ok := r.s.data.votes[pairKey{authorID, postID}]; ok {
		copied := v
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeVotes) Insert(ctx context.Context, vote *models.Vote) error {
	unlock := r.s.lock()
	defer unlock()

	key := pairKey{vote.AuthorID, vote.PostID}
	// The composite-key uniqueness check uses the committed data, not
	// the transaction snapshot: a real unique index sees other
	// writers' committed rows.
	if _, ok := r.s.rootStore().data.votes[key]; ok {
		return repository.ErrDuplicateKey
	}
	if _, ok := r.s.data.votes[key]; ok {
		return repository.ErrDuplicateKey
	}
	vote.CreatedAt = time.Now()
	r.s.data.votes[key] = *vote
	return nil
}

func (r *fakeVotes) UpdateDirection(ctx context.Context, authorID, postID uint, direction models.Direction) error {
	unlock := r.s.lock()
	defer unlock()

	key := pairKey{authorID, postID}
	v, ok := r.s.data.votes[key]
	if !ok {
		return repository.ErrNotFound
	}
	v.Direction = direction
	v.UpdatedAt = time.Now()
	r.s.data.votes[key] = v
	return nil
}

func (r *fakeVotes) DeleteAllForPost(ctx context.Context, postID uint) error {
	unlock := r.s.lock()
	defer unlock()

	for k := range r.s.data.votes {
		if k.postID == postID {
			delete(r.s.data.votes, k)
		}
	}
	return nil
}

func (r *fakeVotes) ListForPosts(ctx context.Context, authorID uint, postIDs []uint) (map[uint]models.Direction, error) {
	unlock := r.s.lock()
	defer unlock()

	votes := make(map[uint]models.Direction)
	for _, id := range postIDs {
		if v, ok := r.s.data.votes[pairKey{authorID, id}]; ok {
			votes[id] = v.Direction
		}
	}
	return votes, nil
}

type fakePosts struct{ s *fakeStore }

func (r *fakePosts) Create(ctx context.Context, post *models.Post) error {
	unlock := r.s.lock()
	defer unlock()

	post.ID = r.s.data.nextPostID
	r.s.data.nextPostID++
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	r.s.data.posts[post.ID] = *post
	return nil
}

func (r *fakePosts) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	unlock := r.s.lock()
	defer unlock()

	p, ok := r.s.data.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := p
	return &copied, nil
}

func (r *fakePosts) List(ctx context.Context, limit int, before time.Time) ([]models.Post, error) {
	unlock := r.s.lock()
	defer unlock()

	var posts []models.Post
	for _, p := range r.s.data.posts {
		if before.IsZero() || p.CreatedAt.Before(before) {
			posts = append(posts, p)
		}
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *fakePosts) Update(ctx context.Context, post *models.Post) error {
	unlock := r.s.lock()
	defer unlock()

	existing, ok := r.s.data.posts[post.ID]
	if !ok {
		return repository.ErrNotFound
	}
	existing.Title = post.Title
	existing.Text = post.Text
	existing.UpdatedAt = time.Now()
	r.s.data.posts[post.ID] = existing
	return nil
}

func (r *fakePosts) Delete(ctx context.Context, id uint) error {
	unlock := r.s.lock()
	defer unlock()

	if _, ok := r.s.data.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.data.posts, id)
	return nil
}

func (r *fakePosts) ApplyScoreDelta(ctx context.Context, postID uint, delta int) error {
	unlock := r.s.lock()
	defer unlock()

	root := r.s.rootStore()
	if root.failScoreDelta {
		root.failScoreDelta = false
		return errors.New("injected storage failure")
	}

	p, ok := r.s.data.posts[postID]
	if !ok {
		return repository.ErrNotFound
	}
	p.Score += delta
	r.s.data.posts[postID] = p
	return nil
}

type fakeUsers struct{ s *fakeStore }

func (r *fakeUsers) Create(ctx context.Context, user *models.User) error {
	unlock := r.s.lock()
	defer unlock()

	for _, u := range r.s.data.users {
		if u.Username == user.Username || u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	user.ID = r.s.data.nextUserID
	r.s.data.nextUserID++
	user.CreatedAt = time.Now()
	r.s.data.users[user.ID] = *user
	return nil
}

func (r *fakeUsers) FindByID(ctx context.Context, id uint) (*models.User, error) {
	unlock := r.s.lock()
	defer unlock()

	u, ok := r.s.data.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := u
	return &copied, nil
}

func (r *fakeUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Username == username })
}

func (r *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findBy(func(u models.User) bool { return u.Email == email })
}

func (r *fakeUsers) findBy(match func(models.User) bool) (*models.User, error) {
	unlock := r.s.lock()
	defer unlock()

	for _, u := range r.s.data.users {
		if match(u) {
			copied := u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUsers) ListByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	unlock := r.s.lock()
	defer unlock()

	var users []models.User
	for _, id := range ids {
		if u, ok := r.s.data.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (r *fakeUsers) Save(ctx context.Context, user *models.User) error {
	unlock := r.s.lock()
	defer unlock()

	if _, ok := r.s.data.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	r.s.data.users[user.ID] = *user
	return nil
}

var _ repository.Store = (*fakeStore)(nil)
