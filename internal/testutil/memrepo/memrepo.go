// Package memrepo holds in-memory repositories with the same constraint
// behavior as the PostgreSQL schema: unique email, posts must reference an
// existing user. It is a test double and is only imported from _test.go files.
package memrepo

import (
	"context"
	"fmt"
	"sync"

	"minisocial/internal/common"
	"minisocial/internal/domain/model"
)

type Store struct {
	mu     sync.Mutex
	users  []model.User
	posts  []model.Post
	userID int64
	postID int64

	// Err, when set, is returned by every operation.
	Err error
	// BeforeCreateUser runs before the uniqueness check of an insert.
	BeforeCreateUser func()
}

func New() *Store {
	return &Store{}
}

func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

func (s *Store) Posts() *PostRepository { return &PostRepository{s: s} }

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if hook := r.s.BeforeCreateUser; hook != nil {
		hook()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == user.Email {
			return fmt.Errorf("user with given email already exists: %w", common.ErrConflict)
		}
	}
	r.s.userID++
	user.ID = r.s.userID
	r.s.users = append(r.s.users, *user)
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	for _, u := range r.s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	users := make([]model.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		u.HashedPassword = ""
		users = append(users, u)
	}
	return users, nil
}

// Count reports how many users are stored.
func (r *UserRepository) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.users)
}

type PostRepository struct{ s *Store }

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return r.s.Err
	}
	owner := false
	for _, u := range r.s.users {
		if u.ID == post.UserID {
			owner = true
			break
		}
	}
	if !owner {
		return fmt.Errorf("user %d does not exist: %w", post.UserID, common.ErrInvalidOwner)
	}
	r.s.postID++
	post.ID = r.s.postID
	r.s.posts = append(r.s.posts, *post)
	return nil
}

func (r *PostRepository) ListByUser(ctx context.Context, userID int64) ([]model.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.Err != nil {
		return nil, r.s.Err
	}
	posts := make([]model.Post, 0)
	for _, p := range r.s.posts {
		if p.UserID == userID {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

// Count reports how many posts are stored.
func (r *PostRepository) Count() int {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return len(r.s.posts)
}
