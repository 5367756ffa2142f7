// Package memory provides process-local store adapters with the same
// uniqueness and atomicity guarantees as the DynamoDB adapters. It backs local
// development (STORE_BACKEND=memory) and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"photoshare/application/ports"
	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"
)

// Store holds every entity behind one lock so that multi-entity writes
// (like record plus counter, user plus email claim) are atomic.
type Store struct {
	mu       sync.RWMutex
	photos   map[string]*entities.Photo
	comments map[string]*entities.Comment
	likes    map[valueobjects.LikeKey]*entities.Like
	users    map[string]*entities.User
	emails   map[string]string
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		photos:   make(map[string]*entities.Photo),
		comments: make(map[string]*entities.Comment),
		likes:    make(map[valueobjects.LikeKey]*entities.Like),
		users:    make(map[string]*entities.User),
		emails:   make(map[string]string),
	}
}

// Photos returns the photo repository view of the store
func (s *Store) Photos() ports.PhotoRepository { return &photoRepository{s} }

// Comments returns the comment repository view of the store
func (s *Store) Comments() ports.CommentRepository { return &commentRepository{s} }

// Likes returns the like repository view of the store
func (s *Store) Likes() ports.LikeRepository { return &likeRepository{s} }

// Users returns the user repository view of the store
func (s *Store) Users() ports.UserRepository { return &userRepository{s} }

func copyPhoto(p *entities.Photo) *entities.Photo {
	c := *p
	if p.People != nil {
		c.People = append([]string(nil), p.People...)
	}
	return &c
}

type photoRepository struct{ s *Store }

func (r *photoRepository) Save(ctx context.Context, photo *entities.Photo) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.photos[photo.ID]; exists {
		return ports.ErrAlreadyExists
	}
	r.s.photos[photo.ID] = copyPhoto(photo)
	return nil
}

func (r *photoRepository) GetByID(ctx context.Context, id string) (*entities.Photo, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.photos[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return copyPhoto(p), nil
}

func (r *photoRepository) List(ctx context.Context, offset, limit int) ([]*entities.Photo, error) {
	r.s.mu.RLock()
	all := make([]*entities.Photo, 0, len(r.s.photos))
	for _, p := range r.s.photos {
		all = append(all, copyPhoto(p))
	}
	r.s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return []*entities.Photo{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *photoRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.photos[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.s.photos, id)
	for key := range r.s.likes {
		if key.PhotoID == id {
			delete(r.s.likes, key)
		}
	}
	for cid, c := range r.s.comments {
		if c.PhotoID == id {
			delete(r.s.comments, cid)
		}
	}
	return nil
}

type commentRepository struct{ s *Store }

func (r *commentRepository) Save(ctx context.Context, comment *entities.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.comments[comment.ID]; exists {
		return ports.ErrAlreadyExists
	}
	c := *comment
	r.s.comments[comment.ID] = &c
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	c, ok := r.s.comments[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (r *commentRepository) ListByPhoto(ctx context.Context, photoID string) ([]*entities.Comment, error) {
	r.s.mu.RLock()
	out := make([]*entities.Comment, 0)
	for _, c := range r.s.comments {
		if c.PhotoID == photoID {
			cc := *c
			out = append(out, &cc)
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *commentRepository) Delete(ctx context.Context, key valueobjects.CommentKey) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.comments[key.CommentID]
	if !ok || c.PhotoID != key.PhotoID {
		return ports.ErrNotFound
	}
	delete(r.s.comments, key.CommentID)
	return nil
}

type likeRepository struct{ s *Store }

func (r *likeRepository) Add(ctx context.Context, like *entities.Like) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	photo, ok := r.s.photos[like.PhotoID]
	if !ok {
		return 0, ports.ErrNotFound
	}
	key := like.Key()
	if _, exists := r.s.likes[key]; exists {
		return photo.Likes, ports.ErrAlreadyExists
	}

	l := *like
	r.s.likes[key] = &l
	photo.Likes++
	return photo.Likes, nil
}

func (r *likeRepository) Remove(ctx context.Context, key valueobjects.LikeKey) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	photo, ok := r.s.photos[key.PhotoID]
	if !ok {
		return 0, ports.ErrNotFound
	}
	if _, exists := r.s.likes[key]; !exists {
		return photo.Likes, ports.ErrNotFound
	}

	delete(r.s.likes, key)
	if photo.Likes > 0 {
		photo.Likes--
	}
	return photo.Likes, nil
}

func (r *likeRepository) Exists(ctx context.Context, key valueobjects.LikeKey) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	_, ok := r.s.likes[key]
	return ok, nil
}

func (r *likeRepository) CountByPhoto(ctx context.Context, photoID string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for key := range r.s.likes {
		if key.PhotoID == photoID {
			n++
		}
	}
	return n, nil
}

type userRepository struct{ s *Store }

func (r *userRepository) Save(ctx context.Context, user *entities.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, taken := r.s.emails[user.Email]; taken {
		return ports.ErrAlreadyExists
	}
	if _, exists := r.s.users[user.ID]; exists {
		return ports.ErrAlreadyExists
	}
	u := *user
	r.s.users[user.ID] = &u
	r.s.emails[user.Email] = user.ID
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email valueobjects.Email) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.emails[email.String()]
	if !ok {
		return nil, ports.ErrNotFound
	}
	u := *r.s.users[id]
	return &u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	out := *u
	return &out, nil
}
