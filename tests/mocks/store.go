package mocks

import (
	"context"
	"sync"

	"photoshare/application/ports"
	"photoshare/domain/core/entities"
)

// CountingPhotoRepository wraps a photo repository, counting calls and
// optionally failing them. Tests use it to tell cache hits from store reads.
type CountingPhotoRepository struct {
	Inner ports.PhotoRepository

	mu           sync.Mutex
	calls        map[string]int
	shouldFailOn map[string]error
}

// NewCountingPhotoRepository wraps inner
func NewCountingPhotoRepository(inner ports.PhotoRepository) *CountingPhotoRepository {
	return &CountingPhotoRepository{
		Inner:        inner,
		calls:        make(map[string]int),
		shouldFailOn: make(map[string]error),
	}
}

// SetError makes every later call of method fail with err
func (r *CountingPhotoRepository) SetError(method string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shouldFailOn[method] = err
}

// Calls returns how many times method was called
func (r *CountingPhotoRepository) Calls(method string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[method]
}

func (r *CountingPhotoRepository) enter(method string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[method]++
	return r.shouldFailOn[method]
}

func (r *CountingPhotoRepository) Save(ctx context.Context, photo *entities.Photo) error {
	if err := r.enter("Save"); err != nil {
		return err
	}
	return r.Inner.Save(ctx, photo)
}

func (r *CountingPhotoRepository) GetByID(ctx context.Context, id string) (*entities.Photo, error) {
	if err := r.enter("GetByID"); err != nil {
		return nil, err
	}
	return r.Inner.GetByID(ctx, id)
}

func (r *CountingPhotoRepository) List(ctx context.Context, offset, limit int) ([]*entities.Photo, error) {
	if err := r.enter("List"); err != nil {
		return nil, err
	}
	return r.Inner.List(ctx, offset, limit)
}

func (r *CountingPhotoRepository) Delete(ctx context.Context, id string) error {
	if err := r.enter("Delete"); err != nil {
		return err
	}
	return r.Inner.Delete(ctx, id)
}
