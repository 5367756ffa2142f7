package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"photoshare/application/ports"
	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPhoto(t *testing.T, s *Store, id string, at time.Time) *entities.Photo {
	t.Helper()
	p := &entities.Photo{ID: id, CreatorID: "creator", Title: id, CreatedAt: at}
	require.NoError(t, s.Photos().Save(context.Background(), p))
	return p
}

func TestPhotoRepository_ListNewestFirstWithPaging(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedPhoto(t, s, fmt.Sprintf("p%d", i), base.Add(time.Duration(i)*time.Minute))
	}

	page, err := s.Photos().List(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "p4", page[0].ID)
	assert.Equal(t, "p3", page[1].ID)

	page, err = s.Photos().List(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "p0", page[0].ID)

	page, err = s.Photos().List(ctx, 10, 2)
	require.NoError(t, err)
	assert.Empty(t, page)

	all, err := s.Photos().List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestPhotoRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedPhoto(t, s, "p1", time.Now())

	got, err := s.Photos().GetByID(ctx, "p1")
	require.NoError(t, err)
	got.Title = "changed"

	again, err := s.Photos().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", again.Title)

	_, err = s.Photos().GetByID(ctx, "nope")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPhotoRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedPhoto(t, s, "p1", time.Now())
	key, _ := valueobjects.NewLikeKey("p1", "u1")
	_, err := s.Likes().Add(ctx, entities.NewLike(key))
	require.NoError(t, err)
	require.NoError(t, s.Comments().Save(ctx, &entities.Comment{ID: "c1", PhotoID: "p1", UserID: "u1", Content: "hi"}))

	require.NoError(t, s.Photos().Delete(ctx, "p1"))

	n, _ := s.Likes().CountByPhoto(ctx, "p1")
	assert.Zero(t, n)
	_, err = s.Comments().GetByID(ctx, "c1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
	assert.ErrorIs(t, s.Photos().Delete(ctx, "p1"), ports.ErrNotFound)
}

func TestLikeRepository_OneLikePerUser(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedPhoto(t, s, "p1", time.Now())
	key, _ := valueobjects.NewLikeKey("p1", "u1")

	n, err := s.Likes().Add(ctx, entities.NewLike(key))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = s.Likes().Add(ctx, entities.NewLike(key))
	assert.ErrorIs(t, err, ports.ErrAlreadyExists)
	assert.Equal(t, int64(1), n)

	n, err = s.Likes().Remove(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = s.Likes().Remove(ctx, key)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestLikeRepository_MissingPhoto(t *testing.T) {
	s := NewStore()
	key, _ := valueobjects.NewLikeKey("ghost", "u1")

	_, err := s.Likes().Add(context.Background(), entities.NewLike(key))
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestLikeRepository_ConcurrentLikesAreCounted(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	seedPhoto(t, s, "p1", time.Now())

	var wg sync.WaitGroup
	for _, user := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(user string) {
			defer wg.Done()
			key, _ := valueobjects.NewLikeKey("p1", user)
			_, err := s.Likes().Add(ctx, entities.NewLike(key))
			assert.NoError(t, err)
		}(user)
	}
	wg.Wait()

	p, err := s.Photos().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.Likes)
	n, _ := s.Likes().CountByPhoto(ctx, "p1")
	assert.Equal(t, int64(2), n)
}

func TestCommentRepository_ListNewestFirstAndDelete(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	base := time.Now()
	require.NoError(t, s.Comments().Save(ctx, &entities.Comment{ID: "c1", PhotoID: "p1", CreatedAt: base}))
	require.NoError(t, s.Comments().Save(ctx, &entities.Comment{ID: "c2", PhotoID: "p1", CreatedAt: base.Add(time.Second)}))
	require.NoError(t, s.Comments().Save(ctx, &entities.Comment{ID: "c3", PhotoID: "p2", CreatedAt: base}))

	list, err := s.Comments().ListByPhoto(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c2", list[0].ID)

	wrongPartition, _ := valueobjects.NewCommentKey("p2", "c1")
	assert.ErrorIs(t, s.Comments().Delete(ctx, wrongPartition), ports.ErrNotFound)

	key, _ := valueobjects.NewCommentKey("p1", "c1")
	require.NoError(t, s.Comments().Delete(ctx, key))
	list, _ = s.Comments().ListByPhoto(ctx, "p1")
	assert.Len(t, list, 1)
}

func TestUserRepository_EmailIsUnique(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	email, err := valueobjects.NewEmail("Ann@Example.com")
	require.NoError(t, err)

	require.NoError(t, s.Users().Save(ctx, &entities.User{ID: "u1", Email: email.String(), Name: "Ann"}))
	err = s.Users().Save(ctx, &entities.User{ID: "u2", Email: email.String(), Name: "Other"})
	assert.ErrorIs(t, err, ports.ErrAlreadyExists)

	lookup, _ := valueobjects.NewEmail("ann@example.COM")
	u, err := s.Users().GetByEmail(ctx, lookup)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
}
