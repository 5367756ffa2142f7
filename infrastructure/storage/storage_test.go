package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeS3 struct {
	puts    []*s3.PutObjectInput
	deletes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.puts = append(f.puts, in)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3BlobStore_UploadAndResolveKey(t *testing.T) {
	api := &fakeS3{}
	store := NewS3BlobStore(api, "pics", "eu-west-1", "", zap.NewNop())

	blob, err := store.Upload(context.Background(), "photos/p1.jpg", strings.NewReader("img"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://pics.s3.eu-west-1.amazonaws.com/photos/p1.jpg", blob.URL)
	require.Len(t, api.puts, 1)
	assert.Equal(t, "image/jpeg", aws.ToString(api.puts[0].ContentType))

	key, ok := store.KeyFromURL(blob.URL)
	assert.True(t, ok)
	assert.Equal(t, "photos/p1.jpg", key)

	_, ok = store.KeyFromURL("https://elsewhere.example/photos/p1.jpg")
	assert.False(t, ok)

	require.NoError(t, store.Delete(context.Background(), key))
	assert.Equal(t, []string{"photos/p1.jpg"}, api.deletes)
}

func TestLocalBlobStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalBlobStore(dir, "http://localhost:8080/uploads/", zap.NewNop())
	require.NoError(t, err)

	blob, err := store.Upload(context.Background(), "photos/p1.jpg", strings.NewReader("img"), 3, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/photos/p1.jpg", blob.URL)

	data, err := os.ReadFile(filepath.Join(dir, "photos", "p1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "img", string(data))

	key, ok := store.KeyFromURL(blob.URL)
	require.True(t, ok)
	require.NoError(t, store.Delete(context.Background(), key))
	_, err = os.Stat(filepath.Join(dir, "photos", "p1.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(context.Background(), key), "deleting twice is fine")
}

func TestLocalBlobStore_KeysCannotEscapeDir(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalBlobStore(filepath.Join(dir, "uploads"), "/uploads", zap.NewNop())
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), "../escape.jpg", strings.NewReader("x"), 1, "image/jpeg")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.jpg"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "uploads", "escape.jpg"))
	assert.NoError(t, err)
}
