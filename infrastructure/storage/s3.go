// Package storage implements ports.BlobStore on S3 and on the local disk.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"photoshare/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3API is the part of the S3 client the blob store uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3BlobStore stores images in an S3 bucket
type S3BlobStore struct {
	client     S3API
	bucketName string
	baseURL    string
	logger     *zap.Logger
}

// NewS3BlobStore creates a blob store. Objects are addressed as
// baseURL/key; an empty baseURL falls back to the bucket's virtual-hosted URL.
func NewS3BlobStore(client S3API, bucketName, region, baseURL string, logger *zap.Logger) *S3BlobStore {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucketName, region)
	}
	return &S3BlobStore{
		client:     client,
		bucketName: bucketName,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		logger:     logger,
	}
}

var _ ports.BlobStore = (*S3BlobStore)(nil)

// Upload puts the object and returns its public URL
func (s *S3BlobStore) Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (ports.Blob, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketName),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return ports.Blob{}, fmt.Errorf("failed to put object to S3: %w", err)
	}

	s.logger.Debug("Object uploaded",
		zap.String("bucket", s.bucketName),
		zap.String("key", key),
		zap.Int64("size", size),
	)
	return ports.Blob{Key: key, URL: s.baseURL + "/" + key}, nil
}

// Delete removes the object
func (s *S3BlobStore) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}

// KeyFromURL strips the store's base URL
func (s *S3BlobStore) KeyFromURL(url string) (string, bool) {
	return keyUnder(s.baseURL, url)
}

func keyUnder(base, url string) (string, bool) {
	prefix := base + "/"
	if !strings.HasPrefix(url, prefix) || len(url) == len(prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}
