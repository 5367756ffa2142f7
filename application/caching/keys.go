package caching

import (
	"fmt"
	"strings"
	"time"
)

// CollectionPhotos names the photo listing collection whose cached pages are
// scoped by a generation counter.
const CollectionPhotos = "photos"

// Default lifetimes of cached entries
const (
	PhotoTTL     = 300 * time.Second
	PhotoListTTL = 60 * time.Second
)

// PhotoKey is the cache key of a single photo
func PhotoKey(id string) string {
	return "photo:" + id
}

// PhotoListKey is the cache key of one listing page within a generation
func PhotoListKey(generation int64, page, limit int) string {
	return fmt.Sprintf("%s:v%d:page:%d:limit:%d", CollectionPhotos, generation, page, limit)
}

// GenerationKey is the cache key of a collection's generation counter.
// It is stored without expiry.
func GenerationKey(collection string) string {
	return collection + ":version"
}

// keyspace returns the leading segment of a key, used to label metrics
func keyspace(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
