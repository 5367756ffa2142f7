package ports

import (
	"context"
	"errors"

	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"
	"photoshare/domain/events"
)

// Store adapters report absent entities and uniqueness violations with these
// sentinels so use cases can branch on them with errors.Is.
var (
	ErrNotFound      = errors.New("entity not found")
	ErrAlreadyExists = errors.New("entity already exists")
)

// PhotoRepository defines the interface for photo persistence
// This is a port in hexagonal architecture - the domain doesn't know about the implementation
type PhotoRepository interface {
	// Save persists a new photo
	Save(ctx context.Context, photo *entities.Photo) error

	// GetByID retrieves a photo by its ID, or ErrNotFound
	GetByID(ctx context.Context, id string) (*entities.Photo, error)

	// List returns photos newest first. A limit of zero or less returns
	// everything after offset.
	List(ctx context.Context, offset, limit int) ([]*entities.Photo, error)

	// Delete removes a photo together with its likes and comments
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the interface for comment persistence
type CommentRepository interface {
	// Save persists a new comment
	Save(ctx context.Context, comment *entities.Comment) error

	// GetByID finds a comment by its ID alone, or ErrNotFound
	GetByID(ctx context.Context, id string) (*entities.Comment, error)

	// ListByPhoto returns the comments of a photo newest first
	ListByPhoto(ctx context.Context, photoID string) ([]*entities.Comment, error)

	// Delete removes a comment, or returns ErrNotFound
	Delete(ctx context.Context, key valueobjects.CommentKey) error
}

// LikeRepository defines the interface for like persistence. The like record
// and the photo's like counter change together, atomically.
type LikeRepository interface {
	// Add records the like and increments the photo counter, returning the
	// new count. ErrAlreadyExists when the user already liked the photo,
	// ErrNotFound when the photo does not exist.
	Add(ctx context.Context, like *entities.Like) (int64, error)

	// Remove deletes the like and decrements the photo counter, returning the
	// new count. ErrNotFound when no such like exists.
	Remove(ctx context.Context, key valueobjects.LikeKey) (int64, error)

	// Exists reports whether the user liked the photo
	Exists(ctx context.Context, key valueobjects.LikeKey) (bool, error)

	// CountByPhoto counts like records of a photo
	CountByPhoto(ctx context.Context, photoID string) (int64, error)
}

// UserRepository defines the interface for account persistence
type UserRepository interface {
	// Save persists a new user. ErrAlreadyExists when the email is taken.
	Save(ctx context.Context, user *entities.User) error

	// GetByEmail finds a user by normalized email, or ErrNotFound
	GetByEmail(ctx context.Context, email valueobjects.Email) (*entities.User, error)

	// GetByID finds a user by ID, or ErrNotFound
	GetByID(ctx context.Context, id string) (*entities.User, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// Publish sends a single event
	Publish(ctx context.Context, event events.DomainEvent) error

	// PublishBatch sends multiple events
	PublishBatch(ctx context.Context, events []events.DomainEvent) error
}
