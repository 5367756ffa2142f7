package events

import "time"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

func newBase(aggregateID, eventType string, ts time.Time) BaseEvent {
	return BaseEvent{
		AggregateID: aggregateID,
		EventType:   eventType,
		Timestamp:   ts,
		Version:     1,
	}
}

// Event types
const (
	TypePhotoCreated   = "photo.created"
	TypePhotoDeleted   = "photo.deleted"
	TypePhotoLiked     = "photo.liked"
	TypePhotoUnliked   = "photo.unliked"
	TypeCommentCreated = "comment.created"
	TypeCommentDeleted = "comment.deleted"
	TypeUserRegistered = "user.registered"
)

// Photo Events

// PhotoCreated is raised when a creator uploads a photo
type PhotoCreated struct {
	BaseEvent
	PhotoID   string `json:"photo_id"`
	CreatorID string `json:"creator_id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
}

// NewPhotoCreated creates a PhotoCreated event
func NewPhotoCreated(photoID, creatorID, title, imageURL string, ts time.Time) PhotoCreated {
	return PhotoCreated{
		BaseEvent: newBase(photoID, TypePhotoCreated, ts),
		PhotoID:   photoID,
		CreatorID: creatorID,
		Title:     title,
		ImageURL:  imageURL,
	}
}

// PhotoDeleted is raised when a photo is removed
type PhotoDeleted struct {
	BaseEvent
	PhotoID   string `json:"photo_id"`
	DeletedBy string `json:"deleted_by"`
}

// NewPhotoDeleted creates a PhotoDeleted event
func NewPhotoDeleted(photoID, deletedBy string, ts time.Time) PhotoDeleted {
	return PhotoDeleted{
		BaseEvent: newBase(photoID, TypePhotoDeleted, ts),
		PhotoID:   photoID,
		DeletedBy: deletedBy,
	}
}

// PhotoLikeChanged is raised when a user likes or unlikes a photo
type PhotoLikeChanged struct {
	BaseEvent
	PhotoID string `json:"photo_id"`
	UserID  string `json:"user_id"`
	Likes   int64  `json:"likes"`
}

// NewPhotoLiked creates a photo.liked event
func NewPhotoLiked(photoID, userID string, likes int64, ts time.Time) PhotoLikeChanged {
	return PhotoLikeChanged{
		BaseEvent: newBase(photoID, TypePhotoLiked, ts),
		PhotoID:   photoID,
		UserID:    userID,
		Likes:     likes,
	}
}

// NewPhotoUnliked creates a photo.unliked event
func NewPhotoUnliked(photoID, userID string, likes int64, ts time.Time) PhotoLikeChanged {
	return PhotoLikeChanged{
		BaseEvent: newBase(photoID, TypePhotoUnliked, ts),
		PhotoID:   photoID,
		UserID:    userID,
		Likes:     likes,
	}
}

// Comment Events

// CommentChanged is raised when a comment is added to or removed from a photo
type CommentChanged struct {
	BaseEvent
	CommentID string `json:"comment_id"`
	PhotoID   string `json:"photo_id"`
	UserID    string `json:"user_id"`
}

// NewCommentCreated creates a comment.created event
func NewCommentCreated(commentID, photoID, userID string, ts time.Time) CommentChanged {
	return CommentChanged{
		BaseEvent: newBase(commentID, TypeCommentCreated, ts),
		CommentID: commentID,
		PhotoID:   photoID,
		UserID:    userID,
	}
}

// NewCommentDeleted creates a comment.deleted event
func NewCommentDeleted(commentID, photoID, userID string, ts time.Time) CommentChanged {
	return CommentChanged{
		BaseEvent: newBase(commentID, TypeCommentDeleted, ts),
		CommentID: commentID,
		PhotoID:   photoID,
		UserID:    userID,
	}
}

// User Events

// UserRegistered is raised when an account is created
type UserRegistered struct {
	BaseEvent
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// NewUserRegistered creates a UserRegistered event
func NewUserRegistered(userID, role string, ts time.Time) UserRegistered {
	return UserRegistered{
		BaseEvent: newBase(userID, TypeUserRegistered, ts),
		UserID:    userID,
		Role:      role,
	}
}
