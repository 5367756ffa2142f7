// Package dynamodb implements the store ports on a single DynamoDB table.
//
// Layout:
//
//	PHOTO#<id>  METADATA                      photo      GSI1: PHOTOS / <createdAt>#<id>
//	PHOTO#<id>  COMMENT#<createdAt>#<id>      comment    GSI2: COMMENT#<id> / COMMENT
//	PHOTO#<id>  LIKE#<userId>                 like
//	USER#<id>   PROFILE                       user
//	EMAIL#<e>   EMAIL                         email claim pointing at the user
//
// Everything that belongs to a photo shares its partition, so deleting a photo
// is a single partition sweep.
package dynamodb

import (
	"context"
	"fmt"

	"photoshare/domain/core/entities"
	"photoshare/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

// Client is the subset of the DynamoDB API the repositories use
type Client interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// TableConfig names the table and its secondary indexes
type TableConfig struct {
	TableName  string
	PhotoIndex string // GSI1
	IDIndex    string // GSI2
}

const (
	entityPhoto   = "PHOTO"
	entityComment = "COMMENT"
	entityLike    = "LIKE"
	entityUser    = "USER"
	entityEmail   = "EMAIL"

	skMetadata = "METADATA"
	skProfile  = "PROFILE"
	skEmail    = "EMAIL"

	photosPartition = "PHOTOS"

	// BatchWriteItem accepts at most 25 requests
	batchSize = 25
)

func photoPK(photoID string) string { return "PHOTO#" + photoID }
func userPK(userID string) string   { return "USER#" + userID }
func emailPK(email string) string   { return "EMAIL#" + email }
func likeSK(userID string) string   { return "LIKE#" + userID }
func commentGSI(id string) string   { return "COMMENT#" + id }

func commentSK(c *entities.Comment) string {
	return fmt.Sprintf("COMMENT#%s#%s", utils.SortableTimestamp(c.CreatedAt), c.ID)
}

type photoItem struct {
	PK           string   `dynamodbav:"PK"`
	SK           string   `dynamodbav:"SK"`
	GSI1PK       string   `dynamodbav:"GSI1PK"`
	GSI1SK       string   `dynamodbav:"GSI1SK"`
	EntityType   string   `dynamodbav:"EntityType"`
	PhotoID      string   `dynamodbav:"PhotoID"`
	CreatorID    string   `dynamodbav:"CreatorID"`
	CreatorName  string   `dynamodbav:"CreatorName"`
	CreatorRole  string   `dynamodbav:"CreatorRole"`
	ImageURL     string   `dynamodbav:"ImageURL"`
	ThumbnailURL string   `dynamodbav:"ThumbnailURL,omitempty"`
	Title        string   `dynamodbav:"Title"`
	Caption      string   `dynamodbav:"Caption"`
	Location     string   `dynamodbav:"Location,omitempty"`
	People       []string `dynamodbav:"People,omitempty"`
	Likes        int64    `dynamodbav:"Likes"`
	CreatedAt    string   `dynamodbav:"CreatedAt"`
}

func toPhotoItem(p *entities.Photo) photoItem {
	created := utils.SortableTimestamp(p.CreatedAt)
	return photoItem{
		PK:           photoPK(p.ID),
		SK:           skMetadata,
		GSI1PK:       photosPartition,
		GSI1SK:       created + "#" + p.ID,
		EntityType:   entityPhoto,
		PhotoID:      p.ID,
		CreatorID:    p.CreatorID,
		CreatorName:  p.CreatorName,
		CreatorRole:  p.CreatorRole,
		ImageURL:     p.ImageURL,
		ThumbnailURL: p.ThumbnailURL,
		Title:        p.Title,
		Caption:      p.Caption,
		Location:     p.Location,
		People:       p.People,
		Likes:        p.Likes,
		CreatedAt:    created,
	}
}

func (i photoItem) toEntity() *entities.Photo {
	created := utils.ParseTimestamp(i.CreatedAt)
	return &entities.Photo{
		ID:           i.PhotoID,
		CreatorID:    i.CreatorID,
		CreatorName:  i.CreatorName,
		CreatorRole:  i.CreatorRole,
		ImageURL:     i.ImageURL,
		ThumbnailURL: i.ThumbnailURL,
		Title:        i.Title,
		Caption:      i.Caption,
		Location:     i.Location,
		People:       i.People,
		Likes:        i.Likes,
		CreatedAt:    created,
	}
}

type commentItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	GSI2PK     string `dynamodbav:"GSI2PK"`
	GSI2SK     string `dynamodbav:"GSI2SK"`
	EntityType string `dynamodbav:"EntityType"`
	CommentID  string `dynamodbav:"CommentID"`
	PhotoID    string `dynamodbav:"PhotoID"`
	UserID     string `dynamodbav:"UserID"`
	UserName   string `dynamodbav:"UserName"`
	UserRole   string `dynamodbav:"UserRole,omitempty"`
	Content    string `dynamodbav:"Content"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func toCommentItem(c *entities.Comment) commentItem {
	return commentItem{
		PK:         photoPK(c.PhotoID),
		SK:         commentSK(c),
		GSI2PK:     commentGSI(c.ID),
		GSI2SK:     entityComment,
		EntityType: entityComment,
		CommentID:  c.ID,
		PhotoID:    c.PhotoID,
		UserID:     c.UserID,
		UserName:   c.UserName,
		UserRole:   c.UserRole,
		Content:    c.Content,
		CreatedAt:  utils.SortableTimestamp(c.CreatedAt),
	}
}

func (i commentItem) toEntity() *entities.Comment {
	created := utils.ParseTimestamp(i.CreatedAt)
	return &entities.Comment{
		ID:        i.CommentID,
		PhotoID:   i.PhotoID,
		UserID:    i.UserID,
		UserName:  i.UserName,
		UserRole:  i.UserRole,
		Content:   i.Content,
		CreatedAt: created,
	}
}

type likeItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	LikeID     string `dynamodbav:"LikeID"`
	PhotoID    string `dynamodbav:"PhotoID"`
	UserID     string `dynamodbav:"UserID"`
	CreatedAt  string `dynamodbav:"CreatedAt"`
}

func toLikeItem(l *entities.Like) likeItem {
	return likeItem{
		PK:         photoPK(l.PhotoID),
		SK:         likeSK(l.UserID),
		EntityType: entityLike,
		LikeID:     l.ID,
		PhotoID:    l.PhotoID,
		UserID:     l.UserID,
		CreatedAt:  utils.SortableTimestamp(l.CreatedAt),
	}
}

type userItem struct {
	PK           string `dynamodbav:"PK"`
	SK           string `dynamodbav:"SK"`
	EntityType   string `dynamodbav:"EntityType"`
	UserID       string `dynamodbav:"UserID"`
	Email        string `dynamodbav:"Email"`
	Name         string `dynamodbav:"Name"`
	PasswordHash string `dynamodbav:"PasswordHash"`
	Role         string `dynamodbav:"Role"`
	CreatedAt    string `dynamodbav:"CreatedAt"`
}

func toUserItem(u *entities.User) userItem {
	return userItem{
		PK:           userPK(u.ID),
		SK:           skProfile,
		EntityType:   entityUser,
		UserID:       u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		CreatedAt:    utils.SortableTimestamp(u.CreatedAt),
	}
}

func (i userItem) toEntity() *entities.User {
	created := utils.ParseTimestamp(i.CreatedAt)
	return &entities.User{
		ID:           i.UserID,
		Email:        i.Email,
		Name:         i.Name,
		PasswordHash: i.PasswordHash,
		Role:         i.Role,
		CreatedAt:    created,
	}
}

type emailItem struct {
	PK         string `dynamodbav:"PK"`
	SK         string `dynamodbav:"SK"`
	EntityType string `dynamodbav:"EntityType"`
	UserID     string `dynamodbav:"UserID"`
}
