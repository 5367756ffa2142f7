package dynamodb

import (
	"context"
	"fmt"

	"photoshare/application/ports"
	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// LikeRepository implements ports.LikeRepository using DynamoDB. The like
// item and the photo's Likes attribute are written in one transaction.
type LikeRepository struct {
	client Client
	table  TableConfig
	logger *zap.Logger
}

// NewLikeRepository creates a new LikeRepository
func NewLikeRepository(client Client, table TableConfig, logger *zap.Logger) *LikeRepository {
	return &LikeRepository{client: client, table: table, logger: logger}
}

var _ ports.LikeRepository = (*LikeRepository)(nil)

func (r *LikeRepository) photoKey(photoID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: photoPK(photoID)},
		"SK": &types.AttributeValueMemberS{Value: skMetadata},
	}
}

func (r *LikeRepository) likeKey(key valueobjects.LikeKey) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: photoPK(key.PhotoID)},
		"SK": &types.AttributeValueMemberS{Value: likeSK(key.UserID)},
	}
}

func (r *LikeRepository) counterUpdate(photoID string, delta int) *types.Update {
	return &types.Update{
		TableName:           aws.String(r.table.TableName),
		Key:                 r.photoKey(photoID),
		UpdateExpression:    aws.String("ADD Likes :delta"),
		ConditionExpression: aws.String("attribute_exists(PK)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":delta": &types.AttributeValueMemberN{Value: fmt.Sprintf("%d", delta)},
		},
	}
}

// Add writes the like item and increments the counter
func (r *LikeRepository) Add(ctx context.Context, like *entities.Like) (int64, error) {
	av, err := attributevalue.MarshalMap(toLikeItem(like))
	if err != nil {
		return 0, fmt.Errorf("failed to marshal like: %w", err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.table.TableName),
				Item:                av,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{Update: r.counterUpdate(like.PhotoID, 1)},
		},
	})
	if err != nil {
		failed := failedConditions(err)
		switch {
		case contains(failed, 1):
			return 0, ports.ErrNotFound
		case contains(failed, 0):
			count, countErr := r.currentCount(ctx, like.PhotoID)
			if countErr != nil {
				return 0, countErr
			}
			return count, ports.ErrAlreadyExists
		}
		return 0, fmt.Errorf("failed to add like: %w", err)
	}

	return r.currentCount(ctx, like.PhotoID)
}

// Remove deletes the like item and decrements the counter
func (r *LikeRepository) Remove(ctx context.Context, key valueobjects.LikeKey) (int64, error) {
	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName:           aws.String(r.table.TableName),
				Key:                 r.likeKey(key),
				ConditionExpression: aws.String("attribute_exists(PK)"),
			}},
			{Update: r.counterUpdate(key.PhotoID, -1)},
		},
	})
	if err != nil {
		failed := failedConditions(err)
		if contains(failed, 1) {
			return 0, ports.ErrNotFound
		}
		if contains(failed, 0) {
			count, countErr := r.currentCount(ctx, key.PhotoID)
			if countErr != nil {
				return 0, countErr
			}
			return count, ports.ErrNotFound
		}
		return 0, fmt.Errorf("failed to remove like: %w", err)
	}

	return r.currentCount(ctx, key.PhotoID)
}

func (r *LikeRepository) currentCount(ctx context.Context, photoID string) (int64, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.table.TableName),
		Key:                  r.photoKey(photoID),
		ConsistentRead:       aws.Bool(true),
		ProjectionExpression: aws.String("Likes"),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to read like count: %w", err)
	}
	if result.Item == nil {
		return 0, ports.ErrNotFound
	}

	var counter struct {
		Likes int64 `dynamodbav:"Likes"`
	}
	if err := attributevalue.UnmarshalMap(result.Item, &counter); err != nil {
		return 0, fmt.Errorf("failed to unmarshal like count: %w", err)
	}
	if counter.Likes < 0 {
		r.logger.Warn("Negative like counter", zap.String("photoID", photoID), zap.Int64("likes", counter.Likes))
		return 0, nil
	}
	return counter.Likes, nil
}

// Exists reports whether the like item is present
func (r *LikeRepository) Exists(ctx context.Context, key valueobjects.LikeKey) (bool, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(r.table.TableName),
		Key:                  r.likeKey(key),
		ProjectionExpression: aws.String("PK"),
	})
	if err != nil {
		return false, fmt.Errorf("failed to get like: %w", err)
	}
	return result.Item != nil, nil
}

// CountByPhoto counts like items in the photo's partition
func (r *LikeRepository) CountByPhoto(ctx context.Context, photoID string) (int64, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.table.TableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: photoPK(photoID)},
			":sk": &types.AttributeValueMemberS{Value: entityLike + "#"},
		},
		Select: types.SelectCount,
	}

	var total int64
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("failed to count likes: %w", err)
		}
		total += int64(result.Count)
		if result.LastEvaluatedKey == nil {
			return total, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}
