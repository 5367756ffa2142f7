package dynamodb

import (
	"context"
	"fmt"

	"photoshare/application/ports"
	"photoshare/domain/core/entities"
	"photoshare/domain/core/valueobjects"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// CommentRepository implements ports.CommentRepository using DynamoDB
type CommentRepository struct {
	client Client
	table  TableConfig
	logger *zap.Logger
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(client Client, table TableConfig, logger *zap.Logger) *CommentRepository {
	return &CommentRepository{client: client, table: table, logger: logger}
}

var _ ports.CommentRepository = (*CommentRepository)(nil)

// Save persists a new comment in its photo's partition
func (r *CommentRepository) Save(ctx context.Context, comment *entities.Comment) error {
	av, err := attributevalue.MarshalMap(toCommentItem(comment))
	if err != nil {
		return fmt.Errorf("failed to marshal comment: %w", err)
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(r.table.TableName),
		Item:                av,
		ConditionExpression: aws.String("attribute_not_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ports.ErrAlreadyExists
		}
		return fmt.Errorf("failed to save comment: %w", err)
	}
	return nil
}

// GetByID looks the comment up through the ID index
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*entities.Comment, error) {
	item, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return item.toEntity(), nil
}

func (r *CommentRepository) find(ctx context.Context, id string) (*commentItem, error) {
	keyCond := expression.Key("GSI2PK").Equal(expression.Value(commentGSI(id))).
		And(expression.Key("GSI2SK").Equal(expression.Value(entityComment)))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build comment lookup expression: %w", err)
	}

	result, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(r.table.TableName),
		IndexName:                 aws.String(r.table.IDIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		Limit:                     aws.Int32(1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	if len(result.Items) == 0 {
		return nil, ports.ErrNotFound
	}

	var item commentItem
	if err := attributevalue.UnmarshalMap(result.Items[0], &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal comment: %w", err)
	}
	return &item, nil
}

// ListByPhoto returns the photo's comments newest first
func (r *CommentRepository) ListByPhoto(ctx context.Context, photoID string) ([]*entities.Comment, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.table.TableName),
		KeyConditionExpression: aws.String("PK = :pk AND begins_with(SK, :sk)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: photoPK(photoID)},
			":sk": &types.AttributeValueMemberS{Value: entityComment + "#"},
		},
		ScanIndexForward: aws.Bool(false),
	}

	comments := make([]*entities.Comment, 0)
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments: %w", err)
		}

		var items []commentItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal comments: %w", err)
		}
		for _, item := range items {
			comments = append(comments, item.toEntity())
		}

		if result.LastEvaluatedKey == nil {
			return comments, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

// Delete removes the comment if it belongs to key.PhotoID
func (r *CommentRepository) Delete(ctx context.Context, key valueobjects.CommentKey) error {
	item, err := r.find(ctx, key.CommentID)
	if err != nil {
		return err
	}
	if item.PhotoID != key.PhotoID {
		return ports.ErrNotFound
	}

	_, err = r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: item.PK},
			"SK": &types.AttributeValueMemberS{Value: item.SK},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ports.ErrNotFound
		}
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	r.logger.Debug("Comment deleted",
		zap.String("commentID", key.CommentID),
		zap.String("photoID", key.PhotoID),
	)
	return nil
}
