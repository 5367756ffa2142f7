package dynamodb

import (
	"context"
	"fmt"

	"photoshare/application/ports"
	"photoshare/domain/core/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

// PhotoRepository implements ports.PhotoRepository using DynamoDB
type PhotoRepository struct {
	client Client
	table  TableConfig
	logger *zap.Logger
}

// NewPhotoRepository creates a new PhotoRepository
func NewPhotoRepository(client Client, table TableConfig, logger *zap.Logger) *PhotoRepository {
	return &PhotoRepository{client: client, table: table, logger: logger}
}

var _ ports.PhotoRepository = (*PhotoRepository)(nil)

// Save persists a new photo
func (r *PhotoRepository) Save(ctx context.Context, photo *entities.Photo) error {
	av, err := attributevalue.MarshalMap(toPhotoItem(photo))
	if err != nil {
		return fmt.Errorf("failed to marshal photo: %w", err)
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
		return fmt.Errorf("failed to save photo: %w", err)
	}

	r.logger.Debug("Photo saved", zap.String("photoID", photo.ID))
	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*entities.Photo, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: photoPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	if result.Item == nil {
		return nil, ports.ErrNotFound
	}

	var item photoItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal photo: %w", err)
	}
	return item.toEntity(), nil
}

// List queries the photo index newest first, skipping offset photos
func (r *PhotoRepository) List(ctx context.Context, offset, limit int) ([]*entities.Photo, error) {
	if offset < 0 {
		offset = 0
	}

	keyCond := expression.Key("GSI1PK").Equal(expression.Value(photosPartition))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build photo list expression: %w", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(r.table.TableName),
		IndexName:                 aws.String(r.table.PhotoIndex),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ScanIndexForward:          aws.Bool(false),
	}

	photos := make([]*entities.Photo, 0)
	skipped := 0
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list photos: %w", err)
		}

		var items []photoItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &items); err != nil {
			return nil, fmt.Errorf("failed to unmarshal photos: %w", err)
		}
		for _, item := range items {
			if skipped < offset {
				skipped++
				continue
			}
			photos = append(photos, item.toEntity())
			if limit > 0 && len(photos) == limit {
				return photos, nil
			}
		}

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	return photos, nil
}

// Delete removes the photo and everything stored in its partition
func (r *PhotoRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.table.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: photoPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skMetadata},
		},
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		if isConditionalCheckFailed(err) {
			return ports.ErrNotFound
		}
		return fmt.Errorf("failed to delete photo: %w", err)
	}

	keys, err := r.partitionKeys(ctx, photoPK(id))
	if err != nil {
		return err
	}
	if err := r.batchDelete(ctx, keys); err != nil {
		return err
	}

	r.logger.Info("Photo deleted",
		zap.String("photoID", id),
		zap.Int("childItems", len(keys)),
	)
	return nil
}

func (r *PhotoRepository) partitionKeys(ctx context.Context, pk string) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(r.table.TableName),
		KeyConditionExpression: aws.String("PK = :pk"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":pk": &types.AttributeValueMemberS{Value: pk},
		},
		ProjectionExpression: aws.String("PK, SK"),
	}

	var keys []map[string]types.AttributeValue
	for {
		result, err := r.client.Query(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to query photo partition: %w", err)
		}
		keys = append(keys, result.Items...)
		if result.LastEvaluatedKey == nil {
			return keys, nil
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}
}

func (r *PhotoRepository) batchDelete(ctx context.Context, keys []map[string]types.AttributeValue) error {
	for i := 0; i < len(keys); i += batchSize {
		end := i + batchSize
		if end > len(keys) {
			end = len(keys)
		}

		requests := make([]types.WriteRequest, 0, end-i)
		for _, key := range keys[i:end] {
			requests = append(requests, types.WriteRequest{
				DeleteRequest: &types.DeleteRequest{Key: key},
			})
		}

		pending := map[string][]types.WriteRequest{r.table.TableName: requests}
		for attempt := 0; len(pending[r.table.TableName]) > 0; attempt++ {
			if attempt == 3 {
				return fmt.Errorf("failed to delete %d photo items", len(pending[r.table.TableName]))
			}
			result, err := r.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("batch delete failed for items %d-%d: %w", i, end-1, err)
			}
			pending = result.UnprocessedItems
		}
	}
	return nil
}
