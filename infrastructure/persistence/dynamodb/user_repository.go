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

// UserRepository implements ports.UserRepository using DynamoDB. Each user
// owns an EMAIL# claim item; claiming it conditionally keeps emails unique.
type UserRepository struct {
	client Client
	table  TableConfig
	logger *zap.Logger
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(client Client, table TableConfig, logger *zap.Logger) *UserRepository {
	return &UserRepository{client: client, table: table, logger: logger}
}

var _ ports.UserRepository = (*UserRepository)(nil)

// Save writes the profile and the email claim together
func (r *UserRepository) Save(ctx context.Context, user *entities.User) error {
	profile, err := attributevalue.MarshalMap(toUserItem(user))
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	claim, err := attributevalue.MarshalMap(emailItem{
		PK:         emailPK(user.Email),
		SK:         skEmail,
		EntityType: entityEmail,
		UserID:     user.ID,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email claim: %w", err)
	}

	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.table.TableName),
				Item:                claim,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.table.TableName),
				Item:                profile,
				ConditionExpression: aws.String("attribute_not_exists(PK)"),
			}},
		},
	})
	if err != nil {
		if len(failedConditions(err)) > 0 {
			r.logger.Debug("Email already claimed", zap.String("userID", user.ID))
			return ports.ErrAlreadyExists
		}
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// GetByEmail resolves the email claim and loads the profile
func (r *UserRepository) GetByEmail(ctx context.Context, email valueobjects.Email) (*entities.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: emailPK(email.String())},
			"SK": &types.AttributeValueMemberS{Value: skEmail},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get email claim: %w", err)
	}
	if result.Item == nil {
		return nil, ports.ErrNotFound
	}

	var claim emailItem
	if err := attributevalue.UnmarshalMap(result.Item, &claim); err != nil {
		return nil, fmt.Errorf("failed to unmarshal email claim: %w", err)
	}
	return r.GetByID(ctx, claim.UserID)
}

// GetByID loads a profile
func (r *UserRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.table.TableName),
		Key: map[string]types.AttributeValue{
			"PK": &types.AttributeValueMemberS{Value: userPK(id)},
			"SK": &types.AttributeValueMemberS{Value: skProfile},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if result.Item == nil {
		return nil, ports.ErrNotFound
	}

	var item userItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return item.toEntity(), nil
}
