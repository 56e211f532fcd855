package dynamo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-rider-auth/internal/domain"
)

// VerificationRepo manages one-time codes.
// PK: account_id, SK: purpose ("email_verification" | "password_reset")
type VerificationRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewVerificationRepo(client *dynamodb.Client, tableName string) *VerificationRepo {
	return &VerificationRepo{client: client, tableName: tableName}
}

// Put creates or overwrites the code for (AccountID, Purpose). A single PutItem
// replaces the whole item, so there is never more than one record per key.
func (r *VerificationRepo) Put(ctx context.Context, v *domain.VerificationCode) error {
	item, err := attributevalue.MarshalMap(v)
	if err != nil {
		return fmt.Errorf("marshal verification code: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	if err != nil {
		return unavailable("put verification code", err)
	}
	return nil
}

func (r *VerificationRepo) Get(ctx context.Context, accountID, purpose string) (*domain.VerificationCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            compositeKey(fieldAccountID, accountID, fieldPurpose, purpose),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, unavailable("get verification code", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("verification code not found: %w", domain.ErrNotFound)
	}
	var v domain.VerificationCode
	if err := attributevalue.UnmarshalMap(out.Item, &v); err != nil {
		return nil, fmt.Errorf("unmarshal verification code: %w", err)
	}
	return &v, nil
}

// RecordFailedAttempt bumps the attempt counter of the code for (accountID,
// purpose) and returns the new count. The update only applies while the stored
// value is still code, so a freshly issued code starts clean. ErrNotFound means
// the code was replaced or removed in the meantime.
func (r *VerificationRepo) RecordFailedAttempt(ctx context.Context, accountID, purpose, code string) (int, error) {
	out, err := r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 compositeKey(fieldAccountID, accountID, fieldPurpose, purpose),
		UpdateExpression:    aws.String("ADD #a :one"),
		ConditionExpression: aws.String("#c = :code"),
		ExpressionAttributeNames: map[string]string{
			"#a": fieldAttempts,
			"#c": fieldCode,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":one":  &types.AttributeValueMemberN{Value: "1"},
			":code": &types.AttributeValueMemberS{Value: code},
		},
		ReturnValues: types.ReturnValueUpdatedNew,
	})
	if err != nil {
		if conditionFailed(err) {
			return 0, fmt.Errorf("verification code replaced: %w", domain.ErrNotFound)
		}
		return 0, unavailable("record failed attempt", err)
	}
	var attempts int
	if av, ok := out.Attributes[fieldAttempts]; ok {
		if err := attributevalue.Unmarshal(av, &attempts); err != nil {
			return 0, fmt.Errorf("unmarshal attempts: %w", err)
		}
	}
	return attempts, nil
}

func (r *VerificationRepo) Delete(ctx context.Context, accountID, purpose string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       compositeKey(fieldAccountID, accountID, fieldPurpose, purpose),
	})
	if err != nil {
		return unavailable("delete verification code", err)
	}
	return nil
}

// DeleteByOwner removes every code belonging to accountID, whatever its purpose.
func (r *VerificationRepo) DeleteByOwner(ctx context.Context, accountID string) error {
	out, err := r.client.Query(ctx, &dynamodb.QueryInput{
		TableName:              aws.String(r.tableName),
		KeyConditionExpression: aws.String("account_id = :aid"),
		ProjectionExpression:   aws.String("#p"),
		ExpressionAttributeNames: map[string]string{
			"#p": fieldPurpose,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":aid": &types.AttributeValueMemberS{Value: accountID},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return unavailable("query verification codes", err)
	}
	var firstErr error
	for _, item := range out.Items {
		purpose, ok := item[fieldPurpose].(*types.AttributeValueMemberS)
		if !ok {
			continue
		}
		if err := r.Delete(ctx, accountID, purpose.Value); err != nil {
			slog.Warn("failed to delete verification code during cascade", "account_id", accountID, "purpose", purpose.Value, "err", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
