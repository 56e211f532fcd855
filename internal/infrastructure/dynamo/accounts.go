package dynamo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-rider-auth/internal/domain"
)

// AccountRepo provides typed DynamoDB operations for the accounts table.
// Email uniqueness is held by a guard item in a second table keyed on email;
// both items are written and removed together in one transaction.
type AccountRepo struct {
	client      *dynamodb.Client
	tableName   string
	emailsTable string
}

func NewAccountRepo(client *dynamodb.Client, tableName, emailsTable string) *AccountRepo {
	return &AccountRepo{client: client, tableName: tableName, emailsTable: emailsTable}
}

type emailGuard struct {
	Email     string `dynamodbav:"email"`
	AccountID string `dynamodbav:"account_id"`
}

// Create stores a new account. Returns ErrConflict when the email or ID is already taken.
func (r *AccountRepo) Create(ctx context.Context, a *domain.Account) error {
	item, err := attributevalue.MarshalMap(a)
	if err != nil {
		return fmt.Errorf("marshal account: %w", err)
	}
	guard, err := attributevalue.MarshalMap(emailGuard{Email: a.Email, AccountID: a.AccountID})
	if err != nil {
		return fmt.Errorf("marshal email guard: %w", err)
	}
	_, err = r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Put: &types.Put{
				TableName:           aws.String(r.tableName),
				Item:                item,
				ConditionExpression: aws.String("attribute_not_exists(account_id)"),
			}},
			{Put: &types.Put{
				TableName:           aws.String(r.emailsTable),
				Item:                guard,
				ConditionExpression: aws.String("attribute_not_exists(email)"),
			}},
		},
	})
	if err != nil {
		if transactionConflict(err) {
			return fmt.Errorf("email already registered: %w", domain.ErrConflict)
		}
		return unavailable("create account", err)
	}
	return nil
}

func (r *AccountRepo) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            strKey(fieldAccountID, accountID),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, unavailable("get account", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var a domain.Account
	if err := attributevalue.UnmarshalMap(out.Item, &a); err != nil {
		return nil, fmt.Errorf("unmarshal account: %w", err)
	}
	return &a, nil
}

// GetByEmail resolves the email guard and then loads the account it points at.
// The email must already be normalized.
func (r *AccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.emailsTable),
		Key:            strKey(fieldEmail, email),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, unavailable("get account by email", err)
	}
	if out.Item == nil {
		return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
	}
	var g emailGuard
	if err := attributevalue.UnmarshalMap(out.Item, &g); err != nil {
		return nil, fmt.Errorf("unmarshal email guard: %w", err)
	}
	return r.Get(ctx, g.AccountID)
}

// MarkVerified flips verified to true. The write only succeeds while the stored flag
// is still false, so two racing verifications cannot both transition the account.
func (r *AccountRepo) MarkVerified(ctx context.Context, accountID string, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldVerified:  true,
		fieldUpdatedAt: at.UTC(),
	})
	if err != nil {
		return err
	}
	ue.Names["#ver"] = fieldVerified
	ue.Values[":unverified"] = &types.AttributeValueMemberBOOL{Value: false}
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                           aws.String(r.tableName),
		Key:                                 strKey(fieldAccountID, accountID),
		UpdateExpression:                    aws.String(ue.Expr),
		ConditionExpression:                 aws.String("attribute_exists(account_id) AND #ver = :unverified"),
		ExpressionAttributeNames:            ue.Names,
		ExpressionAttributeValues:           ue.Values,
		ReturnValuesOnConditionCheckFailure: types.ReturnValuesOnConditionCheckFailureAllOld,
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			if len(ccf.Item) == 0 {
				return fmt.Errorf("account not found: %w", domain.ErrNotFound)
			}
			return fmt.Errorf("account already verified: %w", domain.ErrAlreadyVerified)
		}
		return unavailable("mark account verified", err)
	}
	return nil
}

// UpdatePasswordHash replaces the stored hash if the account has not been modified
// since prevUpdatedAt. A lost race returns ErrConflict.
func (r *AccountRepo) UpdatePasswordHash(ctx context.Context, accountID, hash string, prevUpdatedAt, at time.Time) error {
	ue, err := buildUpdateExpr(map[string]interface{}{
		fieldPasswordHash: hash,
		fieldUpdatedAt:    at.UTC(),
	})
	if err != nil {
		return err
	}
	prev, err := attributevalue.Marshal(prevUpdatedAt.UTC())
	if err != nil {
		return fmt.Errorf("marshal updated_at: %w", err)
	}
	ue.Names["#prev"] = fieldUpdatedAt
	ue.Values[":prev"] = prev
	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       strKey(fieldAccountID, accountID),
		UpdateExpression:          aws.String(ue.Expr),
		ConditionExpression:       aws.String("attribute_exists(account_id) AND #prev = :prev"),
		ExpressionAttributeNames:  ue.Names,
		ExpressionAttributeValues: ue.Values,
	})
	if err != nil {
		if conditionFailed(err) {
			return fmt.Errorf("account modified concurrently: %w", domain.ErrConflict)
		}
		return unavailable("update password hash", err)
	}
	return nil
}

// Delete removes the account and releases its email. Verification codes are not
// touched here; callers cascade through VerificationRepo.DeleteByOwner.
func (r *AccountRepo) Delete(ctx context.Context, a *domain.Account) error {
	_, err := r.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{
		TransactItems: []types.TransactWriteItem{
			{Delete: &types.Delete{
				TableName: aws.String(r.tableName),
				Key:       strKey(fieldAccountID, a.AccountID),
			}},
			{Delete: &types.Delete{
				TableName: aws.String(r.emailsTable),
				Key:       strKey(fieldEmail, a.Email),
			}},
		},
	})
	if err != nil {
		return unavailable("delete account", err)
	}
	return nil
}
