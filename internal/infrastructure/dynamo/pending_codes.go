package dynamo

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-otp-auth/internal/domain"
)

// ExpiredRetention is how long an expired row survives before the table TTL
// reaps it, so verification can still report the code as expired.
const ExpiredRetention = 24 * time.Hour

// PendingCodeRepo is the durable pending-code store.
// PK: identity, SK: purpose ("signup" | "reset"). The ttl attribute is a DynamoDB TTL.
type PendingCodeRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewPendingCodeRepo(client *dynamodb.Client, tableName string) *PendingCodeRepo {
	return &PendingCodeRepo{client: client, tableName: tableName}
}

// Put upserts the entry for (identity, purpose).
func (r *PendingCodeRepo) Put(ctx context.Context, p *domain.PendingCode) error {
	item, err := r.item(p)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// PutIfAbsent stores p only when no row exists for (identity, purpose).
func (r *PendingCodeRepo) PutIfAbsent(ctx context.Context, p *domain.PendingCode) error {
	item, err := r.item(p)
	if err != nil {
		return err
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(r.tableName),
		Item:                     item,
		ConditionExpression:      aws.String("attribute_not_exists(#i)"),
		ExpressionAttributeNames: map[string]string{"#i": fieldIdentity},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("pending code already present: %w", domain.ErrConflict)
	}
	return err
}

func (r *PendingCodeRepo) Get(ctx context.Context, purpose domain.Purpose, identity string) (*domain.PendingCode, error) {
	out, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(r.tableName),
		Key:            r.key(purpose, identity),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if out.Item == nil {
		return nil, fmt.Errorf("pending code not found: %w", domain.ErrNotFound)
	}
	var p domain.PendingCode
	if err := attributevalue.UnmarshalMap(out.Item, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PendingCodeRepo) Delete(ctx context.Context, purpose domain.Purpose, identity string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(r.tableName),
		Key:       r.key(purpose, identity),
	})
	return err
}

// Consume deletes the entry only while it still holds code. A missing row or a
// different code fails the condition and yields ErrNotFound.
func (r *PendingCodeRepo) Consume(ctx context.Context, purpose domain.Purpose, identity, code string) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:                aws.String(r.tableName),
		Key:                      r.key(purpose, identity),
		ConditionExpression:      aws.String("#c = :c"),
		ExpressionAttributeNames: map[string]string{"#c": fieldCode},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":c": &types.AttributeValueMemberS{Value: code},
		},
	})
	if isConditionFailed(err) {
		return fmt.Errorf("pending code already consumed: %w", domain.ErrNotFound)
	}
	return err
}

func (r *PendingCodeRepo) item(p *domain.PendingCode) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(p)
	if err != nil {
		return nil, fmt.Errorf("marshal pending code: %w", err)
	}
	item[fieldTTL] = &types.AttributeValueMemberN{
		Value: strconv.FormatInt(p.ExpiresAt.Add(ExpiredRetention).Unix(), 10),
	}
	return item, nil
}

func (r *PendingCodeRepo) key(purpose domain.Purpose, identity string) map[string]types.AttributeValue {
	return compositeKey(fieldIdentity, identity, fieldPurpose, string(purpose))
}
