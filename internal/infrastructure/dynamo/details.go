package dynamo

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/go-otp-auth/internal/domain"
)

// DetailRepo provides typed DynamoDB operations for the details table.
type DetailRepo struct {
	client    *dynamodb.Client
	tableName string
}

func NewDetailRepo(client *dynamodb.Client, tableName string) *DetailRepo {
	return &DetailRepo{client: client, tableName: tableName}
}

func (r *DetailRepo) Put(ctx context.Context, d *domain.Detail) error {
	item, err := attributevalue.MarshalMap(d)
	if err != nil {
		return fmt.Errorf("marshal detail: %w", err)
	}
	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	})
	return err
}

// Scan returns every detail, following LastEvaluatedKey until the table is exhausted.
// Items come back in storage order; callers sort.
func (r *DetailRepo) Scan(ctx context.Context) ([]domain.Detail, error) {
	var details []domain.Detail
	p := dynamodb.NewScanPaginator(r.client, &dynamodb.ScanInput{TableName: aws.String(r.tableName)})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		var page []domain.Detail
		if err := attributevalue.UnmarshalListOfMaps(out.Items, &page); err != nil {
			return nil, err
		}
		details = append(details, page...)
	}
	return details, nil
}
