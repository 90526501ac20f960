package records

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

type dynamoAPI interface {
	PutItem(context.Context, *dynamodb.PutItemInput, ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(context.Context, *dynamodb.GetItemInput, ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
}

// tableItem is the DynamoDB shape of one table.
type tableItem struct {
	Name      string     `dynamodbav:"name"`
	Columns   []string   `dynamodbav:"columns"`
	Rows      [][]string `dynamodbav:"rows"`
	UpdatedAt string     `dynamodbav:"updatedAt"`
}

// DynamoStore keeps each table as a single item keyed by name.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	now       func() time.Time
}

// NewDynamoStore creates a store that keeps one item per table in tableName.
func NewDynamoStore(client dynamoAPI, tableName string) *DynamoStore {
	if client == nil {
		panic("records: dynamodb client cannot be nil")
	}
	if tableName == "" {
		panic("records: dynamodb table name cannot be empty")
	}
	return &DynamoStore{client: client, tableName: tableName, now: time.Now}
}

func (s *DynamoStore) LoadTable(ctx context.Context, name string) (*Table, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"name": &types.AttributeValueMemberS{Value: name},
		},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("records: dynamodb get %s: %w", name, err)
	}
	if len(out.Item) == 0 {
		return nil, fmt.Errorf("records: dynamodb get %s: %w", name, ErrTableNotFound)
	}
	var item tableItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("records: dynamodb decode %s: %w", name, err)
	}
	t := &Table{Columns: item.Columns, Rows: item.Rows}
	t.Normalize()
	return t, nil
}

func (s *DynamoStore) SaveTable(ctx context.Context, name string, t *Table) error {
	norm := t.Clone()
	norm.Normalize()
	if norm.Rows == nil {
		norm.Rows = [][]string{}
	}
	item, err := attributevalue.MarshalMap(tableItem{
		Name:      name,
		Columns:   norm.Columns,
		Rows:      norm.Rows,
		UpdatedAt: s.now().UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("records: dynamodb encode %s: %w", name, err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("records: dynamodb put %s: %w", name, err)
	}
	return nil
}
