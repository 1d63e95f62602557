package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"puttpals_server/logger"
)

// ErrItemNotFound is returned when a keyed read finds nothing. Callers treat
// it as a valid outcome, not a storage failure.
var ErrItemNotFound = errors.New("item not found")

// DB is the storage surface the domain services depend on. *DynamoService
// implements it against DynamoDB; tests provide an in-memory fake.
type DB interface {
	GetItem(ctx context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	PutItem(ctx context.Context, table string, item interface{}) error
	UpdateItem(ctx context.Context, table string, key map[string]types.AttributeValue, set map[string]types.AttributeValue) (map[string]types.AttributeValue, error)
	DeleteItem(ctx context.Context, table string, key map[string]types.AttributeValue) error
	QueryByField(ctx context.Context, table, index, field, value string, limit int32) ([]map[string]types.AttributeValue, error)
	ScanWithFilter(ctx context.Context, table string, filterFunc func(map[string]types.AttributeValue) bool, excludeFields map[string]string, result interface{}) error
}

// DynamoService is a thin generic CRUD wrapper over the DynamoDB client.
// TablePrefix lets one AWS account host several deployments.
type DynamoService struct {
	Client      *dynamodb.Client
	TablePrefix string
}

// InitializeDynamoDBClient initializes the DynamoDB client for a region.
func InitializeDynamoDBClient(ctx context.Context, region string) (*dynamodb.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return dynamodb.NewFromConfig(cfg), nil
}

func (ds *DynamoService) tableName(table string) string {
	return ds.TablePrefix + table
}

// GetItem retrieves a single item by key.
func (ds *DynamoService) GetItem(ctx context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(ds.tableName(table)),
		Key:       key,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", table, err)
	}
	if output.Item == nil {
		return nil, ErrItemNotFound
	}
	return output.Item, nil
}

// PutItem marshals and stores an item.
func (ds *DynamoService) PutItem(ctx context.Context, table string, item interface{}) error {
	marshaled, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	_, err = ds.Client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(ds.tableName(table)),
		Item:      marshaled,
	})
	if err != nil {
		return fmt.Errorf("failed to put item in table '%s': %w", table, err)
	}
	return nil
}

// UpdateItem applies a SET expression built from the given field map and
// returns the item's new attributes.
func (ds *DynamoService) UpdateItem(ctx context.Context, table string, key map[string]types.AttributeValue, set map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	if len(key) == 0 {
		return nil, errors.New("update failed: key cannot be empty")
	}
	if len(set) == 0 {
		return nil, errors.New("update failed: no fields to set")
	}

	var parts []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	for field, value := range set {
		names["#"+field] = field
		values[":"+field] = value
		parts = append(parts, fmt.Sprintf("#%s = :%s", field, field))
	}
	updateExpression := "SET " + strings.Join(parts, ", ")

	output, err := ds.Client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(ds.tableName(table)),
		Key:                       key,
		UpdateExpression:          aws.String(updateExpression),
		ExpressionAttributeNames:  names,
		ExpressionAttributeValues: values,
		ReturnValues:              types.ReturnValueAllNew,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update item in table '%s': %w", table, err)
	}
	if output.Attributes == nil {
		return map[string]types.AttributeValue{}, nil
	}
	return output.Attributes, nil
}

// DeleteItem removes an item by key.
func (ds *DynamoService) DeleteItem(ctx context.Context, table string, key map[string]types.AttributeValue) error {
	_, err := ds.Client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName: aws.String(ds.tableName(table)),
		Key:       key,
	})
	if err != nil {
		return fmt.Errorf("failed to delete item from table '%s': %w", table, err)
	}
	return nil
}

// QueryByField queries items where field equals value, either on the table
// key or on a GSI when index is non-empty.
func (ds *DynamoService) QueryByField(ctx context.Context, table, index, field, value string, limit int32) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.QueryInput{
		TableName:              aws.String(ds.tableName(table)),
		KeyConditionExpression: aws.String(fmt.Sprintf("#%s = :v", field)),
		ExpressionAttributeNames: map[string]string{
			"#" + field: field,
		},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":v": &types.AttributeValueMemberS{Value: value},
		},
	}
	if limit > 0 {
		input.Limit = aws.Int32(limit)
	}
	if index != "" {
		input.IndexName = aws.String(index)
	}

	output, err := ds.Client.Query(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to query table '%s': %w", table, err)
	}
	logger.Log.Debugf("query %s/%s %s=%s returned %d items", table, index, field, value, len(output.Items))
	return output.Items, nil
}

// ScanWithFilter scans a table, excludes rows whose fields match the given
// values, applies an optional callback filter, and unmarshals the survivors
// into result (a pointer to a slice of structs).
func (ds *DynamoService) ScanWithFilter(ctx context.Context, table string, filterFunc func(map[string]types.AttributeValue) bool, excludeFields map[string]string, result interface{}) error {
	var filterExpressions []string
	names := map[string]string{}
	values := map[string]types.AttributeValue{}
	for field, value := range excludeFields {
		names["#"+field] = field
		values[":"+field] = &types.AttributeValueMemberS{Value: value}
		filterExpressions = append(filterExpressions, fmt.Sprintf("#%s <> :%s", field, field))
	}

	input := &dynamodb.ScanInput{
		TableName: aws.String(ds.tableName(table)),
	}
	if len(filterExpressions) > 0 {
		input.FilterExpression = aws.String(strings.Join(filterExpressions, " AND "))
		input.ExpressionAttributeNames = names
		input.ExpressionAttributeValues = values
	}

	output, err := ds.Client.Scan(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to scan table '%s': %w", table, err)
	}

	var filtered []map[string]types.AttributeValue
	for _, item := range output.Items {
		if filterFunc == nil || filterFunc(item) {
			filtered = append(filtered, item)
		}
	}

	if err := attributevalue.UnmarshalListOfMaps(filtered, result); err != nil {
		return fmt.Errorf("failed to unmarshal scan result: %w", err)
	}
	return nil
}
