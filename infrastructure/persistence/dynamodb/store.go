// Package dynamodb stores collections as DynamoDB tables. Each collection maps
// to a table named "<prefix>-<collection>" with a numeric "id" partition key.
package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/SanjayNarukulla/swift-backend/application/ports"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"
)

const (
	keyAttribute = "id"

	// DynamoDB service limits
	maxBatchWrite = 25
	maxInOperands = 100
	defaultPrefix = "swift-backend"
)

// API is the subset of the DynamoDB client the store uses
type API interface {
	ListTables(ctx context.Context, params *dynamodb.ListTablesInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ListTablesOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Location is a parsed dynamodb:// connection string
type Location struct {
	Region      string
	TablePrefix string
	Endpoint    string
}

// ParseURI parses dynamodb://<region>/<table-prefix>?endpoint=<url>.
// The prefix falls back to defaultTablePrefix and then to "swift-backend".
func ParseURI(uri, defaultTablePrefix string) (Location, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Location{}, fmt.Errorf("invalid dynamodb uri: %w", err)
	}
	if u.Scheme != "dynamodb" {
		return Location{}, fmt.Errorf("unexpected scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Location{}, errors.New("dynamodb uri is missing a region")
	}

	loc := Location{
		Region:      u.Host,
		TablePrefix: strings.Trim(u.Path, "/"),
		Endpoint:    u.Query().Get("endpoint"),
	}
	if loc.TablePrefix == "" {
		loc.TablePrefix = defaultTablePrefix
	}
	if loc.TablePrefix == "" {
		loc.TablePrefix = defaultPrefix
	}
	return loc, nil
}

// Store is a DynamoDB-backed ports.Store
type Store struct {
	client API
	prefix string
	logger *zap.Logger
}

// Open loads AWS configuration for the location and checks the service is
// reachable with a ListTables call.
func Open(ctx context.Context, uri, defaultTablePrefix string, logger *zap.Logger) (*Store, error) {
	loc, err := ParseURI(uri, defaultTablePrefix)
	if err != nil {
		return nil, err
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(loc.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if loc.Endpoint != "" {
			o.BaseEndpoint = aws.String(loc.Endpoint)
		}
	})

	store := NewStore(client, loc.TablePrefix, logger)
	if err := store.Ping(ctx); err != nil {
		return nil, err
	}

	logger.Info("Connected to DynamoDB",
		zap.String("region", loc.Region),
		zap.String("table_prefix", loc.TablePrefix))
	return store, nil
}

// NewStore wraps an existing client
func NewStore(client API, tablePrefix string, logger *zap.Logger) *Store {
	return &Store{client: client, prefix: tablePrefix, logger: logger}
}

// Ping verifies the service answers
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.client.ListTables(ctx, &dynamodb.ListTablesInput{Limit: aws.Int32(1)}); err != nil {
		return fmt.Errorf("failed to reach dynamodb: %w", err)
	}
	return nil
}

// Collection returns the table-backed collection for name
func (s *Store) Collection(name string) ports.Collection {
	return &Collection{
		client: s.client,
		name:   name,
		table:  s.prefix + "-" + name,
	}
}

// Close is a no-op; the SDK client holds no connection state
func (s *Store) Close(ctx context.Context) error {
	return nil
}

// Collection is one DynamoDB table
type Collection struct {
	client API
	name   string
	table  string
}

func encoderOptions(o *attributevalue.EncoderOptions) { o.TagKey = "json" }
func decoderOptions(o *attributevalue.DecoderOptions) { o.TagKey = "json" }

// Name returns the collection name
func (c *Collection) Name() string {
	return c.name
}

// FindOne decodes the first matching item into out
func (c *Collection) FindOne(ctx context.Context, filter ports.Filter, out any) error {
	if isKeyLookup(filter) {
		key, err := keyFor(filter.Value)
		if err != nil {
			return err
		}
		res, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
			TableName: aws.String(c.table),
			Key:       key,
		})
		if err != nil {
			return fmt.Errorf("get item from %s: %w", c.table, err)
		}
		if len(res.Item) == 0 {
			return ports.ErrNoDocuments
		}
		return attributevalue.UnmarshalMapWithOptions(res.Item, out, decoderOptions)
	}

	items, err := c.scan(ctx, filter, false, 1)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return ports.ErrNoDocuments
	}
	return attributevalue.UnmarshalMapWithOptions(items[0], out, decoderOptions)
}

// Find decodes every matching item into out
func (c *Collection) Find(ctx context.Context, filter ports.Filter, out any) error {
	items, err := c.scan(ctx, filter, false, 0)
	if err != nil {
		return err
	}
	if items == nil {
		items = []map[string]types.AttributeValue{}
	}
	return attributevalue.UnmarshalListOfMapsWithOptions(items, out, decoderOptions)
}

// InsertOne writes a single item. The table is keyed by id, so an item whose
// id is already stored is refused with ports.ErrDuplicateKey instead of
// replacing it.
func (c *Collection) InsertOne(ctx context.Context, doc any) error {
	item, err := attributevalue.MarshalMapWithOptions(doc, encoderOptions)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	cond := expression.AttributeNotExists(expression.Name(keyAttribute))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return fmt.Errorf("build condition: %w", err)
	}

	_, err = c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(c.table),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	})
	if err != nil {
		var conditionErr *types.ConditionalCheckFailedException
		if errors.As(err, &conditionErr) {
			return fmt.Errorf("put item into %s: %w", c.table, ports.ErrDuplicateKey)
		}
		return fmt.Errorf("put item into %s: %w", c.table, err)
	}
	return nil
}

// InsertMany writes docs in BatchWriteItem chunks
func (c *Collection) InsertMany(ctx context.Context, docs []any) error {
	requests := make([]types.WriteRequest, 0, len(docs))
	for _, doc := range docs {
		item, err := attributevalue.MarshalMapWithOptions(doc, encoderOptions)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	}
	return c.batchWrite(ctx, requests)
}

// DeleteOne removes the first matching item
func (c *Collection) DeleteOne(ctx context.Context, filter ports.Filter) (int64, error) {
	var key map[string]types.AttributeValue
	if isKeyLookup(filter) {
		k, err := keyFor(filter.Value)
		if err != nil {
			return 0, err
		}
		key = k
	} else {
		keys, err := c.scan(ctx, filter, true, 1)
		if err != nil {
			return 0, err
		}
		if len(keys) == 0 {
			return 0, nil
		}
		key = keys[0]
	}

	res, err := c.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:    aws.String(c.table),
		Key:          key,
		ReturnValues: types.ReturnValueAllOld,
	})
	if err != nil {
		return 0, fmt.Errorf("delete item from %s: %w", c.table, err)
	}
	if len(res.Attributes) == 0 {
		return 0, nil
	}
	return 1, nil
}

// DeleteMany removes every matching item
func (c *Collection) DeleteMany(ctx context.Context, filter ports.Filter) (int64, error) {
	keys, err := c.scan(ctx, filter, true, 0)
	if err != nil {
		return 0, err
	}

	requests := make([]types.WriteRequest, 0, len(keys))
	for _, key := range keys {
		requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{Key: key}})
	}
	if err := c.batchWrite(ctx, requests); err != nil {
		return 0, err
	}
	return int64(len(keys)), nil
}

func (c *Collection) batchWrite(ctx context.Context, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += maxBatchWrite {
		end := min(start+maxBatchWrite, len(requests))

		res, err := c.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{c.table: requests[start:end]},
		})
		if err != nil {
			return fmt.Errorf("batch write to %s: %w", c.table, err)
		}
		if n := len(res.UnprocessedItems[c.table]); n > 0 {
			return fmt.Errorf("batch write to %s left %d unprocessed items", c.table, n)
		}
	}
	return nil
}

// scan runs one Scan per filter chunk and collects the items. keysOnly
// projects the partition key. limit > 0 stops once that many items are found.
func (c *Collection) scan(ctx context.Context, filter ports.Filter, keysOnly bool, limit int) ([]map[string]types.AttributeValue, error) {
	conditions, err := conditionsFor(filter)
	if err != nil {
		return nil, err
	}

	var items []map[string]types.AttributeValue
	for _, cond := range conditions {
		input, err := c.scanInput(cond, keysOnly)
		if err != nil {
			return nil, err
		}

		paginator := dynamodb.NewScanPaginator(c.client, input)
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return nil, fmt.Errorf("scan %s: %w", c.table, err)
			}
			items = append(items, page.Items...)
			if limit > 0 && len(items) >= limit {
				return items[:limit], nil
			}
		}
	}
	return items, nil
}

func (c *Collection) scanInput(cond *expression.ConditionBuilder, keysOnly bool) (*dynamodb.ScanInput, error) {
	input := &dynamodb.ScanInput{TableName: aws.String(c.table)}
	if cond == nil && !keysOnly {
		return input, nil
	}

	builder := expression.NewBuilder()
	if cond != nil {
		builder = builder.WithFilter(*cond)
	}
	if keysOnly {
		builder = builder.WithProjection(expression.NamesList(expression.Name(keyAttribute)))
	}
	expr, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("build scan expression: %w", err)
	}

	input.ExpressionAttributeNames = expr.Names()
	input.ExpressionAttributeValues = expr.Values()
	input.FilterExpression = expr.Filter()
	input.ProjectionExpression = expr.Projection()
	return input, nil
}

// conditionsFor turns a filter into scan conditions. A nil condition scans
// the whole table; In filters are split to respect the operand limit, and an
// empty In yields no conditions at all.
func conditionsFor(filter ports.Filter) ([]*expression.ConditionBuilder, error) {
	switch filter.Op {
	case ports.OpAll:
		return []*expression.ConditionBuilder{nil}, nil
	case ports.OpEq:
		cond := expression.Name(filter.Field).Equal(expression.Value(filter.Value))
		return []*expression.ConditionBuilder{&cond}, nil
	case ports.OpIn:
		var conds []*expression.ConditionBuilder
		for start := 0; start < len(filter.Values); start += maxInOperands {
			chunk := filter.Values[start:min(start+maxInOperands, len(filter.Values))]
			operands := make([]expression.OperandBuilder, 0, len(chunk)-1)
			for _, v := range chunk[1:] {
				operands = append(operands, expression.Value(v))
			}
			cond := expression.Name(filter.Field).In(expression.Value(chunk[0]), operands...)
			conds = append(conds, &cond)
		}
		return conds, nil
	default:
		return nil, fmt.Errorf("unsupported filter op %d", filter.Op)
	}
}

func isKeyLookup(filter ports.Filter) bool {
	return filter.Op == ports.OpEq && filter.Field == keyAttribute
}

func keyFor(value any) (map[string]types.AttributeValue, error) {
	av, err := attributevalue.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("marshal key: %w", err)
	}
	return map[string]types.AttributeValue{keyAttribute: av}, nil
}
