package credstore

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// TenantConfig holds the credential set for one tenant. All three fields
// are written together as a single item; a partially populated config is
// never observable through the store.
type TenantConfig struct {
	ApplicationID string `dynamodbav:"application_id"`
	PublicKey     string `dynamodbav:"public_key"`
	BotToken      string `dynamodbav:"bot_token"`
}

// Complete reports whether every credential field is populated.
func (c TenantConfig) Complete() bool {
	return c.ApplicationID != "" && c.PublicKey != "" && c.BotToken != ""
}

// record is the DynamoDB schema for a tenant credential item.
type record struct {
	TenantID string `dynamodbav:"tenant_id"`
	TenantConfig
	CreatedAt time.Time `dynamodbav:"created_at"`
	UpdatedAt time.Time `dynamodbav:"updated_at"`
}

// Store is the interface for durable tenant credential persistence.
type Store interface {
	// Get returns the config for tenantID, or (nil, nil) if never initialized.
	Get(ctx context.Context, tenantID string) (*TenantConfig, error)
	// Put overwrites the full config for tenantID. Repeated puts replace,
	// never merge.
	Put(ctx context.Context, tenantID string, cfg TenantConfig) error
}

// DynamoStore implements Store using AWS DynamoDB.
type DynamoStore struct {
	db        *dynamodb.Client
	tableName string
}

// New creates a DynamoDB-backed credential store.
func New(db *dynamodb.Client, tableName string) *DynamoStore {
	return &DynamoStore{db: db, tableName: tableName}
}

// Get fetches a tenant config by ID.
func (s *DynamoStore) Get(ctx context.Context, tenantID string) (*TenantConfig, error) {
	out, err := s.db.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key: map[string]types.AttributeValue{
			"tenant_id": &types.AttributeValueMemberS{Value: tenantID},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb GetItem: %w", err)
	}
	if out.Item == nil {
		return nil, nil
	}
	var rec record
	if err := attributevalue.UnmarshalMap(out.Item, &rec); err != nil {
		return nil, fmt.Errorf("unmarshal tenant config: %w", err)
	}
	cfg := rec.TenantConfig
	return &cfg, nil
}

// Put writes the full credential set as one item. The single PutItem keeps
// the three fields atomic: a concurrent reader sees either the old config
// or the new one, never a mix.
func (s *DynamoStore) Put(ctx context.Context, tenantID string, cfg TenantConfig) error {
	now := time.Now().UTC()
	item, err := attributevalue.MarshalMap(record{
		TenantID:     tenantID,
		TenantConfig: cfg,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("marshal tenant config: %w", err)
	}
	_, err = s.db.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("dynamodb PutItem: %w", err)
	}
	return nil
}
