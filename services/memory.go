package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"puttpals_server/models"
)

// MemoryDB is an in-memory DB implementation backing the tests and local
// development without an AWS account. Tables are keyed by their primary
// key field: users by email, everything else by id. Queries and scans are
// linear, which is fine at test scale.
type MemoryDB struct {
	mu     sync.Mutex
	tables map[string]map[string]map[string]types.AttributeValue
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{tables: map[string]map[string]map[string]types.AttributeValue{}}
}

func memKeyField(table string) string {
	if table == models.UsersTable {
		return "email"
	}
	return "id"
}

func attrString(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (m *MemoryDB) table(name string) map[string]map[string]types.AttributeValue {
	t, ok := m.tables[name]
	if !ok {
		t = map[string]map[string]types.AttributeValue{}
		m.tables[name] = t
	}
	return t
}

func (m *MemoryDB) GetItem(_ context.Context, table string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.table(table)[attrString(key[memKeyField(table)])]
	if !ok {
		return nil, ErrItemNotFound
	}
	return copyRow(row), nil
}

func (m *MemoryDB) PutItem(_ context.Context, table string, item interface{}) error {
	row, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal item: %w", err)
	}
	keyValue := attrString(row[memKeyField(table)])
	if keyValue == "" {
		return fmt.Errorf("item for table '%s' has no %s", table, memKeyField(table))
	}
	m.mu.Lock()
	m.table(table)[keyValue] = row
	m.mu.Unlock()
	return nil
}

func (m *MemoryDB) UpdateItem(_ context.Context, table string, key map[string]types.AttributeValue, set map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	keyValue := attrString(key[memKeyField(table)])
	row, ok := m.table(table)[keyValue]
	if !ok {
		row = copyRow(key)
		m.table(table)[keyValue] = row
	}
	for field, value := range set {
		row[field] = value
	}
	return copyRow(row), nil
}

func (m *MemoryDB) DeleteItem(_ context.Context, table string, key map[string]types.AttributeValue) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.table(table), attrString(key[memKeyField(table)]))
	return nil
}

func (m *MemoryDB) QueryByField(_ context.Context, table, _ string, field, value string, limit int32) ([]map[string]types.AttributeValue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []map[string]types.AttributeValue
	for _, row := range m.table(table) {
		if attrString(row[field]) != value {
			continue
		}
		out = append(out, copyRow(row))
		if limit > 0 && int32(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

func (m *MemoryDB) ScanWithFilter(_ context.Context, table string, filterFunc func(map[string]types.AttributeValue) bool, excludeFields map[string]string, result interface{}) error {
	m.mu.Lock()
	var rows []map[string]types.AttributeValue
	for _, row := range m.table(table) {
		excluded := false
		for field, value := range excludeFields {
			if attrString(row[field]) == value {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if filterFunc == nil || filterFunc(row) {
			rows = append(rows, copyRow(row))
		}
	}
	m.mu.Unlock()

	if err := attributevalue.UnmarshalListOfMaps(rows, result); err != nil {
		return fmt.Errorf("failed to unmarshal scan result: %w", err)
	}
	return nil
}

func copyRow(row map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

// MemorySessionStore is a process-local SessionStore for tests and local
// development.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	userID    string
	expiresAt time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]memorySession{}}
}

func (ms *MemorySessionStore) Put(_ context.Context, jti, userID string, ttl time.Duration) error {
	ms.mu.Lock()
	ms.sessions[jti] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	ms.mu.Unlock()
	return nil
}

func (ms *MemorySessionStore) Get(_ context.Context, jti string) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	s, ok := ms.sessions[jti]
	if !ok || time.Now().After(s.expiresAt) {
		return "", ErrInvalidToken
	}
	return s.userID, nil
}

func (ms *MemorySessionStore) Delete(_ context.Context, jti string) error {
	ms.mu.Lock()
	delete(ms.sessions, jti)
	ms.mu.Unlock()
	return nil
}
