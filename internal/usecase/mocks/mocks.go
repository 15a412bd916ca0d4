package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/quimal/dteledger/internal/domain"
	"github.com/quimal/dteledger/internal/usecase"
)

// MockEntryRepository is a mock implementation of EntryRepository.
type MockEntryRepository struct {
	mu      sync.RWMutex
	entries map[string]*domain.AccountingEntry

	CreateFunc         func(ctx context.Context, tx usecase.Transaction, entry *domain.AccountingEntry) error
	GetByIDFunc        func(ctx context.Context, companyRUT, id string) (*domain.AccountingEntry, error)
	ListByCompanyFunc  func(ctx context.Context, companyRUT string, from, to time.Time, limit, offset int) ([]*domain.AccountingEntry, error)
	ListByPeriodFunc   func(ctx context.Context, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error)
	ListByPeriodTxFunc func(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error)
}

func NewMockEntryRepository() *MockEntryRepository {
	return &MockEntryRepository{
		entries: make(map[string]*domain.AccountingEntry),
	}
}

func (m *MockEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.AccountingEntry) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[entry.ID] = entry
	return nil
}

func (m *MockEntryRepository) GetByID(ctx context.Context, companyRUT, id string) (*domain.AccountingEntry, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, companyRUT, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if entry, ok := m.entries[id]; ok && entry.CompanyRUT == companyRUT {
		return entry, nil
	}
	return nil, domain.ErrEntryNotFound
}

func (m *MockEntryRepository) ListByCompany(ctx context.Context, companyRUT string, from, to time.Time, limit, offset int) ([]*domain.AccountingEntry, error) {
	if m.ListByCompanyFunc != nil {
		return m.ListByCompanyFunc(ctx, companyRUT, from, to, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.AccountingEntry
	for _, entry := range m.entries {
		if entry.CompanyRUT == companyRUT && !entry.Date.Before(from) && entry.Date.Before(to) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) ListByPeriod(ctx context.Context, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error) {
	if m.ListByPeriodFunc != nil {
		return m.ListByPeriodFunc(ctx, companyRUT, period)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var entries []*domain.AccountingEntry
	for _, entry := range m.entries {
		if entry.CompanyRUT == companyRUT && period.Contains(entry.Date) {
			entries = append(entries, entry)
		}
	}
	return entries, nil
}

func (m *MockEntryRepository) ListByPeriodTx(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) ([]*domain.AccountingEntry, error) {
	if m.ListByPeriodTxFunc != nil {
		return m.ListByPeriodTxFunc(ctx, tx, companyRUT, period)
	}
	return m.ListByPeriod(ctx, companyRUT, period)
}

// MockClosedPeriodRepository is a mock implementation of ClosedPeriodRepository.
type MockClosedPeriodRepository struct {
	mu      sync.RWMutex
	periods map[string]*domain.ClosedPeriod

	CreateFunc     func(ctx context.Context, tx usecase.Transaction, period *domain.ClosedPeriod) error
	GetFunc        func(ctx context.Context, companyRUT string, period domain.YearMonth) (*domain.ClosedPeriod, error)
	IsClosedFunc   func(ctx context.Context, companyRUT string, period domain.YearMonth) (bool, error)
	IsClosedTxFunc func(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) (bool, error)
	LockFunc       func(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) error

	LockCalls int
}

func NewMockClosedPeriodRepository() *MockClosedPeriodRepository {
	return &MockClosedPeriodRepository{
		periods: make(map[string]*domain.ClosedPeriod),
	}
}

func periodKey(companyRUT string, period domain.YearMonth) string {
	return companyRUT + "|" + period.String()
}

func (m *MockClosedPeriodRepository) Create(ctx context.Context, tx usecase.Transaction, period *domain.ClosedPeriod) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := periodKey(period.CompanyRUT, period.Period)
	if _, ok := m.periods[key]; ok {
		return domain.ErrPeriodAlreadyClosed
	}
	m.periods[key] = period
	return nil
}

func (m *MockClosedPeriodRepository) Get(ctx context.Context, companyRUT string, period domain.YearMonth) (*domain.ClosedPeriod, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, companyRUT, period)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.periods[periodKey(companyRUT, period)]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("closed period not found")
}

func (m *MockClosedPeriodRepository) IsClosed(ctx context.Context, companyRUT string, period domain.YearMonth) (bool, error) {
	if m.IsClosedFunc != nil {
		return m.IsClosedFunc(ctx, companyRUT, period)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.periods[periodKey(companyRUT, period)]
	return ok, nil
}

func (m *MockClosedPeriodRepository) IsClosedTx(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) (bool, error) {
	if m.IsClosedTxFunc != nil {
		return m.IsClosedTxFunc(ctx, tx, companyRUT, period)
	}
	return m.IsClosed(ctx, companyRUT, period)
}

func (m *MockClosedPeriodRepository) Lock(ctx context.Context, tx usecase.Transaction, companyRUT string, period domain.YearMonth) error {
	if m.LockFunc != nil {
		return m.LockFunc(ctx, tx, companyRUT, period)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LockCalls++
	return nil
}

// MockCAFRepository is a mock implementation of CAFRepository.
type MockCAFRepository struct {
	mu    sync.RWMutex
	auths []*domain.FolioAuthorization

	CreateFunc        func(ctx context.Context, auth *domain.FolioAuthorization) error
	ListByDocTypeFunc func(ctx context.Context, companyRUT string, docType int) ([]*domain.FolioAuthorization, error)
}

func NewMockCAFRepository() *MockCAFRepository {
	return &MockCAFRepository{}
}

func (m *MockCAFRepository) Create(ctx context.Context, auth *domain.FolioAuthorization) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, auth)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auths = append(m.auths, auth)
	return nil
}

func (m *MockCAFRepository) ListByDocType(ctx context.Context, companyRUT string, docType int) ([]*domain.FolioAuthorization, error) {
	if m.ListByDocTypeFunc != nil {
		return m.ListByDocTypeFunc(ctx, companyRUT, docType)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var auths []*domain.FolioAuthorization
	for _, auth := range m.auths {
		if auth.CompanyRUT == companyRUT && auth.DocType == docType {
			auths = append(auths, auth)
		}
	}
	return auths, nil
}

// MockRuleRepository is a mock implementation of RuleRepository.
type MockRuleRepository struct {
	mu    sync.RWMutex
	rules []*domain.LearnedRule

	CreateFunc        func(ctx context.Context, rule *domain.LearnedRule) error
	ListByCompanyFunc func(ctx context.Context, companyRUT string) ([]*domain.LearnedRule, error)
}

func NewMockRuleRepository() *MockRuleRepository {
	return &MockRuleRepository{}
}

func (m *MockRuleRepository) Create(ctx context.Context, rule *domain.LearnedRule) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, rule)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rules = append(m.rules, rule)
	return nil
}

func (m *MockRuleRepository) ListByCompany(ctx context.Context, companyRUT string) ([]*domain.LearnedRule, error) {
	if m.ListByCompanyFunc != nil {
		return m.ListByCompanyFunc(ctx, companyRUT)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var rules []*domain.LearnedRule
	for _, rule := range m.rules {
		if rule.CompanyRUT == companyRUT {
			rules = append(rules, rule)
		}
	}
	return rules, nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	Committed  bool
	RolledBack bool
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.Committed = true
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.RolledBack = true
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string]string

	GetFunc    func(ctx context.Context, key string) (string, error)
	SetFunc    func(ctx context.Context, key, value string, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error

	Sets int
	Gets int
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string]string),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gets++
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss")
}

func (m *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sets++
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
