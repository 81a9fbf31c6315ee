package mocks

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/adelh/branchcash/internal/domain"
	"github.com/adelh/branchcash/internal/usecase"
)

// MockBranchRepository is a mock implementation of BranchRepository.
type MockBranchRepository struct {
	mu       sync.RWMutex
	branches map[string]*domain.Branch

	CreateFunc              func(ctx context.Context, branch *domain.Branch) error
	GetByCodeFunc           func(ctx context.Context, code string) (*domain.Branch, error)
	GetByCodeForUpdateFunc  func(ctx context.Context, tx usecase.Transaction, code string) (*domain.Branch, error)
	GetByCodesForUpdateFunc func(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Branch, error)
	UpdateBalanceFunc       func(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error
	ListFunc                func(ctx context.Context, limit, offset int) ([]*domain.Branch, error)
}

func NewMockBranchRepository() *MockBranchRepository {
	return &MockBranchRepository{
		branches: make(map[string]*domain.Branch),
	}
}

func (m *MockBranchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, branch)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.branches[branch.Code] = branch
	return nil
}

func (m *MockBranchRepository) GetByCode(ctx context.Context, code string) (*domain.Branch, error) {
	if m.GetByCodeFunc != nil {
		return m.GetByCodeFunc(ctx, code)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.branches[code]; ok {
		return b, nil
	}
	return nil, domain.ErrBranchNotFound
}

func (m *MockBranchRepository) GetByCodeForUpdate(ctx context.Context, tx usecase.Transaction, code string) (*domain.Branch, error) {
	if m.GetByCodeForUpdateFunc != nil {
		return m.GetByCodeForUpdateFunc(ctx, tx, code)
	}
	return m.GetByCode(ctx, code)
}

func (m *MockBranchRepository) GetByCodesForUpdate(ctx context.Context, tx usecase.Transaction, codes []string) ([]*domain.Branch, error) {
	if m.GetByCodesForUpdateFunc != nil {
		return m.GetByCodesForUpdateFunc(ctx, tx, codes)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var branches []*domain.Branch
	for _, code := range codes {
		if b, ok := m.branches[code]; ok {
			branches = append(branches, b)
		}
	}
	return branches, nil
}

func (m *MockBranchRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, code string, balance decimal.Decimal, updatedAt time.Time) error {
	if m.UpdateBalanceFunc != nil {
		return m.UpdateBalanceFunc(ctx, tx, code, balance, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.branches[code]; ok {
		b.CashBalance = balance
		b.UpdatedAt = updatedAt
	}
	return nil
}

func (m *MockBranchRepository) List(ctx context.Context, limit, offset int) ([]*domain.Branch, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var branches []*domain.Branch
	for _, b := range m.branches {
		branches = append(branches, b)
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Code < branches[j].Code })
	return branches, nil
}

// MockMovementRepository is a mock implementation of MovementRepository.
type MockMovementRepository struct {
	mu        sync.RWMutex
	movements map[string]*domain.Movement
	order     []string

	CreateFunc           func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	GetByIDFunc          func(ctx context.Context, id string) (*domain.Movement, error)
	GetByIDForUpdateFunc func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error)
	MarkReversedFunc     func(ctx context.Context, tx usecase.Transaction, id, reversedBy string, reversedAt time.Time) error
	UpdateFinancialFunc  func(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error
	ListFunc             func(ctx context.Context, filter usecase.MovementFilter) ([]*domain.Movement, error)
	CountFunc            func(ctx context.Context, filter usecase.MovementFilter) (int64, error)
	SumByBranchFunc      func(ctx context.Context) ([]domain.BranchNet, error)
}

func NewMockMovementRepository() *MockMovementRepository {
	return &MockMovementRepository{
		movements: make(map[string]*domain.Movement),
	}
}

func (m *MockMovementRepository) Create(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *movement
	m.movements[movement.ID] = &cp
	m.order = append(m.order, movement.ID)
	return nil
}

func (m *MockMovementRepository) GetByID(ctx context.Context, id string) (*domain.Movement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mv, ok := m.movements[id]; ok {
		cp := *mv
		return &cp, nil
	}
	return nil, domain.ErrMovementNotFound
}

func (m *MockMovementRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Movement, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockMovementRepository) MarkReversed(ctx context.Context, tx usecase.Transaction, id, reversedBy string, reversedAt time.Time) error {
	if m.MarkReversedFunc != nil {
		return m.MarkReversedFunc(ctx, tx, id, reversedBy, reversedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if mv, ok := m.movements[id]; ok {
		mv.Reversed = true
		mv.ReversedAt = &reversedAt
		mv.ReversedBy = reversedBy
	}
	return nil
}

func (m *MockMovementRepository) UpdateFinancial(ctx context.Context, tx usecase.Transaction, movement *domain.Movement) error {
	if m.UpdateFinancialFunc != nil {
		return m.UpdateFinancialFunc(ctx, tx, movement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if mv, ok := m.movements[movement.ID]; ok {
		mv.Kind = movement.Kind
		mv.Amount = movement.Amount
		mv.Branch = movement.Branch
		mv.FromBranch = movement.FromBranch
		mv.ToBranch = movement.ToBranch
		mv.UpdatedBy = movement.UpdatedBy
		mv.UpdateReason = movement.UpdateReason
		mv.UpdatedAt = movement.UpdatedAt
	}
	return nil
}

func (m *MockMovementRepository) List(ctx context.Context, filter usecase.MovementFilter) ([]*domain.Movement, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var movements []*domain.Movement
	for i := len(m.order) - 1; i >= 0; i-- {
		mv := m.movements[m.order[i]]
		if matchesFilter(mv, filter) {
			cp := *mv
			movements = append(movements, &cp)
		}
	}
	return movements, nil
}

func (m *MockMovementRepository) Count(ctx context.Context, filter usecase.MovementFilter) (int64, error) {
	if m.CountFunc != nil {
		return m.CountFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var count int64
	for _, mv := range m.movements {
		if matchesFilter(mv, filter) {
			count++
		}
	}
	return count, nil
}

func (m *MockMovementRepository) SumByBranch(ctx context.Context) ([]domain.BranchNet, error) {
	if m.SumByBranchFunc != nil {
		return m.SumByBranchFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	nets := make(map[string]*domain.BranchNet)
	for _, mv := range m.movements {
		for _, c := range mv.Contributions() {
			net, ok := nets[c.Branch]
			if !ok {
				net = &domain.BranchNet{Branch: c.Branch, Net: decimal.Zero}
				nets[c.Branch] = net
			}
			net.Net = net.Net.Add(c.Amount)
			net.MovementCount++
		}
	}
	var result []domain.BranchNet
	for _, net := range nets {
		result = append(result, *net)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Branch < result[j].Branch })
	return result, nil
}

func matchesFilter(mv *domain.Movement, filter usecase.MovementFilter) bool {
	if filter.Branch != "" && mv.Branch != filter.Branch && mv.FromBranch != filter.Branch && mv.ToBranch != filter.Branch {
		return false
	}
	if filter.Kind != "" && mv.Kind != filter.Kind {
		return false
	}
	if filter.From != nil && mv.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && mv.CreatedAt.After(*filter.To) {
		return false
	}
	return true
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
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
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
	return "mock-id-" + strconv.Itoa(m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
	DeleteFunc      func(ctx context.Context, key string) error
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
		m.data[key] = []byte(usecase.IdempotencyProcessing)
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

func (m *MockIdempotencyStore) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
