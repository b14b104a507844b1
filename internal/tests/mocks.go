package tests

import (
	"context"
	"sync"
	"sync/atomic"

	"vpay/internal/domain"
	"vpay/internal/repository"
	"vpay/internal/vpay"
)

// CallJournal records the order of mutation calls across mocks.
type CallJournal struct {
	mu    sync.Mutex
	calls []string
}

// Record appends a call name to the journal.
func (j *CallJournal) Record(name string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.calls = append(j.calls, name)
}

// Calls returns a copy of the recorded call names.
func (j *CallJournal) Calls() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]string, len(j.calls))
	copy(out, j.calls)
	return out
}

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Journal, when set, records mutation call order across mocks.
	Journal *CallJournal

	// Counters for verification
	CreateCallCount      int32
	MarkPaidCallCount    int32
	ReduceStockCallCount int32

	// Error injection
	CreateError      error
	GetByIDError     error
	MarkPaidError    error
	ReduceStockError error
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *order
	return &copy, nil
}

func (m *MockOrderRepository) GetAll(ctx context.Context) ([]*domain.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Order, 0, len(m.orders))
	for _, o := range m.orders {
		copy := *o
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockOrderRepository) MarkPaid(ctx context.Context, id string) error {
	atomic.AddInt32(&m.MarkPaidCallCount, 1)
	if m.Journal != nil {
		m.Journal.Record("MarkPaid")
	}
	if m.MarkPaidError != nil {
		return m.MarkPaidError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.Status = domain.OrderStatusPaid
	return nil
}

func (m *MockOrderRepository) ReduceStock(ctx context.Context, id string) error {
	atomic.AddInt32(&m.ReduceStockCallCount, 1)
	if m.Journal != nil {
		m.Journal.Record("ReduceStock")
	}
	if m.ReduceStockError != nil {
		return m.ReduceStockError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	order.StockReduced = true
	return nil
}

// GetOrder returns an order for test assertions.
func (m *MockOrderRepository) GetOrder(id string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[id]
}

// ──────────────────────────────────────────────
// MOCK CART STORE
// ──────────────────────────────────────────────

// MockCartStore is a mock implementation of CartStoreInterface.
type MockCartStore struct {
	mu    sync.Mutex
	carts map[string][]domain.CartItem

	Journal *CallJournal

	EmptyCartCallCount int32
	EmptyCartError     error
}

// NewMockCartStore creates a new mock cart store.
func NewMockCartStore() *MockCartStore {
	return &MockCartStore{
		carts: make(map[string][]domain.CartItem),
	}
}

func (m *MockCartStore) GetItems(ctx context.Context, customer string) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.carts[customer], nil
}

func (m *MockCartStore) AddItem(ctx context.Context, customer string, item domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[customer] = append(m.carts[customer], item)
	return nil
}

func (m *MockCartStore) EmptyCart(ctx context.Context, customer string) error {
	atomic.AddInt32(&m.EmptyCartCallCount, 1)
	if m.Journal != nil {
		m.Journal.Record("EmptyCart")
	}
	if m.EmptyCartError != nil {
		return m.EmptyCartError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, customer)
	return nil
}

// ──────────────────────────────────────────────
// MOCK PROVIDER
// ──────────────────────────────────────────────

// MockSessionCreator is a mock implementation of service.SessionCreator.
type MockSessionCreator struct {
	mu sync.Mutex

	// Code and CreateError configure the outcome.
	Code        string
	CreateError error

	CreateCallCount int32
	LastRequest     vpay.SessionRequest
}

func (m *MockSessionCreator) CreateSession(ctx context.Context, req vpay.SessionRequest) (string, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	m.mu.Lock()
	m.LastRequest = req
	m.mu.Unlock()
	if m.CreateError != nil {
		return "", m.CreateError
	}
	return m.Code, nil
}

// MockRateSource is a mock implementation of service.RateSource.
type MockRateSource struct {
	Rate      float64
	RateError error

	GetRateCallCount int32
	LastCurrency     string
}

func (m *MockRateSource) GetRate(ctx context.Context, currency string) (float64, error) {
	atomic.AddInt32(&m.GetRateCallCount, 1)
	m.LastCurrency = currency
	if m.RateError != nil {
		return 0, m.RateError
	}
	return m.Rate, nil
}
