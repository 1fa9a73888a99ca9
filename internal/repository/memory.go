package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"shuddhneer/internal/domain"
)

// maxIDAttempts bounds the short-id retries before falling back to a uuid-based id.
const maxIDAttempts = 64

// MemoryStore объединённое in-memory хранилище каталога и заказов
type MemoryStore struct {
	mu       sync.RWMutex
	products []domain.Product
	// newest first
	orders   []domain.Order
	orderIDs map[string]struct{}

	nextID func() string
	now    func() time.Time
}

// Option настраивает MemoryStore
type Option func(*MemoryStore)

// WithOrderIDSource replaces the candidate id generator.
func WithOrderIDSource(fn func() string) Option {
	return func(m *MemoryStore) { m.nextID = fn }
}

// WithClock replaces the clock used for order dates.
func WithClock(fn func() time.Time) Option {
	return func(m *MemoryStore) { m.now = fn }
}

func NewMemoryStore(opts ...Option) *MemoryStore {
	m := &MemoryStore{
		orderIDs: make(map[string]struct{}),
		nextID:   randomOrderID,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func randomOrderID() string {
	return fmt.Sprintf("ORD-%d", 1000+rand.IntN(9000))
}

func fallbackOrderID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ORD-" + strings.ToUpper(raw[:8])
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v := ctx.Value(txKey{})
	if v == nil {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}

func (m *MemoryStore) rlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RLock()
	}
}
func (m *MemoryStore) runlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.RUnlock()
	}
}
func (m *MemoryStore) wlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Lock()
	}
}
func (m *MemoryStore) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		m.mu.Unlock()
	}
}

// Ensure interfaces
var _ ProductRepository = (*MemoryStore)(nil)

// SeedProducts replaces the catalog. Called once at startup.
func (m *MemoryStore) SeedProducts(products ...domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products = append([]domain.Product(nil), products...)
}

// SeedOrders appends fully formed orders, keeping their ids and dates.
// Orders must be passed newest first.
func (m *MemoryStore) SeedOrders(orders ...domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range orders {
		if _, taken := m.orderIDs[o.ID]; taken || o.ID == "" {
			return fmt.Errorf("seed order %q: duplicate or empty id", o.ID)
		}
		m.orderIDs[o.ID] = struct{}{}
		m.orders = append(m.orders, o.Clone())
	}
	return nil
}

// ProductRepository implementation
func (m *MemoryStore) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	for _, p := range m.products {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) List(ctx context.Context, f ProductFilter) ([]domain.Product, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		if !containsIgnoreCase(p.Name, f.NameSubstring) {
			continue
		}
		if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
			continue
		}
		if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
			continue
		}
		if f.PopularOnly && !p.Popular {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// OrderRepository implementation on wrapper type
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

var _ OrderRepository = (*MemoryOrders)(nil)

func (mo *MemoryOrders) ListAll(ctx context.Context) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0, len(mo.store.orders))
	for _, o := range mo.store.orders {
		out = append(out, o.Clone())
	}
	return out, nil
}

func (mo *MemoryOrders) ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	out := make([]domain.Order, 0)
	for _, o := range mo.store.orders {
		if o.CustomerID == customerID {
			out = append(out, o.Clone())
		}
	}
	return out, nil
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	i := mo.store.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	cp := mo.store.orders[i].Clone()
	return &cp, nil
}

func (mo *MemoryOrders) Place(ctx context.Context, d domain.Draft) (*domain.Order, error) {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	o := domain.Order{
		ID:           mo.store.uniqueOrderID(),
		CustomerID:   d.CustomerID,
		CustomerName: d.CustomerName,
		Items:        d.Items,
		TotalAmount:  d.TotalAmount,
		Status:       domain.OrderStatusPending,
		Date:         mo.store.now(),
		Address:      d.Address,
	}
	o = o.Clone()
	mo.store.orderIDs[o.ID] = struct{}{}
	// prepend: most recent first
	mo.store.orders = append([]domain.Order{o}, mo.store.orders...)
	cp := o.Clone()
	return &cp, nil
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	i := mo.store.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	mo.store.orders[i].Status = status
	return nil
}

func (mo *MemoryOrders) Replace(ctx context.Context, o *domain.Order) error {
	mo.store.wlock(ctx)
	defer mo.store.wunlock(ctx)
	i := mo.store.indexOf(o.ID)
	if i < 0 {
		return ErrNotFound
	}
	next := o.Clone()
	// placement date is immutable
	next.Date = mo.store.orders[i].Date
	mo.store.orders[i] = next
	return nil
}

func (mo *MemoryOrders) Stats(ctx context.Context) (domain.Stats, error) {
	mo.store.rlock(ctx)
	defer mo.store.runlock(ctx)
	st := domain.Stats{OrderCount: len(mo.store.orders), TotalRevenue: decimal.Zero}
	for _, o := range mo.store.orders {
		// cancelled orders are counted too
		st.TotalRevenue = st.TotalRevenue.Add(o.TotalAmount)
		if o.Status == domain.OrderStatusPending {
			st.PendingCount++
		}
	}
	return st, nil
}

// caller holds the lock
func (m *MemoryStore) indexOf(id string) int {
	for i := range m.orders {
		if m.orders[i].ID == id {
			return i
		}
	}
	return -1
}

// caller holds the write lock
func (m *MemoryStore) uniqueOrderID() string {
	for i := 0; i < maxIDAttempts; i++ {
		id := m.nextID()
		if _, taken := m.orderIDs[id]; !taken {
			return id
		}
	}
	for {
		id := fallbackOrderID()
		if _, taken := m.orderIDs[id]; !taken {
			return id
		}
	}
}

// Tx manager using write lock to emulate transaction boundary
type MemoryTx struct{ store *MemoryStore }

func NewMemoryTx(store *MemoryStore) *MemoryTx { return &MemoryTx{store: store} }

func (tx *MemoryTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// вложенный вызов присоединяется к внешней транзакции
	if isTx(ctx) {
		return fn(ctx)
	}
	// репозитории внутри fn пропускают собственные блокировки
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()
	ctx = context.WithValue(ctx, txKey{}, true)
	return fn(ctx)
}
