package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/abraxas0001/E-Com-Cart/internal/domain"
	"github.com/abraxas0001/E-Com-Cart/internal/repository"
	"github.com/shopspring/decimal"
)

type mockCatalog struct {
	products map[int64]*domain.Product
	err      error
}

func newMockCatalog() *mockCatalog {
	return &mockCatalog{products: map[int64]*domain.Product{
		1: {ID: 1, Name: "Smartphone Pro 1", Price: decimal.NewFromInt(15000)},
		2: {ID: 2, Name: "Laptop Gaming 1", Price: decimal.NewFromInt(35000)},
		3: {ID: 3, Name: "Wireless Headphones", Price: decimal.RequireFromString("2499.99")},
		4: {ID: 4, Name: "Cotton T-Shirt", Price: decimal.RequireFromString("499.5")},
		5: {ID: 5, Name: "Sticker", Price: decimal.RequireFromString("0.335")},
	}}
}

func (m *mockCatalog) Exists(_ context.Context, id int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	_, ok := m.products[id]
	return ok, nil
}

type storedLine struct {
	productID int64
	quantity  int
}

// mockCartRepository is an in-memory cart store. It enforces one line per
// product the way the UNIQUE index does.
type mockCartRepository struct {
	mu      sync.Mutex
	catalog *mockCatalog
	lines   map[int64]storedLine
	nextID  int64

	deleteAllErr error
	getAllErr    error
}

func newMockCartRepository(catalog *mockCatalog) *mockCartRepository {
	return &mockCartRepository{
		catalog: catalog,
		lines:   make(map[int64]storedLine),
	}
}

func (m *mockCartRepository) view(id int64, l storedLine) domain.CartLine {
	p := m.catalog.products[l.productID]
	return domain.NewCartLine(id, l.productID, p.Name, p.Price, l.quantity)
}

func (m *mockCartRepository) GetAll(context.Context) ([]domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getAllErr != nil {
		return nil, m.getAllErr
	}

	ids := make([]int64, 0, len(m.lines))
	for id := range m.lines {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]domain.CartLine, 0, len(ids))
	for _, id := range ids {
		out = append(out, m.view(id, m.lines[id]))
	}
	return out, nil
}

func (m *mockCartRepository) GetByID(_ context.Context, id int64) (*domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lines[id]
	if !ok {
		return nil, repository.ErrCartLineNotFound
	}
	v := m.view(id, l)
	return &v, nil
}

func (m *mockCartRepository) GetByProductID(_ context.Context, productID int64) (*domain.CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, l := range m.lines {
		if l.productID == productID {
			v := m.view(id, l)
			return &v, nil
		}
	}
	return nil, repository.ErrCartLineNotFound
}

func (m *mockCartRepository) Insert(_ context.Context, productID int64, quantity int) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, l := range m.lines {
		if l.productID == productID {
			return 0, errors.New("UNIQUE constraint failed: cart_items.product_id")
		}
	}
	m.nextID++
	m.lines[m.nextID] = storedLine{productID: productID, quantity: quantity}
	return m.nextID, nil
}

func (m *mockCartRepository) UpdateQuantity(_ context.Context, id int64, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lines[id]
	if !ok {
		return repository.ErrCartLineNotFound
	}
	l.quantity = quantity
	m.lines[id] = l
	return nil
}

func (m *mockCartRepository) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lines[id]; !ok {
		return repository.ErrCartLineNotFound
	}
	delete(m.lines, id)
	return nil
}

func (m *mockCartRepository) DeleteAll(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteAllErr != nil {
		return m.deleteAllErr
	}
	m.lines = make(map[int64]storedLine)
	return nil
}

func (m *mockCartRepository) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.lines[id]
	return ok, nil
}

func (m *mockCartRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}

type recordingPublisher struct {
	mu       sync.Mutex
	receipts []*domain.Receipt
	err      error
}

func (p *recordingPublisher) PublishCheckoutCompleted(_ context.Context, receipt *domain.Receipt) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.receipts = append(p.receipts, receipt)
	return p.err
}
