package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"shuddhneer/internal/domain"
)

type profile struct {
	addresses []domain.Address
	payments  []domain.PaymentMethod
}

// MemoryProfiles адреса и способы оплаты по покупателям
type MemoryProfiles struct {
	mu       sync.RWMutex
	profiles map[string]*profile
}

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{profiles: make(map[string]*profile)}
}

var _ ProfileRepository = (*MemoryProfiles)(nil)

// Seed replaces a customer's saved addresses and payment methods.
func (m *MemoryProfiles) Seed(customerID string, addresses []domain.Address, payments []domain.PaymentMethod) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[customerID] = &profile{
		addresses: append([]domain.Address(nil), addresses...),
		payments:  append([]domain.PaymentMethod(nil), payments...),
	}
}

// caller holds the write lock
func (m *MemoryProfiles) get(customerID string) *profile {
	p, ok := m.profiles[customerID]
	if !ok {
		p = &profile{}
		m.profiles[customerID] = p
	}
	return p
}

func (m *MemoryProfiles) Addresses(_ context.Context, customerID string) ([]domain.Address, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[customerID]
	if !ok {
		return []domain.Address{}, nil
	}
	return append([]domain.Address{}, p.addresses...), nil
}

func (m *MemoryProfiles) AddAddress(_ context.Context, customerID string, a *domain.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.get(customerID)
	a.ID = "addr-" + uuid.NewString()
	if a.IsDefault {
		for i := range p.addresses {
			p.addresses[i].IsDefault = false
		}
	}
	p.addresses = append(p.addresses, *a)
	return nil
}

func (m *MemoryProfiles) SetDefaultAddress(_ context.Context, customerID, addressID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[customerID]
	if !ok || !hasAddress(p.addresses, addressID) {
		return ErrNotFound
	}
	for i := range p.addresses {
		p.addresses[i].IsDefault = p.addresses[i].ID == addressID
	}
	return nil
}

func (m *MemoryProfiles) DeleteAddress(_ context.Context, customerID, addressID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[customerID]
	if !ok {
		return ErrNotFound
	}
	for i := range p.addresses {
		if p.addresses[i].ID == addressID {
			p.addresses = append(p.addresses[:i], p.addresses[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryProfiles) PaymentMethods(_ context.Context, customerID string) ([]domain.PaymentMethod, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.profiles[customerID]
	if !ok {
		return []domain.PaymentMethod{}, nil
	}
	return append([]domain.PaymentMethod{}, p.payments...), nil
}

func (m *MemoryProfiles) SetDefaultPaymentMethod(_ context.Context, customerID, paymentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[customerID]
	if !ok {
		return ErrNotFound
	}
	found := false
	for _, pm := range p.payments {
		if pm.ID == paymentID {
			found = true
			break
		}
	}
	if !found {
		return ErrNotFound
	}
	for i := range p.payments {
		p.payments[i].IsDefault = p.payments[i].ID == paymentID
	}
	return nil
}

func hasAddress(list []domain.Address, id string) bool {
	for _, a := range list {
		if a.ID == id {
			return true
		}
	}
	return false
}
