package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"shuddhneer/internal/domain"
	"shuddhneer/internal/logger"
	"shuddhneer/internal/repository"
)

var ErrEmptyCart = errors.New("cart is empty")

const (
	defaultCustomerName = "Current User"
	fallbackAddress     = "Current Location"
)

// CartView снимок корзины для ответа клиенту
type CartView struct {
	Lines []domain.CartLine `json:"lines"`
	Total decimal.Decimal   `json:"total"`
}

// CheckoutRequest параметры оформления корзины
type CheckoutRequest struct {
	CustomerName string
	AddressID    string
}

// CartService корзины покупателей. Корзина живёт только в памяти процесса
// и очищается после успешного оформления.
type CartService struct {
	mu       sync.Mutex
	carts    map[string]*domain.Cart
	products repository.ProductRepository
	profiles repository.ProfileRepository
	orders   *OrderService
	logg     *logger.Logger
}

func NewCartService(products repository.ProductRepository, profiles repository.ProfileRepository, orders *OrderService, logg *logger.Logger) *CartService {
	if logg == nil {
		logg = logger.Nop()
	}
	return &CartService{
		carts:    make(map[string]*domain.Cart),
		products: products,
		profiles: profiles,
		orders:   orders,
		logg:     logg,
	}
}

// caller holds s.mu; only AddProduct creates carts
func (s *CartService) cart(customerID string) *domain.Cart {
	c, ok := s.carts[customerID]
	if !ok {
		c = domain.NewCart()
		s.carts[customerID] = c
	}
	return c
}

func view(c *domain.Cart) CartView {
	return CartView{Lines: c.Lines(), Total: c.Total()}
}

func (s *CartService) Cart(_ context.Context, customerID string) (CartView, error) {
	if strings.TrimSpace(customerID) == "" {
		return CartView{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[customerID]
	if !ok {
		return CartView{Lines: []domain.CartLine{}, Total: decimal.Zero}, nil
	}
	return view(c), nil
}

// AddProduct adds one unit of a catalog product.
func (s *CartService) AddProduct(ctx context.Context, customerID, productID string) (CartView, error) {
	if strings.TrimSpace(customerID) == "" || strings.TrimSpace(productID) == "" {
		return CartView{}, ErrInvalidInput
	}
	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return CartView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cart(customerID)
	c.Add(*p)
	return view(c), nil
}

// AdjustQuantity changes a line by delta; lines reaching zero are removed.
func (s *CartService) AdjustQuantity(_ context.Context, customerID, productID string, delta int) (CartView, error) {
	if strings.TrimSpace(customerID) == "" || delta == 0 {
		return CartView{}, ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[customerID]
	if !ok || !c.Adjust(productID, delta) {
		return CartView{}, repository.ErrNotFound
	}
	if c.Len() == 0 {
		delete(s.carts, customerID)
	}
	return view(c), nil
}

func (s *CartService) Clear(_ context.Context, customerID string) error {
	if strings.TrimSpace(customerID) == "" {
		return ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
	return nil
}

// Checkout оформляет корзину как заказ. Корзина очищается только после
// успешного размещения.
func (s *CartService) Checkout(ctx context.Context, customerID string, req CheckoutRequest) (*domain.Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidInput
	}
	address, err := s.resolveAddress(ctx, customerID, req.AddressID)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		name = defaultCustomerName
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.carts[customerID]
	if !ok || c.Len() == 0 {
		return nil, ErrEmptyCart
	}
	items := c.Items()
	o, err := s.orders.PlaceOrder(ctx, domain.Draft{
		CustomerID:   customerID,
		CustomerName: name,
		Items:        items,
		TotalAmount:  domain.ItemsTotal(items),
		Address:      address,
	})
	if err != nil {
		return nil, err
	}
	delete(s.carts, customerID)
	return o, nil
}

// resolveAddress: requested id, else default, else first saved, else a placeholder.
func (s *CartService) resolveAddress(ctx context.Context, customerID, addressID string) (string, error) {
	list, err := s.profiles.Addresses(ctx, customerID)
	if err != nil {
		return "", err
	}
	if addressID != "" {
		for _, a := range list {
			if a.ID == addressID {
				return a.Value, nil
			}
		}
		return "", repository.ErrNotFound
	}
	for _, a := range list {
		if a.IsDefault {
			return a.Value, nil
		}
	}
	if len(list) > 0 {
		return list[0].Value, nil
	}
	s.logg.Debug(s.logg.WithCustomerID(ctx, customerID), "checkout.no_saved_address")
	return fallbackAddress, nil
}
