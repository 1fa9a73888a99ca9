package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"shuddhneer/internal/domain"
)

// ErrNotFound возвращается, когда сущность не найдена
var ErrNotFound = errors.New("not found")

// ProductFilter параметры фильтрации каталога
type ProductFilter struct {
	NameSubstring string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	PopularOnly   bool
}

// ProductRepository каталог только для чтения
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, f ProductFilter) ([]domain.Product, error)
}

// OrderRepository хранилище заказов. Единственный компонент, который меняет заказы.
type OrderRepository interface {
	ListAll(ctx context.Context) ([]domain.Order, error)
	ListForCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	Place(ctx context.Context, d domain.Draft) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	Replace(ctx context.Context, o *domain.Order) error
	Stats(ctx context.Context) (domain.Stats, error)
}

// ProfileRepository адреса и способы оплаты покупателей. В заказы не попадают,
// кроме строки выбранного адреса.
type ProfileRepository interface {
	Addresses(ctx context.Context, customerID string) ([]domain.Address, error)
	AddAddress(ctx context.Context, customerID string, a *domain.Address) error
	SetDefaultAddress(ctx context.Context, customerID, addressID string) error
	DeleteAddress(ctx context.Context, customerID, addressID string) error
	PaymentMethods(ctx context.Context, customerID string) ([]domain.PaymentMethod, error)
	SetDefaultPaymentMethod(ctx context.Context, customerID, paymentID string) error
}

// TxManager абстракция транзакции. Для in-memory это глобальная блокировка записи.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// helper: case-insensitive contains
func containsIgnoreCase(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
