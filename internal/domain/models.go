package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product позиция каталога питьевой воды
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Volume      string          `json:"volume"`
	Popular     bool            `json:"popular"`
}

// OrderItem позиция в заказе. Название и цена копируются из каталога в момент заказа
// и больше не пересчитываются.
type OrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal price * quantity
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Order сущность заказа
type Order struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Items        []OrderItem     `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Status       OrderStatus     `json:"status"`
	Date         time.Time       `json:"date"`
	Address      string          `json:"address"`
}

// Clone returns a copy that shares no memory with o.
func (o Order) Clone() Order {
	cp := o
	if o.Items != nil {
		cp.Items = make([]OrderItem, len(o.Items))
		copy(cp.Items, o.Items)
	}
	return cp
}

// Draft входные данные для оформления заказа (без id, статуса и даты)
type Draft struct {
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	Items        []OrderItem     `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Address      string          `json:"address"`
}

// Stats агрегаты для панели администратора
type Stats struct {
	OrderCount   int             `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	PendingCount int             `json:"pending_count"`
}

// ItemsTotal sums price*quantity over items. Totals are always recomputed from
// the lines, never maintained incrementally.
func ItemsTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Address адрес доставки покупателя
type Address struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	Value     string `json:"value"`
	IsDefault bool   `json:"is_default"`
}

// PaymentMethod сохранённый способ оплаты покупателя
type PaymentMethod struct {
	ID        string            `json:"id"`
	Type      PaymentMethodType `json:"type"`
	Label     string            `json:"label"`
	IsDefault bool              `json:"is_default"`
}
