package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"shuddhneer/internal/domain"
)

// Catalog стартовый ассортимент
func Catalog() []domain.Product {
	return []domain.Product{
		{
			ID:          "p1",
			Name:        "Custom Label 1L Box",
			Description: "12 premium 1L bottles with custom branding options.",
			Price:       decimal.NewFromInt(120),
			Image:       "https://images.unsplash.com/photo-1616118132534-381148898bb4?auto=format&fit=crop&w=500&q=80",
			Volume:      "1L x 12 Bottles",
			Popular:     true,
		},
		{
			ID:          "p2",
			Name:        "Custom Label 500ml Box",
			Description: "24 compact 500ml bottles with custom labels. Perfect for events.",
			Price:       decimal.NewFromInt(140),
			Image:       "https://images.unsplash.com/photo-1602143407151-11115cdbf69c?auto=format&fit=crop&w=500&q=80",
			Volume:      "500ml x 24 Bottles",
			Popular:     true,
		},
		{
			ID:          "p3",
			Name:        "Shuddhneer Alkaline",
			Description: "High pH water for better metabolism and health.",
			Price:       decimal.NewFromInt(450),
			Image:       "https://images.unsplash.com/photo-1523362628408-3c26bed133af?auto=format&fit=crop&w=500&q=80",
			Volume:      "1L x 12 Bottles",
		},
		{
			ID:          "p4",
			Name:        "Shuddhneer 20L Can",
			Description: "Bulk supply for home and office dispensers.",
			Price:       decimal.NewFromInt(90),
			Image:       "https://images.unsplash.com/photo-1543163521-1bf539c55dd2?auto=format&fit=crop&w=500&q=80",
			Volume:      "20L Can",
		},
	}
}

// SampleOrders demo orders, newest first.
func SampleOrders(now time.Time) []domain.Order {
	return []domain.Order{
		{
			ID:           "ORD-9921",
			CustomerID:   "user2",
			CustomerName: "Anita Desai",
			Items: []domain.OrderItem{
				{ProductID: "p3", ProductName: "Shuddhneer Alkaline", Price: decimal.NewFromInt(450), Quantity: 1},
			},
			TotalAmount: decimal.NewFromInt(450),
			Status:      domain.OrderStatusPending,
			Date:        now,
			Address:     "45, Green Park, Delhi",
		},
		{
			ID:           "ORD-7829",
			CustomerID:   "user1",
			CustomerName: "Rahul Sharma",
			Items: []domain.OrderItem{
				{ProductID: "p1", ProductName: "Custom Label 1L Box", Price: decimal.NewFromInt(120), Quantity: 5},
			},
			TotalAmount: decimal.NewFromInt(600),
			Status:      domain.OrderStatusDispatched,
			Date:        now.Add(-24 * time.Hour),
			Address:     "123, Palm Grove Heights, Mumbai",
		},
	}
}

// DemoCustomerID покупатель, от имени которого работает клиентское приложение
const DemoCustomerID = "user1"

// Seed наполняет хранилища демонстрационными данными
func Seed(store *MemoryStore, profiles *MemoryProfiles, now time.Time) error {
	store.SeedProducts(Catalog()...)
	if err := store.SeedOrders(SampleOrders(now)...); err != nil {
		return err
	}
	profiles.Seed(DemoCustomerID,
		[]domain.Address{
			{ID: "addr1", Label: "Home", Value: "123, Palm Grove Heights, Mumbai, 400001", IsDefault: true},
			{ID: "addr2", Label: "Work", Value: "Unit 405, Tech Park, Andheri East, Mumbai, 400069"},
		},
		[]domain.PaymentMethod{
			{ID: "pay1", Type: domain.PaymentMethodTypeCard, Label: "HDFC Visa ending 4242", IsDefault: true},
			{ID: "pay2", Type: domain.PaymentMethodTypeUPI, Label: "john@okhdfcbank"},
		},
	)
	return nil
}
