package service

import (
	"context"
	"strings"

	"shuddhneer/internal/insight"
	"shuddhneer/internal/repository"
)

// InsightService подаёт заказы и каталог в генератор текста
type InsightService struct {
	orders   *OrderService
	products *ProductService
	gen      *insight.Generator
}

func NewInsightService(orders *OrderService, products *ProductService, gen *insight.Generator) *InsightService {
	return &InsightService{orders: orders, products: products, gen: gen}
}

// DashboardSummary HTML bullets about the most recent orders.
func (s *InsightService) DashboardSummary(ctx context.Context) (string, error) {
	list, err := s.orders.ListOrders(ctx)
	if err != nil {
		return "", err
	}
	return s.gen.Summarize(ctx, list), nil
}

func (s *InsightService) SupportReply(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrInvalidInput
	}
	products, err := s.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		return "", err
	}
	return s.gen.Respond(ctx, message, products), nil
}
