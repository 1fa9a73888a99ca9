package service

import (
	"context"
	"errors"
	"strings"

	"shuddhneer/internal/domain"
	"shuddhneer/internal/repository"
)

// ProductService каталог товаров, только чтение
type ProductService struct {
	repo repository.ProductRepository
}

func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

var ErrInvalidInput = errors.New("invalid input")

func (s *ProductService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *ProductService) List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, error) {
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return nil, ErrInvalidInput
	}
	return s.repo.List(ctx, f)
}
