package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"shuddhneer/internal/repository"
)

func TestProduct_GetByID(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)
	p, err := f.products.GetByID(ctx, "p3")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if p.Name != "Shuddhneer Alkaline" || !p.Price.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("unexpected product: %+v", p)
	}
	if _, err := f.products.GetByID(ctx, "p9"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.products.GetByID(ctx, ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestProduct_List(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	all, err := f.products.List(ctx, repository.ProductFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 4 || all[0].ID != "p1" || all[3].ID != "p4" {
		t.Fatalf("catalog order not preserved: %+v", all)
	}

	popular, _ := f.products.List(ctx, repository.ProductFilter{PopularOnly: true})
	if len(popular) != 2 {
		t.Fatalf("expected 2 popular, got %d", len(popular))
	}

	maxPrice := decimal.NewFromInt(130)
	cheap, _ := f.products.List(ctx, repository.ProductFilter{MaxPrice: &maxPrice})
	if len(cheap) != 2 {
		t.Fatalf("expected 2 products under 130, got %d", len(cheap))
	}
}

func TestProduct_List_InvalidRange(t *testing.T) {
	f := setup(t, false)
	lo, hi := decimal.NewFromInt(200), decimal.NewFromInt(100)
	if _, err := f.products.List(context.Background(), repository.ProductFilter{MinPrice: &lo, MaxPrice: &hi}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}
