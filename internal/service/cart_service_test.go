package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"

	"shuddhneer/internal/domain"
	"shuddhneer/internal/repository"
)

func TestCart_AddTwiceThenDecrement(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	if _, err := f.carts.AddProduct(ctx, "user1", "p1"); err != nil {
		t.Fatalf("add: %v", err)
	}
	v, err := f.carts.AddProduct(ctx, "user1", "p1")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(v.Lines) != 1 || v.Lines[0].Quantity != 2 {
		t.Fatalf("expected one line with qty 2, got %+v", v.Lines)
	}
	if !v.Total.Equal(decimal.NewFromInt(240)) {
		t.Fatalf("expected 240, got %s", v.Total)
	}

	v, _ = f.carts.AdjustQuantity(ctx, "user1", "p1", -1)
	if v.Lines[0].Quantity != 1 {
		t.Fatalf("expected qty 1, got %d", v.Lines[0].Quantity)
	}
	v, _ = f.carts.AdjustQuantity(ctx, "user1", "p1", -1)
	if len(v.Lines) != 0 || !v.Total.IsZero() {
		t.Fatalf("expected empty cart, got %+v", v)
	}
}

func TestCart_Errors(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)
	if _, err := f.carts.AddProduct(ctx, "user1", "p9"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := f.carts.AdjustQuantity(ctx, "user1", "p1", 1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for missing line, got %v", err)
	}
	if _, err := f.carts.AdjustQuantity(ctx, "user1", "p1", 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
}

func TestCart_CustomersAreIsolated(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)
	_, _ = f.carts.AddProduct(ctx, "user1", "p1")
	v, _ := f.carts.Cart(ctx, "user2")
	if len(v.Lines) != 0 {
		t.Fatalf("user2 sees user1 cart")
	}
}

func TestCheckout_PlacesOrderAndClearsCart(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)
	_, _ = f.carts.AddProduct(ctx, "user1", "p1")
	_, _ = f.carts.AddProduct(ctx, "user1", "p1")
	_, _ = f.carts.AddProduct(ctx, "user1", "p4")

	o, err := f.carts.Checkout(ctx, "user1", CheckoutRequest{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !o.TotalAmount.Equal(decimal.NewFromInt(330)) {
		t.Fatalf("expected 330, got %s", o.TotalAmount)
	}
	if o.CustomerName != "Current User" {
		t.Fatalf("expected default name, got %q", o.CustomerName)
	}
	if o.Address != "123, Palm Grove Heights, Mumbai, 400001" {
		t.Fatalf("expected default address, got %q", o.Address)
	}
	if o.Status != domain.OrderStatusPending {
		t.Fatalf("expected pending")
	}

	v, _ := f.carts.Cart(ctx, "user1")
	if len(v.Lines) != 0 {
		t.Fatalf("cart not cleared")
	}
	mine, _ := f.orders.ListCustomerOrders(ctx, "user1")
	if len(mine) != 2 || mine[0].ID != o.ID {
		t.Fatalf("order not visible to customer: %+v", mine)
	}
}

func TestCheckout_AddressResolution(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	_, _ = f.carts.AddProduct(ctx, "user1", "p2")
	o, err := f.carts.Checkout(ctx, "user1", CheckoutRequest{CustomerName: "Rahul", AddressID: "addr2"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.Address != "Unit 405, Tech Park, Andheri East, Mumbai, 400069" || o.CustomerName != "Rahul" {
		t.Fatalf("unexpected order: %+v", o)
	}

	_, _ = f.carts.AddProduct(ctx, "user1", "p2")
	if _, err := f.carts.Checkout(ctx, "user1", CheckoutRequest{AddressID: "nope"}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	v, _ := f.carts.Cart(ctx, "user1")
	if len(v.Lines) != 1 {
		t.Fatalf("failed checkout must keep the cart")
	}

	// no saved addresses
	_, _ = f.carts.AddProduct(ctx, "guest", "p4")
	o, err = f.carts.Checkout(ctx, "guest", CheckoutRequest{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if o.Address != "Current Location" {
		t.Fatalf("expected placeholder address, got %q", o.Address)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := setup(t, false)
	if _, err := f.carts.Checkout(context.Background(), "user1", CheckoutRequest{}); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected empty cart, got %v", err)
	}
}

func TestCart_ReadsDoNotCreateCarts(t *testing.T) {
	ctx := context.Background()
	f := setup(t, false)

	for i := 0; i < 100; i++ {
		v, err := f.carts.Cart(ctx, fmt.Sprintf("ghost-%d", i))
		if err != nil {
			t.Fatalf("cart: %v", err)
		}
		if len(v.Lines) != 0 || !v.Total.IsZero() {
			t.Fatalf("expected empty view, got %+v", v)
		}
		if _, err := f.carts.AdjustQuantity(ctx, fmt.Sprintf("ghost-%d", i), "p1", -1); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if n := len(f.carts.carts); n != 0 {
		t.Fatalf("read-only calls stored %d carts", n)
	}

	_, _ = f.carts.AddProduct(ctx, "user1", "p1")
	_, _ = f.carts.AdjustQuantity(ctx, "user1", "p1", -1)
	if n := len(f.carts.carts); n != 0 {
		t.Fatalf("emptied cart still held, %d carts", n)
	}
}
