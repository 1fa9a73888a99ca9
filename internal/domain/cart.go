package domain

import "github.com/shopspring/decimal"

// CartLine товар в корзине и выбранное количество
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Cart корзина покупателя. Порядок строк соответствует порядку добавления.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart { return &Cart{} }

func (c *Cart) find(productID string) int {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

// Add inserts the product with quantity 1 or bumps an existing line by 1.
func (c *Cart) Add(p Product) {
	if i := c.find(p.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	c.lines = append(c.lines, CartLine{Product: p, Quantity: 1})
}

// Adjust changes a line's quantity by delta. The result is clamped at zero and
// zero-quantity lines are dropped. Returns false for unknown products.
func (c *Cart) Adjust(productID string, delta int) bool {
	i := c.find(productID)
	if i < 0 {
		return false
	}
	q := c.lines[i].Quantity + delta
	if q <= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
		return true
	}
	c.lines[i].Quantity = q
	return true
}

func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Clear() { c.lines = nil }

// Total is recomputed on every call.
func (c *Cart) Total() decimal.Decimal {
	return ItemsTotal(c.Items())
}

// Items snapshots the cart into order lines at current catalog prices.
func (c *Cart) Items() []OrderItem {
	items := make([]OrderItem, 0, len(c.lines))
	for _, l := range c.lines {
		items = append(items, OrderItem{
			ProductID:   l.Product.ID,
			ProductName: l.Product.Name,
			Price:       l.Product.Price,
			Quantity:    l.Quantity,
		})
	}
	return items
}
