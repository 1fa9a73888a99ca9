package domain

// OrderEdit незавершённое редактирование заказа администратором.
// Работает над копией; исходный заказ не меняется до сохранения.
type OrderEdit struct {
	order Order
}

func NewOrderEdit(o Order) *OrderEdit {
	return &OrderEdit{order: o.Clone()}
}

func (e *OrderEdit) SetCustomerName(name string) { e.order.CustomerName = name }

func (e *OrderEdit) SetAddress(address string) { e.order.Address = address }

func (e *OrderEdit) SetStatus(s OrderStatus) { e.order.Status = s }

// SetItemQuantity changes the quantity of the line at index.
// Non-positive quantities and unknown indexes are ignored and reported as false.
func (e *OrderEdit) SetItemQuantity(index, quantity int) bool {
	if quantity <= 0 || index < 0 || index >= len(e.order.Items) {
		return false
	}
	e.order.Items[index].Quantity = quantity
	return true
}

// RemoveItem drops the line at index. Removing the last line is allowed and
// leaves an order without items.
func (e *OrderEdit) RemoveItem(index int) bool {
	if index < 0 || index >= len(e.order.Items) {
		return false
	}
	items := make([]OrderItem, 0, len(e.order.Items)-1)
	items = append(items, e.order.Items[:index]...)
	items = append(items, e.order.Items[index+1:]...)
	e.order.Items = items
	return true
}

// Items returns the current lines.
func (e *OrderEdit) Items() []OrderItem {
	out := make([]OrderItem, len(e.order.Items))
	copy(out, e.order.Items)
	return out
}

// Result returns the edited order with total_amount recomputed.
func (e *OrderEdit) Result() Order {
	out := e.order.Clone()
	out.TotalAmount = ItemsTotal(out.Items)
	return out
}
