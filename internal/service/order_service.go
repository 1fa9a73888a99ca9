package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"shuddhneer/internal/domain"
	"shuddhneer/internal/logger"
	"shuddhneer/internal/metrics"
	"shuddhneer/internal/repository"
)

var (
	ErrInvalidTransition = errors.New("invalid status transition")
)

// OrderServiceParams зависимости OrderService
type OrderServiceParams struct {
	Orders repository.OrderRepository
	Tx     repository.TxManager
	// StrictTransitions rejects status moves outside the lifecycle allow-list.
	StrictTransitions bool
	Logger            *logger.Logger
	Metrics           *metrics.Metrics
}

// OrderService реализует жизненный цикл заказа: оформление, смена статуса, редактирование
type OrderService struct {
	orders  repository.OrderRepository
	tx      repository.TxManager
	strict  bool
	logg    *logger.Logger
	metrics *metrics.Metrics
}

func NewOrderService(p OrderServiceParams) *OrderService {
	if p.Logger == nil {
		p.Logger = logger.Nop()
	}
	return &OrderService{
		orders:  p.Orders,
		tx:      p.Tx,
		strict:  p.StrictTransitions,
		logg:    p.Logger,
		metrics: p.Metrics,
	}
}

func (s *OrderService) ListOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListAll(ctx)
}

func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID string) ([]domain.Order, error) {
	if strings.TrimSpace(customerID) == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.ListForCustomer(ctx, customerID)
}

func (s *OrderService) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	return s.orders.GetByID(ctx, id)
}

func (s *OrderService) Stats(ctx context.Context) (domain.Stats, error) {
	return s.orders.Stats(ctx)
}

// PlaceOrder проверяет черновик и создаёт заказ в статусе Pending.
// total_amount всегда пересчитывается по позициям.
func (s *OrderService) PlaceOrder(ctx context.Context, d domain.Draft) (*domain.Order, error) {
	if strings.TrimSpace(d.CustomerID) == "" || len(d.Items) == 0 {
		return nil, ErrInvalidInput
	}
	// validate items
	for _, it := range d.Items {
		if it.ProductID == "" || it.Quantity <= 0 || it.Price.IsNegative() {
			return nil, ErrInvalidInput
		}
	}

	total := domain.ItemsTotal(d.Items)
	if !d.TotalAmount.IsZero() && !d.TotalAmount.Equal(total) {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"customer_id": d.CustomerID,
			"supplied":    d.TotalAmount.String(),
			"computed":    total.String(),
		})
		s.logg.Warn(logCtx, "order.place.total_mismatch")
	}
	d.TotalAmount = total

	o, err := s.orders.Place(ctx, d)
	if err != nil {
		return nil, err
	}
	s.metrics.IncOrderPlaced()
	logCtx := s.logg.WithOrderID(s.logg.WithCustomerID(ctx, o.CustomerID), o.ID)
	s.logg.Info(logCtx, "order.placed")
	return o, nil
}

// UpdateStatus меняет только статус. Для неизвестного id ErrNotFound, хранилище не меняется.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	if strings.TrimSpace(id) == "" || !status.IsValid() {
		return ErrInvalidInput
	}
	logCtx := s.logg.WithOrderID(ctx, id)

	var err error
	if s.strict {
		err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
			o, err := s.orders.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if !domain.CanTransition(o.Status, status) {
				return ErrInvalidTransition
			}
			return s.orders.UpdateStatus(ctx, id, status)
		})
	} else {
		err = s.orders.UpdateStatus(ctx, id, status)
	}

	switch {
	case err == nil:
		s.metrics.IncStatusUpdate(status.String(), "applied")
		s.logg.Info(s.logg.WithField(logCtx, "status", status), "order.status_updated")
	case errors.Is(err, repository.ErrNotFound):
		s.metrics.IncStatusUpdate(status.String(), "not_found")
		s.logg.Warn(logCtx, "order.status_update.not_found")
	case errors.Is(err, ErrInvalidTransition):
		s.metrics.IncStatusUpdate(status.String(), "rejected")
	}
	return err
}

// ReplaceOrder перезаписывает заказ целиком после пересчёта суммы и возвращает
// записанную версию в той же транзакции
func (s *OrderService) ReplaceOrder(ctx context.Context, o domain.Order) (*domain.Order, error) {
	if strings.TrimSpace(o.ID) == "" || !o.Status.IsValid() {
		return nil, ErrInvalidInput
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return nil, ErrInvalidInput
		}
	}
	o.TotalAmount = domain.ItemsTotal(o.Items)

	var stored *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.orders.Replace(ctx, &o); err != nil {
			return err
		}
		var err error
		stored, err = s.orders.GetByID(ctx, o.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return stored, nil
}

// ItemChange правка одной позиции по её индексу в заказе
type ItemChange struct {
	Index    int
	Quantity int
	Remove   bool
}

// OrderChanges правки администратора. Пустые поля не меняются.
type OrderChanges struct {
	CustomerName *string
	Address      *string
	Status       *domain.OrderStatus
	Items        []ItemChange
}

// EditOrder применяет правки к текущей версии заказа и сохраняет её.
// Количество <= 0 означает "без изменений". Удаление последней позиции допустимо.
func (s *OrderService) EditOrder(ctx context.Context, id string, ch OrderChanges) (*domain.Order, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrInvalidInput
	}
	if ch.Status != nil && !ch.Status.IsValid() {
		return nil, ErrInvalidInput
	}

	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if s.strict && ch.Status != nil && !domain.CanTransition(current.Status, *ch.Status) {
			return ErrInvalidTransition
		}

		edit := domain.NewOrderEdit(*current)
		if ch.CustomerName != nil {
			edit.SetCustomerName(strings.TrimSpace(*ch.CustomerName))
		}
		if ch.Address != nil {
			edit.SetAddress(strings.TrimSpace(*ch.Address))
		}
		if ch.Status != nil {
			edit.SetStatus(*ch.Status)
		}

		var removals []int
		for _, c := range ch.Items {
			if c.Remove {
				removals = append(removals, c.Index)
				continue
			}
			// ignored quantities are "no change"
			edit.SetItemQuantity(c.Index, c.Quantity)
		}
		// highest index first so earlier indexes stay valid
		sort.Sort(sort.Reverse(sort.IntSlice(removals)))
		for i, idx := range removals {
			if i > 0 && removals[i-1] == idx {
				continue
			}
			edit.RemoveItem(idx)
		}

		next := edit.Result()
		updated, err = s.ReplaceOrder(ctx, next)
		return err
	})

	switch {
	case err == nil:
		s.metrics.IncOrderEdit("applied")
		s.logg.Info(s.logg.WithOrderID(ctx, id), "order.edited")
	case errors.Is(err, repository.ErrNotFound):
		s.metrics.IncOrderEdit("not_found")
		s.logg.Warn(s.logg.WithOrderID(ctx, id), "order.edit.not_found")
	default:
		s.metrics.IncOrderEdit("rejected")
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}
