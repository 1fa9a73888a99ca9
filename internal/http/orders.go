package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"shuddhneer/internal/domain"
	"shuddhneer/internal/repository"
	"shuddhneer/internal/service"
)

type orderItemReq struct {
	ProductID   string          `json:"product_id" binding:"required"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity" binding:"gt=0"`
}

type placeOrderReq struct {
	CustomerID   string          `json:"customer_id" binding:"required"`
	CustomerName string          `json:"customer_name"`
	Items        []orderItemReq  `json:"items" binding:"required,min=1,dive"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Address      string          `json:"address"`
}

// mutationResponse applied=false means the order id was not found and nothing changed.
type mutationResponse struct {
	Applied bool          `json:"applied"`
	Order   *domain.Order `json:"order,omitempty"`
}

// @Summary Place order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body placeOrderReq true "Order draft"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Router /orders [post]
func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderReq
	if !bindJSON(c, &req) {
		return
	}
	items := make([]domain.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
		})
	}
	o, err := s.orders.PlaceOrder(c, domain.Draft{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Items:        items,
		TotalAmount:  req.TotalAmount,
		Address:      req.Address,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary List all orders (newest first)
// @Tags admin
// @Produce json
// @Success 200 {array} domain.Order
// @Router /admin/orders [get]
func (s *Server) listOrders(c *gin.Context) {
	list, err := s.orders.ListOrders(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get order by id
// @Tags admin
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} domain.Order
// @Failure 404 {object} map[string]string
// @Router /admin/orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.GetOrder(c, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, o)
}

type updateStatusReq struct {
	Status string `json:"status" binding:"required,order_status"`
}

// @Summary Update order status
// @Description Unknown ids are a no-op and answer applied=false.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body updateStatusReq true "Status"
// @Success 200 {object} mutationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/orders/{id}/status [patch]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if !bindJSON(c, &req) {
		return
	}
	id := c.Param("id")
	err := s.orders.UpdateStatus(c, id, domain.OrderStatus(req.Status))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusOK, mutationResponse{Applied: false})
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	o, err := s.orders.GetOrder(c, id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationResponse{Applied: true, Order: o})
}

type itemChangeReq struct {
	Index int `json:"index" binding:"gte=0"`
	// Quantity accepts a number or a numeric string; anything else means "no change".
	Quantity any  `json:"quantity" swaggertype:"integer"`
	Remove   bool `json:"remove"`
}

func (r itemChangeReq) quantity() int {
	switch v := r.Quantity.(type) {
	case float64:
		if v == math.Trunc(v) {
			return int(v)
		}
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return 0
}

type editOrderReq struct {
	CustomerName *string         `json:"customer_name"`
	Address      *string         `json:"address"`
	Status       *string         `json:"status" binding:"omitempty,order_status"`
	Items        []itemChangeReq `json:"items" binding:"dive"`
}

// @Summary Edit order
// @Description Applies name, address, status and per-line changes, then replaces the stored order.
// @Description Quantities <= 0 leave a line unchanged. Unknown ids answer applied=false.
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param input body editOrderReq true "Changes"
// @Success 200 {object} mutationResponse
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /admin/orders/{id} [put]
func (s *Server) editOrder(c *gin.Context) {
	var req editOrderReq
	if !bindJSON(c, &req) {
		return
	}
	ch := service.OrderChanges{
		CustomerName: req.CustomerName,
		Address:      req.Address,
	}
	if req.Status != nil {
		st := domain.OrderStatus(*req.Status)
		ch.Status = &st
	}
	for _, it := range req.Items {
		ch.Items = append(ch.Items, service.ItemChange{Index: it.Index, Quantity: it.quantity(), Remove: it.Remove})
	}

	o, err := s.orders.EditOrder(c, c.Param("id"), ch)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusOK, mutationResponse{Applied: false})
		return
	}
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, mutationResponse{Applied: true, Order: o})
}

// @Summary Dashboard stats
// @Tags admin
// @Produce json
// @Success 200 {object} domain.Stats
// @Router /admin/stats [get]
func (s *Server) stats(c *gin.Context) {
	st, err := s.orders.Stats(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// @Summary AI summary of recent orders
// @Description Always 200. Model failures degrade to a fixed fallback bullet.
// @Tags admin
// @Produce json
// @Success 200 {object} map[string]string
// @Router /admin/insights [get]
func (s *Server) dashboardInsights(c *gin.Context) {
	summary, err := s.insights.DashboardSummary(c)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
