package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"shuddhneer/internal/domain"
	"shuddhneer/internal/insight"
	"shuddhneer/internal/metrics"
	"shuddhneer/internal/repository"
	"shuddhneer/internal/service"
)

type stubModel struct {
	reply string
}

func (m stubModel) Generate(context.Context, string, string) (string, error) {
	return m.reply, nil
}

func setupServer(t *testing.T, strict bool) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	now := time.Now().UTC()
	store := repository.NewMemoryStore()
	profiles := repository.NewMemoryProfiles()
	if err := repository.Seed(store, profiles, now); err != nil {
		t.Fatalf("seed: %v", err)
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	productsSvc := service.NewProductService(store)
	ordersSvc := service.NewOrderService(service.OrderServiceParams{
		Orders:            repository.NewMemoryOrders(store),
		Tx:                repository.NewMemoryTx(store),
		StrictTransitions: strict,
		Metrics:           m,
	})
	gen := insight.NewGenerator(stubModel{reply: "<li>Steady demand.</li>"}, insight.Options{Metrics: m})
	return NewServer(Services{
		Products: productsSvc,
		Orders:   ordersSvc,
		Carts:    service.NewCartService(store, profiles, ordersSvc, nil),
		Profiles: service.NewProfileService(profiles),
		Insights: service.NewInsightService(ordersSvc, productsSvc, gen),
	}, Options{Metrics: m, Gatherer: reg, CORSOrigins: []string{"http://localhost:3000"}})
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dest); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func TestProducts(t *testing.T) {
	s := setupServer(t, false)
	w := doJSON(t, s, http.MethodGet, "/api/v1/products?popular=true", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list code %v", w.Code)
	}
	var list []domain.Product
	decode(t, w, &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 popular products, got %d", len(list))
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/products?min_price=abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/products/p9", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
}

func TestPlaceOrderAndDispatch(t *testing.T) {
	s := setupServer(t, false)
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_id":   "user1",
		"customer_name": "Rahul Sharma",
		"address":       "Home",
		"items": []map[string]any{
			{"product_id": "p1", "product_name": "Custom Label 1L Box", "price": 120, "quantity": 2},
			{"product_id": "p4", "product_name": "Shuddhneer 20L Can", "price": 90, "quantity": 1},
		},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place code %v: %s", w.Code, w.Body.String())
	}
	var o domain.Order
	decode(t, w, &o)
	if !o.TotalAmount.Equal(decimal.NewFromInt(330)) || o.Status != domain.OrderStatusPending {
		t.Fatalf("unexpected order: %+v", o)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/orders", nil)
	var all []domain.Order
	decode(t, w, &all)
	if len(all) != 3 || all[0].ID != o.ID {
		t.Fatalf("placed order not first")
	}

	w = doJSON(t, s, http.MethodPatch, "/api/v1/admin/orders/"+o.ID+"/status", map[string]any{"status": "Dispatched"})
	if w.Code != http.StatusOK {
		t.Fatalf("status code %v", w.Code)
	}
	var res mutationResponse
	decode(t, w, &res)
	if !res.Applied || res.Order.Status != domain.OrderStatusDispatched {
		t.Fatalf("unexpected response: %+v", res)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/stats", nil)
	var st domain.Stats
	decode(t, w, &st)
	if st.OrderCount != 3 || !st.TotalRevenue.Equal(decimal.NewFromInt(1380)) || st.PendingCount != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	s := setupServer(t, false)
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"customer_id": "user1", "items": []any{}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_id": "user1",
		"items":       []map[string]any{{"product_id": "p1", "price": 120, "quantity": 0}},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}
}

func TestUpdateStatus(t *testing.T) {
	s := setupServer(t, false)

	w := doJSON(t, s, http.MethodPatch, "/api/v1/admin/orders/ORD-0000/status", map[string]any{"status": "Delivered"})
	if w.Code != http.StatusOK {
		t.Fatalf("unknown id code %v", w.Code)
	}
	var res mutationResponse
	decode(t, w, &res)
	if res.Applied || res.Order != nil {
		t.Fatalf("expected no-op, got %+v", res)
	}

	w = doJSON(t, s, http.MethodPatch, "/api/v1/admin/orders/ORD-9921/status", map[string]any{"status": "Shipped"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown status, got %v", w.Code)
	}
	if !strings.Contains(w.Body.String(), "status") {
		t.Fatalf("expected field detail: %s", w.Body.String())
	}
}

func TestUpdateStatus_StrictConflict(t *testing.T) {
	s := setupServer(t, true)
	w := doJSON(t, s, http.MethodPatch, "/api/v1/admin/orders/ORD-7829/status", map[string]any{"status": "Pending"})
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %v", w.Code)
	}
}

func TestEditOrder(t *testing.T) {
	s := setupServer(t, false)
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{
		"customer_id": "user1",
		"items": []map[string]any{
			{"product_id": "p1", "product_name": "Custom Label 1L Box", "price": 120, "quantity": 2},
			{"product_id": "p4", "product_name": "Shuddhneer 20L Can", "price": 90, "quantity": 1},
		},
	})
	var o domain.Order
	decode(t, w, &o)

	w = doJSON(t, s, http.MethodPut, "/api/v1/admin/orders/"+o.ID, map[string]any{
		"address": "Unit 405, Tech Park",
		"status":  "Confirmed",
		"items":   []map[string]any{{"index": 0, "remove": true}, {"index": 1, "quantity": "abc"}},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("edit code %v: %s", w.Code, w.Body.String())
	}
	var res mutationResponse
	decode(t, w, &res)
	if !res.Applied || len(res.Order.Items) != 1 || !res.Order.TotalAmount.Equal(decimal.NewFromInt(90)) {
		t.Fatalf("unexpected edit result: %+v", res)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/admin/orders/"+o.ID, nil)
	var stored domain.Order
	decode(t, w, &stored)
	if stored.Address != "Unit 405, Tech Park" || stored.Status != domain.OrderStatusConfirmed || len(stored.Items) != 1 {
		t.Fatalf("edit not persisted: %+v", stored)
	}

	w = doJSON(t, s, http.MethodPut, "/api/v1/admin/orders/ORD-0000", map[string]any{"address": "x"})
	decode(t, w, &res)
	if w.Code != http.StatusOK || res.Applied {
		t.Fatalf("expected no-op for unknown id")
	}
}

func TestCartCheckoutFlow(t *testing.T) {
	s := setupServer(t, false)
	base := "/api/v1/customers/user1"

	w := doJSON(t, s, http.MethodPost, base+"/checkout", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %v", w.Code)
	}

	doJSON(t, s, http.MethodPost, base+"/cart/items", map[string]any{"product_id": "p1"})
	w = doJSON(t, s, http.MethodPost, base+"/cart/items", map[string]any{"product_id": "p1"})
	var v service.CartView
	decode(t, w, &v)
	if len(v.Lines) != 1 || v.Lines[0].Quantity != 2 {
		t.Fatalf("unexpected cart: %+v", v)
	}

	w = doJSON(t, s, http.MethodPatch, base+"/cart/items/p1", map[string]any{"delta": -1})
	decode(t, w, &v)
	if v.Lines[0].Quantity != 1 || !v.Total.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("unexpected cart after decrement: %+v", v)
	}

	w = doJSON(t, s, http.MethodPost, base+"/cart/items", map[string]any{"product_id": "nope"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, base+"/checkout", map[string]any{"address_id": "addr2"})
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout code %v: %s", w.Code, w.Body.String())
	}
	var o domain.Order
	decode(t, w, &o)
	if o.CustomerName != "Current User" || !strings.HasPrefix(o.Address, "Unit 405") {
		t.Fatalf("unexpected order: %+v", o)
	}

	w = doJSON(t, s, http.MethodGet, base+"/orders", nil)
	var mine []domain.Order
	decode(t, w, &mine)
	if len(mine) != 2 || mine[0].ID != o.ID {
		t.Fatalf("order history: %+v", mine)
	}
	w = doJSON(t, s, http.MethodGet, base+"/cart", nil)
	decode(t, w, &v)
	if len(v.Lines) != 0 {
		t.Fatalf("cart not cleared")
	}
}

func TestProfileEndpoints(t *testing.T) {
	s := setupServer(t, false)
	base := "/api/v1/customers/user1"

	w := doJSON(t, s, http.MethodPost, base+"/addresses", map[string]any{"value": "Flat 9, Bandra", "is_default": true})
	if w.Code != http.StatusCreated {
		t.Fatalf("add code %v", w.Code)
	}
	var a domain.Address
	decode(t, w, &a)
	if a.Label != "New Address" {
		t.Fatalf("expected default label, got %q", a.Label)
	}
	w = doJSON(t, s, http.MethodPost, base+"/addresses", map[string]any{"label": "Gym"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPut, base+"/addresses/addr2/default", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("set default code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodDelete, base+"/addresses/"+a.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, base+"/addresses", nil)
	var list []domain.Address
	decode(t, w, &list)
	if len(list) != 2 || !list[1].IsDefault {
		t.Fatalf("unexpected addresses: %+v", list)
	}

	w = doJSON(t, s, http.MethodPut, base+"/payment-methods/pay2/default", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("payment default code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPut, base+"/payment-methods/pay7/default", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %v", w.Code)
	}
}

func TestInsightsAndChat(t *testing.T) {
	s := setupServer(t, false)
	w := doJSON(t, s, http.MethodGet, "/api/v1/admin/insights", nil)
	var out map[string]string
	decode(t, w, &out)
	if w.Code != http.StatusOK || out["summary"] != "<li>Steady demand.</li>" {
		t.Fatalf("unexpected insights: %v %v", w.Code, out)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/customers/user1/support/chat", map[string]any{"message": ""})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/customers/user1/support/chat", map[string]any{"message": "Do you deliver today?"})
	decode(t, w, &out)
	if w.Code != http.StatusOK || out["reply"] == "" {
		t.Fatalf("unexpected chat: %v %v", w.Code, out)
	}
}

func TestRequestIDAndMetrics(t *testing.T) {
	s := setupServer(t, false)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, "req-42")
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Header().Get(requestIDHeader) != "req-42" {
		t.Fatalf("request id not echoed: %v %q", w.Code, w.Header().Get(requestIDHeader))
	}

	w = doJSON(t, s, http.MethodGet, "/healthz", nil)
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("request id not generated")
	}

	w = doJSON(t, s, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "http_request_duration_seconds") {
		t.Fatalf("metrics not exposed")
	}
}

func TestCheckout_EmptyBodyOfUnknownLength(t *testing.T) {
	s := setupServer(t, false)
	base := "/api/v1/customers/user1"
	doJSON(t, s, http.MethodPost, base+"/cart/items", map[string]any{"product_id": "p1"})

	req := httptest.NewRequest(http.MethodPost, base+"/checkout", io.MultiReader())
	req.Header.Set("Content-Type", "application/json")
	if req.ContentLength != -1 {
		t.Fatalf("expected unknown length, got %d", req.ContentLength)
	}
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("checkout code %v: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, base+"/checkout", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %v", w.Code)
	}
	req = httptest.NewRequest(http.MethodPost, base+"/checkout", strings.NewReader("{broken"))
	w = httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "invalid json") {
		t.Fatalf("expected invalid json, got %v %s", w.Code, w.Body.String())
	}
}

func TestRegisterValidators_InstallsOrderStatus(t *testing.T) {
	registerValidators()
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		t.Fatalf("unexpected binding engine %T", binding.Validator.Engine())
	}
	if err := v.Var("Dispatched", "order_status"); err != nil {
		t.Fatalf("valid status rejected: %v", err)
	}
	if err := v.Var("Shipped", "order_status"); err == nil {
		t.Fatalf("unknown status accepted")
	}
}
