package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"shuddhneer/internal/service"
)

// @Summary Orders of one customer (newest first)
// @Tags customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {array} domain.Order
// @Router /customers/{customerID}/orders [get]
func (s *Server) listCustomerOrders(c *gin.Context) {
	list, err := s.orders.ListCustomerOrders(c, c.Param("customerID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary View cart
// @Tags cart
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {object} service.CartView
// @Router /customers/{customerID}/cart [get]
func (s *Server) getCart(c *gin.Context) {
	v, err := s.carts.Cart(c, c.Param("customerID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// @Summary Clear cart
// @Tags cart
// @Param customerID path string true "Customer ID"
// @Success 204
// @Router /customers/{customerID}/cart [delete]
func (s *Server) clearCart(c *gin.Context) {
	if err := s.carts.Clear(c, c.Param("customerID")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addCartItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
}

// @Summary Add one unit of a product to the cart
// @Tags cart
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param input body addCartItemReq true "Product"
// @Success 200 {object} service.CartView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /customers/{customerID}/cart/items [post]
func (s *Server) addCartItem(c *gin.Context) {
	var req addCartItemReq
	if !bindJSON(c, &req) {
		return
	}
	v, err := s.carts.AddProduct(c, c.Param("customerID"), req.ProductID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type adjustCartItemReq struct {
	Delta int `json:"delta" binding:"required"`
}

// @Summary Change a cart line by delta
// @Description Lines reaching zero are removed.
// @Tags cart
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param productID path string true "Product ID"
// @Param input body adjustCartItemReq true "Delta"
// @Success 200 {object} service.CartView
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /customers/{customerID}/cart/items/{productID} [patch]
func (s *Server) adjustCartItem(c *gin.Context) {
	var req adjustCartItemReq
	if !bindJSON(c, &req) {
		return
	}
	v, err := s.carts.AdjustQuantity(c, c.Param("customerID"), c.Param("productID"), req.Delta)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type checkoutReq struct {
	CustomerName string `json:"customer_name"`
	AddressID    string `json:"address_id"`
}

// @Summary Checkout cart
// @Description Address falls back to the default saved address, then the first one.
// @Tags cart
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param input body checkoutReq false "Checkout"
// @Success 201 {object} domain.Order
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /customers/{customerID}/checkout [post]
func (s *Server) checkout(c *gin.Context) {
	var req checkoutReq
	// the body is optional, an empty one of any length means defaults
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, validationResponse(err))
		return
	}
	o, err := s.carts.Checkout(c, c.Param("customerID"), service.CheckoutRequest{
		CustomerName: req.CustomerName,
		AddressID:    req.AddressID,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}

// @Summary Saved addresses
// @Tags profile
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {array} domain.Address
// @Router /customers/{customerID}/addresses [get]
func (s *Server) listAddresses(c *gin.Context) {
	list, err := s.profiles.Addresses(c, c.Param("customerID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type addAddressReq struct {
	Label     string `json:"label"`
	Value     string `json:"value" binding:"required"`
	IsDefault bool   `json:"is_default"`
}

// @Summary Add address
// @Tags profile
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param input body addAddressReq true "Address"
// @Success 201 {object} domain.Address
// @Failure 400 {object} map[string]string
// @Router /customers/{customerID}/addresses [post]
func (s *Server) addAddress(c *gin.Context) {
	var req addAddressReq
	if !bindJSON(c, &req) {
		return
	}
	a, err := s.profiles.AddAddress(c, c.Param("customerID"), req.Label, req.Value, req.IsDefault)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// @Summary Make address the default
// @Tags profile
// @Param customerID path string true "Customer ID"
// @Param addressID path string true "Address ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /customers/{customerID}/addresses/{addressID}/default [put]
func (s *Server) setDefaultAddress(c *gin.Context) {
	if err := s.profiles.SetDefaultAddress(c, c.Param("customerID"), c.Param("addressID")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete address
// @Tags profile
// @Param customerID path string true "Customer ID"
// @Param addressID path string true "Address ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /customers/{customerID}/addresses/{addressID} [delete]
func (s *Server) deleteAddress(c *gin.Context) {
	if err := s.profiles.DeleteAddress(c, c.Param("customerID"), c.Param("addressID")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Saved payment methods
// @Tags profile
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {array} domain.PaymentMethod
// @Router /customers/{customerID}/payment-methods [get]
func (s *Server) listPaymentMethods(c *gin.Context) {
	list, err := s.profiles.PaymentMethods(c, c.Param("customerID"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Make payment method the default
// @Tags profile
// @Param customerID path string true "Customer ID"
// @Param paymentID path string true "Payment method ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /customers/{customerID}/payment-methods/{paymentID}/default [put]
func (s *Server) setDefaultPaymentMethod(c *gin.Context) {
	if err := s.profiles.SetDefaultPaymentMethod(c, c.Param("customerID"), c.Param("paymentID")); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type chatReq struct {
	Message string `json:"message" binding:"required"`
}

// @Summary Ask the support assistant
// @Description Always 200 for a non-empty message; model failures degrade to a fixed reply.
// @Tags support
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param input body chatReq true "Message"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Router /customers/{customerID}/support/chat [post]
func (s *Server) supportChat(c *gin.Context) {
	var req chatReq
	if !bindJSON(c, &req) {
		return
	}
	reply, err := s.insights.SupportReply(s.logg.WithCustomerID(c, c.Param("customerID")), req.Message)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
