package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"shuddhneer/internal/repository"
)

// @Summary List products
// @Tags products
// @Produce json
// @Param q query string false "Name contains"
// @Param min_price query number false "Min price"
// @Param max_price query number false "Max price"
// @Param popular query bool false "Popular only"
// @Success 200 {array} domain.Product
// @Failure 400 {object} map[string]string
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	var f repository.ProductFilter
	f.NameSubstring = c.Query("q")
	for param, dst := range map[string]**decimal.Decimal{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
		v := c.Query(param)
		if v == "" {
			continue
		}
		x, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
			return
		}
		*dst = &x
	}
	if v := c.Query("popular"); v != "" {
		popular, err := strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid popular"})
			return
		}
		f.PopularOnly = popular
	}
	list, err := s.products.List(c, f)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} domain.Product
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.products.GetByID(c, c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}
