package gateway

import (
	"net/http"

	"github.com/example/freshcart/pkg/models"
	"github.com/gin-gonic/gin"
)

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

type placeOrderRequest struct {
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
}

func (g *Gateway) cartView() gin.H {
	return gin.H{
		"items":       g.deps.Cart.Items(),
		"total_items": g.deps.Cart.TotalItems(),
		"total_price": g.deps.Cart.TotalPrice(),
	}
}

func (g *Gateway) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, g.cartView())
}

func (g *Gateway) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product, err := g.deps.Catalog.Product(req.ProductID)
	if err != nil {
		g.fail(c, err)
		return
	}
	g.deps.Cart.Add(product, req.Quantity)
	c.JSON(http.StatusOK, g.cartView())
}

func (g *Gateway) updateCartItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g.deps.Cart.UpdateQuantity(c.Param("productId"), req.Quantity)
	c.JSON(http.StatusOK, g.cartView())
}

func (g *Gateway) removeCartItem(c *gin.Context) {
	g.deps.Cart.Remove(c.Param("productId"))
	c.JSON(http.StatusOK, g.cartView())
}

func (g *Gateway) clearCart(c *gin.Context) {
	g.deps.Cart.Clear()
	c.JSON(http.StatusOK, g.cartView())
}

func (g *Gateway) checkoutSummary(c *gin.Context) {
	c.JSON(http.StatusOK, g.deps.Checkout.Summary())
}

func (g *Gateway) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o, err := g.deps.Checkout.PlaceOrder(c.Request.Context(), req.PaymentMethod)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, o)
}
