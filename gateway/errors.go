package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/example/freshcart/pkg/auth"
	"github.com/example/freshcart/pkg/catalog"
	"github.com/example/freshcart/pkg/checkout"
	"github.com/example/freshcart/pkg/order"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrNotFound), errors.Is(err, order.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, order.ErrInvalidStatus), errors.Is(err, order.ErrInvalidPaymentMethod),
		errors.Is(err, checkout.ErrCartEmpty):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrShopNotFound), errors.Is(err, checkout.ErrOutOfStock):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrPaymentDeclined):
		return http.StatusPaymentRequired
	case errors.Is(err, auth.ErrNotLoggedIn), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (g *Gateway) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		g.logger.Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(code, gin.H{"error": err.Error()})
}
