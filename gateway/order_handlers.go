package gateway

import (
	"fmt"
	"net/http"

	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/order"
	"github.com/gin-gonic/gin"
)

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (g *Gateway) listOrders(c *gin.Context) {
	orders, err := g.deps.Orders.List(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": len(orders)})
}

func (g *Gateway) currentOrder(c *gin.Context) {
	o, ok := g.deps.Orders.Current(c.Request.Context())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no current order"})
		return
	}
	c.JSON(http.StatusOK, o)
}

func (g *Gateway) getOrder(c *gin.Context) {
	id := c.Param("id")
	o, ok := g.deps.Orders.GetByID(c.Request.Context(), id)
	if !ok {
		g.fail(c, fmt.Errorf("%w: %s", order.ErrOrderNotFound, id))
		return
	}
	c.JSON(http.StatusOK, o)
}

func (g *Gateway) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	id := c.Param("id")
	if err := g.deps.Orders.UpdateStatus(ctx, id, req.Status); err != nil {
		g.fail(c, err)
		return
	}
	o, ok := g.deps.Orders.GetByID(ctx, id)
	if !ok {
		g.fail(c, fmt.Errorf("%w: %s", order.ErrOrderNotFound, id))
		return
	}
	c.JSON(http.StatusOK, o)
}

func (g *Gateway) startTracking(c *gin.Context) {
	started, err := g.deps.Orders.StartTracking(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "started": started})
}

func (g *Gateway) stopTracking(c *gin.Context) {
	stopped, err := g.deps.Orders.StopTracking(c.Request.Context(), c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_id": c.Param("id"), "stopped": stopped})
}

func (g *Gateway) orderAudit(c *gin.Context) {
	if g.deps.Audit == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "audit log is disabled"})
		return
	}
	logs, err := g.deps.Audit.GetAuditLogs(c.Request.Context(), c.Param("id"), 50)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": logs})
}
