package gateway

import (
	"errors"
	"io"
	"net/http"

	"github.com/example/freshcart/pkg/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// loginRequest may be empty; any phone signs in a demo user.
type loginRequest struct {
	Phone string `json:"phone"`
}

func (g *Gateway) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	session, err := g.deps.Auth.Login(c.Request.Context(), req.Phone)
	if err != nil {
		g.fail(c, err)
		return
	}
	if g.deps.Metrics != nil {
		g.deps.Metrics.Logins.Inc()
	}
	c.JSON(http.StatusOK, session)
}

func (g *Gateway) logout(c *gin.Context) {
	claims := c.MustGet(claimsKey).(*auth.Claims)
	g.logger.Info("Logout requested", zap.String("user_id", claims.UserID), zap.String("token_id", claims.Id))
	g.deps.Auth.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (g *Gateway) me(c *gin.Context) {
	user, ok := g.deps.Auth.User()
	if !ok {
		g.fail(c, auth.ErrNotLoggedIn)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (g *Gateway) updateMe(c *gin.Context) {
	var update auth.UserUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := g.deps.Auth.UpdateUser(update)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
