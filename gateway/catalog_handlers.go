package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (g *Gateway) listBanners(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"banners": g.deps.Catalog.Banners()})
}

func (g *Gateway) listShops(c *gin.Context) {
	shops := g.deps.Catalog.Shops(c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"shops": shops, "total": len(shops)})
}

func (g *Gateway) getShop(c *gin.Context) {
	shop, err := g.deps.Catalog.Shop(c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, shop)
}

func (g *Gateway) listProducts(c *gin.Context) {
	shopID := c.Param("id")
	if _, err := g.deps.Catalog.Shop(shopID); err != nil {
		g.fail(c, err)
		return
	}
	products := g.deps.Catalog.Products(shopID, c.Query("category"), c.Query("q"))
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (g *Gateway) listCategories(c *gin.Context) {
	shopID := c.Param("id")
	if _, err := g.deps.Catalog.Shop(shopID); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": g.deps.Catalog.Categories(shopID)})
}

func (g *Gateway) getProduct(c *gin.Context) {
	product, err := g.deps.Catalog.Product(c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}
