package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/freshcart/pkg/models"
)

var ErrNotFound = errors.New("not found")

// AllCategories is the pseudo category that disables category filtering.
const AllCategories = "All"

// Data is the reference dataset behind a Catalog.
type Data struct {
	Shops    []models.Shop
	Products []models.Product
	Banners  []models.Banner
	Users    []models.User
	Orders   []models.Order
}

// Catalog answers read-only queries over shops, products and banners. It is
// never mutated after construction and is safe for concurrent use.
type Catalog struct {
	data     Data
	shops    map[string]int
	products map[string]int
}

func New(data Data) *Catalog {
	c := &Catalog{
		data:     data,
		shops:    make(map[string]int, len(data.Shops)),
		products: make(map[string]int, len(data.Products)),
	}
	for i, s := range data.Shops {
		c.shops[s.ID] = i
	}
	for i, p := range data.Products {
		c.products[p.ID] = i
	}
	return c
}

// Shops returns shops whose name or one of whose categories contains query,
// case-insensitively. An empty query returns every shop.
func (c *Catalog) Shops(query string) []models.Shop {
	q := strings.ToLower(strings.TrimSpace(query))

	result := make([]models.Shop, 0, len(c.data.Shops))
	for _, s := range c.data.Shops {
		if q == "" || matchesShop(s, q) {
			result = append(result, s)
		}
	}
	return result
}

func matchesShop(s models.Shop, q string) bool {
	if strings.Contains(strings.ToLower(s.Name), q) {
		return true
	}
	for _, cat := range s.Categories {
		if strings.Contains(strings.ToLower(cat), q) {
			return true
		}
	}
	return false
}

func (c *Catalog) Shop(id string) (models.Shop, error) {
	i, ok := c.shops[id]
	if !ok {
		return models.Shop{}, fmt.Errorf("shop %s: %w", id, ErrNotFound)
	}
	return c.data.Shops[i], nil
}

// Products lists a shop's products, optionally narrowed to a category and a
// case-insensitive name query.
func (c *Catalog) Products(shopID, category, query string) []models.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	filterCategory := category != "" && category != AllCategories

	result := make([]models.Product, 0)
	for _, p := range c.data.Products {
		if p.ShopID != shopID {
			continue
		}
		if filterCategory && p.Category != category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Categories returns "All" followed by the distinct categories of a shop's
// products in first-seen order.
func (c *Catalog) Categories(shopID string) []string {
	seen := make(map[string]bool)
	cats := []string{AllCategories}
	for _, p := range c.data.Products {
		if p.ShopID != shopID || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		cats = append(cats, p.Category)
	}
	return cats
}

func (c *Catalog) Product(id string) (models.Product, error) {
	i, ok := c.products[id]
	if !ok {
		return models.Product{}, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return c.data.Products[i], nil
}

func (c *Catalog) Banners() []models.Banner {
	return append([]models.Banner(nil), c.data.Banners...)
}

func (c *Catalog) Users() []models.User {
	users := make([]models.User, len(c.data.Users))
	for i, u := range c.data.Users {
		users[i] = u.Clone()
	}
	return users
}

// UserEmail resolves the contact address of a demo user.
func (c *Catalog) UserEmail(userID string) (string, bool) {
	for _, u := range c.data.Users {
		if u.ID == userID && u.Email != "" {
			return u.Email, true
		}
	}
	return "", false
}

// Orders returns the preloaded order history, newest first.
func (c *Catalog) Orders() []models.Order {
	orders := make([]models.Order, len(c.data.Orders))
	for i, o := range c.data.Orders {
		orders[i] = o.Clone()
	}
	return orders
}
