package cart

import (
	"sync"

	"github.com/example/freshcart/pkg/models"
	"github.com/example/freshcart/pkg/pricing"
)

type Item struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
}

// Cart holds the pending selections of the signed-in shopper, one entry per
// product id. Items are kept in the order they were first added. No
// operation fails.
type Cart struct {
	mu    sync.RWMutex
	items map[string]*Item
	order []string
}

func New() *Cart {
	return &Cart{items: make(map[string]*Item)}
}

// Add inserts product or increases its quantity. A non-positive quantity
// counts as one.
func (c *Cart) Add(product models.Product, quantity int) {
	if quantity <= 0 {
		quantity = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.items[product.ID]; ok {
		item.Quantity += quantity
		return
	}
	c.items[product.ID] = &Item{Product: product, Quantity: quantity}
	c.order = append(c.order, product.ID)
}

// UpdateQuantity sets the quantity of an item already in the cart. A
// quantity of zero or less removes it.
func (c *Cart) UpdateQuantity(productID string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.remove(productID)
		return
	}
	if item, ok := c.items[productID]; ok {
		item.Quantity = quantity
	}
}

func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(productID)
}

func (c *Cart) remove(productID string) {
	if _, ok := c.items[productID]; !ok {
		return
	}
	delete(c.items, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*Item)
	c.order = nil
}

// Take empties the cart and returns what it held, in insertion order.
func (c *Cart) Take() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, *c.items[id])
	}
	c.items = make(map[string]*Item)
	c.order = nil
	return items
}

// Restore puts items taken earlier back in front of anything added since.
// Quantities of a product present in both are summed.
func (c *Cart) Restore(items []Item) {
	if len(items) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	order := make([]string, 0, len(items)+len(c.order))
	for _, item := range items {
		if existing, ok := c.items[item.Product.ID]; ok {
			existing.Quantity += item.Quantity
		} else {
			item := item
			c.items[item.Product.ID] = &item
		}
		order = append(order, item.Product.ID)
	}
	for _, id := range c.order {
		if !contains(order, id) {
			order = append(order, id)
		}
	}
	c.order = order
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// Items returns a snapshot in insertion order.
func (c *Cart) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		items = append(items, *c.items[id])
	}
	return items
}

func (c *Cart) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

func (c *Cart) TotalItems() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) TotalPrice() float64 {
	return pricing.Subtotal(Lines(c.Items())...)
}

// ShopIDs lists the distinct shops of the cart's products, first-added first.
func (c *Cart) ShopIDs() []string {
	return ShopIDs(c.Items())
}

// ShopIDs lists the distinct shops of items, in order of first appearance.
func ShopIDs(items []Item) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, item := range items {
		if !seen[item.Product.ShopID] {
			seen[item.Product.ShopID] = true
			ids = append(ids, item.Product.ShopID)
		}
	}
	return ids
}

func Lines(items []Item) []pricing.Line {
	lines := make([]pricing.Line, len(items))
	for i, item := range items {
		lines[i] = pricing.Line{Price: item.Product.Price, Quantity: item.Quantity}
	}
	return lines
}
