// Package cart holds the shopping cart state model.
//
// A line is identified by its product id plus the multiset of customization
// ids attached to it; the order customizations were picked in does not matter.
// Adding the same configuration twice bumps the quantity of the existing line,
// a different configuration of the same product gets a line of its own.
package cart

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Customization is an option picked for a product (extra topping, side, ...).
type Customization struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Type  string  `json:"type"`
}

// Item is what gets added to a cart: a line item without its quantity.
type Item struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          float64         `json:"price"`
	ImageURL       string          `json:"image_url"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// LineItem is one distinct purchasable configuration in the cart.
type LineItem struct {
	Item
	Quantity int `json:"quantity"`
}

// Key returns the identity of a line.
func (l LineItem) Key() string { return Key(l.ID, l.Customizations) }

// UnitPrice is the product price plus every customization price, charged per unit.
func (l LineItem) UnitPrice() float64 {
	p := l.Price
	for _, c := range l.Customizations {
		p += c.Price
	}
	return p
}

// Key derives the composite identity of a product configuration: the
// product id followed by the sorted customization ids, duplicates kept.
// Every segment is length-prefixed, so ids containing the separators cannot
// make two configurations share a key.
func Key(id string, customizations []Customization) string {
	ids := make([]string, len(customizations))
	for i, c := range customizations {
		ids[i] = c.ID
	}
	sort.Strings(ids)

	var b strings.Builder
	writeSegment(&b, id)
	for _, cid := range ids {
		b.WriteByte('|')
		writeSegment(&b, cid)
	}
	return b.String()
}

func writeSegment(b *strings.Builder, s string) {
	b.WriteString(strconv.Itoa(len(s)))
	b.WriteByte(':')
	b.WriteString(s)
}

// Cart is an ordered sequence of line items. The zero value is an empty cart.
// Cart is not safe for concurrent use; callers serialize mutations.
type Cart struct {
	Items []LineItem `json:"items"`
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{Items: []LineItem{}}
}

func (c *Cart) indexOf(key string) int {
	for i := range c.Items {
		if c.Items[i].Key() == key {
			return i
		}
	}
	return -1
}

// AddItem increments the matching line or appends a new one with quantity 1.
func (c *Cart) AddItem(item Item) {
	if i := c.indexOf(Key(item.ID, item.Customizations)); i >= 0 {
		c.Items[i].Quantity++
		return
	}
	cs := make([]Customization, len(item.Customizations))
	copy(cs, item.Customizations)
	item.Customizations = cs
	c.Items = append(c.Items, LineItem{Item: item, Quantity: 1})
}

// RemoveItem drops the matching line whatever its quantity.
func (c *Cart) RemoveItem(id string, customizations []Customization) {
	if i := c.indexOf(Key(id, customizations)); i >= 0 {
		c.removeAt(i)
	}
}

// IncreaseQty adds one unit to the matching line.
func (c *Cart) IncreaseQty(id string, customizations []Customization) {
	if i := c.indexOf(Key(id, customizations)); i >= 0 {
		c.Items[i].Quantity++
	}
}

// DecreaseQty removes one unit from the matching line; a line never stays at 0.
func (c *Cart) DecreaseQty(id string, customizations []Customization) {
	i := c.indexOf(Key(id, customizations))
	if i < 0 {
		return
	}
	if c.Items[i].Quantity <= 1 {
		c.removeAt(i)
		return
	}
	c.Items[i].Quantity--
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []LineItem{}
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
}

// TotalItems is the sum of quantities across all lines.
func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.Items {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of unit price times quantity, rounded to cents.
func (c *Cart) TotalPrice() float64 {
	total := 0.0
	for _, l := range c.Items {
		total += l.UnitPrice() * float64(l.Quantity)
	}
	return math.Round(total*100) / 100
}
