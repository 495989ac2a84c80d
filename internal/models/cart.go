package models

import "github.com/shopspring/decimal"

// CartLine is a product reference with the name and price captured when it was added.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns price * quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart is the per-user working set of lines. Every line has Quantity >= 1.
type Cart []CartLine

// AddItem increments the line for p, or appends a new line with a snapshot of p.
func (c *Cart) AddItem(p Product) {
	for i := range *c {
		if (*c)[i].ProductID == p.ID {
			(*c)[i].Quantity++
			return
		}
	}
	*c = append(*c, CartLine{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	})
}

// AdjustQuantity applies delta to the line for productID and drops it once the quantity
// reaches zero. Unknown product ids are ignored.
func (c *Cart) AdjustQuantity(productID string, delta int) {
	out := (*c)[:0]
	for _, line := range *c {
		if line.ProductID == productID {
			line.Quantity += delta
		}
		if line.Quantity > 0 {
			out = append(out, line)
		}
	}
	*c = out
}

// Subtotal is the sum of every line total.
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c {
		total = total.Add(line.LineTotal())
	}
	return total
}

// ItemCount is the sum of line quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, line := range c {
		n += line.Quantity
	}
	return n
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// Snapshot returns a copy of the lines that no longer aliases the cart.
func (c Cart) Snapshot() []CartLine {
	lines := make([]CartLine, len(c))
	copy(lines, c)
	return lines
}
