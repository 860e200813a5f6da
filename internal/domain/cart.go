package domain

// CartLine is one product/variant chosen by the shopper. Money is in
// integer minor currency units (cents) throughout.
type CartLine struct {
	ProductID string  `json:"productId"`
	PriceID   *string `json:"priceId"`
	Name      string  `json:"name"`
	Price     *int64  `json:"price"`
	Currency  *string `json:"currency"`
	Image     *string `json:"image,omitempty"`
	Qty       int     `json:"qty"`
}

// SameVariant reports whether two lines refer to the same purchasable
// variant. The uniqueness key is (ProductID, PriceID).
func (l CartLine) SameVariant(productID string, priceID *string) bool {
	if l.ProductID != productID {
		return false
	}
	if l.PriceID == nil || priceID == nil {
		return l.PriceID == priceID
	}
	return *l.PriceID == *priceID
}

// Cart is the ordered collection of lines for one shopper.
type Cart struct {
	ID    string     `json:"id"`
	Lines []CartLine `json:"lines"`
}

// Count is the sum of quantities over all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Qty
	}
	return n
}

// Subtotal sums price*qty over lines that carry a price.
func (c *Cart) Subtotal() int64 {
	var sum int64
	for _, l := range c.Lines {
		if l.Price != nil {
			sum += *l.Price * int64(l.Qty)
		}
	}
	return sum
}

// Currency returns the currency of the first line. Carts are assumed to be
// single-currency; mixed-currency carts are unsupported.
func (c *Cart) Currency() string {
	for _, l := range c.Lines {
		if l.Currency != nil && *l.Currency != "" {
			return *l.Currency
		}
	}
	return ""
}
