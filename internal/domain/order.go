package domain

// OrderTotals is the derived money breakdown for a cart. Never stored,
// always recomputed.
type OrderTotals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// OrderItem is one purchased line as rendered on the confirmation page,
// reconstructed from payment metadata plus an authoritative catalog lookup.
type OrderItem struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	UnitAmount int64   `json:"unitAmount"`
	Image      *string `json:"image"`
	PriceID    *string `json:"priceId"`
}

// Order is the normalized view of a payment record. The payment platform's
// record is the de facto order ledger; there is no independent order store.
type Order struct {
	ID            string      `json:"id"`
	Amount        int64       `json:"amount"`
	Currency      string      `json:"currency"`
	Shipping      *Address    `json:"shipping"`
	Subtotal      int64       `json:"subtotal"`
	ShippingCents int64       `json:"shipping_cents"`
	Tax           int64       `json:"tax"`
	RateID        string      `json:"rate_id"`
	Cart          []OrderItem `json:"cart"`
	Status        string      `json:"status"`
}
