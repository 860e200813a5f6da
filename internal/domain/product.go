package domain

// Product is one catalog entry as listed on the sauces page, mapped from the
// payment platform's product + default price.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"desc"`
	BarColor    string  `json:"barColor"`
	Price       *int64  `json:"price"`
	Currency    *string `json:"currency"`
	PriceID     *string `json:"priceId"`
	Image       *string `json:"image"`
}
