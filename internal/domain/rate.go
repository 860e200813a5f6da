package domain

// ShippingRate is one quoted carrier service option. Amount is in cents.
type ShippingRate struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Amount  int64  `json:"amount"`
	DaysMin int    `json:"daysMin"`
	DaysMax int    `json:"daysMax"`
}
