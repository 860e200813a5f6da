package domain

// Address is a normalized shipping destination. Country is ISO-2.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Quotable reports whether the address carries enough data to request
// shipping rates.
func (a Address) Quotable() bool {
	return a.PostalCode != "" && a.Country != ""
}
