package httpapi

import (
	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

// addressDTO tolerates the field-name variations different clients send
// for a shipping destination, including a nested "address" object.
type addressDTO struct {
	Name        string      `json:"name"`
	Line1       string      `json:"line1"`
	Street1     string      `json:"street1"`
	Line2       string      `json:"line2"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	PostalCode  string      `json:"postal_code"`
	PostalAlt   string      `json:"postalCode"`
	Zip         string      `json:"zip"`
	Country     string      `json:"country"`
	Address     *addressDTO `json:"address"`
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func (a *addressDTO) toDomain() domain.Address {
	if a == nil {
		return domain.Address{}
	}
	// Clients sometimes wrap the fields one level deeper.
	inner := a
	if a.Address != nil {
		inner = a.Address
		if inner.Name == "" {
			inner.Name = a.Name
		}
	}
	return domain.Address{
		Name:       inner.Name,
		Line1:      firstNonEmpty(inner.Line1, inner.Street1),
		Line2:      inner.Line2,
		City:       inner.City,
		State:      inner.State,
		PostalCode: firstNonEmpty(inner.PostalCode, inner.PostalAlt, inner.Zip),
		Country:    inner.Country,
	}
}
