// Package shipping turns a cart plus a destination into a short list of
// carrier rate options. Business-level failures (unsupported destination,
// no usable rates, upstream errors) come back as a user-readable message
// next to an empty rate list; nothing past this boundary returns an error
// for them.
package shipping

import (
	"context"
	"log"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/ordermath"
)

const (
	defaultDaysMin = 2
	defaultDaysMax = 5
)

type shipmentCreator interface {
	CreateShipment(ctx context.Context, req shipmentRequest) (*shipment, error)
}

// Quoter requests carrier rates for parcels built from the cart contents.
type Quoter struct {
	client         shipmentCreator
	origin         ShippoAddress
	carrierAccount string
}

func NewQuoter(client *ShippoClient, origin ShippoAddress, carrierAccount string) *Quoter {
	return &Quoter{client: client, origin: origin, carrierAccount: carrierAccount}
}

// Result is the outcome of one quote request. Err is a user-displayable
// message; when it is set Rates is empty.
type Result struct {
	Rates []domain.ShippingRate `json:"rates"`
	Err   string                `json:"error,omitempty"`
}

func failure(msg string) Result {
	return Result{Rates: []domain.ShippingRate{}, Err: msg}
}

// Quote validates the destination, packs parcels, and asks the carrier for
// rates. Preference order: UPS Ground in USD, then any UPS rate, then an
// explicit no-rates message carrying the upstream diagnostics.
func (q *Quoter) Quote(ctx context.Context, to domain.Address, items []ordermath.Line) Result {
	country := strings.ToUpper(to.Country)
	if country == "" {
		country = "US"
	}
	if country != "US" {
		return failure("We currently only ship within the United States.")
	}
	if to.PostalCode == "" {
		return failure("Please enter a valid U.S. ZIP code.")
	}

	bottles, gallons := CountUnits(items)
	parcels := BuildParcels(bottles, gallons)

	req := shipmentRequest{
		AddressFrom: q.origin,
		AddressTo: ShippoAddress{
			Name:    to.Name,
			Street1: to.Line1,
			Street2: to.Line2,
			City:    to.City,
			State:   to.State,
			Zip:     to.PostalCode,
			Country: country,
		},
		Parcels: parcels,
		Async:   false,
	}
	if q.carrierAccount != "" {
		req.CarrierAccounts = []string{q.carrierAccount}
	}

	sh, err := q.client.CreateShipment(ctx, req)
	if err != nil {
		log.Printf("shipping quote failed: %v", err)
		return failure("quote failed")
	}

	usable := filterRates(sh.Rates, func(r shippoRate) bool {
		return r.Currency == "USD" && strings.EqualFold(r.ServiceLevel.Token, "ups_ground")
	})
	if len(usable) == 0 {
		usable = filterRates(sh.Rates, func(r shippoRate) bool {
			return r.Currency == "USD" && strings.Contains(strings.ToUpper(r.Provider), "UPS")
		})
	}
	if len(usable) == 0 {
		msg := joinMessages(sh.Messages)
		log.Printf("no usable UPS rates: zip=%s parcels=%d raw=%d messages=%q",
			to.PostalCode, len(parcels), len(sh.Rates), msg)
		return failure("No UPS shipping rates were returned for this address. Error: " + msg)
	}

	rates := make([]domain.ShippingRate, 0, len(usable))
	for _, r := range usable {
		rates = append(rates, mapRate(r))
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].Amount < rates[j].Amount })

	return Result{Rates: rates}
}

func filterRates(rates []shippoRate, keep func(shippoRate) bool) []shippoRate {
	var out []shippoRate
	for _, r := range rates {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func mapRate(r shippoRate) domain.ShippingRate {
	label := "UPS"
	switch {
	case r.ServiceLevel.Name != "":
		label = "UPS " + r.ServiceLevel.Name
	case r.ServiceLevel.Token != "":
		label = "UPS " + r.ServiceLevel.Token
	}

	var cents int64
	if amt, err := strconv.ParseFloat(r.Amount, 64); err == nil {
		cents = int64(math.Round(amt * 100))
	}

	daysMin, daysMax := defaultDaysMin, defaultDaysMax
	if r.EstimatedDays > 0 {
		daysMin = r.EstimatedDays
		daysMax = r.EstimatedDays + 1
	}

	return domain.ShippingRate{
		ID:      r.ObjectID,
		Label:   label,
		Amount:  cents,
		DaysMin: daysMin,
		DaysMax: daysMax,
	}
}

func joinMessages(msgs []shippoMessage) string {
	if len(msgs) == 0 {
		return "No messages from Shippo"
	}
	parts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		switch {
		case m.Text != "":
			parts = append(parts, m.Text)
		case m.Code != "":
			parts = append(parts, m.Code)
		}
	}
	if len(parts) == 0 {
		return "No messages from Shippo"
	}
	return strings.Join(parts, " | ")
}
