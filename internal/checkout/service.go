// Package checkout drives the multi-phase flow from address entry to a
// confirmed payment. Phases and transitions are explicit so the invariants
// hold mechanically: no payment intent before a selected rate, no stale rate
// surviving an address edit, and totals frozen into the intent at creation.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/ordermath"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
	"github.com/csmith-03/alliger-house-of-wings/internal/shipping"
)

var (
	ErrIllegalTransition = errors.New("illegal checkout phase transition")
	ErrEmptyCart         = errors.New("cart is empty, nothing to check out")
	ErrIncompleteAddress = errors.New("postal code and country are required")
	ErrUnknownRate       = errors.New("selected rate is not among the quoted options")
	ErrNoRateSelected    = errors.New("no shipping rate selected")
)

// RateQuoter is the shipping-quote boundary.
type RateQuoter interface {
	Quote(ctx context.Context, to domain.Address, items []ordermath.Line) shipping.Result
}

// CartReader is the slice of the cart service checkout needs.
type CartReader interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) error
}

// TaxPolicy carries the configured tax behavior.
type TaxPolicy struct {
	Rate            float64
	ApplyToShipping bool
	OriginState     string
}

type Service struct {
	sessions SessionStore
	carts    CartReader
	quoter   RateQuoter
	platform payments.Client
	tax      TaxPolicy
}

func NewService(sessions SessionStore, carts CartReader, quoter RateQuoter, platform payments.Client, tax TaxPolicy) *Service {
	return &Service{
		sessions: sessions,
		carts:    carts,
		quoter:   quoter,
		platform: platform,
		tax:      tax,
	}
}

// Begin opens a checkout session for a non-empty cart.
func (s *Service) Begin(ctx context.Context, cartID string) (*Session, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(cart.Lines) == 0 || cart.Subtotal() <= 0 {
		return nil, ErrEmptyCart
	}

	session := &Session{
		ID:        uuid.NewString(),
		CartID:    cartID,
		Phase:     PhaseEnteringAddress,
		UpdatedAt: time.Now(),
	}
	return session, s.sessions.Save(ctx, session)
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.sessions.Load(ctx, id)
}

// ConfirmAddress pins the destination and fetches shipping rates. Any
// previously quoted rates and any existing payment intent are invalidated
// first; nothing quoted against an old address survives.
func (s *Service) ConfirmAddress(ctx context.Context, id string, addr domain.Address) (*Session, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !addr.Quotable() {
		return nil, ErrIncompleteAddress
	}
	if !CanTransition(session.Phase, PhaseFetchingRates) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, session.Phase, PhaseFetchingRates)
	}

	session.Phase = PhaseFetchingRates
	session.Address = &addr
	session.RateGen++
	session.Rates = nil
	session.SelectedRateID = ""
	session.IntentID = ""
	session.ClientSecret = ""
	session.LastError = ""
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	gen := session.RateGen

	cart, err := s.carts.Get(ctx, session.CartID)
	if err != nil {
		return nil, err
	}
	result := s.quoter.Quote(ctx, addr, linesFromCart(cart))

	return s.applyRates(ctx, id, gen, result)
}

// applyRates folds a quote result into the session, unless the session has
// moved on to a newer generation in the meantime.
func (s *Service) applyRates(ctx context.Context, id string, gen uint64, result shipping.Result) (*Session, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.RateGen != gen {
		log.Printf("discarding stale rate response: session=%s gen=%d current=%d", id, gen, session.RateGen)
		return session, nil
	}

	if result.Err != "" || len(result.Rates) == 0 {
		session.Rates = nil
		session.LastError = result.Err
		if session.LastError == "" {
			session.LastError = "No rates available. Try editing your address."
		}
		session.UpdatedAt = time.Now()
		return session, s.sessions.Save(ctx, session)
	}

	session.Rates = result.Rates
	session.LastError = ""
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	// Rates arrive sorted by price; the cheapest is preselected.
	return s.SelectRate(ctx, id, result.Rates[0].ID)
}

// EditAddress reopens the address form. Quoted rates and any payment intent
// are dropped so nothing stale can be paid against a changed address.
func (s *Service) EditAddress(ctx context.Context, id string) (*Session, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(session.Phase, PhaseEnteringAddress) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, session.Phase, PhaseEnteringAddress)
	}

	session.Phase = PhaseEnteringAddress
	session.Rates = nil
	session.SelectedRateID = ""
	session.IntentID = ""
	session.ClientSecret = ""
	session.LastError = ""
	session.UpdatedAt = time.Now()
	return session, s.sessions.Save(ctx, session)
}

// SelectRate picks one quoted option and (re)creates the payment intent for
// it. An existing intent is never patched: a new rate means a new intent
// with the totals of that rate.
func (s *Service) SelectRate(ctx context.Context, id, rateID string) (*Session, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(session.Phase, PhaseRateSelected) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, session.Phase, PhaseRateSelected)
	}

	session.SelectedRateID = rateID
	rate := session.SelectedRate()
	if rate == nil {
		return nil, ErrUnknownRate
	}
	session.Phase = PhaseRateSelected
	session.IntentID = ""
	session.ClientSecret = ""
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return s.createIntent(ctx, session, rate)
}

func (s *Service) createIntent(ctx context.Context, session *Session, rate *domain.ShippingRate) (*Session, error) {
	cart, err := s.carts.Get(ctx, session.CartID)
	if err != nil {
		return nil, err
	}
	lines := linesFromCart(cart)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	subtotal := ordermath.SubtotalFrom(lines)
	shipCents := rate.Amount
	if shipCents < 0 {
		shipCents = 0
	}
	tax := ordermath.EstimateTax(ordermath.TaxInput{
		Subtotal:        subtotal,
		ShippingCents:   shipCents,
		ToAddress:       session.Address,
		Rate:            s.tax.Rate,
		ApplyToShipping: s.tax.ApplyToShipping,
		OriginState:     s.tax.OriginState,
	})
	amount := ordermath.ClampCharge(subtotal + shipCents + tax)

	currency := cart.Currency()
	if currency == "" {
		currency = "usd"
	}

	intent, err := s.platform.CreateIntent(ctx, payments.IntentParams{
		Amount:   amount,
		Currency: currency,
		Address:  session.Address,
		Metadata: map[string]string{
			payments.MetaSubtotal: strconv.FormatInt(subtotal, 10),
			payments.MetaShipping: strconv.FormatInt(shipCents, 10),
			payments.MetaTax:      strconv.FormatInt(tax, 10),
			payments.MetaRateID:   rate.ID,
			payments.MetaCart:     snapshotCart(lines),
		},
	})
	if err != nil {
		session.LastError = "Couldn't start payment."
		session.UpdatedAt = time.Now()
		if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
			return nil, saveErr
		}
		return session, fmt.Errorf("create intent: %w", err)
	}

	session.Phase = PhasePaymentReady
	session.IntentID = intent.ID
	session.ClientSecret = intent.ClientSecret
	session.LastError = ""
	session.UpdatedAt = time.Now()
	return session, s.sessions.Save(ctx, session)
}

// Submit marks the shopper's single pay action.
func (s *Service) Submit(ctx context.Context, id string) (*Session, error) {
	return s.transition(ctx, id, PhaseSubmitting, "")
}

// Succeed closes the flow after the platform confirms payment and clears
// the cart; the confirmation page owns the rest.
func (s *Service) Succeed(ctx context.Context, id string) (*Session, error) {
	session, err := s.transition(ctx, id, PhaseSucceeded, "")
	if err != nil {
		return nil, err
	}
	if err := s.carts.Clear(ctx, session.CartID); err != nil {
		log.Printf("clearing cart %s after checkout: %v", session.CartID, err)
	}
	return session, nil
}

// Fail surfaces a payment error and returns the session to PAYMENT_READY
// so the shopper can retry.
func (s *Service) Fail(ctx context.Context, id, message string) (*Session, error) {
	return s.transition(ctx, id, PhasePaymentReady, message)
}

func (s *Service) transition(ctx context.Context, id string, to Phase, errMsg string) (*Session, error) {
	session, err := s.sessions.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(session.Phase, to) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, session.Phase, to)
	}
	session.Phase = to
	session.LastError = errMsg
	session.UpdatedAt = time.Now()
	return session, s.sessions.Save(ctx, session)
}

func linesFromCart(cart *domain.Cart) []ordermath.Line {
	lines := make([]ordermath.Line, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		line := ordermath.Line{
			ID:   l.ProductID,
			Name: l.Name,
			Qty:  l.Qty,
		}
		if l.PriceID != nil {
			line.PriceID = *l.PriceID
		}
		if l.Price != nil && *l.Price > 0 {
			line.UnitCents = *l.Price
		}
		if line.Qty < 1 {
			line.Qty = 1
		}
		lines = append(lines, line)
	}
	return lines
}

type snapshotLine struct {
	ProductID string `json:"productId"`
	PriceID   string `json:"priceId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// snapshotCart serializes the lines for the intent metadata. The snapshot
// is the order's only line-item record; a cart too large for the platform's
// metadata limit would be truncated upstream, which is a known limitation.
func snapshotCart(lines []ordermath.Line) string {
	snapshot := make([]snapshotLine, 0, len(lines))
	for _, l := range lines {
		snapshot = append(snapshot, snapshotLine{
			ProductID: l.ID,
			PriceID:   l.PriceID,
			Quantity:  l.Qty,
		})
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "[]"
	}
	return string(data)
}
