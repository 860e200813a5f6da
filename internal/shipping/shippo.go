package shipping

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"
)

const defaultShippoURL = "https://api.goshippo.com"

// ShippoAddress is the wire shape Shippo expects for both ends of a
// shipment.
type ShippoAddress struct {
	Name    string `json:"name,omitempty"`
	Street1 string `json:"street1"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type shipmentRequest struct {
	AddressFrom     ShippoAddress `json:"address_from"`
	AddressTo       ShippoAddress `json:"address_to"`
	Parcels         []Parcel      `json:"parcels"`
	Async           bool          `json:"async"`
	CarrierAccounts []string      `json:"carrier_accounts,omitempty"`
}

type shippoServiceLevel struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

type shippoRate struct {
	ObjectID      string             `json:"object_id"`
	Amount        string             `json:"amount"`
	Currency      string             `json:"currency"`
	Provider      string             `json:"provider"`
	ServiceLevel  shippoServiceLevel `json:"servicelevel"`
	EstimatedDays int                `json:"estimated_days"`
}

type shippoMessage struct {
	Code string `json:"code"`
	Text string `json:"text"`
}

type shipment struct {
	Rates    []shippoRate    `json:"rates"`
	Messages []shippoMessage `json:"messages"`
}

// ShippoClient creates shipments against the Shippo REST API. Calls run
// through a circuit breaker so a flapping upstream degrades to instant
// quote failures instead of piling up blocked requests.
type ShippoClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	breaker    *gobreaker.CircuitBreaker[*shipment]
}

func NewShippoClient(apiKey string) *ShippoClient {
	return &ShippoClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultShippoURL,
		apiKey:     apiKey,
		breaker: gobreaker.NewCircuitBreaker[*shipment](gobreaker.Settings{
			Name:    "shippo",
			Timeout: 30 * time.Second,
		}),
	}
}

// WithBaseURL points the client at a different endpoint. Used by tests.
func (c *ShippoClient) WithBaseURL(url string) *ShippoClient {
	c.baseURL = url
	return c
}

func (c *ShippoClient) CreateShipment(ctx context.Context, req shipmentRequest) (*shipment, error) {
	return c.breaker.Execute(func() (*shipment, error) {
		return c.createShipment(ctx, req)
	})
}

func (c *ShippoClient) createShipment(ctx context.Context, req shipmentRequest) (*shipment, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal shipment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shipments/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build shipment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "ShippoToken "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("shippo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		txt, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		if len(txt) == 0 {
			txt = []byte("Shippo error")
		}
		return nil, fmt.Errorf("shippo returned %d: %s", resp.StatusCode, txt)
	}

	var sh shipment
	if err := json.NewDecoder(resp.Body).Decode(&sh); err != nil {
		return nil, fmt.Errorf("decode shipment response: %w", err)
	}
	return &sh, nil
}
