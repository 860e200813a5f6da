package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csmith-03/alliger-house-of-wings/internal/cart"
	"github.com/csmith-03/alliger-house-of-wings/internal/checkout"
	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
	"github.com/csmith-03/alliger-house-of-wings/internal/shipping"
)

type testEnv struct {
	router    chi.Router
	sender    *senderMock
	quoter    *quoterMock
	platform  *platformMock
	orders    *orderReaderMock
	catalog   *catalogMock
	publisher *publisherMock
	carts     *cart.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		sender:    &senderMock{},
		quoter:    &quoterMock{},
		platform:  &platformMock{},
		orders:    &orderReaderMock{},
		catalog:   &catalogMock{},
		publisher: &publisherMock{},
	}
	env.carts = cart.NewService(cart.NewMemoryStorage())

	tax := checkout.TaxPolicy{Rate: 0.08, OriginState: "LA"}
	checkoutSvc := checkout.NewService(
		checkout.NewMemorySessionStore(),
		env.carts,
		env.quoter,
		env.platform,
		tax,
	)

	cartHandler := NewCartHandler(env.carts)
	env.router = NewRouter(Handlers{
		Contact:  NewContactHandler(env.sender),
		Shipping: NewShippingHandler(env.quoter),
		Payments: NewPaymentHandler(env.platform, tax),
		Orders:   NewOrdersHandler(env.orders),
		Cart:     cartHandler,
		Checkout: NewCheckoutHandler(checkoutSvc, cartHandler),
		Products: NewProductsHandler(env.catalog),
		Redirect: NewRedirectHandler("http://localhost:3000", env.publisher, env.carts),
	}, 30*time.Second, 1<<20)

	return env
}

func (env *testEnv) doJSON(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestContact_JSON(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Remy",
		"email":   "remy@example.com",
		"message": "Do you ship to Baton Rouge?",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.sender.sent, 1)
	assert.Equal(t, "remy@example.com", env.sender.sent[0].Email)
}

func TestContact_Form(t *testing.T) {
	env := newTestEnv(t)

	form := url.Values{}
	form.Set("name", "Remy")
	form.Set("email", "remy@example.com")
	form.Set("message", "hello")

	req := httptest.NewRequest(http.MethodPost, "/api/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, env.sender.sent, 1)
}

func TestContact_MissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/contact", map[string]string{"name": "Remy"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "missing_fields", body.Code)
	assert.Empty(t, env.sender.sent)
}

func TestContact_SendFailure(t *testing.T) {
	env := newTestEnv(t)
	env.sender.err = errors.New("provider down")

	rec := env.doJSON(t, http.MethodPost, "/api/contact", map[string]string{
		"email":   "remy@example.com",
		"message": "hello",
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestShipping_AcceptsAddressAliases(t *testing.T) {
	rate := domain.ShippingRate{ID: "rate_1", Label: "UPS Ground", Amount: 1234, DaysMin: 2, DaysMax: 5}

	payloads := []map[string]any{
		{"address": map[string]any{"line1": "123 Main St", "city": "New Orleans", "state": "LA", "postal_code": "70112", "country": "US"}},
		{"toAddress": map[string]any{"street1": "123 Main St", "city": "New Orleans", "state": "LA", "postalCode": "70112"}},
		{"addr": map[string]any{"line1": "123 Main St", "city": "New Orleans", "state": "LA", "zip": "70112"}},
		{"address_to": map[string]any{"address": map[string]any{"line1": "123 Main St", "city": "New Orleans", "state": "LA", "zip": "70112"}}},
	}

	for _, payload := range payloads {
		env := newTestEnv(t)
		env.quoter.result = shipping.Result{Rates: []domain.ShippingRate{rate}}
		payload["items"] = []map[string]any{{"id": "prod_1", "name": "Original (12oz)", "qty": 2, "price": 1000}}

		rec := env.doJSON(t, http.MethodPost, "/api/shipping", payload)

		require.Equal(t, http.StatusOK, rec.Code)
		result := decodeBody[shipping.Result](t, rec)
		require.Len(t, result.Rates, 1)
		assert.Equal(t, "rate_1", result.Rates[0].ID)
		assert.Equal(t, "70112", env.quoter.lastTo.PostalCode)
		require.Len(t, env.quoter.items, 1)
		assert.Equal(t, 2, env.quoter.items[0].Qty)
	}
}

func TestShipping_QuoteFailureStays200(t *testing.T) {
	env := newTestEnv(t)
	env.quoter.result = shipping.Result{Rates: []domain.ShippingRate{}, Err: "quote failed"}

	rec := env.doJSON(t, http.MethodPost, "/api/shipping", map[string]any{
		"address": map[string]any{"postal_code": "70112"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[shipping.Result](t, rec)
	assert.Empty(t, result.Rates)
	assert.Equal(t, "quote failed", result.Err)
}

func TestShipping_MalformedBodyStays200(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/shipping", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[shipping.Result](t, rec)
	assert.Empty(t, result.Rates)
	assert.Equal(t, "quote failed", result.Err)
}

func TestPaymentIntent_Create(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/payment-intents", map[string]any{
		"items": []map[string]any{
			{"id": "prod_1", "name": "Original (12oz)", "qty": 2, "price": 1000},
		},
		"shipCents": 599,
		"rateId":    "rate_1",
		"address":   map[string]any{"line1": "123 Main St", "city": "New Orleans", "state": "LA", "postal_code": "70112", "country": "US"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "pi_test_secret", body["clientSecret"])

	params := env.platform.lastParams
	// subtotal 2000 + shipping 599 + 8% LA tax on goods (160)
	assert.Equal(t, int64(2759), params.Amount)
	assert.Equal(t, "usd", params.Currency)
	assert.Equal(t, "2000", params.Metadata[payments.MetaSubtotal])
	assert.Equal(t, "599", params.Metadata[payments.MetaShipping])
	assert.Equal(t, "160", params.Metadata[payments.MetaTax])
	assert.Equal(t, "rate_1", params.Metadata[payments.MetaRateID])

	var snapshot []map[string]any
	require.NoError(t, json.Unmarshal([]byte(params.Metadata[payments.MetaCart]), &snapshot))
	require.Len(t, snapshot, 1)
	assert.Equal(t, "prod_1", snapshot[0]["productId"])
}

func TestPaymentIntent_NoItems(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodPost, "/api/payment-intents", map[string]any{
		"items": []map[string]any{},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, env.platform.createCalls)
}

func TestPaymentIntent_PlatformError(t *testing.T) {
	env := newTestEnv(t)
	env.platform.err = errors.New("stripe down")

	rec := env.doJSON(t, http.MethodPost, "/api/payment-intents", map[string]any{
		"items": []map[string]any{{"id": "prod_1", "name": "Original", "qty": 1, "price": 1000}},
	})

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestOrders_Get(t *testing.T) {
	env := newTestEnv(t)
	env.orders.order = &domain.Order{ID: "pi_1", Amount: 2759, Currency: "usd", Status: "succeeded"}

	rec := env.doJSON(t, http.MethodGet, "/api/orders/pi_1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	order := decodeBody[domain.Order](t, rec)
	assert.Equal(t, "pi_1", order.ID)
	assert.Equal(t, int64(2759), order.Amount)
}

func TestOrders_UpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	env.orders.err = errors.New("stripe down")

	rec := env.doJSON(t, http.MethodGet, "/api/orders/pi_1", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProducts_List(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.products = []domain.Product{{ID: "prod_1", Name: "Original", BarColor: "bg-maroon"}}

	rec := env.doJSON(t, http.MethodGet, "/api/products", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string][]domain.Product](t, rec)
	require.Len(t, body["products"], 1)
	assert.Equal(t, "prod_1", body["products"][0].ID)
}

func TestRedirect_SetsCookiesAndPublishes(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/checkout/confirmation/redirect?payment_intent=pi_1&redirect_status=succeeded", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "http://localhost:3000/checkout/confirmation", rec.Header().Get("Location"))

	cookies := rec.Result().Cookies()
	byName := map[string]*http.Cookie{}
	for _, c := range cookies {
		byName[c.Name] = c
	}
	require.Contains(t, byName, "last_pi")
	require.Contains(t, byName, "last_redirect_status")
	assert.Equal(t, "pi_1", byName["last_pi"].Value)
	assert.Equal(t, "succeeded", byName["last_redirect_status"].Value)
	assert.True(t, byName["last_pi"].HttpOnly)
	assert.Equal(t, int((30 * time.Minute).Seconds()), byName["last_pi"].MaxAge)

	assert.Equal(t, []string{"pi_1"}, env.publisher.confirmed)
}

func TestRedirect_SucceededClearsCart(t *testing.T) {
	env := newTestEnv(t)

	price := int64(1000)
	addRec := env.doJSON(t, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "prod_1",
		"name":      "Original (12oz)",
		"price":     price,
		"qty":       1,
	})
	require.Equal(t, http.StatusOK, addRec.Code)

	cookie := cartCookie(t, addRec)

	req := httptest.NewRequest(http.MethodGet, "/checkout/confirmation/redirect?payment_intent=pi_1&redirect_status=succeeded", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	rec = env.doJSON(t, http.MethodGet, "/api/cart", nil, cookie)
	c := decodeBody[domain.Cart](t, rec)
	assert.Empty(t, c.Lines)
}

func TestRedirect_NoPaymentReferenceLeavesCartAlone(t *testing.T) {
	env := newTestEnv(t)

	price := int64(1000)
	addRec := env.doJSON(t, http.MethodPost, "/api/cart/items", map[string]any{
		"productId": "prod_1",
		"name":      "Original (12oz)",
		"price":     price,
		"qty":       1,
	})
	require.Equal(t, http.StatusOK, addRec.Code)
	cookie := cartCookie(t, addRec)

	req := httptest.NewRequest(http.MethodGet, "/checkout/confirmation/redirect?redirect_status=succeeded", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, "last_pi", c.Name)
	}
	assert.Empty(t, env.publisher.confirmed)

	rec = env.doJSON(t, http.MethodGet, "/api/cart", nil, cookie)
	c := decodeBody[domain.Cart](t, rec)
	require.Len(t, c.Lines, 1)
}

func TestRedirect_FailedStatusDoesNotPublish(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/checkout/confirmation/redirect?payment_intent=pi_1&redirect_status=failed", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, env.publisher.confirmed)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.doJSON(t, http.MethodGet, "/health", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}
