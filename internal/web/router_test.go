package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/nikolayk812/storefront-demo/internal/cart"
	"github.com/nikolayk812/storefront-demo/internal/catalog"
	"github.com/nikolayk812/storefront-demo/internal/domain"
	"github.com/nikolayk812/storefront-demo/internal/metrics"
	"github.com/nikolayk812/storefront-demo/internal/port"
	"github.com/nikolayk812/storefront-demo/internal/repository"
	"github.com/nikolayk812/storefront-demo/internal/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type client struct {
	t       *testing.T
	handler http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, repo port.CartSlotRepository) *client {
	t.Helper()

	reg := prometheus.NewRegistry()
	cartMetrics := metrics.NewCartMetrics(reg)
	c := catalog.Default()

	handler, err := web.NewRouter(web.Deps{
		Catalog: c,
		Stores: func(slot string) (*cart.Store, error) {
			return cart.NewStore(cart.StoreParams{
				Repo:    repo,
				Catalog: c,
				Slot:    slot,
				Metrics: cartMetrics,
			})
		},
		Gatherer: reg,
	})
	require.NoError(t, err)

	return &client{t: t, handler: handler}
}

func (c *client) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	c.t.Helper()

	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, cookie := range c.cookies {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}

	return rec
}

func TestGridPage(t *testing.T) {
	c := newClient(t, repository.NewMemoryCartSlot())

	rec := c.do(http.MethodGet, "/", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Product 1")
	assert.Contains(t, body, "Product 6")
	assert.Contains(t, body, `Cart (<span id="cart-count">0</span>)`)
	require.Len(t, c.cookies, 1)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestProductPage(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "known product", target: "/product.html?id=2", wantStatus: http.StatusOK, wantBody: "$24.99"},
		{name: "unknown product", target: "/product.html?id=99", wantStatus: http.StatusNotFound, wantBody: "Product not found"},
		{name: "missing id", target: "/product.html", wantStatus: http.StatusNotFound, wantBody: "Product not found"},
		{name: "non numeric id", target: "/product.html?id=abc", wantStatus: http.StatusNotFound, wantBody: "Product not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(t, repository.NewMemoryCartSlot())

			rec := c.do(http.MethodGet, tt.target, nil)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestAddToCartFlow(t *testing.T) {
	repo := repository.NewMemoryCartSlot()
	c := newClient(t, repo)
	c.do(http.MethodGet, "/", nil)

	rec := c.do(http.MethodPost, "/product.html?id=1", url.Values{"quantity": {"2"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/product.html?id=1&added=1", rec.Header().Get("Location"))

	rec = c.do(http.MethodGet, "/product.html?id=1&added=1", nil)
	assert.Contains(t, rec.Body.String(), "Added to cart!")
	assert.Contains(t, rec.Body.String(), `<span id="cart-count">2</span>`)

	rec = c.do(http.MethodGet, "/cart.html", nil)
	body := rec.Body.String()
	assert.Contains(t, body, `<span id="item-count">2</span>`)
	assert.Contains(t, body, `<span id="subtotal">$39.98</span>`)
	assert.Contains(t, body, `<span id="shipping">$5.99</span>`)
	assert.Contains(t, body, `<span id="total">$45.97</span>`)
}

func TestCartActions(t *testing.T) {
	c := newClient(t, repository.NewMemoryCartSlot())
	c.do(http.MethodPost, "/product.html?id=3", url.Values{"quantity": {"1"}})

	steps := []struct {
		form      url.Values
		wantCount string
	}{
		{form: url.Values{"action": {"inc"}, "id": {"3"}}, wantCount: "2"},
		{form: url.Values{"action": {"dec"}, "id": {"3"}}, wantCount: "1"},
		{form: url.Values{"action": {"dec"}, "id": {"3"}}, wantCount: "1"},
		{form: url.Values{"action": {"set"}, "id": {"3"}, "quantity": {"abc"}}, wantCount: "1"},
		{form: url.Values{"action": {"set"}, "id": {"3"}, "quantity": {"4"}}, wantCount: "4"},
		{form: url.Values{"action": {"remove"}, "id": {"3"}}, wantCount: "0"},
	}

	for _, step := range steps {
		rec := c.do(http.MethodPost, "/cart.html", step.form)
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = c.do(http.MethodGet, "/cart.html", nil)
		assert.Contains(t, rec.Body.String(), `<span id="item-count">`+step.wantCount+`</span>`, step.form.Encode())
	}

	rec := c.do(http.MethodGet, "/cart.html", nil)
	assert.Contains(t, rec.Body.String(), "Your cart is empty.")
	assert.Contains(t, rec.Body.String(), "disabled")
}

func TestCouponFlow(t *testing.T) {
	c := newClient(t, repository.NewMemoryCartSlot())
	c.do(http.MethodPost, "/product.html?id=6", url.Values{"quantity": {"2"}})

	tests := []struct {
		code      string
		wantFlash string
		wantTotal string
	}{
		{code: "SAVE10", wantFlash: "10% discount applied!", wantTotal: "$80.98"},
		{code: "save10", wantFlash: "Invalid coupon code", wantTotal: "$89.98"},
		{code: "  ", wantFlash: "Please enter a coupon code", wantTotal: "$89.98"},
	}

	for _, tt := range tests {
		t.Run(tt.wantFlash, func(t *testing.T) {
			rec := c.do(http.MethodPost, "/cart.html", url.Values{"action": {"coupon"}, "code": {tt.code}})

			require.Equal(t, http.StatusOK, rec.Code)
			body := rec.Body.String()
			assert.Contains(t, body, tt.wantFlash)
			assert.Contains(t, body, `<span id="total">`+tt.wantTotal+`</span>`)
			assert.Contains(t, body, `<span id="shipping">FREE</span>`)
		})
	}

	// the discount does not survive the next page load
	rec := c.do(http.MethodGet, "/cart.html", nil)
	assert.Contains(t, rec.Body.String(), `<span id="total">$89.98</span>`)
}

func TestCheckoutPage(t *testing.T) {
	c := newClient(t, repository.NewMemoryCartSlot())

	rec := c.do(http.MethodPost, "/checkout.html", url.Values{})
	assert.Contains(t, rec.Body.String(), "Your cart is empty.")

	c.do(http.MethodPost, "/product.html?id=1", url.Values{"quantity": {"1"}})
	rec = c.do(http.MethodPost, "/checkout.html", url.Values{})
	body := rec.Body.String()
	assert.Contains(t, body, cart.CheckoutNotice)
	assert.Contains(t, body, "Product 1 × 1")
	assert.Contains(t, body, `<span id="checkout-total">$25.98</span>`)
}

func TestSessionsAreIsolated(t *testing.T) {
	repo := repository.NewMemoryCartSlot()
	alice := newClient(t, repo)
	bob := newClient(t, repo)

	alice.do(http.MethodPost, "/product.html?id=1", url.Values{"quantity": {"3"}})
	rec := bob.do(http.MethodGet, "/cart.html", nil)

	assert.Contains(t, rec.Body.String(), `<span id="item-count">0</span>`)
}

func TestCorruptSlotRendersEmptyCart(t *testing.T) {
	repo := repository.NewMemoryCartSlot()
	c := newClient(t, repo)
	c.do(http.MethodPost, "/product.html?id=1", url.Values{"quantity": {"1"}})

	id, err := sessionID(c.cookies)
	require.NoError(t, err)
	slot := cart.DefaultSlot + ":" + id
	require.NoError(t, repo.PutSlot(t.Context(), slot, []byte(`[{"id":1,"name":"x","price":"abc","image":"x","quantity":1}]`)))

	rec := c.do(http.MethodGet, "/cart.html", nil)
	assert.Contains(t, rec.Body.String(), "Your cart is empty.")

	_, err = repo.GetSlot(context.Background(), slot)
	require.ErrorIs(t, err, domain.ErrSlotNotFound)
}

func TestMethodNotAllowed(t *testing.T) {
	c := newClient(t, repository.NewMemoryCartSlot())

	rec := c.do(http.MethodDelete, "/cart.html", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthzAndMetrics(t *testing.T) {
	c := newClient(t, repository.NewMemoryCartSlot())
	c.do(http.MethodPost, "/product.html?id=1", url.Values{"quantity": {"1"}})

	rec := c.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `storefront_cart_mutations_total{op="add"} 1`)
}

func TestHealthzPingFailure(t *testing.T) {
	handler, err := web.NewRouter(web.Deps{
		Catalog: catalog.Default(),
		Stores:  func(string) (*cart.Store, error) { return nil, errors.New("unused") },
		Ping:    func(context.Context) error { return errors.New("down") },
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func sessionID(cookies []*http.Cookie) (string, error) {
	for _, cookie := range cookies {
		if cookie.Name == "storefront_session" {
			return cookie.Value, nil
		}
	}
	return "", errors.New("no session cookie")
}
