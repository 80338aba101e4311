package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"gtech/internal/domain"
	"gtech/internal/kv"
	"gtech/internal/pincode"
	"gtech/internal/repository"
	"gtech/internal/service"
)

func init() { gin.SetMode(gin.TestMode) }

type stubPincode map[string]*pincode.Location

func (s stubPincode) Lookup(_ context.Context, code string) (*pincode.Location, error) {
	if len(code) != 6 {
		return nil, pincode.ErrInvalidPincode
	}
	if code == "999999" {
		return nil, errors.New("connection refused")
	}
	loc, ok := s[code]
	if !ok {
		return nil, pincode.ErrNotFound
	}
	return loc, nil
}

func setupServer(t *testing.T) *Server {
	t.Helper()
	mem := kv.NewMemory()
	store := repository.NewLocalStore(mem)
	session := service.NewSession(mem)
	orders := service.NewOrderService(store, repository.NewLocalOrders(store), repository.NewLocalTx(store))
	return NewServer(Services{
		Auth:     service.NewAuthService(repository.NewLocalUsers(store), session, nil),
		Products: service.NewProductService(store),
		Orders:   orders,
		Cart:     service.NewCartService(session, store, nil, nil),
		Checkout: service.NewCheckoutService(session, store, orders, nil, nil),
		Pincode:  stubPincode{"600002": {Pincode: "600002", District: "Chennai", State: "Tamil Nadu"}},
	}, nil, WithAdminToken(testAdminToken))
}

const testAdminToken = "ops-secret"

func newJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func serve(s *Server, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, req)
	return w
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return serve(s, newJSONRequest(t, method, path, body))
}

// doAdmin sends an operator request.
func doAdmin(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newJSONRequest(t, method, path, body)
	req.Header.Set(adminHeader, testAdminToken)
	return serve(s, req)
}

// doChunked sends the body without a Content-Length, as a streaming client would.
func doChunked(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := newJSONRequest(t, method, path, body)
	req.ContentLength = -1
	req.TransferEncoding = []string{"chunked"}
	return serve(s, req)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
	return v
}

func register(t *testing.T, s *Server) domain.User {
	t.Helper()
	w := doJSON(t, s, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"name": "Priya", "email": "priya@example.com", "password": "secret1", "phone": "9876543210",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register code %v: %s", w.Code, w.Body.String())
	}
	return decode[domain.User](t, w)
}

var shippingAddress = map[string]any{
	"fullName": "Priya", "phoneNumber": "9876543210", "addressLine1": "12 Anna Salai",
	"city": "Chennai", "state": "Tamil Nadu", "pincode": "600002",
}

func TestProductFlow(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/products?category=Used+Laptops&sort=price-low", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list code %v", w.Code)
	}
	list := decode[[]domain.Product](t, w)
	if len(list) != 3 || list[0].Price > list[1].Price {
		t.Fatalf("unexpected list: %v", list)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/products?brand=Dell&brand=HP&min_price=40000", nil)
	list = decode[[]domain.Product](t, w)
	if len(list) != 2 {
		t.Fatalf("brand+price filter: %d", len(list))
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/products?sort=cheapest", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad sort code %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/products/featured", nil)
	if len(decode[[]domain.Product](t, w)) != 10 {
		t.Fatalf("featured count mismatch")
	}

	w = doAdmin(t, s, http.MethodPost, "/api/v1/products", map[string]any{
		"name": "PoE Switch", "category": "Networking & CCTV", "condition": "New", "price": 6400,
		"brand": "Other", "location": "Erode",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create code %v: %s", w.Code, w.Body.String())
	}
	p := decode[domain.Product](t, w)

	w = doJSON(t, s, http.MethodGet, "/api/v1/products/"+p.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get code %v", w.Code)
	}
	w = doAdmin(t, s, http.MethodDelete, "/api/v1/products/"+p.ID, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete code %v", w.Code)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/products/"+p.ID, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %v", w.Code)
	}
}

func TestAuthFlow(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/auth/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("me without session: %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"name": "", "email": "bad", "password": "1", "phone": "123",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid registration: %v", w.Code)
	}
	body := decode[errorResponse](t, w)
	if len(body.Fields) != 4 {
		t.Fatalf("expected field errors, got %+v", body)
	}

	u := register(t, s)
	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"name": "Again", "email": "priya@example.com", "password": "secret1", "phone": "9876543210",
	})
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate registration: %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/logout", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("logout: %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "priya@example.com", "password": "nope"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: %v", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/auth/login", map[string]any{"email": "priya@example.com", "password": "password123"})
	if w.Code != http.StatusOK || decode[domain.User](t, w).ID != u.ID {
		t.Fatalf("login: %v %s", w.Code, w.Body.String())
	}
}

func TestOrderFlow(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"productId": "1", "quantity": 1, "address": shippingAddress})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("order without login: %v", w.Code)
	}
	register(t, s)

	bad := map[string]any{}
	for k, v := range shippingAddress {
		bad[k] = v
	}
	bad["pincode"] = "12"
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"productId": "1", "quantity": 1, "address": bad})
	if w.Code != http.StatusBadRequest || decode[errorResponse](t, w).Fields["pincode"] == "" {
		t.Fatalf("invalid address: %v %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"productId": "8", "quantity": 2, "address": shippingAddress})
	if w.Code != http.StatusCreated {
		t.Fatalf("create order: %v %s", w.Code, w.Body.String())
	}
	o := decode[domain.Order](t, w)
	if o.TotalAmount != 17000 || o.Status != domain.OrderStatusPending {
		t.Fatalf("unexpected order %+v", o)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/orders/pending-count", nil)
	if decode[map[string]int](t, w)["pending"] != 1 {
		t.Fatalf("pending count: %s", w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/"+o.ID+"/cancel", map[string]any{"reason": "changed mind"})
	if w.Code != http.StatusOK {
		t.Fatalf("cancel: %v", w.Code)
	}
	o = decode[domain.Order](t, w)
	if o.Tracking[len(o.Tracking)-1].Message != "Order cancelled: changed mind" {
		t.Fatalf("unexpected tracking %+v", o.Tracking)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/orders/"+o.ID+"/cancel", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("second cancel: %v", w.Code)
	}

	w = doAdmin(t, s, http.MethodPut, "/api/v1/orders/"+o.ID+"/status", map[string]any{"status": "Teleported"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown status: %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/orders", nil)
	if list := decode[[]domain.Order](t, w); len(list) != 1 {
		t.Fatalf("list: %v", list)
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/orders/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("missing order: %v", w.Code)
	}
}

func TestChunkedBodies(t *testing.T) {
	s := setupServer(t)
	register(t, s)

	w := doChunked(t, s, http.MethodPost, "/api/v1/cart/3", map[string]any{"quantity": 3})
	if items := decode[[]domain.CartItem](t, w); w.Code != http.StatusOK || len(items) != 1 || items[0].Quantity != 3 {
		t.Fatalf("chunked add: %v %s", w.Code, w.Body.String())
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"productId": "8", "quantity": 1, "address": shippingAddress})
	o := decode[domain.Order](t, w)
	w = doChunked(t, s, http.MethodPost, "/api/v1/orders/"+o.ID+"/cancel", map[string]any{"reason": "changed mind"})
	if w.Code != http.StatusOK {
		t.Fatalf("chunked cancel: %v %s", w.Code, w.Body.String())
	}
	o = decode[domain.Order](t, w)
	if o.Status != domain.OrderStatusCancelled || o.CancellationReason != "changed mind" {
		t.Fatalf("reason lost: %+v", o)
	}

	w = doChunked(t, s, http.MethodPost, "/api/v1/cart/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("empty chunked body: %v", w.Code)
	}
	w = doChunked(t, s, http.MethodPost, "/api/v1/cart/1", "{broken")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad json: %v", w.Code)
	}
}

func TestOperatorRoutes(t *testing.T) {
	s := setupServer(t)
	register(t, s)
	w := doJSON(t, s, http.MethodPost, "/api/v1/orders", map[string]any{"productId": "8", "quantity": 1, "address": shippingAddress})
	o := decode[domain.Order](t, w)

	w = doJSON(t, s, http.MethodPut, "/api/v1/orders/"+o.ID+"/status", map[string]any{"status": "Delivered"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status without token: %v", w.Code)
	}
	req := newJSONRequest(t, http.MethodDelete, "/api/v1/products/1", nil)
	req.Header.Set(adminHeader, "guess")
	if w = serve(s, req); w.Code != http.StatusUnauthorized {
		t.Fatalf("delete with wrong token: %v", w.Code)
	}
	w = doAdmin(t, s, http.MethodPut, "/api/v1/orders/"+o.ID+"/status", map[string]any{"status": "Shipped"})
	if w.Code != http.StatusOK || decode[domain.Order](t, w).Status != domain.OrderStatusShipped {
		t.Fatalf("status with token: %v %s", w.Code, w.Body.String())
	}

	// without a configured token the operator routes stay closed
	closed := NewServer(s.svc, nil)
	req = newJSONRequest(t, http.MethodPut, "/api/v1/orders/"+o.ID+"/status", map[string]any{"status": "Delivered"})
	req.Header.Set(adminHeader, "")
	if w = serve(closed, req); w.Code != http.StatusForbidden {
		t.Fatalf("closed operator route: %v", w.Code)
	}
	if w = serve(closed, newJSONRequest(t, http.MethodGet, "/api/v1/products/1", nil)); w.Code != http.StatusOK {
		t.Fatalf("shopper route on closed server: %v", w.Code)
	}
}

func TestCartAndWishlist(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodPost, "/api/v1/cart/1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("add: %v %s", w.Code, w.Body.String())
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/3", map[string]any{"quantity": 2})
	if items := decode[[]domain.CartItem](t, w); len(items) != 2 || items[1].Quantity != 2 {
		t.Fatalf("add with qty: %v", items)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/cart/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("add missing product: %v", w.Code)
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/cart", nil)
	if lines := decode[[]service.CartLine](t, w); len(lines) != 2 || lines[0].Product.ID != "1" {
		t.Fatalf("cart lines: %v", lines)
	}
	w = doJSON(t, s, http.MethodDelete, "/api/v1/cart/1", nil)
	if items := decode[[]domain.CartItem](t, w); len(items) != 1 {
		t.Fatalf("remove: %v", items)
	}
	w = doJSON(t, s, http.MethodDelete, "/api/v1/cart", nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("clear: %v", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/api/v1/wishlist/5/toggle", nil)
	if !decode[wishlistState](t, w).InWishlist {
		t.Fatalf("toggle on: %s", w.Body.String())
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/wishlist", nil)
	if list := decode[[]domain.Product](t, w); len(list) != 1 || list[0].ID != "5" {
		t.Fatalf("wishlist: %v", list)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/wishlist/5/toggle", nil)
	if decode[wishlistState](t, w).InWishlist {
		t.Fatalf("toggle off: %s", w.Body.String())
	}
	w = doJSON(t, s, http.MethodGet, "/api/v1/wishlist/5", nil)
	if decode[wishlistState](t, w).InWishlist {
		t.Fatalf("still in wishlist")
	}
}

func TestCheckoutWithoutGateway(t *testing.T) {
	s := setupServer(t)
	register(t, s)

	w := doJSON(t, s, http.MethodGet, "/api/v1/checkout", nil)
	if opts := decode[checkoutOptions](t, w); opts.Online || !opts.CashOnDelivery {
		t.Fatalf("options: %+v", opts)
	}
	w = doJSON(t, s, http.MethodPost, "/api/v1/checkout/payment", map[string]any{"productId": "1", "quantity": 1})
	if w.Code != http.StatusNotImplemented {
		t.Fatalf("payment on local backend: %v", w.Code)
	}
}

func TestPincodeAndHome(t *testing.T) {
	s := setupServer(t)

	w := doJSON(t, s, http.MethodGet, "/api/v1/pincode/600002", nil)
	if w.Code != http.StatusOK || decode[pincode.Location](t, w).District != "Chennai" {
		t.Fatalf("lookup: %v %s", w.Code, w.Body.String())
	}
	for code, want := range map[string]int{"60": http.StatusBadRequest, "110001": http.StatusNotFound, "999999": http.StatusBadGateway} {
		if w := doJSON(t, s, http.MethodGet, "/api/v1/pincode/"+code, nil); w.Code != want {
			t.Fatalf("pincode %s: expected %d got %d", code, want, w.Code)
		}
	}

	w = doJSON(t, s, http.MethodGet, "/api/v1/home", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("home: %v", w.Code)
	}
	home := decode[homeResponse](t, w)
	if len(home.Featured) != 10 || len(home.Categories) != len(domain.Categories) {
		t.Fatalf("home: %+v", home)
	}
	for _, shelf := range home.Categories {
		if len(shelf.Products) > shelfSize || shelf.Count < len(shelf.Products) {
			t.Fatalf("shelf %s: %+v", shelf.Category, shelf)
		}
	}

	if w := doJSON(t, s, http.MethodGet, "/healthz", nil); w.Code != http.StatusOK {
		t.Fatalf("healthz: %v", w.Code)
	}
}

func TestMapErrorToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{service.ErrInvalidInput, http.StatusBadRequest},
		{&domain.ValidationError{Fields: map[string]string{"x": "y"}}, http.StatusBadRequest},
		{service.ErrUnauthenticated, http.StatusUnauthorized},
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrNotCancellable, http.StatusConflict},
		{repository.ErrNotSupported, http.StatusNotImplemented},
		{repository.ErrPaymentRejected, http.StatusPaymentRequired},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := mapErrorToStatus(tc.err); got != tc.want {
			t.Fatalf("%v: expected %d got %d", tc.err, tc.want, got)
		}
	}
}
