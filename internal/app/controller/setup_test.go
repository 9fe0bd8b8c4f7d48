package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/vellalasercare/storefront-gateway/internal/app/repository"
	"github.com/vellalasercare/storefront-gateway/internal/app/service"
	"github.com/vellalasercare/storefront-gateway/internal/db"
	"github.com/vellalasercare/storefront-gateway/internal/middleware"
	"github.com/vellalasercare/storefront-gateway/pkg/storefront"
	"github.com/vellalasercare/storefront-gateway/pkg/util"
	"gorm.io/gorm"
)

const (
	testJWTSecret = "test-jwt-secret-for-controllers"
	testSessionID = "5b0f6a2e-8a3c-4f43-9d7c-0c1e2f9a7b11"
)

// fakeUpstream plays the storefront API over HTTP.
type fakeUpstream struct {
	mu             sync.Mutex
	orderStatus    int
	orderBody      string
	guestOrders    []storefront.OrderPayload
	customerOrders []storefront.OrderPayload
}

func (u *fakeUpstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	u.mu.Lock()
	defer u.mu.Unlock()

	switch r.URL.Path {
	case "/api/configs/shipping/get_filtered_shipping":
		if r.URL.Query().Get("city") != "c1" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"charge":120,"days":3}`))
	case "/api/configs/city/get_filtered_cities":
		w.Write([]byte(`[{"_id":"c1","name":"Dhaka"},{"_id":"c2","name":"Sylhet"}]`))
	case "/api/auth/get_user_by_token":
		w.Write([]byte(`[{"name":"Rina Akter","email":"rina@example.com","phone":"01712345678"}]`))
	case "/api/order/add_guest_order", "/api/order/add_customer_order":
		var payload storefront.OrderPayload
		json.NewDecoder(r.Body).Decode(&payload)
		if r.URL.Path == "/api/order/add_guest_order" {
			u.guestOrders = append(u.guestOrders, payload)
		} else {
			u.customerOrders = append(u.customerOrders, payload)
		}
		if u.orderStatus != 0 {
			w.WriteHeader(u.orderStatus)
		}
		w.Write([]byte(u.orderBody))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (u *fakeUpstream) respondToOrders(status int, body string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.orderStatus = status
	u.orderBody = body
}

func (u *fakeUpstream) placed() (guest, customer []storefront.OrderPayload) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]storefront.OrderPayload(nil), u.guestOrders...), append([]storefront.OrderPayload(nil), u.customerOrders...)
}

type testEnv struct {
	router   *gin.Engine
	upstream *fakeUpstream
	db       *gorm.DB
	cart     *CartController
	checkout *CheckoutController
	orders   *OrderController
}

func setupControllerTest(t *testing.T) *testEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	upstream := &fakeUpstream{orderBody: `{"order_id":"o-1","gateway_url":"https://pay.example/abc"}`}
	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	client, err := storefront.NewClient(storefront.Config{BaseURL: server.URL, Timeout: 5 * time.Second})
	require.NoError(t, err)

	sessions := service.NewSessionStore(repository.NewMemorySessionRepository(), nil)
	lookups := service.NewLookups(client, time.Minute)
	cartService := service.NewCartService(sessions)
	checkoutService := service.NewCheckoutService(sessions, lookups)
	orderService := service.NewOrderService(sessions, lookups, client, repository.NewSubmissionRepository(testDB))

	env := &testEnv{
		upstream: upstream,
		db:       testDB,
		cart:     NewCartController(cartService, checkoutService),
		checkout: NewCheckoutController(checkoutService, orderService),
		orders:   NewOrderController(orderService),
	}

	gin.SetMode(gin.TestMode)
	router := gin.New()
	auth := middleware.NewAuthMiddleware(testJWTSecret)

	api := router.Group("/api/v1")
	visitor := api.Group("", middleware.SessionMiddleware(), auth.OptionalAuthenticate())
	{
		visitor.GET("/cart", env.cart.GetCart)
		visitor.POST("/cart/items", env.cart.AddItem)
		visitor.PUT("/cart/items/:index", env.cart.UpdateQuantity)
		visitor.DELETE("/cart/items/:index", env.cart.RemoveItem)
		visitor.PATCH("/cart/fields", env.cart.UpdateField)
		visitor.POST("/cart/toggle", env.cart.ToggleOpen)
		visitor.POST("/cart/as-profile", env.cart.ToggleAsProfile)
		visitor.DELETE("/cart", env.cart.ResetCart)
		visitor.GET("/cart/export", env.cart.ExportQuote)

		visitor.GET("/checkout", env.checkout.GetCheckout)
		visitor.GET("/checkout/quote", env.checkout.GetQuote)
		visitor.POST("/checkout/transitions", env.checkout.Transition)
		visitor.GET("/checkout/cities", env.checkout.GetCities)
		visitor.POST("/checkout/orders", env.checkout.SubmitOrder)
		visitor.GET("/checkout/submissions", env.orders.GetSessionSubmissions)
	}
	api.GET("/orders/submissions", auth.Authenticate(), env.orders.GetSubmissions)

	env.router = router
	return env
}

// do sends a request on the test session, authenticated when token is set.
func (e *testEnv) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.SessionHeader, testSessionID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func testToken(t *testing.T, userID, role string) string {
	token, err := util.GenerateToken(userID, userID+"@example.com", role, testJWTSecret, 15*time.Minute)
	require.NoError(t, err)
	return token
}

func sampleItem(productID string, price int64, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"product_id":      productID,
		"name":            "Product " + productID,
		"thumbnail":       "/img/" + productID + ".png",
		"price":           price,
		"discount_amount": 0,
		"quantity":        quantity,
	}
}

// fillCheckout puts a valid cart into the checkout panel.
func (e *testEnv) fillCheckout(t *testing.T, payment string) {
	t.Helper()
	require.Equal(t, http.StatusOK, e.do(t, http.MethodPost, "/api/v1/cart/items", sampleItem("p1", 450, 2), "").Code)

	fields := map[string]string{
		"name":           "Rina Akter",
		"email":          "rina@example.com",
		"phone":          "01712345678",
		"address":        "House 12, Road 5, Dhanmondi",
		"city":           "c1",
		"postal":         "1205",
		"payment_method": payment,
	}
	for field, value := range fields {
		w := e.do(t, http.MethodPatch, "/api/v1/cart/fields", map[string]string{"field": field, "value": value}, "")
		require.Equal(t, http.StatusOK, w.Code, field)
	}

	w := e.do(t, http.MethodPost, "/api/v1/checkout/transitions", map[string]string{"action": "open_checkout"}, "")
	require.Equal(t, http.StatusOK, w.Code)
}
