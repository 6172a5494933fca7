package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tadka-store/internal/config"
	"github.com/tadka-store/internal/models"
	"github.com/tadka-store/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type routerFixture struct {
	engine   *gin.Engine
	db       *gorm.DB
	menuItem *models.MenuItem
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.Migrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if err := models.InitDefaultAdmin(db, "admin", "admin-secret"); err != nil {
		t.Fatalf("init default admin failed: %v", err)
	}
	previous := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = previous })

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "debug"},
		JWT:      config.JWTConfig{SecretKey: "admin-test-secret", ExpireHours: 1},
		UserJWT:  config.JWTConfig{SecretKey: "user-test-secret", ExpireHours: 1},
		Session:  config.SessionConfig{CookieName: "tadka_session", MaxAgeSeconds: 3600},
		Captcha:  config.CaptchaConfig{Provider: "none"},
		Invoice:  config.InvoiceConfig{Dir: t.TempDir(), CompanyName: "Tadka Kitchen"},
		Security: config.SecurityConfig{PasswordMinLength: 8},
	}
	container := provider.NewContainer(cfg)

	category := &models.Category{Name: "Mains", Slug: "mains"}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	item := &models.MenuItem{
		CategoryID: category.ID,
		Name:       "Paneer Tikka",
		Price:      models.NewMoneyFromDecimal(decimal.RequireFromString("100.00")),
		GSTRate:    models.NewPercentFromDecimal(decimal.RequireFromString("18")),
		IsActive:   true,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("create menu item failed: %v", err)
	}

	return &routerFixture{engine: SetupRouter(cfg, container), db: db, menuItem: item}
}

func (f *routerFixture) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var resp envelope
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v body=%s", err, w.Body.String())
	}
	return resp
}

func TestGuestCartCheckoutAndInvoiceFlow(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"menu_item_id": f.menuItem.ID}, nil)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 0 {
		t.Fatalf("add to cart failed: %s", w.Body.String())
	}
	token := w.Header().Get("X-Session-Token")
	if token == "" {
		t.Fatalf("guest session token should be minted")
	}
	if !strings.Contains(w.Header().Get("Set-Cookie"), "tadka_session="+token) {
		t.Fatalf("session cookie should be set, got %q", w.Header().Get("Set-Cookie"))
	}
	session := map[string]string{"X-Session-Token": token}

	w = f.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"menu_item_id": f.menuItem.ID}, session)
	if w.Header().Get("Set-Cookie") != "" {
		t.Fatalf("existing session should not mint a new cookie")
	}

	w = f.do(t, http.MethodGet, "/api/v1/checkout/preview", nil, session)
	var preview struct {
		ItemCount int    `json:"item_count"`
		Subtotal  string `json:"subtotal"`
		GSTAmount string `json:"gst_amount"`
		Total     string `json:"total"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &preview); err != nil {
		t.Fatalf("decode preview failed: %v", err)
	}
	if preview.Subtotal != "200.00" || preview.GSTAmount != "36.00" || preview.Total != "236.00" {
		t.Fatalf("unexpected preview totals: %+v", preview)
	}

	w = f.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"full_name": "Asha Rao",
		"email":     "asha@example.com",
		"phone":     "+91 98765 43210",
		"address":   "12 MG Road, Bengaluru",
	}, session)
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 0 {
		t.Fatalf("checkout failed: %s", w.Body.String())
	}
	var order struct {
		OrderNo          string `json:"order_no"`
		TotalAmount      string `json:"total_amount"`
		PaymentStatus    string `json:"payment_status"`
		InvoiceGenerated bool   `json:"invoice_generated"`
	}
	if err := json.Unmarshal(resp.Data, &order); err != nil {
		t.Fatalf("decode order failed: %v", err)
	}
	if order.TotalAmount != "236.00" || order.PaymentStatus != "paid" || !order.InvoiceGenerated {
		t.Fatalf("unexpected order: %+v", order)
	}

	w = f.do(t, http.MethodGet, "/api/v1/cart", nil, session)
	if !strings.Contains(w.Body.String(), `"item_count":0`) {
		t.Fatalf("cart should be empty after checkout: %s", w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/api/v1/orders/"+order.OrderNo, nil, session)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 0 {
		t.Fatalf("owner should see order: %s", w.Body.String())
	}
	w = f.do(t, http.MethodGet, "/api/v1/orders/"+order.OrderNo, nil, map[string]string{"X-Session-Token": "someone-else"})
	if resp := decodeEnvelope(t, w); resp.StatusCode != 404 {
		t.Fatalf("other session should get 404, got %s", w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/api/v1/orders/"+order.OrderNo+"/invoice", nil, session)
	if w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("invoice content type want application/pdf got %q body=%s", w.Header().Get("Content-Type"), w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), "invoice_"+order.OrderNo+".pdf") {
		t.Fatalf("unexpected content disposition: %q", w.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Fatalf("invoice body should be a pdf")
	}
}

func TestCheckoutEmptyCartRedirectsToMenu(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"full_name": "Asha Rao",
		"email":     "asha@example.com",
		"phone":     "9876543210",
		"address":   "12 MG Road",
	}, map[string]string{"X-Session-Token": "empty-cart"})
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 400 {
		t.Fatalf("empty cart want 400 got %d", resp.StatusCode)
	}
	if !strings.Contains(string(resp.Data), `"redirect":"/api/v1/public/menu-items"`) {
		t.Fatalf("empty cart should carry redirect, got %s", string(resp.Data))
	}
}

func TestCheckoutValidationErrorReturnsFields(t *testing.T) {
	f := newRouterFixture(t)
	session := map[string]string{"X-Session-Token": "validation"}
	f.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"menu_item_id": f.menuItem.ID}, session)

	w := f.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"full_name": "Asha Rao",
		"email":     "not-an-email",
		"phone":     "9876543210",
		"address":   "12 MG Road",
	}, session)
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 422 {
		t.Fatalf("invalid email want 422 got %d", resp.StatusCode)
	}
	var data struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		t.Fatalf("decode fields failed: %v", err)
	}
	if _, ok := data.Fields["email"]; !ok {
		t.Fatalf("email field error expected, got %+v", data.Fields)
	}
}

func TestRemoveAbsentCartLineReturnsNotFound(t *testing.T) {
	f := newRouterFixture(t)
	w := f.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/cart/items/%d", f.menuItem.ID), nil, map[string]string{"X-Session-Token": "absent"})
	if resp := decodeEnvelope(t, w); resp.StatusCode != 404 {
		t.Fatalf("absent line want 404 got %s", w.Body.String())
	}
}

func TestUserRegisterAndListOrders(t *testing.T) {
	f := newRouterFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/auth/register", gin.H{
		"email":    "diner@example.com",
		"password": "biryani-lover",
	}, nil)
	resp := decodeEnvelope(t, w)
	if resp.StatusCode != 0 {
		t.Fatalf("register failed: %s", w.Body.String())
	}
	var auth struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Data, &auth); err != nil || auth.Token == "" {
		t.Fatalf("register should return token: %s", w.Body.String())
	}
	bearer := map[string]string{"Authorization": "Bearer " + auth.Token}

	f.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"menu_item_id": f.menuItem.ID}, bearer)
	w = f.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"full_name": "Diner",
		"email":     "diner@example.com",
		"phone":     "9876543210",
		"address":   "1 Residency Road",
	}, bearer)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 0 {
		t.Fatalf("user checkout failed: %s", w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/api/v1/me/orders", nil, bearer)
	if !strings.Contains(w.Body.String(), `"total":1`) {
		t.Fatalf("user should have one order: %s", w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/api/v1/me/orders", nil, nil)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 {
		t.Fatalf("anonymous order history want 401 got %d", resp.StatusCode)
	}
}

func TestAdminLoginAndOrderStatusTransition(t *testing.T) {
	f := newRouterFixture(t)
	session := map[string]string{"X-Session-Token": "admin-flow"}
	f.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"menu_item_id": f.menuItem.ID}, session)
	w := f.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"full_name": "Asha Rao",
		"email":     "asha@example.com",
		"phone":     "9876543210",
		"address":   "12 MG Road",
	}, session)
	var order struct {
		ID uint `json:"id"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &order); err != nil || order.ID == 0 {
		t.Fatalf("checkout failed: %s", w.Body.String())
	}

	w = f.do(t, http.MethodGet, "/api/v1/admin/orders", nil, nil)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 401 {
		t.Fatalf("admin route without token want 401 got %d", resp.StatusCode)
	}

	w = f.do(t, http.MethodPost, "/api/v1/admin/login", gin.H{"username": "admin", "password": "admin-secret"}, nil)
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(decodeEnvelope(t, w).Data, &login); err != nil || login.Token == "" {
		t.Fatalf("admin login failed: %s", w.Body.String())
	}
	bearer := map[string]string{"Authorization": "Bearer " + login.Token}

	statusPath := fmt.Sprintf("/api/v1/admin/orders/%d/status", order.ID)
	w = f.do(t, http.MethodPatch, statusPath, gin.H{"status": "completed"}, bearer)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 400 {
		t.Fatalf("pending -> completed want 400 got %s", w.Body.String())
	}
	w = f.do(t, http.MethodPatch, statusPath, gin.H{"status": "confirmed"}, bearer)
	if !strings.Contains(w.Body.String(), `"status":"confirmed"`) {
		t.Fatalf("pending -> confirmed should succeed: %s", w.Body.String())
	}

	w = f.do(t, http.MethodPut, fmt.Sprintf("/api/v1/admin/menu-items/%d", f.menuItem.ID), gin.H{
		"category_id": f.menuItem.CategoryID,
		"name":        "Paneer Tikka",
		"price":       "-1.00",
		"gst_rate":    "18",
	}, bearer)
	if resp := decodeEnvelope(t, w); resp.StatusCode != 422 {
		t.Fatalf("negative price want 422 got %s", w.Body.String())
	}
}
