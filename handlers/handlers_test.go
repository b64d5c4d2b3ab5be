package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/antqd/davveroo/config"
	"github.com/antqd/davveroo/ledger"
)

// Validation behavior is covered here without a database: every request
// below must be rejected before any store access. Storage-backed paths are
// covered by the ledger integration tests.
func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiry: time.Hour}
	h := New(cfg, ledger.New(nil))

	r := gin.New()
	r.POST("/api/customers", h.CreateCustomer)
	r.POST("/api/referrals", h.CreateReferral)
	r.POST("/api/purchases", h.RecordPurchase)
	r.GET("/api/customers/:id/credit", h.CustomerCredit)
	r.POST("/api/customers/:id/redemptions", h.RedeemCredit)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateCustomerRequiresFullName(t *testing.T) {
	r := testRouter()

	w := postJSON(r, "/api/customers", `{"email":"x@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"full_name_required"}`, w.Body.String())

	w = postJSON(r, "/api/customers", `{"full_name":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCustomerRejectsMalformedBody(t *testing.T) {
	r := testRouter()
	w := postJSON(r, "/api/customers", `{"full_name": 42`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"invalid_body"}`, w.Body.String())
}

func TestCreateReferralRequiresReferrerAndName(t *testing.T) {
	r := testRouter()

	w := postJSON(r, "/api/referrals", `{"friend_full_name":"Fabio"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"referrer_customer_id_and_friend_full_name_required"}`, w.Body.String())

	w = postJSON(r, "/api/referrals", `{"referrer_customer_id":5}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRecordPurchaseRequiresCustomerAndProduct(t *testing.T) {
	r := testRouter()

	w := postJSON(r, "/api/purchases", `{"customer_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"customer_id_and_product_id_required"}`, w.Body.String())
}

func TestRecordPurchaseRejectsUnknownStatus(t *testing.T) {
	r := testRouter()

	w := postJSON(r, "/api/purchases", `{"customer_id":1,"product_id":2,"status":"paid"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"invalid_status"}`, w.Body.String())
}

func TestCustomerCreditRejectsBadID(t *testing.T) {
	r := testRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/abc/credit", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"invalid_id"}`, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/customers/-4/credit", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRedeemRejectsNonPositiveAmount(t *testing.T) {
	r := testRouter()

	w := postJSON(r, "/api/customers/9/redemptions", `{"amount_cents":0}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"ok":false,"error":"invalid_amount"}`, w.Body.String())

	w = postJSON(r, "/api/customers/9/redemptions", `{"amount_cents":-200}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
