package Controllers_test

import (
	"bytes"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/config"
	"github.com/dapoerattauhid/bisa-web-aja/controllers"
	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/services"
)

const testServerKey = "SB-Mid-server-testkey"

// stubGateway adalah SnapGateway palsu untuk test level controller
type stubGateway struct {
	createCalls int
	token       string
	createErr   error
}

func (s *stubGateway) CreateSnapTransaction(req *services.SnapChargeRequest) (*services.SnapResponse, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &services.SnapResponse{Token: s.token, RedirectURL: "https://example.com/pay"}, nil
}

func (s *stubGateway) GetTransactionStatus(orderID string) (*services.TransactionStatus, error) {
	return &services.TransactionStatus{OrderID: orderID, TransactionStatus: "pending"}, nil
}

func setupPaymentRouter(db *gorm.DB, gateway services.SnapGateway) (*gin.Engine, *controllers.PaymentController) {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	cfg := &config.MidtransConfig{ServerKey: testServerKey, ClientKey: "SB-Mid-client-testkey"}
	paymentSvc := services.NewPaymentService(db, gateway, cfg)
	midtransSvc := services.NewMidtransService(cfg)
	paymentCtrl := controllers.NewPaymentController(db, paymentSvc, midtransSvc)

	router.POST("/payments", paymentCtrl.CreatePayment)
	router.POST("/payments/callback", paymentCtrl.HandlePaymentCallback)

	return router, paymentCtrl
}

func seedPendingOrder(db *gorm.DB, userID uint, n int) models.Order {
	order := models.Order{
		OrderNumber:   fmt.Sprintf("ORD-20300101-%06d", n),
		UserID:        userID,
		ChildName:     fmt.Sprintf("Anak %d", n),
		ChildClass:    "1A",
		DeliveryDate:  "2030-01-02",
		TotalAmount:   10000,
		Status:        "pending",
		PaymentStatus: "pending",
	}
	if err := db.Create(&order).Error; err != nil {
		panic(err)
	}
	return order
}

func TestCreatePaymentEndpoint(t *testing.T) {
	db := setupTestDB()
	router, _ := setupPaymentRouter(db, &stubGateway{token: "snap-abc"})

	payload, _ := json.Marshal(map[string]interface{}{
		"orderId": "ORDER-1700000000000-abc123def",
		"amount":  25000,
		"customerDetails": map[string]string{
			"first_name": "Budi",
			"email":      "budi@example.com",
			"phone":      "08123456789",
		},
		"itemDetails": []map[string]interface{}{
			{"id": "1", "price": 25000, "quantity": 1, "name": "Nasi Goreng"},
		},
	})
	req, _ := http.NewRequest("POST", "/payments", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Kontrak lama: JSON mentah, bukan envelope
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "snap-abc", resp["snap_token"])
	assert.Equal(t, "pending", resp["payment_status"])
	assert.Nil(t, resp["status"])
}

func TestCreatePaymentEndpointBatchFanOut(t *testing.T) {
	db := setupTestDB()
	parent := seedUser(db, "batch@example.com", models.RoleParent)
	router, _ := setupPaymentRouter(db, &stubGateway{token: "snap-batch"})

	first := seedPendingOrder(db, parent.ID, 1)
	second := seedPendingOrder(db, parent.ID, 2)

	batchID := "BATCH-1700000000000-abc123def"
	payload, _ := json.Marshal(map[string]interface{}{
		"orderId":       batchID,
		"amount":        20000,
		"batchOrderIds": []uint{first.ID, second.ID},
	})
	req, _ := http.NewRequest("POST", "/payments", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	// Kedua order memegang ID gateway yang sama
	var orders []models.Order
	assert.NoError(t, db.Where("id IN ?", []uint{first.ID, second.ID}).Find(&orders).Error)
	for _, o := range orders {
		assert.NotNil(t, o.MidtransOrderID)
		assert.Equal(t, batchID, *o.MidtransOrderID)
	}
}

func TestCreatePaymentEndpointInvalidAmount(t *testing.T) {
	db := setupTestDB()
	gateway := &stubGateway{token: "snap-x"}
	router, _ := setupPaymentRouter(db, gateway)

	payload, _ := json.Marshal(map[string]interface{}{
		"orderId": "ORDER-1-x",
		"amount":  0,
	})
	req, _ := http.NewRequest("POST", "/payments", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// Kontrak lama: semua error jadi 500 {"error": ...}
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "amount")
	assert.Equal(t, 0, gateway.createCalls)
}

func midtransSignature(orderID, statusCode, grossAmount string) string {
	hash := sha512.Sum512([]byte(orderID + statusCode + grossAmount + testServerKey))
	return hex.EncodeToString(hash[:])
}

func TestPaymentCallbackSettlement(t *testing.T) {
	db := setupTestDB()
	parent := seedUser(db, "callback@example.com", models.RoleParent)
	router, _ := setupPaymentRouter(db, &stubGateway{token: "snap-cb"})

	order := seedPendingOrder(db, parent.ID, 3)
	gatewayID := "ORDER-1700000000000-cb1"
	assert.NoError(t, db.Model(&order).Update("midtrans_order_id", gatewayID).Error)
	assert.NoError(t, db.Create(&models.Payment{
		OrderID:       order.ID,
		Amount:        order.TotalAmount,
		Status:        "pending",
		PaymentMethod: "midtrans",
		TransactionID: gatewayID,
	}).Error)

	payload, _ := json.Marshal(map[string]string{
		"order_id":           gatewayID,
		"status_code":        "200",
		"gross_amount":       "10000.00",
		"transaction_status": "settlement",
		"signature_key":      midtransSignature(gatewayID, "200", "10000.00"),
	})
	req, _ := http.NewRequest("POST", "/payments/callback", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Order
	assert.NoError(t, db.First(&updated, order.ID).Error)
	assert.Equal(t, "paid", updated.PaymentStatus)
	// Status order tidak berubah karena transisi order urusan staff
	assert.Equal(t, "pending", updated.Status)

	var payment models.Payment
	assert.NoError(t, db.Where("transaction_id = ?", gatewayID).First(&payment).Error)
	assert.Equal(t, "paid", payment.Status)
}

func TestPaymentCallbackRejectsBadSignature(t *testing.T) {
	db := setupTestDB()
	parent := seedUser(db, "badsig@example.com", models.RoleParent)
	router, _ := setupPaymentRouter(db, &stubGateway{token: "snap-cb"})

	order := seedPendingOrder(db, parent.ID, 4)
	gatewayID := "ORDER-1700000000000-cb2"
	assert.NoError(t, db.Model(&order).Update("midtrans_order_id", gatewayID).Error)

	payload, _ := json.Marshal(map[string]string{
		"order_id":           gatewayID,
		"status_code":        "200",
		"gross_amount":       "10000.00",
		"transaction_status": "settlement",
		"signature_key":      "palsu",
	})
	req, _ := http.NewRequest("POST", "/payments/callback", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var untouched models.Order
	assert.NoError(t, db.First(&untouched, order.ID).Error)
	assert.Equal(t, "pending", untouched.PaymentStatus)
}

func TestCashPayment(t *testing.T) {
	db := setupTestDB()
	cashier := seedUser(db, "kasir3@example.com", models.RoleCashier)
	parent := seedUser(db, "tunai@example.com", models.RoleParent)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	cfg := &config.MidtransConfig{ServerKey: testServerKey}
	paymentSvc := services.NewPaymentService(db, &stubGateway{}, cfg)
	paymentCtrl := controllers.NewPaymentController(db, paymentSvc, services.NewMidtransService(cfg))
	router.POST("/staff/cash-payments", authAs(cashier.ID, models.RoleCashier), paymentCtrl.CreateCashPayment)

	order := seedPendingOrder(db, parent.ID, 5)

	payload, _ := json.Marshal(map[string]interface{}{
		"order_id":        order.ID,
		"received_amount": 15000,
	})
	req, _ := http.NewRequest("POST", "/staff/cash-payments", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(5000), data["change_amount"])

	var updated models.Order
	assert.NoError(t, db.First(&updated, order.ID).Error)
	assert.Equal(t, "paid", updated.PaymentStatus)
	assert.Equal(t, "cash", updated.PaymentMethod)
}

func TestCashPaymentRejectsInsufficientAmount(t *testing.T) {
	db := setupTestDB()
	cashier := seedUser(db, "kasir4@example.com", models.RoleCashier)
	parent := seedUser(db, "kurang@example.com", models.RoleParent)

	gin.SetMode(gin.TestMode)
	router := gin.Default()
	cfg := &config.MidtransConfig{ServerKey: testServerKey}
	paymentSvc := services.NewPaymentService(db, &stubGateway{}, cfg)
	paymentCtrl := controllers.NewPaymentController(db, paymentSvc, services.NewMidtransService(cfg))
	router.POST("/staff/cash-payments", authAs(cashier.ID, models.RoleCashier), paymentCtrl.CreateCashPayment)

	order := seedPendingOrder(db, parent.ID, 6)

	payload, _ := json.Marshal(map[string]interface{}{
		"order_id":        order.ID,
		"received_amount": 9000,
	})
	req, _ := http.NewRequest("POST", "/staff/cash-payments", bytes.NewBuffer(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
