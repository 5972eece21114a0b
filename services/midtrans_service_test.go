package services

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dapoerattauhid/bisa-web-aja/config"
)

func testConfig(snapURL, apiURL string) *config.MidtransConfig {
	return &config.MidtransConfig{
		ServerKey:   "SB-Mid-server-testkey",
		ClientKey:   "SB-Mid-client-testkey",
		SnapBaseURL: snapURL,
		APIBaseURL:  apiURL,
	}
}

func TestCreateSnapTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/snap/v1/transactions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		// Basic auth dari server key
		assert.Contains(t, r.Header.Get("Authorization"), "Basic ")

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"token":"snap-token-123","redirect_url":"https://app.sandbox.midtrans.com/snap/v3/redirection/snap-token-123"}`)
	}))
	defer server.Close()

	ms := NewMidtransService(testConfig(server.URL, server.URL))

	resp, err := ms.CreateSnapTransaction(&SnapChargeRequest{
		OrderID:     "ORDER-1700000000000-abc123def",
		GrossAmount: 25000,
	})
	assert.NoError(t, err)
	assert.Equal(t, "snap-token-123", resp.Token)
	assert.Contains(t, resp.RedirectURL, "snap-token-123")
}

func TestCreateSnapTransactionGatewayError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error_messages":["Access denied"]}`)
	}))
	defer server.Close()

	ms := NewMidtransService(testConfig(server.URL, server.URL))

	_, err := ms.CreateSnapTransaction(&SnapChargeRequest{OrderID: "ORDER-x", GrossAmount: 1000})
	assert.Error(t, err)

	var gwErr *GatewayError
	assert.True(t, errors.As(err, &gwErr))
	assert.Equal(t, http.StatusUnauthorized, gwErr.StatusCode)
	assert.Contains(t, gwErr.Body, "Access denied")
}

func TestCreateSnapTransactionTransportError(t *testing.T) {
	// Server langsung ditutup supaya request gagal di level jaringan
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	ms := NewMidtransService(testConfig(server.URL, server.URL))

	_, err := ms.CreateSnapTransaction(&SnapChargeRequest{OrderID: "ORDER-x", GrossAmount: 1000})
	assert.Error(t, err)

	var trErr *TransportError
	assert.True(t, errors.As(err, &trErr))

	var gwErr *GatewayError
	assert.False(t, errors.As(err, &gwErr))
}

func TestGetTransactionStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/v2/BATCH-1700000000000-abc123def/status", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"order_id": "BATCH-1700000000000-abc123def",
			"transaction_status": "pending",
			"status_code": "201",
			"gross_amount": "50000.00",
			"payment_type": "bank_transfer",
			"va_numbers": [{"bank": "permata", "va_number": "1234567890"}]
		}`)
	}))
	defer server.Close()

	ms := NewMidtransService(testConfig(server.URL, server.URL))

	status, err := ms.GetTransactionStatus("BATCH-1700000000000-abc123def")
	assert.NoError(t, err)
	assert.Equal(t, "pending", status.TransactionStatus)
	assert.Equal(t, "bank_transfer", status.PaymentType)
	assert.Len(t, status.VANumbers, 1)
	assert.Equal(t, "permata", status.VANumbers[0].Bank)
}

func TestValidateSignature(t *testing.T) {
	cfg := testConfig("", "")
	ms := NewMidtransService(cfg)

	orderID := "ORDER-1700000000000-abc123def"
	statusCode := "200"
	grossAmount := "25000.00"

	hash := sha512.Sum512([]byte(orderID + statusCode + grossAmount + cfg.ServerKey))
	valid := hex.EncodeToString(hash[:])

	assert.True(t, ms.ValidateSignature(orderID, statusCode, grossAmount, valid))
	assert.False(t, ms.ValidateSignature(orderID, statusCode, grossAmount, "tampered"))
	assert.False(t, ms.ValidateSignature(orderID, "201", grossAmount, valid))
}

func TestMapTransactionStatus(t *testing.T) {
	assert.Equal(t, PaymentStatusPaid, MapTransactionStatus("settlement"))
	assert.Equal(t, PaymentStatusPaid, MapTransactionStatus("capture"))
	assert.Equal(t, PaymentStatusPending, MapTransactionStatus("pending"))
	assert.Equal(t, PaymentStatusPending, MapTransactionStatus("authorize"))
	assert.Equal(t, PaymentStatusFailed, MapTransactionStatus("expire"))
	assert.Equal(t, PaymentStatusFailed, MapTransactionStatus("deny"))
	assert.Equal(t, PaymentStatusFailed, MapTransactionStatus("cancel"))
	assert.Equal(t, PaymentStatusFailed, MapTransactionStatus("failure"))
	assert.Equal(t, "unknown", MapTransactionStatus("refund"))
}
