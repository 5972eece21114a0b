package services

import (
	"bytes"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dapoerattauhid/bisa-web-aja/config"
)

// CustomerDetails adalah identitas pembayar yang dikirim ke Midtrans
type CustomerDetails struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// ItemDetail adalah satu baris item pada transaksi Snap
type ItemDetail struct {
	ID       string  `json:"id"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Name     string  `json:"name"`
}

// SnapChargeRequest adalah payload pembuatan transaksi Snap
type SnapChargeRequest struct {
	OrderID         string
	GrossAmount     float64
	CustomerDetails *CustomerDetails
	ItemDetails     []ItemDetail
}

// SnapResponse adalah respons sukses dari Snap API
type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// VANumber adalah nomor virtual account yang di-assign bank
type VANumber struct {
	Bank     string `json:"bank"`
	VANumber string `json:"va_number"`
}

// TransactionStatus adalah respons status lookup dari Core API
type TransactionStatus struct {
	SnapToken         string     `json:"snap_token"`
	RedirectURL       string     `json:"redirect_url"`
	OrderID           string     `json:"order_id"`
	TransactionStatus string     `json:"transaction_status"`
	StatusCode        string     `json:"status_code"`
	GrossAmount       string     `json:"gross_amount"`
	PaymentType       string     `json:"payment_type"`
	VANumbers         []VANumber `json:"va_numbers"`
}

// SnapGateway adalah kontrak ke payment gateway; dipisah sebagai interface
// supaya orchestrator bisa dites dengan gateway palsu.
type SnapGateway interface {
	CreateSnapTransaction(req *SnapChargeRequest) (*SnapResponse, error)
	GetTransactionStatus(orderID string) (*TransactionStatus, error)
}

// MidtransService handles Midtrans API interactions
type MidtransService struct {
	config     *config.MidtransConfig
	httpClient *http.Client
}

// NewMidtransService creates a new instance of MidtransService
func NewMidtransService(cfg *config.MidtransConfig) *MidtransService {
	return &MidtransService{
		config: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateSnapTransaction membuat transaksi baru di Snap API.
// Preferensi channel mengikuti kebutuhan kantin: bank transfer (permata)
// dengan custom expiry 7 hari supaya virtual account bisa dipakai ulang.
func (ms *MidtransService) CreateSnapTransaction(req *SnapChargeRequest) (*SnapResponse, error) {
	url := fmt.Sprintf("%s/snap/v1/transactions", ms.config.SnapBase())

	customer := req.CustomerDetails
	if customer == nil {
		customer = &CustomerDetails{
			FirstName: "Customer",
			Email:     "customer@example.com",
			Phone:     "08123456789",
		}
	}

	items := req.ItemDetails
	if items == nil {
		items = []ItemDetail{}
	}

	payload := map[string]interface{}{
		"transaction_details": map[string]interface{}{
			"order_id":     req.OrderID,
			"gross_amount": req.GrossAmount,
		},
		"customer_details": customer,
		"item_details":     items,
		"credit_card": map[string]interface{}{
			"secure": true,
		},
		"payment_type": "bank_transfer",
		"bank_transfer": map[string]interface{}{
			"bank": "permata",
		},
		"custom_expiry": map[string]interface{}{
			"expiry_duration": 7,
			"unit":            "day",
		},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %v", err)
	}

	body, err := ms.doRequest("POST", url, jsonData)
	if err != nil {
		return nil, err
	}

	var snapResp SnapResponse
	if err := json.Unmarshal(body, &snapResp); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %v", err)
	}

	return &snapResp, nil
}

// GetTransactionStatus mengambil status transaksi yang sudah ada dari Core API
func (ms *MidtransService) GetTransactionStatus(orderID string) (*TransactionStatus, error) {
	url := fmt.Sprintf("%s/v2/%s/status", ms.config.APIBase(), orderID)

	body, err := ms.doRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	var statusResp TransactionStatus
	if err := json.Unmarshal(body, &statusResp); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %v", err)
	}

	return &statusResp, nil
}

// doRequest mengirim satu request ke Midtrans dengan basic auth dari server key
func (ms *MidtransService) doRequest(method, url string, jsonData []byte) ([]byte, error) {
	var reqBody io.Reader
	if jsonData != nil {
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}

	// Basic auth: base64(serverKey + ":")
	authString := "Basic " + base64.StdEncoding.EncodeToString([]byte(ms.config.ServerKey+":"))

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", authString)
	if jsonData != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := ms.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &GatewayError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	return body, nil
}

// ValidateSignature validates Midtrans webhook signature
func (ms *MidtransService) ValidateSignature(orderID, statusCode, grossAmount, signature string) bool {
	signatureString := fmt.Sprintf("%s%s%s%s", orderID, statusCode, grossAmount, ms.config.ServerKey)
	hash := sha512.New()
	hash.Write([]byte(signatureString))
	calculatedSignature := hex.EncodeToString(hash.Sum(nil))
	return calculatedSignature == signature
}

// MapTransactionStatus maps Midtrans transaction status to internal payment status
func MapTransactionStatus(status string) string {
	switch status {
	case "capture", "settlement":
		return PaymentStatusPaid
	case "pending", "authorize":
		return PaymentStatusPending
	case "deny", "cancel", "expire", "failure":
		return PaymentStatusFailed
	default:
		return "unknown"
	}
}
