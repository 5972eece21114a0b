package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/config"
	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

// Status pembayaran
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

// Status order
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusDelivered = "delivered"
)

// Prefix ID transaksi gateway
const (
	GatewayPrefixOrder = "ORDER"
	GatewayPrefixBatch = "BATCH"
)

// Pesan Midtrans ketika order id sudah pernah dipakai. Satu-satunya jalur
// recovery: sesi pembayaran lama diambil ulang lewat status lookup.
const conflictMessage = "Order ID has been utilized previously"

// PaymentService mengatur pembuatan transaksi pembayaran terhadap gateway
// dan penulisan ID transaksi kembali ke order.
type PaymentService struct {
	db      *gorm.DB
	gateway SnapGateway
	cfg     *config.MidtransConfig
}

// NewPaymentService membuat instance baru PaymentService
func NewPaymentService(db *gorm.DB, gateway SnapGateway, cfg *config.MidtransConfig) *PaymentService {
	return &PaymentService{
		db:      db,
		gateway: gateway,
		cfg:     cfg,
	}
}

// PaymentRequest adalah permintaan pembuatan pembayaran
type PaymentRequest struct {
	OrderID         string           `json:"orderId"`
	Amount          float64          `json:"amount"`
	CustomerDetails *CustomerDetails `json:"customerDetails"`
	ItemDetails     []ItemDetail     `json:"itemDetails"`
	BatchOrderIDs   []uint           `json:"batchOrderIds"`

	// true jika OrderID sudah terikat ke order sebelum call ini (jalur retry)
	orderAssigned bool
}

// PaymentResult adalah hasil pembuatan (atau pemulihan) sesi pembayaran
type PaymentResult struct {
	SnapToken      string     `json:"snap_token"`
	RedirectURL    string     `json:"redirect_url"`
	VirtualAccount []VANumber `json:"virtual_account"`
	PaymentStatus  string     `json:"payment_status"`
	Message        string     `json:"message,omitempty"`
}

// CreatePayment memproses request pembayaran sesuai kontrak endpoint:
// validasi, charge ke gateway (dengan recovery sesi lama), lalu untuk batch
// menuliskan ID gateway ke semua order anggota dalam satu transaksi.
func (s *PaymentService) CreatePayment(req *PaymentRequest) (*PaymentResult, error) {
	result, err := s.charge(req)
	if err != nil {
		return nil, err
	}

	if len(req.BatchOrderIDs) > 0 {
		if err := s.assignGatewayID(req.BatchOrderIDs, req.OrderID, req.Amount, result); err != nil {
			return nil, err
		}
		utils.InfoLogger.Printf("Updated %d orders with batch payment ID: %s", len(req.BatchOrderIDs), req.OrderID)
	}

	return result, nil
}

// PayOrder membuat (atau melanjutkan) pembayaran untuk satu order.
// ID gateway yang sudah pernah di-assign dipakai ulang supaya virtual
// account lama tetap berlaku; jika belum ada, dibuat ID baru.
func (s *PaymentService) PayOrder(orderID uint, customer *CustomerDetails) (*PaymentResult, error) {
	var order models.Order
	if err := s.db.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		return nil, &ValidationError{Field: "orderId", Message: "order not found"}
	}

	if order.PaymentStatus == PaymentStatusPaid {
		return nil, &ValidationError{Field: "orderId", Message: "order is already paid"}
	}

	gatewayID := utils.GatewayOrderID(GatewayPrefixOrder)
	assigned := order.HasGatewayID()
	if assigned {
		gatewayID = *order.MidtransOrderID
	}

	items := make([]ItemDetail, 0, len(order.OrderItems))
	for _, item := range order.OrderItems {
		items = append(items, ItemDetail{
			ID:       fmt.Sprintf("%d", item.ID),
			Price:    item.Price,
			Quantity: item.Quantity,
			Name:     item.Name,
		})
	}

	req := &PaymentRequest{
		OrderID:         gatewayID,
		Amount:          order.TotalAmount,
		CustomerDetails: customer,
		ItemDetails:     items,
		orderAssigned:   assigned,
	}

	result, err := s.charge(req)
	if err != nil {
		return nil, err
	}

	if err := s.assignGatewayID([]uint{order.ID}, gatewayID, order.TotalAmount, result); err != nil {
		return nil, err
	}

	return result, nil
}

// PayBatch membuat satu sesi pembayaran gabungan untuk beberapa order.
// Semua order anggota menerima ID gateway yang sama; status pembayaran
// mereka selanjutnya mengikuti satu transaksi eksternal itu.
func (s *PaymentService) PayBatch(orderIDs []uint, customer *CustomerDetails) (*PaymentResult, error) {
	if len(orderIDs) == 0 {
		return nil, &ValidationError{Field: "batchOrderIds", Message: "no orders selected"}
	}

	var orders []models.Order
	if err := s.db.Preload("OrderItems").Where("id IN ?", orderIDs).Find(&orders).Error; err != nil {
		return nil, &PersistenceError{Err: err}
	}
	if len(orders) != len(orderIDs) {
		return nil, &ValidationError{Field: "batchOrderIds", Message: "one or more orders not found"}
	}

	// Pakai ulang ID batch yang sama jika seluruh anggota sudah memegangnya
	// (retry batch); selain itu buat ID baru.
	gatewayID := utils.GatewayOrderID(GatewayPrefixBatch)
	assigned := sharedGatewayID(orders)
	if assigned != "" {
		gatewayID = assigned
	}

	var total float64
	items := make([]ItemDetail, 0)
	for _, order := range orders {
		if order.PaymentStatus == PaymentStatusPaid {
			return nil, &ValidationError{Field: "batchOrderIds",
				Message: fmt.Sprintf("order %s is already paid", order.OrderNumber)}
		}
		total += order.TotalAmount
		for _, item := range order.OrderItems {
			items = append(items, ItemDetail{
				ID:       fmt.Sprintf("%d-%d", order.ID, item.ID),
				Price:    item.Price,
				Quantity: item.Quantity,
				Name:     fmt.Sprintf("%s (%s)", item.Name, order.ChildName),
			})
		}
	}

	req := &PaymentRequest{
		OrderID:         gatewayID,
		Amount:          total,
		CustomerDetails: customer,
		ItemDetails:     items,
		orderAssigned:   assigned != "",
	}

	result, err := s.charge(req)
	if err != nil {
		return nil, err
	}

	if err := s.assignGatewayID(orderIDs, gatewayID, total, result); err != nil {
		return nil, err
	}

	return result, nil
}

// charge memvalidasi request lalu membuat transaksi di gateway. Tidak ada
// penulisan database di sini; persistensi terjadi setelah gateway
// mengkonfirmasi sukses atau konflik yang bisa dipulihkan.
func (s *PaymentService) charge(req *PaymentRequest) (*PaymentResult, error) {
	if req.OrderID == "" {
		return nil, &ValidationError{Field: "orderId", Message: "Order ID is required"}
	}
	if req.Amount <= 0 {
		return nil, &ValidationError{Field: "amount", Message: "Valid amount is required"}
	}
	if s.cfg == nil || s.cfg.ServerKey == "" {
		return nil, &ConfigError{Message: "Midtrans server key not configured"}
	}

	utils.InfoLogger.Printf("Creating payment for order: %s (amount %.2f)", req.OrderID, req.Amount)

	snapResp, err := s.gateway.CreateSnapTransaction(&SnapChargeRequest{
		OrderID:         req.OrderID,
		GrossAmount:     req.Amount,
		CustomerDetails: req.CustomerDetails,
		ItemDetails:     req.ItemDetails,
	})
	if err != nil {
		var gwErr *GatewayError
		if errors.As(err, &gwErr) && strings.Contains(gwErr.Body, conflictMessage) {
			utils.InfoLogger.Printf("Order ID %s already exists, trying to get existing transaction", req.OrderID)
			return s.recoverExistingSession(req.OrderID, err)
		}

		// ID yang sudah pernah terikat berarti sesi gateway kemungkinan sudah
		// ada; saat create tidak bisa dihubungi, coba ambil sesi lama.
		var trErr *TransportError
		if errors.As(err, &trErr) && req.orderAssigned {
			utils.InfoLogger.Printf("Create endpoint unreachable for assigned order ID %s, falling back to status lookup", req.OrderID)
			return s.recoverExistingSession(req.OrderID, err)
		}

		utils.ErrorLogger.Printf("Midtrans error for order %s: %v", req.OrderID, err)
		return nil, err
	}

	return &PaymentResult{
		SnapToken:     snapResp.Token,
		RedirectURL:   snapResp.RedirectURL,
		PaymentStatus: PaymentStatusPending,
	}, nil
}

// recoverExistingSession mengambil kembali sesi pembayaran yang sudah ada
// lewat status lookup. Kalau lookup ikut gagal, error create asli yang
// dikembalikan ke caller.
func (s *PaymentService) recoverExistingSession(orderID string, createErr error) (*PaymentResult, error) {
	status, err := s.gateway.GetTransactionStatus(orderID)
	if err != nil {
		utils.ErrorLogger.Printf("Status lookup failed for order %s: %v", orderID, err)
		return nil, createErr
	}

	utils.InfoLogger.Printf("Recovered existing transaction for order %s (status %s)", orderID, status.TransactionStatus)

	return &PaymentResult{
		SnapToken:      status.SnapToken,
		RedirectURL:    status.RedirectURL,
		VirtualAccount: status.VANumbers,
		PaymentStatus:  status.TransactionStatus,
		Message:        "Using existing payment session",
	}, nil
}

// assignGatewayID menuliskan ID gateway ke setiap order anggota dan mencatat
// baris payment, dalam SATU transaksi database: semua anggota ter-update
// atau tidak sama sekali.
func (s *PaymentService) assignGatewayID(orderIDs []uint, gatewayID string, amount float64, result *PaymentResult) error {
	now := time.Now()
	rawResult, _ := json.Marshal(result)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, id := range orderIDs {
			res := tx.Model(&models.Order{}).Where("id = ?", id).
				Updates(map[string]interface{}{
					"midtrans_order_id": gatewayID,
					"payment_method":    "midtrans",
					"updated_at":        now,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("order %d not found", id)
			}

			payment := models.Payment{
				OrderID:          id,
				Amount:           amount,
				Status:           PaymentStatusPending,
				PaymentMethod:    "midtrans",
				TransactionID:    gatewayID,
				MidtransResponse: string(rawResult),
			}
			if err := tx.Create(&payment).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.ErrorLogger.Printf("Failed to assign gateway ID %s: %v", gatewayID, err)
		return &PersistenceError{Err: err}
	}

	return nil
}

// ApplyGatewayStatus menerapkan status transaksi dari gateway ke semua order
// dan payment yang memegang ID tersebut (untuk batch, seluruh anggota ikut
// berubah bersama). Mengembalikan order yang ter-update untuk broadcast.
func (s *PaymentService) ApplyGatewayStatus(gatewayID, transactionStatus string) ([]models.Order, error) {
	status := MapTransactionStatus(transactionStatus)
	if status == "unknown" {
		return nil, &ValidationError{Field: "transaction_status",
			Message: fmt.Sprintf("unrecognized status %q", transactionStatus)}
	}

	var orders []models.Order
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("midtrans_order_id = ?", gatewayID).Find(&orders).Error; err != nil {
			return err
		}
		if len(orders) == 0 {
			return gorm.ErrRecordNotFound
		}

		now := time.Now()
		if err := tx.Model(&models.Order{}).Where("midtrans_order_id = ?", gatewayID).
			Updates(map[string]interface{}{
				"payment_status": status,
				"updated_at":     now,
			}).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Payment{}).Where("transaction_id = ?", gatewayID).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": now,
			}).Error; err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ValidationError{Field: "order_id", Message: "no order holds this transaction id"}
		}
		return nil, &PersistenceError{Err: err}
	}

	for i := range orders {
		orders[i].PaymentStatus = status
	}

	utils.InfoLogger.Printf("Applied gateway status %s (%s) to %d order(s) for %s",
		transactionStatus, status, len(orders), gatewayID)

	return orders, nil
}

// CheckPaymentStatus menanyakan status terkini ke gateway lalu menerapkannya
func (s *PaymentService) CheckPaymentStatus(gatewayID string) (string, error) {
	status, err := s.gateway.GetTransactionStatus(gatewayID)
	if err != nil {
		return "", err
	}

	if _, err := s.ApplyGatewayStatus(gatewayID, status.TransactionStatus); err != nil {
		return "", err
	}

	return MapTransactionStatus(status.TransactionStatus), nil
}

// sharedGatewayID mengembalikan ID gateway jika seluruh order memegang ID
// non-kosong yang sama, selain itu string kosong.
func sharedGatewayID(orders []models.Order) string {
	if len(orders) == 0 {
		return ""
	}
	first := orders[0]
	if !first.HasGatewayID() {
		return ""
	}
	for _, o := range orders[1:] {
		if !o.HasGatewayID() || *o.MidtransOrderID != *first.MidtransOrderID {
			return ""
		}
	}
	return *first.MidtransOrderID
}
