package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/events"
	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/services"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

type PaymentController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
	Midtrans *services.MidtransService
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService, midtrans *services.MidtransService) *PaymentController {
	return &PaymentController{DB: db, Payments: payments, Midtrans: midtrans}
}

// CreatePayment -> POST /payments
// Kontrak lama untuk frontend checkout: body dan response JSON mentah
// (bukan envelope), semua error jadi 500 {"error": ...}.
func (pc *PaymentController) CreatePayment(c *gin.Context) {
	var req services.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := pc.Payments.CreatePayment(&req)
	if err != nil {
		utils.ErrorLogger.Printf("Payment creation failed for %s: %v", req.OrderID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// PayOrder -> POST /orders/:order_id/pay (parent)
func (pc *PaymentController) PayOrder(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))
	userID := c.GetUint("user_id")

	var order models.Order
	if err := pc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	if order.UserID != userID {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your order"))
		return
	}

	result, err := pc.Payments.PayOrder(order.ID, pc.customerFor(userID))
	if err != nil {
		pc.respondPaymentError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment session created", result)
}

// PayBatch -> POST /orders/pay-batch (parent), satu sesi pembayaran untuk
// beberapa order sekaligus
func (pc *PaymentController) PayBatch(c *gin.Context) {
	userID := c.GetUint("user_id")

	var body struct {
		OrderIDs []uint `json:"order_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	// Semua anggota batch harus milik user yang login
	var count int64
	pc.DB.Model(&models.Order{}).
		Where("id IN ? AND user_id = ?", body.OrderIDs, userID).
		Count(&count)
	if count != int64(len(body.OrderIDs)) {
		utils.RespondError(c, http.StatusForbidden, errors.New("one or more orders are not yours"))
		return
	}

	result, err := pc.Payments.PayBatch(body.OrderIDs, pc.customerFor(userID))
	if err != nil {
		pc.respondPaymentError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Batch payment session created", result)
}

// HandlePaymentCallback -> POST /payments/callback (webhook Midtrans).
// Signature = sha512(order_id + status_code + gross_amount + server_key).
func (pc *PaymentController) HandlePaymentCallback(c *gin.Context) {
	var notif struct {
		OrderID           string `json:"order_id"`
		StatusCode        string `json:"status_code"`
		GrossAmount       string `json:"gross_amount"`
		SignatureKey      string `json:"signature_key"`
		TransactionStatus string `json:"transaction_status"`
		PaymentType       string `json:"payment_type"`
		FraudStatus       string `json:"fraud_status"`
	}
	if err := c.ShouldBindJSON(&notif); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if !pc.Midtrans.ValidateSignature(notif.OrderID, notif.StatusCode, notif.GrossAmount, notif.SignatureKey) {
		utils.ErrorLogger.Printf("Invalid webhook signature for order %s", notif.OrderID)
		utils.RespondError(c, http.StatusForbidden, errors.New("invalid signature"))
		return
	}

	orders, err := pc.Payments.ApplyGatewayStatus(notif.OrderID, notif.TransactionStatus)
	if err != nil {
		pc.respondPaymentError(c, err)
		return
	}

	events.BroadcastPaymentStatus(notif.OrderID, services.MapTransactionStatus(notif.TransactionStatus), orders)

	utils.RespondJSON(c, http.StatusOK, "Callback processed", gin.H{
		"order_id":       notif.OrderID,
		"payment_status": services.MapTransactionStatus(notif.TransactionStatus),
		"orders_updated": len(orders),
	})
}

// CheckOrderPaymentStatus -> GET /orders/:order_id/payment-status
// Menanyakan ulang status ke gateway (dipakai tombol "cek status" di UI)
func (pc *PaymentController) CheckOrderPaymentStatus(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := pc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	role := c.GetString("role")
	if role != models.RoleAdmin && role != models.RoleCashier && order.UserID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your order"))
		return
	}

	if !order.HasGatewayID() {
		utils.RespondJSON(c, http.StatusOK, "Payment status", gin.H{
			"order_id":       order.ID,
			"payment_status": order.PaymentStatus,
		})
		return
	}

	status, err := pc.Payments.CheckPaymentStatus(*order.MidtransOrderID)
	if err != nil {
		pc.respondPaymentError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment status", gin.H{
		"order_id":          order.ID,
		"midtrans_order_id": *order.MidtransOrderID,
		"payment_status":    status,
	})
}

// GetPayments (admin/cashier) dengan filter status dan transaction_id
func (pc *PaymentController) GetPayments(c *gin.Context) {
	query := pc.DB.Preload("Order").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if txID := c.Query("transaction_id"); txID != "" {
		query = query.Where("transaction_id = ?", txID)
	}

	var payments []models.Payment
	if err := query.Find(&payments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}

// GetPayment -> detail satu payment (admin/cashier)
func (pc *PaymentController) GetPayment(c *gin.Context) {
	paymentID, _ := strconv.Atoi(c.Param("payment_id"))

	var payment models.Payment
	if err := pc.DB.Preload("Order").First(&payment, paymentID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment detail", payment)
}

// CreateCashPayment -> POST /cashier/payments (cashier) untuk pelunasan tunai
func (pc *PaymentController) CreateCashPayment(c *gin.Context) {
	cashierID := c.GetUint("user_id")

	var body struct {
		OrderID        uint    `json:"order_id" binding:"required"`
		ReceivedAmount float64 `json:"received_amount" binding:"required,gt=0"`
		Notes          string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := pc.DB.First(&order, body.OrderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	if order.PaymentStatus == services.PaymentStatusPaid {
		utils.RespondError(c, http.StatusBadRequest, errors.New("order is already paid"))
		return
	}
	if body.ReceivedAmount < order.TotalAmount {
		utils.RespondError(c, http.StatusBadRequest, errors.New("received amount is less than order total"))
		return
	}

	cash := models.CashPayment{
		OrderID:        order.ID,
		CashierID:      cashierID,
		Amount:         order.TotalAmount,
		ReceivedAmount: body.ReceivedAmount,
		ChangeAmount:   body.ReceivedAmount - order.TotalAmount,
		Notes:          body.Notes,
	}

	err := pc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&cash).Error; err != nil {
			return err
		}

		raw, _ := json.Marshal(gin.H{"payment_type": "cash", "cashier_id": cashierID})
		payment := models.Payment{
			OrderID:          order.ID,
			Amount:           order.TotalAmount,
			Status:           services.PaymentStatusPaid,
			PaymentMethod:    "cash",
			MidtransResponse: string(raw),
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		order.PaymentStatus = services.PaymentStatusPaid
		order.PaymentMethod = "cash"
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Cash payment for order %s: received %s, change %s",
		order.OrderNumber,
		utils.FormatCurrencyIDR(cash.ReceivedAmount),
		utils.FormatCurrencyIDR(cash.ChangeAmount))

	events.BroadcastPaymentStatus(order.OrderNumber, services.PaymentStatusPaid, []models.Order{order})

	utils.RespondJSON(c, http.StatusCreated, "Cash payment recorded", cash)
}

// customerFor membangun customer details gateway dari profil user
func (pc *PaymentController) customerFor(userID uint) *services.CustomerDetails {
	var user models.User
	if err := pc.DB.First(&user, userID).Error; err != nil {
		return &services.CustomerDetails{FirstName: "Customer"}
	}
	return &services.CustomerDetails{
		FirstName: user.FullName,
		Email:     user.Email,
		Phone:     user.Phone,
	}
}

// respondPaymentError memetakan taksonomi error payment ke status HTTP
func (pc *PaymentController) respondPaymentError(c *gin.Context, err error) {
	var valErr *services.ValidationError
	if errors.As(err, &valErr) {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var cfgErr *services.ConfigError
	if errors.As(err, &cfgErr) {
		utils.ErrorLogger.Printf("Payment configuration error: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	var gwErr *services.GatewayError
	if errors.As(err, &gwErr) {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	var trErr *services.TransportError
	if errors.As(err, &trErr) {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}

	utils.RespondError(c, http.StatusInternalServerError, err)
}
