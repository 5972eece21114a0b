package services

import (
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

// PaymentMetrics menyimpan metrik terkait pembayaran
type PaymentMetrics struct {
	TotalChecks     int64
	PaidPayments    int64
	FailedPayments  int64
	PendingPayments int64
}

// PaymentMonitor memeriksa ulang status transaksi gateway yang masih pending.
// Webhook adalah jalur utama; monitor ini jaring pengaman kalau callback
// tidak pernah sampai.
type PaymentMonitor struct {
	db       *gorm.DB
	payments *PaymentService
	metrics  PaymentMetrics
	interval time.Duration
	stop     chan struct{}
	mutex    sync.Mutex
}

// NewPaymentMonitor membuat instance baru PaymentMonitor
func NewPaymentMonitor(db *gorm.DB, payments *PaymentService) *PaymentMonitor {
	return &PaymentMonitor{
		db:       db,
		payments: payments,
		interval: 5 * time.Minute,
		stop:     make(chan struct{}),
	}
}

// Start memulai goroutine monitoring
func (pm *PaymentMonitor) Start() {
	go pm.run()
	utils.InfoLogger.Println("Payment monitor started")
}

// Stop menghentikan monitoring
func (pm *PaymentMonitor) Stop() {
	close(pm.stop)
}

func (pm *PaymentMonitor) run() {
	ticker := time.NewTicker(pm.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pm.checkPendingPayments()
		case <-pm.stop:
			return
		}
	}
}

// checkPendingPayments menanyakan status setiap transaksi pending ke gateway
func (pm *PaymentMonitor) checkPendingPayments() {
	var gatewayIDs []string
	err := pm.db.Model(&models.Payment{}).
		Where("status = ?", PaymentStatusPending).
		Distinct().
		Pluck("transaction_id", &gatewayIDs).Error
	if err != nil {
		utils.ErrorLogger.Printf("Error listing pending payments: %v", err)
		return
	}

	if len(gatewayIDs) == 0 {
		return
	}

	utils.InfoLogger.Printf("Checking %d pending gateway transaction(s)", len(gatewayIDs))

	for _, gatewayID := range gatewayIDs {
		if gatewayID == "" {
			continue
		}

		status, err := pm.payments.CheckPaymentStatus(gatewayID)
		if err != nil {
			utils.ErrorLogger.Printf("Error checking transaction status for %s: %v", gatewayID, err)
			continue
		}

		pm.updateMetrics(status)
	}
}

func (pm *PaymentMonitor) updateMetrics(status string) {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.metrics.TotalChecks++

	switch status {
	case PaymentStatusPaid:
		pm.metrics.PaidPayments++
	case PaymentStatusFailed:
		pm.metrics.FailedPayments++
	case PaymentStatusPending:
		pm.metrics.PendingPayments++
	}
}

// GetMetrics mengembalikan metrik pembayaran saat ini
func (pm *PaymentMonitor) GetMetrics() PaymentMetrics {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	return pm.metrics
}
