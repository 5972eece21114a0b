package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GatewayOrderID menghasilkan ID transaksi gateway baru dengan format
// PREFIX-<unix millis>-<suffix alfanumerik>, mis. ORDER-1700000000000-9f3b2c1ad.
func GatewayOrderID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("%s-%d-%s", prefix, time.Now().UnixMilli(), suffix)
}

// OrderNumber menghasilkan nomor order unik untuk ditampilkan ke user,
// mis. ORD-20240115-4F3B2C.
func OrderNumber(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:6])
	return fmt.Sprintf("ORD-%s-%s", t.Format("20060102"), suffix)
}
