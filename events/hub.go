package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dapoerattauhid/bisa-web-aja/models"
)

// Event types
const (
	EventOrderUpdate     = "order_update"
	EventPaymentUpdate   = "payment_update"
	EventPaymentPending  = "payment_pending"
	EventPaymentPaid     = "payment_paid"
	EventPaymentFailed   = "payment_failed"
	EventDashboardUpdate = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung koneksi dashboard (admin, kasir) dan menyiarkan perubahan
// status order/pembayaran.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient menambahkan connection ke set dengan role
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient melepaskan connection
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastOrderUpdate menyiarkan perubahan order ke semua client
func BroadcastOrderUpdate(order models.Order) {
	broadcast(Message{
		Event: EventOrderUpdate,
		Data:  order,
	})
}

// BroadcastPaymentStatus menyiarkan perubahan status pembayaran untuk
// satu ID transaksi gateway beserta order yang terdampak.
func BroadcastPaymentStatus(gatewayID, status string, orders []models.Order) {
	event := EventPaymentUpdate
	switch status {
	case "paid":
		event = EventPaymentPaid
	case "pending":
		event = EventPaymentPending
	case "failed":
		event = EventPaymentFailed
	}

	broadcast(Message{
		Event: event,
		Data: map[string]interface{}{
			"midtrans_order_id": gatewayID,
			"payment_status":    status,
			"orders":            orders,
		},
	})
}

// BroadcastDashboardUpdate menyiarkan data dashboard terbaru
func BroadcastDashboardUpdate(data interface{}) {
	broadcast(Message{
		Event: EventDashboardUpdate,
		Data:  data,
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	for conn := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending message to client: %v", err)
			continue
		}
	}
}
