package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dapoerattauhid/bisa-web-aja/events"
	"github.com/dapoerattauhid/bisa-web-aja/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Sesuaikan dengan kebutuhan keamanan
	},
}

// DashboardWSHandler -> endpoint WebSocket untuk dashboard admin/kasir;
// menerima siaran perubahan order dan status pembayaran.
func DashboardWSHandler(c *gin.Context) {
	roleInterface, exists := c.Get("role")
	if !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	role := roleInterface.(string)

	if role != models.RoleAdmin && role != models.RoleCashier {
		c.AbortWithStatus(http.StatusForbidden)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	events.RegisterClient(ws, role)

	// Koneksi dashboard hanya menerima siaran; baca sampai client putus
	for {
		_, _, err := ws.ReadMessage()
		if err != nil {
			break
		}
	}

	events.UnregisterClient(ws)
}
