package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapoerattauhid/bisa-web-aja/events"
	"github.com/dapoerattauhid/bisa-web-aja/models"
	"github.com/dapoerattauhid/bisa-web-aja/services"
	"github.com/dapoerattauhid/bisa-web-aja/utils"
)

type OrderController struct {
	DB *gorm.DB
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{DB: db}
}

// urutan status order; transisi hanya boleh maju
var orderStatusRank = map[string]int{
	services.OrderStatusPending:   0,
	services.OrderStatusConfirmed: 1,
	services.OrderStatusPreparing: 2,
	services.OrderStatusDelivered: 3,
}

// CreateOrder -> parent membuat order untuk satu anak dan satu tanggal
// pengiriman. Harga item diambil dari jadwal menu harian bila ada,
// selain itu dari katalog. Nama/harga di-snapshot ke order item.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID := c.GetUint("user_id")

	type ItemReq struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,gt=0"`
	}

	var body struct {
		ChildID      uint      `json:"child_id" binding:"required"`
		DeliveryDate string    `json:"delivery_date" binding:"required"`
		Notes        string    `json:"notes"`
		Items        []ItemReq `json:"items" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if _, err := time.Parse("2006-01-02", body.DeliveryDate); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid delivery_date, expected YYYY-MM-DD"))
		return
	}

	var child models.Child
	if err := oc.DB.Where("id = ? AND user_id = ?", body.ChildID, userID).First(&child).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("child not found"))
		return
	}

	now := time.Now()
	var order models.Order

	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		// Cek jadwal order untuk tanggal pengiriman
		var schedule models.OrderSchedule
		if err := tx.Where("date = ?", body.DeliveryDate).First(&schedule).Error; err == nil {
			if schedule.IsBlocked {
				return fmt.Errorf("orders are blocked for %s", body.DeliveryDate)
			}
			if schedule.MaxOrders > 0 && schedule.CurrentOrders >= schedule.MaxOrders {
				return fmt.Errorf("order quota for %s is full", body.DeliveryDate)
			}
			if schedule.CutoffTime != "" && body.DeliveryDate == now.Format("2006-01-02") &&
				now.Format("15:04:05") > schedule.CutoffTime {
				return fmt.Errorf("order cutoff for %s has passed", body.DeliveryDate)
			}

			schedule.CurrentOrders++
			if err := tx.Save(&schedule).Error; err != nil {
				return err
			}
		}

		order = models.Order{
			OrderNumber:   utils.OrderNumber(now),
			UserID:        userID,
			ChildName:     child.Name,
			ChildClass:    child.ClassName,
			DeliveryDate:  body.DeliveryDate,
			Notes:         body.Notes,
			Status:        services.OrderStatusPending,
			PaymentStatus: services.PaymentStatusPending,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		var total float64
		for _, item := range body.Items {
			var menuItem models.MenuItem
			if err := tx.First(&menuItem, item.MenuItemID).Error; err != nil {
				return fmt.Errorf("menu item %d not found", item.MenuItemID)
			}
			if !menuItem.IsAvailable {
				return fmt.Errorf("menu item %s is not available", menuItem.Name)
			}

			price := menuItem.Price

			// Harga dan kuota mengikuti jadwal harian bila item terjadwal
			var daily models.DailyMenu
			err := tx.Where("date = ? AND menu_item_id = ?", body.DeliveryDate, item.MenuItemID).
				First(&daily).Error
			if err == nil {
				if !daily.IsAvailable {
					return fmt.Errorf("menu item %s is not available on %s", menuItem.Name, body.DeliveryDate)
				}
				if daily.MaxQuantity > 0 && daily.CurrentQuantity+item.Quantity > daily.MaxQuantity {
					return fmt.Errorf("menu item %s is sold out on %s", menuItem.Name, body.DeliveryDate)
				}
				price = daily.Price
				daily.CurrentQuantity += item.Quantity
				if err := tx.Save(&daily).Error; err != nil {
					return err
				}
			}

			orderItem := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: menuItem.ID,
				Name:       menuItem.Name,
				ImageURL:   menuItem.ImageURL,
				Quantity:   item.Quantity,
				Price:      price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			total += float64(item.Quantity) * price
		}

		order.TotalAmount = total
		return tx.Save(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	oc.DB.Preload("OrderItems").First(&order, order.ID)

	utils.InfoLogger.Printf("Order %s created for %s (%s), total %s",
		order.OrderNumber, order.ChildName, order.ChildClass, utils.FormatCurrencyIDR(order.TotalAmount))

	events.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetMyOrders -> order milik user yang login, terbaru dulu, beserta
// jumlah per status untuk tab filter
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	var orders []models.Order
	if err := oc.DB.Preload("OrderItems").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	counts := gin.H{
		"all":       len(orders),
		"pending":   0,
		"confirmed": 0,
		"preparing": 0,
		"delivered": 0,
	}
	for _, o := range orders {
		if n, ok := counts[o.Status].(int); ok {
			counts[o.Status] = n + 1
		}
	}

	utils.RespondJSON(c, http.StatusOK, "My orders", gin.H{
		"orders": orders,
		"counts": counts,
	})
}

// GetOrderByID -> detail order; parent hanya boleh melihat order sendiri
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	role := c.GetString("role")
	if role != models.RoleAdmin && role != models.RoleCashier && order.UserID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, errors.New("not your order"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetAllOrders (admin/cashier) dengan filter status, payment_status,
// dan tanggal pengiriman
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("OrderItems").Order("created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}
	if date := c.Query("delivery_date"); date != "" {
		query = query.Where("delivery_date = ?", date)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// UpdateOrderStatus (admin/cashier) -> pending -> confirmed -> preparing
// -> delivered, hanya maju
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var req struct {
		Status string `json:"status" binding:"required,oneof=pending confirmed preparing delivered"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	if err := oc.DB.Preload("OrderItems").First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if orderStatusRank[req.Status] < orderStatusRank[order.Status] {
		utils.RespondError(c, http.StatusBadRequest,
			fmt.Errorf("cannot move order from %s back to %s", order.Status, req.Status))
		return
	}

	order.Status = req.Status
	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	events.BroadcastOrderUpdate(order)

	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}

// DeleteOrder (admin) -> hanya order yang belum dibayar
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	orderID, _ := strconv.Atoi(c.Param("order_id"))

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}

	if order.PaymentStatus == services.PaymentStatusPaid {
		utils.RespondError(c, http.StatusBadRequest, errors.New("cannot delete a paid order"))
		return
	}

	if err := oc.DB.Select("OrderItems").Delete(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": orderID})
}
