package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/apperr"
	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
)

func currentDriver(c *gin.Context) (*models.Driver, bool) {
	var driver models.Driver
	if err := config.DB.Where("user_id = ?", middleware.GetUserID(c)).First(&driver).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Courier profile not found"})
		return nil, false
	}
	return &driver, true
}

// GetAvailableDeliveries lists delivery orders that are ready and unassigned.
func GetAvailableDeliveries(c *gin.Context) {
	var orders []models.Order
	config.DB.Preload("Restaurant").
		Where("status = ? AND order_type = ? AND rider_id IS NULL", models.StatusReady, models.OrderDelivery).
		Order("created_at asc").
		Limit(20).
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// AcceptDelivery lets an available, eligible courier claim a ready order.
// The rider id lands in the same conditional write as the status, so two
// couriers racing for one order produce exactly one winner.
func AcceptDelivery(c *gin.Context) {
	riderID := middleware.GetUserID(c)
	driver, ok := currentDriver(c)
	if !ok {
		return
	}
	if !driver.IsAvailable {
		respondError(c, apperr.Invariant("courier is not available"))
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.OrderType != models.OrderDelivery {
		respondError(c, apperr.Invariant("pickup orders have no courier leg"))
		return
	}
	if order.DistanceKM != nil && !config.Pricing.CourierEligible(driver.VehicleType, *order.DistanceKM) {
		respondError(c, apperr.Invariant("delivery distance exceeds vehicle range"))
		return
	}

	if err := statemachine.Apply(config.DB, &order, models.StatusAssigned,
		statemachine.ActorCourier, riderID, "Courier accepted delivery",
		map[string]interface{}{"rider_id": riderID}); err != nil {
		respondError(c, err)
		return
	}

	delivery := models.Delivery{OrderID: order.ID, DriverID: driver.ID}
	config.DB.Create(&delivery)

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Delivery accepted",
		"delivery_id": delivery.ID,
		"order_id":    order.ID,
		"status":      order.Status,
	})
}

// PickupOrder marks the assigned courier's pickup at the restaurant.
func PickupOrder(c *gin.Context) {
	riderID := middleware.GetUserID(c)
	driver, ok := currentDriver(c)
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.RiderID == nil || *order.RiderID != riderID {
		respondError(c, apperr.Forbidden("order", order.ID))
		return
	}

	var delivery models.Delivery
	if err := config.DB.Where("order_id = ? AND driver_id = ?", order.ID, driver.ID).First(&delivery).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
		return
	}
	if delivery.PickupTime != nil {
		respondError(c, apperr.Invariant("already picked up"))
		return
	}

	if err := statemachine.Apply(config.DB, &order, models.StatusPickedUp,
		statemachine.ActorCourier, riderID, "Courier picked up the order", nil); err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	config.DB.Model(&delivery).Update("pickup_time", now)

	c.JSON(http.StatusOK, gin.H{
		"message":     "Marked as picked up",
		"order_id":    order.ID,
		"pickup_time": now,
	})
}

// DeliverOrder completes the delivery and computes the courier's earning
// from the order distance.
func DeliverOrder(c *gin.Context) {
	riderID := middleware.GetUserID(c)
	driver, ok := currentDriver(c)
	if !ok {
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.RiderID == nil || *order.RiderID != riderID {
		respondError(c, apperr.Forbidden("order", order.ID))
		return
	}

	var delivery models.Delivery
	if err := config.DB.Where("order_id = ? AND driver_id = ?", order.ID, driver.ID).First(&delivery).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Delivery not found"})
		return
	}
	if delivery.PickupTime == nil {
		respondError(c, apperr.Invariant("must mark as picked up first"))
		return
	}
	if delivery.DeliveryTime != nil {
		respondError(c, apperr.Invariant("already delivered"))
		return
	}

	if err := statemachine.Apply(config.DB, &order, models.StatusDelivered,
		statemachine.ActorCourier, riderID, "Order delivered to customer", nil); err != nil {
		respondError(c, err)
		return
	}

	now := time.Now().UTC()
	earning := config.Pricing.CourierEarning(order.DistanceKM)
	config.DB.Model(&delivery).Updates(map[string]interface{}{
		"delivery_time":  now,
		"driver_earning": earning,
	})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Delivery completed",
		"order_id": order.ID,
		"earning":  earning,
	})
}

// GetMyDeliveries returns the courier's active and completed legs.
func GetMyDeliveries(c *gin.Context) {
	driver, ok := currentDriver(c)
	if !ok {
		return
	}

	var deliveries []models.Delivery
	query := config.DB.Where("driver_id = ?", driver.ID)
	if c.Query("active") == "true" {
		query = query.Where("delivery_time IS NULL")
	}
	query.Order("created_at desc").Limit(50).Find(&deliveries)

	c.JSON(http.StatusOK, gin.H{"count": len(deliveries), "deliveries": deliveries})
}

// GetEarningsSummary aggregates completed deliveries, per-km earnings and
// the milestone bonus.
func GetEarningsSummary(c *gin.Context) {
	driver, ok := currentDriver(c)
	if !ok {
		return
	}

	type row struct {
		Count int
		Sum   *float64
	}
	var r row
	config.DB.Model(&models.Delivery{}).
		Select("COUNT(id) as count, SUM(driver_earning) as sum").
		Where("driver_id = ? AND delivery_time IS NOT NULL", driver.ID).
		Scan(&r)

	total := 0.0
	if r.Sum != nil {
		total = *r.Sum
	}
	bonus := config.Pricing.Bonus(r.Count)

	avg := 0.0
	if r.Count > 0 {
		avg = total / float64(r.Count)
	}

	c.JSON(http.StatusOK, gin.H{
		"total_deliveries":     r.Count,
		"total_earnings":       total,
		"milestone_bonus":      bonus,
		"average_per_delivery": avg,
	})
}

// SetAvailability toggles whether the courier accepts new deliveries.
func SetAvailability(c *gin.Context) {
	driver, ok := currentDriver(c)
	if !ok {
		return
	}
	var req struct {
		IsAvailable *bool `json:"is_available" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	config.DB.Model(driver).Update("is_available", *req.IsAvailable)
	c.JSON(http.StatusOK, gin.H{"message": "Availability updated", "is_available": *req.IsAvailable})
}
