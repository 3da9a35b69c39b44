package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/apperr"
	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/scopes"
	"food-marketplace-api/statemachine"
)

// operatesRestaurant reports whether the caller runs this restaurant: either
// as its owning applicant or through a restaurant-scoped admin assignment.
// A city scope alone is not operator authority.
func operatesRestaurant(s scopes.EffectiveScopes, restaurantID, callerID uint) bool {
	if s.CanAccessRestaurant(restaurantID) {
		return true
	}
	var restaurant models.Restaurant
	err := config.DB.Where("id = ? AND owner_id = ?", restaurantID, callerID).First(&restaurant).Error
	return err == nil
}

// GetRestaurantOrders returns the order queue for a restaurant the caller
// operates, with a per-status summary.
func GetRestaurantOrders(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	s := middleware.GetScopes(c)

	var restaurant models.Restaurant
	if id := c.Query("restaurant_id"); id != "" {
		if err := config.DB.First(&restaurant, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
			return
		}
	} else if err := config.DB.Where("owner_id = ?", callerID).First(&restaurant).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No restaurant found for your account"})
		return
	}

	if !operatesRestaurant(s, restaurant.ID, callerID) {
		respondError(c, apperr.Forbidden("restaurant", restaurant.ID))
		return
	}

	var orders []models.Order
	query := config.DB.Preload("Items").Where("restaurant_id = ?", restaurant.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	query.Order("created_at desc").Find(&orders)

	summary := map[string]int{}
	for _, o := range orders {
		summary[string(o.Status)]++
	}

	c.JSON(http.StatusOK, gin.H{
		"restaurant":    restaurant.Name,
		"order_summary": summary,
		"count":         len(orders),
		"orders":        orders,
	})
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// UpdateOrderStatus handles the kitchen-side transitions: confirm, start
// preparing, mark ready, or cancel. The state machine rejects anything else.
func UpdateOrderStatus(c *gin.Context) {
	callerID := middleware.GetUserID(c)
	s := middleware.GetScopes(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !operatesRestaurant(s, order.RestaurantID, callerID) {
		respondError(c, apperr.Forbidden("order", order.ID))
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	prevStatus := order.Status
	if err := statemachine.Apply(config.DB, &order, req.Status,
		statemachine.ActorRestaurant, callerID, req.Note, nil); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":         "Order status updated",
		"order_id":        order.ID,
		"previous_status": prevStatus,
		"current_status":  order.Status,
	})
}
