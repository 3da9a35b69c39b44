package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/apperr"
	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/scopes"
	"food-marketplace-api/statemachine"
)

// ListOrdersScoped lists orders narrowed to the caller's effective scopes:
// global admins see everything, city staff their cities, restaurant admins
// their restaurants, self-scoped users their own orders. No qualifying scope
// yields an empty page, never all rows.
func ListOrdersScoped(c *gin.Context) {
	s := middleware.GetScopes(c)

	query := scopes.FilterOrders(config.DB.Model(&models.Order{}), s)

	if cityID := c.Query("city_id"); cityID != "" {
		query = query.Where("city_id = ?", cityID)
	}
	if restaurantID := c.Query("restaurant_id"); restaurantID != "" {
		query = query.Where("restaurant_id = ?", restaurantID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	query.Order("created_at desc").Limit(100).Find(&orders)

	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderStats aggregates orders inside the caller's scope.
func GetOrderStats(c *gin.Context) {
	s := middleware.GetScopes(c)
	if !s.IsGlobalAdmin && !s.HasRole(models.RoleCityAdmin, models.RoleRestaurantAdmin, models.RoleSupport) {
		respondError(c, apperr.Forbidden("order statistics", 0))
		return
	}

	var totalOrders int64
	scopes.FilterOrders(config.DB.Model(&models.Order{}), s).Count(&totalOrders)

	var revenue *float64
	scopes.FilterOrders(config.DB.Model(&models.Order{}), s).
		Where("status = ?", models.StatusDelivered).
		Select("SUM(total)").Scan(&revenue)

	var pending int64
	scopes.FilterOrders(config.DB.Model(&models.Order{}), s).
		Where("status NOT IN ?", []models.OrderStatus{
			models.StatusDelivered, models.StatusCancelled, models.StatusRefunded,
		}).Count(&pending)

	totalRevenue := 0.0
	if revenue != nil {
		totalRevenue = *revenue
	}

	c.JSON(http.StatusOK, gin.H{
		"total_orders":   totalOrders,
		"total_revenue":  totalRevenue,
		"pending_orders": pending,
	})
}

type AssignRiderRequest struct {
	RiderID uint `json:"rider_id" binding:"required"`
}

// AssignRider lets a dispatcher (or global admin) explicitly assign a
// courier to a ready order in their city.
func AssignRider(c *gin.Context) {
	s := middleware.GetScopes(c)
	callerID := middleware.GetUserID(c)

	if !s.IsGlobalAdmin && !s.HasRole(models.RoleDispatcher) {
		respondError(c, apperr.Forbidden("rider assignment", 0))
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !s.CanAccessOrder(&order) {
		respondError(c, apperr.Forbidden("order", order.ID))
		return
	}
	if order.OrderType != models.OrderDelivery {
		respondError(c, apperr.Invariant("pickup orders have no courier leg"))
		return
	}

	var req AssignRiderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var driver models.Driver
	if err := config.DB.Where("user_id = ?", req.RiderID).First(&driver).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Rider not found"})
		return
	}
	if !driver.IsAvailable {
		respondError(c, apperr.Invariant("courier is not available"))
		return
	}
	if order.DistanceKM != nil && !config.Pricing.CourierEligible(driver.VehicleType, *order.DistanceKM) {
		respondError(c, apperr.Invariant("delivery distance exceeds vehicle range"))
		return
	}

	if err := statemachine.Apply(config.DB, &order, models.StatusAssigned,
		statemachine.ActorDispatcher, callerID, "Rider assigned by dispatcher",
		map[string]interface{}{"rider_id": req.RiderID}); err != nil {
		respondError(c, err)
		return
	}

	config.DB.Create(&models.Delivery{OrderID: order.ID, DriverID: driver.ID})

	c.JSON(http.StatusOK, gin.H{
		"message":  "Rider assigned successfully",
		"order_id": order.ID,
		"rider_id": req.RiderID,
		"status":   order.Status,
	})
}

type RefundRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RefundOrder issues a refund — support staff within their city, or global
// admins. Only delivered or cancelled orders qualify; refunded is terminal.
func RefundOrder(c *gin.Context) {
	s := middleware.GetScopes(c)
	callerID := middleware.GetUserID(c)

	if !s.IsGlobalAdmin && !s.HasRole(models.RoleSupport) {
		respondError(c, apperr.Forbidden("refund", 0))
		return
	}

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if !s.CanAccessOrder(&order) {
		respondError(c, apperr.Forbidden("order", order.ID))
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := statemachine.Apply(config.DB, &order, models.StatusRefunded,
		statemachine.ActorSupport, callerID, "Refund: "+req.Reason, nil); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Refund processed successfully",
		"order_id": order.ID,
		"amount":   order.Total,
	})
}

// ListRestaurantsScoped lists restaurants narrowed to the caller's scopes,
// including unapproved applications (staff view).
func ListRestaurantsScoped(c *gin.Context) {
	s := middleware.GetScopes(c)

	query := scopes.FilterRestaurants(config.DB.Model(&models.Restaurant{}), s)
	if c.Query("pending") == "true" {
		query = query.Where("is_approved = ?", false)
	}

	var restaurants []models.Restaurant
	query.Order("created_at desc").Find(&restaurants)

	c.JSON(http.StatusOK, gin.H{"count": len(restaurants), "restaurants": restaurants})
}

// ApproveRestaurant approves a pending application — global admins anywhere,
// city admins within their cities.
func ApproveRestaurant(c *gin.Context) {
	s := middleware.GetScopes(c)
	callerID := middleware.GetUserID(c)

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	if !s.IsGlobalAdmin && !(s.HasRole(models.RoleCityAdmin) && s.CanAccessCity(restaurant.CityID)) {
		respondError(c, apperr.Forbidden("restaurant", restaurant.ID))
		return
	}
	if restaurant.IsApproved {
		respondError(c, apperr.Invariant("restaurant already approved"))
		return
	}

	now := time.Now().UTC()
	config.DB.Model(&restaurant).Updates(map[string]interface{}{
		"is_approved": true,
		"approved_by": callerID,
		"approved_at": now,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Restaurant approved", "restaurant_id": restaurant.ID})
}

// AdminListUsers returns all users — global admin only.
func AdminListUsers(c *gin.Context) {
	s := middleware.GetScopes(c)
	if !s.IsGlobalAdmin {
		respondError(c, apperr.Forbidden("users", 0))
		return
	}
	var users []models.User
	config.DB.Find(&users)
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}
