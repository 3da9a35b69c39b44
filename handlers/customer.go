package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/apperr"
	"food-marketplace-api/config"
	"food-marketplace-api/geo"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
)

type PlaceOrderRequest struct {
	RestaurantID    uint             `json:"restaurant_id" binding:"required"`
	OrderType       models.OrderType `json:"order_type" binding:"required,oneof=pickup delivery"`
	CustomerName    string           `json:"customer_name" binding:"required"`
	CustomerPhone   string           `json:"customer_phone" binding:"required"`
	CustomerAddress string           `json:"customer_address"`
	CustomerLat     *float64         `json:"customer_lat"`
	CustomerLon     *float64         `json:"customer_lon"`
	DeliveryNote    string           `json:"delivery_note"`
	Tip             float64          `json:"tip" binding:"gte=0"`
	Items           []struct {
		MenuItemID uint `json:"menu_item_id" binding:"required"`
		Quantity   int  `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1"`
}

// PlaceOrder creates a new order. Item names and unit prices are snapshotted
// so later menu edits never change what was billed; the order's city id is
// copied from the restaurant and fixed forever as the scoping anchor.
func PlaceOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var restaurant models.Restaurant
	if err := config.DB.First(&restaurant, req.RestaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	if !restaurant.IsApproved || !restaurant.IsActive {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Restaurant is not accepting orders"})
		return
	}

	var orderItems []models.OrderItem
	var subtotal float64
	for _, reqItem := range req.Items {
		var menuItem models.MenuItem
		if err := config.DB.First(&menuItem, reqItem.MenuItemID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item not found"})
			return
		}
		if menuItem.RestaurantID != req.RestaurantID {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item does not belong to this restaurant"})
			return
		}
		if !menuItem.IsAvailable {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Menu item '" + menuItem.Name + "' is not available"})
			return
		}
		lineTotal := menuItem.Price * float64(reqItem.Quantity)
		subtotal += lineTotal
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   reqItem.Quantity,
			UnitPrice:  menuItem.Price,
			LineTotal:  lineTotal,
		})
	}

	var distanceKM *float64
	if req.OrderType == models.OrderDelivery &&
		restaurant.Lat != nil && restaurant.Lon != nil &&
		req.CustomerLat != nil && req.CustomerLon != nil {
		d := geo.HaversineKM(*restaurant.Lat, *restaurant.Lon, *req.CustomerLat, *req.CustomerLon)
		distanceKM = &d
	}

	quote := config.Pricing.Quote(subtotal, distanceKM, req.OrderType)

	order := models.Order{
		CityID:          restaurant.CityID,
		CustomerID:      customerID,
		RestaurantID:    req.RestaurantID,
		OrderType:       req.OrderType,
		Status:          models.StatusCreated,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		CustomerLat:     req.CustomerLat,
		CustomerLon:     req.CustomerLon,
		DeliveryNote:    req.DeliveryNote,
		Subtotal:        quote.Subtotal,
		ServiceFee:      quote.ServiceFee,
		DeliveryFee:     quote.DeliveryFee,
		Tip:             req.Tip,
		Total:           quote.Total + req.Tip,
		DistanceKM:      distanceKM,
		Items:           orderItems,
	}
	if err := config.DB.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	config.DB.Create(&models.OrderStatusHistory{
		OrderID:   order.ID,
		ToStatus:  models.StatusCreated,
		ChangedBy: customerID,
		Note:      "Order placed by customer",
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order_id": order.ID,
		"status":   order.Status,
		"quote": gin.H{
			"subtotal":     order.Subtotal,
			"service_fee":  order.ServiceFee,
			"delivery_fee": order.DeliveryFee,
			"tip":          order.Tip,
			"total":        order.Total,
		},
	})
}

// GetMyOrders lists the caller's own orders.
func GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	var orders []models.Order
	config.DB.Preload("Items").Preload("Restaurant").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&orders)
	c.JSON(http.StatusOK, gin.H{"count": len(orders), "orders": orders})
}

// GetOrderDetail returns one order, gated by the composite order access
// check — a self-scoped customer never sees another customer's order.
func GetOrderDetail(c *gin.Context) {
	var order models.Order
	if err := config.DB.Preload("Items").Preload("Restaurant").Preload("StatusHistory").
		First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	s := middleware.GetScopes(c)
	if !s.CanAccessOrder(&order) {
		respondError(c, apperr.Forbidden("order", order.ID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels the caller's own order; customers may only back out
// of created or confirmed orders.
func CancelOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var order models.Order
	if err := config.DB.First(&order, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	s := middleware.GetScopes(c)
	if order.CustomerID != customerID || !s.CanAccessOrder(&order) {
		respondError(c, apperr.Forbidden("order", order.ID))
		return
	}

	if err := statemachine.Apply(config.DB, &order, models.StatusCancelled,
		statemachine.ActorCustomer, customerID, "Order cancelled by customer", nil); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": order.ID})
}
