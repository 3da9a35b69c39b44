package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/config"
	"food-marketplace-api/models"
	"food-marketplace-api/statemachine"
)

// ListRestaurants returns approved, active restaurants (public). Unapproved
// restaurants stay invisible to ordering customers.
func ListRestaurants(c *gin.Context) {
	var restaurants []models.Restaurant
	query := config.DB.Where("is_approved = ? AND is_active = ?", true, true)

	if cityID := c.Query("city_id"); cityID != "" {
		query = query.Where("city_id = ?", cityID)
	}
	if cuisine := c.Query("cuisine"); cuisine != "" {
		query = query.Where("cuisine LIKE ?", "%"+cuisine+"%")
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	query.Find(&restaurants)
	c.JSON(http.StatusOK, gin.H{
		"count":       len(restaurants),
		"restaurants": restaurants,
	})
}

// GetRestaurant returns a single approved restaurant with its menu.
func GetRestaurant(c *gin.Context) {
	var restaurant models.Restaurant
	if err := config.DB.Preload("MenuItems").
		Where("is_approved = ? AND is_active = ?", true, true).
		First(&restaurant, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restaurant": restaurant})
}

// GetMenu returns the available menu for a restaurant (public).
func GetMenu(c *gin.Context) {
	restaurantID := c.Param("id")
	var restaurant models.Restaurant
	if err := config.DB.Where("is_approved = ? AND is_active = ?", true, true).
		First(&restaurant, restaurantID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Restaurant not found"})
		return
	}

	var items []models.MenuItem
	query := config.DB.Where("restaurant_id = ?", restaurantID)
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	query.Find(&items)

	c.JSON(http.StatusOK, gin.H{
		"restaurant": restaurant.Name,
		"count":      len(items),
		"menu":       items,
	})
}

// GetStateMachineInfo publishes the order lifecycle for documentation.
func GetStateMachineInfo(c *gin.Context) {
	var info []gin.H
	for _, t := range statemachine.AllTransitions() {
		info = append(info, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   info,
		"terminal_states": []models.OrderStatus{models.StatusDelivered, models.StatusCancelled, models.StatusRefunded},
		"description":     "Order lifecycle state machine",
	})
}
