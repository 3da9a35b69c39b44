package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"food-marketplace-api/config"
	"food-marketplace-api/geo"
	"food-marketplace-api/models"
)

func float64Ptr(v float64) *float64 { return &v }

// placeDeliveryOrder runs an order from placement to ready through the API.
func placeDeliveryOrder(t *testing.T, r *gin.Engine, customerToken, ownerToken string, restaurantID, itemID uint, lat, lon float64) int {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/customer/orders", customerToken, gin.H{
		"restaurant_id":  restaurantID,
		"order_type":     "delivery",
		"customer_name":  "Alice",
		"customer_phone": "555-0100",
		"customer_lat":   lat,
		"customer_lon":   lon,
		"items":          []gin.H{{"menu_item_id": itemID, "quantity": 1}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("place order: status %d, body %s", w.Code, w.Body.String())
	}
	orderID := int(decode(t, w)["order_id"].(float64))

	statusPath := fmt.Sprintf("/api/restaurant/orders/%d/status", orderID)
	for _, status := range []string{"confirmed", "preparing", "ready"} {
		if w := doJSON(t, r, http.MethodPut, statusPath, ownerToken, gin.H{"status": status}); w.Code != http.StatusOK {
			t.Fatalf("advance to %s: status %d, body %s", status, w.Code, w.Body.String())
		}
	}
	return orderID
}

func TestCourierDeliveryFlow(t *testing.T) {
	r := setupAPI(t)

	customerToken := registerUser(t, r, "Alice", "alice@example.com", models.RoleCustomer)
	ownerToken := registerUser(t, r, "Olive", "olive@example.com", models.RoleRestaurantOwner)
	riderToken := registerUser(t, r, "Ray", "ray@example.com", models.RoleRider)

	var owner models.User
	config.DB.Where("email = ?", "olive@example.com").First(&owner)
	restaurant, item := seedRestaurant(t, owner.ID)
	config.DB.Model(&restaurant).Updates(map[string]interface{}{"lat": 40.0, "lon": -74.0})

	// Roughly 4.3km away, within bike range.
	orderID := placeDeliveryOrder(t, r, customerToken, ownerToken, restaurant.ID, item.ID, 40.0, -74.05)

	// The ready order shows up on the open-deliveries board.
	w := doJSON(t, r, http.MethodGet, "/api/rider/deliveries/available", riderToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("available deliveries: status %d", w.Code)
	}
	if count := decode(t, w)["count"].(float64); count != 1 {
		t.Errorf("available deliveries = %v, want 1", count)
	}

	acceptPath := fmt.Sprintf("/api/rider/deliveries/%d/accept", orderID)
	if w := doJSON(t, r, http.MethodPost, acceptPath, riderToken, nil); w.Code != http.StatusCreated {
		t.Fatalf("accept delivery: status %d, body %s", w.Code, w.Body.String())
	}

	// Accepting an order that is already assigned loses cleanly.
	if w := doJSON(t, r, http.MethodPost, acceptPath, riderToken, nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("double accept status = %d, want 422", w.Code)
	}

	deliverPath := fmt.Sprintf("/api/rider/deliveries/%d/deliver", orderID)
	pickupPath := fmt.Sprintf("/api/rider/deliveries/%d/pickup", orderID)

	// Delivering before pickup violates the leg ordering.
	if w := doJSON(t, r, http.MethodPut, deliverPath, riderToken, nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("deliver before pickup status = %d, want 422", w.Code)
	}

	if w := doJSON(t, r, http.MethodPut, pickupPath, riderToken, nil); w.Code != http.StatusOK {
		t.Fatalf("pickup: status %d, body %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPut, pickupPath, riderToken, nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("double pickup status = %d, want 422", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, deliverPath, riderToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("deliver: status %d, body %s", w.Code, w.Body.String())
	}
	wantEarning := *config.Pricing.CourierEarning(float64Ptr(geo.HaversineKM(40.0, -74.0, 40.0, -74.05)))
	if got := decode(t, w)["earning"].(float64); got != wantEarning {
		t.Errorf("earning = %v, want %v", got, wantEarning)
	}

	var order models.Order
	config.DB.First(&order, orderID)
	if order.Status != models.StatusDelivered {
		t.Errorf("order status = %s, want delivered", order.Status)
	}

	w = doJSON(t, r, http.MethodGet, "/api/rider/earnings", riderToken, nil)
	summary := decode(t, w)
	if summary["total_deliveries"].(float64) != 1 {
		t.Errorf("earnings summary = %v, want 1 delivery", summary)
	}
	if summary["total_earnings"].(float64) != wantEarning {
		t.Errorf("total earnings = %v, want %v", summary["total_earnings"], wantEarning)
	}
	if summary["milestone_bonus"].(float64) != 0 {
		t.Errorf("bonus = %v, want 0 below the milestone", summary["milestone_bonus"])
	}
}

func TestCourierEligibilityGate(t *testing.T) {
	r := setupAPI(t)

	customerToken := registerUser(t, r, "Alice", "alice@example.com", models.RoleCustomer)
	ownerToken := registerUser(t, r, "Olive", "olive@example.com", models.RoleRestaurantOwner)
	riderToken := registerUser(t, r, "Ray", "ray@example.com", models.RoleRider)

	var owner models.User
	config.DB.Where("email = ?", "olive@example.com").First(&owner)
	restaurant, item := seedRestaurant(t, owner.ID)
	config.DB.Model(&restaurant).Updates(map[string]interface{}{"lat": 40.0, "lon": -74.0})

	// Roughly 22km: beyond bike and car range alike.
	orderID := placeDeliveryOrder(t, r, customerToken, ownerToken, restaurant.ID, item.ID, 40.2, -74.0)

	acceptPath := fmt.Sprintf("/api/rider/deliveries/%d/accept", orderID)
	w := doJSON(t, r, http.MethodPost, acceptPath, riderToken, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("out-of-range accept status = %d, want 422, body %s", w.Code, w.Body.String())
	}

	var order models.Order
	config.DB.First(&order, orderID)
	if order.Status != models.StatusReady || order.RiderID != nil {
		t.Errorf("rejected acceptance still mutated the order: status %s, rider %v", order.Status, order.RiderID)
	}
}

func TestUnavailableCourierCannotAccept(t *testing.T) {
	r := setupAPI(t)

	customerToken := registerUser(t, r, "Alice", "alice@example.com", models.RoleCustomer)
	ownerToken := registerUser(t, r, "Olive", "olive@example.com", models.RoleRestaurantOwner)
	riderToken := registerUser(t, r, "Ray", "ray@example.com", models.RoleRider)

	var owner models.User
	config.DB.Where("email = ?", "olive@example.com").First(&owner)
	restaurant, item := seedRestaurant(t, owner.ID)
	config.DB.Model(&restaurant).Updates(map[string]interface{}{"lat": 40.0, "lon": -74.0})
	orderID := placeDeliveryOrder(t, r, customerToken, ownerToken, restaurant.ID, item.ID, 40.0, -74.05)

	w := doJSON(t, r, http.MethodPut, "/api/rider/availability", riderToken, gin.H{"is_available": false})
	if w.Code != http.StatusOK {
		t.Fatalf("set availability: status %d", w.Code)
	}

	acceptPath := fmt.Sprintf("/api/rider/deliveries/%d/accept", orderID)
	if w := doJSON(t, r, http.MethodPost, acceptPath, riderToken, nil); w.Code != http.StatusUnprocessableEntity {
		t.Errorf("unavailable accept status = %d, want 422", w.Code)
	}
}
