package scopes

import (
	"testing"

	"gorm.io/gorm"

	"food-marketplace-api/models"
)

// seedOrders installs a fixed cross-city dataset:
//
//	order 1: city 10, restaurant 5, customer 100, rider 200
//	order 2: city 10, restaurant 6, customer 101
//	order 3: city 11, restaurant 7, customer 100
func seedOrders(t *testing.T, db *gorm.DB) {
	t.Helper()
	orders := []models.Order{
		{CityID: 10, RestaurantID: 5, CustomerID: 100, RiderID: uintPtr(200), OrderType: models.OrderDelivery, Status: models.StatusAssigned},
		{CityID: 10, RestaurantID: 6, CustomerID: 101, OrderType: models.OrderPickup, Status: models.StatusCreated},
		{CityID: 11, RestaurantID: 7, CustomerID: 100, OrderType: models.OrderDelivery, Status: models.StatusCreated},
	}
	for i := range orders {
		if err := db.Create(&orders[i]).Error; err != nil {
			t.Fatalf("seed order: %v", err)
		}
	}
}

func countOrders(t *testing.T, db *gorm.DB, s EffectiveScopes) int64 {
	t.Helper()
	var n int64
	if err := FilterOrders(db.Model(&models.Order{}), s).Count(&n).Error; err != nil {
		t.Fatalf("count orders: %v", err)
	}
	return n
}

func TestFilterOrders(t *testing.T) {
	db := openTestDB(t)
	seedOrders(t, db)

	tests := []struct {
		name   string
		scopes EffectiveScopes
		want   int64
	}{
		{"global admin sees all", globalScopes(1), 3},
		{"city admin sees own city", cityScopes(2, 10), 2},
		{"city admin of empty city sees none", cityScopes(2, 99), 0},
		{"restaurant admin sees own restaurant", restaurantScopes(3, 5), 1},
		{"customer sees own orders", selfScopes(100), 2},
		{"rider sees assigned orders", selfScopes(200), 1},
		{"no scopes sees none", Empty(4), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countOrders(t, db, tt.scopes); got != tt.want {
				t.Errorf("visible orders = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFilterOrdersUnionsGrants(t *testing.T) {
	db := openTestDB(t)
	seedOrders(t, db)

	// City 11 grant plus a self grant as customer 101 reaches orders 2 and 3.
	s := cityScopes(101, 11)
	s.IsSelfScoped = true

	if got := countOrders(t, db, s); got != 2 {
		t.Errorf("combined grants saw %d orders, want 2", got)
	}
}

func TestFilterRestaurants(t *testing.T) {
	db := openTestDB(t)
	restaurants := []models.Restaurant{
		{CityID: 10, OwnerID: 50, Name: "A", IsActive: true},
		{CityID: 10, OwnerID: 51, Name: "B", IsActive: true},
		{CityID: 11, OwnerID: 50, Name: "C", IsActive: true},
	}
	for i := range restaurants {
		if err := db.Create(&restaurants[i]).Error; err != nil {
			t.Fatalf("seed restaurant: %v", err)
		}
	}

	count := func(s EffectiveScopes) int64 {
		var n int64
		if err := FilterRestaurants(db.Model(&models.Restaurant{}), s).Count(&n).Error; err != nil {
			t.Fatalf("count restaurants: %v", err)
		}
		return n
	}

	if got := count(globalScopes(1)); got != 3 {
		t.Errorf("global admin saw %d restaurants, want 3", got)
	}
	if got := count(cityScopes(2, 10)); got != 2 {
		t.Errorf("city admin saw %d restaurants, want 2", got)
	}
	if got := count(restaurantScopes(3, restaurants[1].ID)); got != 1 {
		t.Errorf("restaurant admin saw %d restaurants, want 1", got)
	}
	owner := Empty(50)
	owner.IsSelfScoped = true
	if got := count(owner); got != 2 {
		t.Errorf("owner saw %d restaurants, want 2", got)
	}
	if got := count(Empty(4)); got != 0 {
		t.Errorf("unscoped user saw %d restaurants, want 0", got)
	}
}

func TestFilterAssignments(t *testing.T) {
	db := openTestDB(t)
	assign(t, db, 100, models.RoleCustomer, nil, nil)
	assign(t, db, 101, models.RoleDispatcher, uintPtr(10), nil)
	assign(t, db, 102, models.RoleDispatcher, uintPtr(11), nil)

	count := func(s EffectiveScopes) int64 {
		var n int64
		if err := FilterAssignments(db.Model(&models.RoleAssignment{}), s).Count(&n).Error; err != nil {
			t.Fatalf("count assignments: %v", err)
		}
		return n
	}

	if got := count(globalScopes(1)); got != 3 {
		t.Errorf("global admin saw %d assignments, want 3", got)
	}
	if got := count(cityScopes(2, 10)); got != 1 {
		t.Errorf("city admin saw %d assignments, want 1", got)
	}
	if got := count(selfScopes(100)); got != 1 {
		t.Errorf("customer saw %d assignments, want 1", got)
	}
	if got := count(selfScopes(999)); got != 0 {
		t.Errorf("stranger saw %d assignments, want 0", got)
	}
}
