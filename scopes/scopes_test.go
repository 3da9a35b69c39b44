package scopes

import (
	"testing"

	"food-marketplace-api/models"
)

func uintPtr(v uint) *uint { return &v }

func globalScopes(userID uint) EffectiveScopes {
	s := Empty(userID)
	s.IsGlobalAdmin = true
	s.RoleCodes[models.RoleSuperAdmin] = true
	return s
}

func cityScopes(userID uint, cities ...uint) EffectiveScopes {
	s := Empty(userID)
	s.RoleCodes[models.RoleCityAdmin] = true
	for _, c := range cities {
		s.CityIDs[c] = true
	}
	return s
}

func restaurantScopes(userID uint, restaurants ...uint) EffectiveScopes {
	s := Empty(userID)
	s.RoleCodes[models.RoleRestaurantAdmin] = true
	for _, r := range restaurants {
		s.RestaurantIDs[r] = true
	}
	return s
}

func selfScopes(userID uint) EffectiveScopes {
	s := Empty(userID)
	s.IsSelfScoped = true
	s.RoleCodes[models.RoleCustomer] = true
	return s
}

func TestEmptyDeniesEverything(t *testing.T) {
	s := Empty(7)

	if s.CanAccessCity(1) {
		t.Error("empty scopes granted city access")
	}
	if s.CanAccessRestaurant(1) {
		t.Error("empty scopes granted restaurant access")
	}
	if s.CanAccessOwnRecord(7) {
		t.Error("empty scopes granted own-record access without a self grant")
	}
	if s.CanAccessOrder(&models.Order{ID: 1, CityID: 1, RestaurantID: 1, CustomerID: 7}) {
		t.Error("empty scopes granted order access")
	}
}

func TestCanAccessOwnRecord(t *testing.T) {
	s := selfScopes(7)

	if !s.CanAccessOwnRecord(7) {
		t.Error("self scope denied own record")
	}
	if s.CanAccessOwnRecord(8) {
		t.Error("self scope reached another user's record")
	}
}

func TestCityScopeDoesNotGrantRestaurantAuthority(t *testing.T) {
	s := cityScopes(1, 10)

	if s.CanAccessRestaurant(5) {
		t.Error("city scope granted restaurant access")
	}
}

func TestCanAccessOrder(t *testing.T) {
	order := &models.Order{
		ID:           1,
		CityID:       10,
		RestaurantID: 5,
		CustomerID:   100,
		RiderID:      uintPtr(200),
	}

	tests := []struct {
		name   string
		scopes EffectiveScopes
		want   bool
	}{
		{"global admin", globalScopes(1), true},
		{"city admin of the order city", cityScopes(2, 10), true},
		{"city admin of another city", cityScopes(2, 11), false},
		{"restaurant admin of the order restaurant", restaurantScopes(3, 5), true},
		{"restaurant admin of another restaurant", restaurantScopes(3, 6), false},
		{"customer who placed the order", selfScopes(100), true},
		{"assigned rider", selfScopes(200), true},
		{"unrelated self-scoped user", selfScopes(300), false},
		{"no scopes at all", Empty(4), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.scopes.CanAccessOrder(order); got != tt.want {
				t.Errorf("CanAccessOrder = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanAccessOrderUnassignedRider(t *testing.T) {
	order := &models.Order{ID: 2, CityID: 10, RestaurantID: 5, CustomerID: 100}

	if selfScopes(200).CanAccessOrder(order) {
		t.Error("self-scoped user accessed an order with no rider assigned")
	}
}

func TestHasRole(t *testing.T) {
	s := cityScopes(1, 10)

	if !s.HasRole(models.RoleCityAdmin) {
		t.Error("HasRole missed a held role")
	}
	if s.HasRole(models.RoleSupport) {
		t.Error("HasRole reported a role the user does not hold")
	}
	if !s.HasRole(models.RoleSupport, models.RoleCityAdmin) {
		t.Error("HasRole missed a match in a multi-code query")
	}
}
