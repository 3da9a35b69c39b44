// Package scopes implements the authorization core: resolving a user's
// active role assignments into one EffectiveScopes value, deciding single
// record access, narrowing list queries, and governing who may grant or
// revoke role assignments. Everything here is deny-by-default: no matching
// grant always means no access, never unrestricted access.
package scopes

import "food-marketplace-api/models"

// EffectiveScopes is the resolved union of everything one actor may touch.
// It is derived, never persisted, and recomputed per request so revocations
// take effect on the next call without an invalidation channel.
type EffectiveScopes struct {
	UserID        uint
	IsGlobalAdmin bool
	CityIDs       map[uint]bool
	RestaurantIDs map[uint]bool
	IsSelfScoped  bool
	RoleCodes     map[string]bool
}

// Empty returns the maximally restrictive scopes for an actor. This is also
// what unknown or inactive actors resolve to.
func Empty(userID uint) EffectiveScopes {
	return EffectiveScopes{
		UserID:        userID,
		CityIDs:       map[uint]bool{},
		RestaurantIDs: map[uint]bool{},
		RoleCodes:     map[string]bool{},
	}
}

// HasRole reports whether the actor holds any of the given role codes.
func (s EffectiveScopes) HasRole(codes ...string) bool {
	for _, c := range codes {
		if s.RoleCodes[c] {
			return true
		}
	}
	return false
}

// HasCityScope reports whether the actor has any city-level reach.
func (s EffectiveScopes) HasCityScope() bool {
	return s.IsGlobalAdmin || len(s.CityIDs) > 0
}

// HasRestaurantScope reports whether the actor has any restaurant-level reach.
func (s EffectiveScopes) HasRestaurantScope() bool {
	return s.IsGlobalAdmin || len(s.RestaurantIDs) > 0
}

// CanAccessCity allows global admins and actors scoped to that city.
func (s EffectiveScopes) CanAccessCity(cityID uint) bool {
	return s.IsGlobalAdmin || s.CityIDs[cityID]
}

// CanAccessRestaurant allows global admins and actors scoped to that
// restaurant. A city scope alone does not grant restaurant authority here.
func (s EffectiveScopes) CanAccessRestaurant(restaurantID uint) bool {
	return s.IsGlobalAdmin || s.RestaurantIDs[restaurantID]
}

// CanAccessOwnRecord allows global admins and self-scoped actors looking at
// a record they own. Self scope never reaches another actor's records.
func (s EffectiveScopes) CanAccessOwnRecord(recordOwnerID uint) bool {
	return s.IsGlobalAdmin || (s.IsSelfScoped && recordOwnerID == s.UserID)
}

// CanAccessOrder is the authorization gate for the whole order subsystem.
// The checks run in fixed precedence and short-circuit on the first match:
// global, then city, then restaurant, then self as customer or assigned
// rider. The ordering keeps a restaurant grant from claiming city-wide
// visibility and a self grant from reaching other actors' orders.
func (s EffectiveScopes) CanAccessOrder(order *models.Order) bool {
	if s.IsGlobalAdmin {
		return true
	}
	if s.HasCityScope() && s.CanAccessCity(order.CityID) {
		return true
	}
	if s.HasRestaurantScope() && s.CanAccessRestaurant(order.RestaurantID) {
		return true
	}
	if s.IsSelfScoped && order.CustomerID == s.UserID {
		return true
	}
	if s.IsSelfScoped && order.RiderID != nil && *order.RiderID == s.UserID {
		return true
	}
	return false
}
