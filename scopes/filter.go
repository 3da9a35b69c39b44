package scopes

import (
	"gorm.io/gorm"

	"food-marketplace-api/models"
)

// FilterOrders narrows an order query to exactly the rows CanAccessOrder
// would allow. Global admins get the identity (no filter); an actor with no
// qualifying scope gets the empty set, never all rows.
func FilterOrders(db *gorm.DB, s EffectiveScopes) *gorm.DB {
	if s.IsGlobalAdmin {
		return db
	}

	cond := db.Session(&gorm.Session{NewDB: true})
	narrowed := false

	if len(s.CityIDs) > 0 {
		cond = cond.Or("city_id IN ?", setKeys(s.CityIDs))
		narrowed = true
	}
	if len(s.RestaurantIDs) > 0 {
		cond = cond.Or("restaurant_id IN ?", setKeys(s.RestaurantIDs))
		narrowed = true
	}
	if s.IsSelfScoped {
		cond = cond.Or("customer_id = ? OR rider_id = ?", s.UserID, s.UserID)
		narrowed = true
	}

	if !narrowed {
		return db.Where("1 = 0")
	}
	return db.Where(cond)
}

// FilterRestaurants narrows a restaurant query: city scope covers every
// restaurant in the city, restaurant scope covers the named restaurants, and
// self scope covers restaurants the actor owns.
func FilterRestaurants(db *gorm.DB, s EffectiveScopes) *gorm.DB {
	if s.IsGlobalAdmin {
		return db
	}

	cond := db.Session(&gorm.Session{NewDB: true})
	narrowed := false

	if len(s.CityIDs) > 0 {
		cond = cond.Or("city_id IN ?", setKeys(s.CityIDs))
		narrowed = true
	}
	if len(s.RestaurantIDs) > 0 {
		cond = cond.Or("id IN ?", setKeys(s.RestaurantIDs))
		narrowed = true
	}
	if s.IsSelfScoped {
		cond = cond.Or("owner_id = ?", s.UserID)
		narrowed = true
	}

	if !narrowed {
		return db.Where("1 = 0")
	}
	return db.Where(cond)
}

// FilterAssignments narrows a role-assignment listing: global admins see
// all, city admins see assignments in their cities, everyone else sees only
// their own assignments.
func FilterAssignments(db *gorm.DB, s EffectiveScopes) *gorm.DB {
	if s.IsGlobalAdmin {
		return db
	}
	if s.HasRole(models.RoleCityAdmin) && len(s.CityIDs) > 0 {
		return db.Where("city_id IN ?", setKeys(s.CityIDs))
	}
	return db.Where("user_id = ?", s.UserID)
}

func setKeys(set map[uint]bool) []uint {
	ids := make([]uint, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}
