package scopes

import (
	"gorm.io/gorm"

	"food-marketplace-api/models"
)

// Resolve loads every role assignment for the user where both the assignment
// and its role are active, and reduces them into one EffectiveScopes value.
//
// Resolution never fails: a user with no assignments (or an unknown user id)
// resolves to Empty, which denies everything. A malformed assignment — e.g.
// a city-scoped role with no city id, which the governor should have
// rejected at write time — contributes no scope but is not an error.
func Resolve(db *gorm.DB, userID uint) EffectiveScopes {
	s := Empty(userID)

	var assignments []models.RoleAssignment
	db.Joins("Role").
		Where("role_assignments.user_id = ? AND role_assignments.is_active = ?", userID, true).
		Where("\"Role\".is_active = ?", true).
		Find(&assignments)

	for _, a := range assignments {
		s.RoleCodes[a.Role.Code] = true

		if a.Role.Code == models.RoleSuperAdmin {
			s.IsGlobalAdmin = true
			continue
		}

		switch a.Role.ScopeType {
		case models.ScopeCity:
			if a.CityID != nil {
				s.CityIDs[*a.CityID] = true
			}
		case models.ScopeRestaurant:
			if a.RestaurantID != nil {
				s.RestaurantIDs[*a.RestaurantID] = true
			}
		case models.ScopeSelf:
			s.IsSelfScoped = true
		}
	}

	return s
}
