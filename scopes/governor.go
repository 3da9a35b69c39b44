package scopes

import (
	"errors"

	"gorm.io/gorm"

	"food-marketplace-api/apperr"
	"food-marketplace-api/models"
)

// CanAssign decides whether the assigner may grant role roleCode with the
// proposed city/restaurant qualifiers. Rules, in order:
//
//  1. Global admins may assign anything.
//  2. City admins may assign only CITY-type roles, and only for a city
//     inside their own scope.
//  3. Everyone else may assign nothing.
func CanAssign(db *gorm.DB, assigner EffectiveScopes, roleCode string, targetCityID, targetRestaurantID *uint) bool {
	if assigner.IsGlobalAdmin {
		return true
	}

	if assigner.HasRole(models.RoleCityAdmin) {
		var role models.Role
		if err := db.Where("code = ?", roleCode).First(&role).Error; err != nil {
			return false
		}
		if role.ScopeType != models.ScopeCity {
			return false
		}
		return targetCityID != nil && assigner.CanAccessCity(*targetCityID)
	}

	return false
}

// CanRevoke applies the same scope test to the assignment's own city id.
func CanRevoke(assigner EffectiveScopes, assignment *models.RoleAssignment) bool {
	if assigner.IsGlobalAdmin {
		return true
	}
	if assigner.HasRole(models.RoleCityAdmin) {
		return assignment.CityID != nil && assigner.CanAccessCity(*assignment.CityID)
	}
	return false
}

// ValidateAssignment checks that the proposed scope fields are well-formed
// for the role's scope type and that no identical active assignment already
// exists. Violations are DomainErrors: the caller was authorized, the data
// is wrong.
func ValidateAssignment(db *gorm.DB, role *models.Role, userID uint, cityID, restaurantID *uint) error {
	switch role.ScopeType {
	case models.ScopeGlobal, models.ScopeSelf:
		if cityID != nil || restaurantID != nil {
			return apperr.Invariant(string(role.ScopeType) + " roles cannot carry a city or restaurant scope")
		}
	case models.ScopeCity:
		if cityID == nil {
			return apperr.Invariant("city-scoped roles require a city id")
		}
		if restaurantID != nil {
			return apperr.Invariant("city-scoped roles cannot carry a restaurant scope")
		}
	case models.ScopeRestaurant:
		if restaurantID == nil {
			return apperr.Invariant("restaurant-scoped roles require a restaurant id")
		}
	}

	var existing models.RoleAssignment
	q := db.Where("user_id = ? AND role_id = ? AND is_active = ?", userID, role.ID, true)
	q = whereNullable(q, "city_id", cityID)
	q = whereNullable(q, "restaurant_id", restaurantID)
	err := q.First(&existing).Error
	if err == nil {
		return apperr.Invariant("role already assigned with this scope")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}

func whereNullable(db *gorm.DB, column string, v *uint) *gorm.DB {
	if v == nil {
		return db.Where(column + " IS NULL")
	}
	return db.Where(column+" = ?", *v)
}
