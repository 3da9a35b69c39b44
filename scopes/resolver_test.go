package scopes

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"food-marketplace-api/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.City{}, &models.Role{}, &models.RoleAssignment{},
		&models.Restaurant{}, &models.Order{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for i := range models.SeedRoles {
		r := models.SeedRoles[i]
		if err := db.Create(&r).Error; err != nil {
			t.Fatalf("seed role %s: %v", r.Code, err)
		}
	}
	return db
}

func roleByCode(t *testing.T, db *gorm.DB, code string) models.Role {
	t.Helper()
	var role models.Role
	if err := db.Where("code = ?", code).First(&role).Error; err != nil {
		t.Fatalf("role %s: %v", code, err)
	}
	return role
}

func assign(t *testing.T, db *gorm.DB, userID uint, code string, cityID, restaurantID *uint) models.RoleAssignment {
	t.Helper()
	role := roleByCode(t, db, code)
	a := models.RoleAssignment{
		UserID:       userID,
		RoleID:       role.ID,
		CityID:       cityID,
		RestaurantID: restaurantID,
		IsActive:     true,
	}
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("assign %s: %v", code, err)
	}
	return a
}

func TestResolveUnknownUser(t *testing.T) {
	db := openTestDB(t)

	s := Resolve(db, 999)
	if s.IsGlobalAdmin || s.IsSelfScoped || len(s.CityIDs) != 0 || len(s.RestaurantIDs) != 0 {
		t.Errorf("unknown user resolved to non-empty scopes: %+v", s)
	}
}

func TestResolveSuperAdmin(t *testing.T) {
	db := openTestDB(t)
	assign(t, db, 1, models.RoleSuperAdmin, nil, nil)

	s := Resolve(db, 1)
	if !s.IsGlobalAdmin {
		t.Error("super admin assignment did not resolve to global scope")
	}
}

func TestResolveMultipleAssignments(t *testing.T) {
	db := openTestDB(t)
	assign(t, db, 1, models.RoleCityAdmin, uintPtr(10), nil)
	assign(t, db, 1, models.RoleCityAdmin, uintPtr(11), nil)
	assign(t, db, 1, models.RoleCustomer, nil, nil)

	s := Resolve(db, 1)
	if s.IsGlobalAdmin {
		t.Error("city admin resolved to global scope")
	}
	if !s.CityIDs[10] || !s.CityIDs[11] {
		t.Errorf("city scopes = %v, want cities 10 and 11", s.CityIDs)
	}
	if !s.IsSelfScoped {
		t.Error("customer assignment did not set self scope")
	}
	if !s.HasRole(models.RoleCityAdmin) || !s.HasRole(models.RoleCustomer) {
		t.Errorf("role codes = %v, missing held roles", s.RoleCodes)
	}
}

func TestResolveIgnoresRevokedAssignment(t *testing.T) {
	db := openTestDB(t)
	a := assign(t, db, 1, models.RoleCityAdmin, uintPtr(10), nil)
	db.Model(&a).Update("is_active", false)

	s := Resolve(db, 1)
	if len(s.CityIDs) != 0 {
		t.Errorf("revoked assignment still contributed scope: %v", s.CityIDs)
	}
}

func TestResolveIgnoresDeactivatedRole(t *testing.T) {
	db := openTestDB(t)
	assign(t, db, 1, models.RoleDispatcher, uintPtr(10), nil)
	db.Model(&models.Role{}).Where("code = ?", models.RoleDispatcher).Update("is_active", false)

	s := Resolve(db, 1)
	if len(s.CityIDs) != 0 || s.HasRole(models.RoleDispatcher) {
		t.Errorf("deactivated role still contributed scope: %+v", s)
	}
}

func TestResolveMalformedAssignmentContributesNothing(t *testing.T) {
	db := openTestDB(t)
	// A city-scoped role with no city id grants no reach anywhere.
	assign(t, db, 1, models.RoleCityAdmin, nil, nil)

	s := Resolve(db, 1)
	if len(s.CityIDs) != 0 {
		t.Errorf("malformed assignment contributed city scope: %v", s.CityIDs)
	}
	if s.CanAccessCity(10) {
		t.Error("malformed assignment granted city access")
	}
}

func TestResolveIsRepeatable(t *testing.T) {
	db := openTestDB(t)
	assign(t, db, 1, models.RoleCityAdmin, uintPtr(10), nil)

	a := Resolve(db, 1)
	b := Resolve(db, 1)
	if a.IsGlobalAdmin != b.IsGlobalAdmin || len(a.CityIDs) != len(b.CityIDs) || a.IsSelfScoped != b.IsSelfScoped {
		t.Errorf("resolution not repeatable: %+v vs %+v", a, b)
	}
}
