package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"food-marketplace-api/apperr"
	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/scopes"
)

// ── Role catalog ────────────────────────────────────────────────────────────

// ListRoles returns the role catalog — global admin only.
func ListRoles(c *gin.Context) {
	s := middleware.GetScopes(c)
	if !s.IsGlobalAdmin {
		respondError(c, apperr.Forbidden("roles", 0))
		return
	}

	query := config.DB.Model(&models.Role{})
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var roles []models.Role
	query.Order("code").Find(&roles)
	c.JSON(http.StatusOK, gin.H{"count": len(roles), "roles": roles})
}

type CreateRoleRequest struct {
	Code        string           `json:"code" binding:"required,max=50"`
	Name        string           `json:"name" binding:"required,max=100"`
	Description string           `json:"description" binding:"max=500"`
	ScopeType   models.ScopeType `json:"scope_type" binding:"required,oneof=global city restaurant self"`
}

// CreateRole adds a role to the catalog — global admin only.
func CreateRole(c *gin.Context) {
	s := middleware.GetScopes(c)
	if !s.IsGlobalAdmin {
		respondError(c, apperr.Forbidden("roles", 0))
		return
	}

	var req CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.Role
	if err := config.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		respondError(c, apperr.Invariant("role code already exists"))
		return
	}

	role := models.Role{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		ScopeType:   req.ScopeType,
		IsActive:    true,
	}
	if err := config.DB.Create(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create role"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Role created", "role": role})
}

// ToggleRole activates or deactivates a role — global admin only. Roles are
// never deleted; deactivation suspends every assignment referencing them.
func ToggleRole(c *gin.Context) {
	s := middleware.GetScopes(c)
	if !s.IsGlobalAdmin {
		respondError(c, apperr.Forbidden("roles", 0))
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var role models.Role
	if err := config.DB.First(&role, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	config.DB.Model(&role).Update("is_active", *req.IsActive)
	c.JSON(http.StatusOK, gin.H{"message": "Role status updated", "is_active": *req.IsActive})
}

// ── Assignments ─────────────────────────────────────────────────────────────

type AssignRoleRequest struct {
	UserID       uint   `json:"user_id" binding:"required"`
	RoleCode     string `json:"role_code" binding:"required"`
	CityID       *uint  `json:"city_id"`
	RestaurantID *uint  `json:"restaurant_id"`
	Notes        string `json:"notes" binding:"max=500"`
}

// AssignRole grants a role to a user, governed by the assignment rules:
// global admins may grant anything, city admins only city-scoped roles
// inside their own cities, nobody else grants at all. The assignment's
// scope fields must also match the role's scope type.
func AssignRole(c *gin.Context) {
	s := middleware.GetScopes(c)
	callerID := middleware.GetUserID(c)

	var req AssignRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !scopes.CanAssign(config.DB, s, req.RoleCode, req.CityID, req.RestaurantID) {
		respondError(c, apperr.Forbidden("role assignment", 0))
		return
	}

	var role models.Role
	if err := config.DB.Where("code = ? AND is_active = ?", req.RoleCode, true).First(&role).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
		return
	}
	var target models.User
	if err := config.DB.First(&target, req.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	if err := scopes.ValidateAssignment(config.DB, &role, req.UserID, req.CityID, req.RestaurantID); err != nil {
		respondError(c, err)
		return
	}

	assignment := models.RoleAssignment{
		UserID:       req.UserID,
		RoleID:       role.ID,
		CityID:       req.CityID,
		RestaurantID: req.RestaurantID,
		IsActive:     true,
		AssignedBy:   &callerID,
		Notes:        req.Notes,
	}
	if err := config.DB.Create(&assignment).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign role"})
		return
	}

	logrus.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"user_id":       req.UserID,
		"role":          req.RoleCode,
		"assigned_by":   callerID,
	}).Info("role assigned")

	c.JSON(http.StatusCreated, gin.H{"message": "Role assigned successfully", "assignment_id": assignment.ID})
}

// RevokeRole soft-revokes an assignment: it stays on record with a
// revocation timestamp so the grant history remains auditable. The
// revocation takes effect on the target's next request.
func RevokeRole(c *gin.Context) {
	s := middleware.GetScopes(c)

	var assignment models.RoleAssignment
	if err := config.DB.First(&assignment, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Role assignment not found"})
		return
	}

	if !scopes.CanRevoke(s, &assignment) {
		respondError(c, apperr.Forbidden("role assignment", assignment.ID))
		return
	}

	now := time.Now().UTC()
	config.DB.Model(&assignment).Updates(map[string]interface{}{
		"is_active":  false,
		"revoked_at": now,
	})

	logrus.WithFields(logrus.Fields{
		"assignment_id": assignment.ID,
		"revoked_by":    middleware.GetUserID(c),
	}).Info("role revoked")

	c.JSON(http.StatusOK, gin.H{"message": "Role revoked successfully"})
}

// ListAssignments lists role assignments inside the caller's scope: global
// admins see all, city admins their cities, everyone else their own grants.
func ListAssignments(c *gin.Context) {
	s := middleware.GetScopes(c)

	query := scopes.FilterAssignments(config.DB.Model(&models.RoleAssignment{}), s).Preload("Role")
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if c.Query("include_inactive") != "true" {
		query = query.Where("is_active = ?", true)
	}

	var assignments []models.RoleAssignment
	query.Order("assigned_at desc").Find(&assignments)
	c.JSON(http.StatusOK, gin.H{"count": len(assignments), "assignments": assignments})
}

// ── Cities ──────────────────────────────────────────────────────────────────

type CreateCityRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Code     string `json:"code" binding:"required,max=20"`
	Country  string `json:"country" binding:"required,max=100"`
	Timezone string `json:"timezone" binding:"required,max=50"`
}

// CreateCity registers a new city — global admin only.
func CreateCity(c *gin.Context) {
	s := middleware.GetScopes(c)
	if !s.IsGlobalAdmin {
		respondError(c, apperr.Forbidden("cities", 0))
		return
	}

	var req CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.City
	if err := config.DB.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		respondError(c, apperr.Invariant("city code already exists"))
		return
	}

	city := models.City{
		Name:     req.Name,
		Code:     req.Code,
		Country:  req.Country,
		Timezone: req.Timezone,
		IsActive: true,
	}
	if err := config.DB.Create(&city).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create city"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "City created", "city": city})
}

// ListCities lists cities; city-scoped staff see only their own cities.
func ListCities(c *gin.Context) {
	s := middleware.GetScopes(c)

	query := config.DB.Model(&models.City{}).Where("is_active = ?", true)
	if !s.IsGlobalAdmin && len(s.CityIDs) > 0 {
		ids := make([]uint, 0, len(s.CityIDs))
		for id := range s.CityIDs {
			ids = append(ids, id)
		}
		query = query.Where("id IN ?", ids)
	}

	var cities []models.City
	query.Order("name").Find(&cities)
	c.JSON(http.StatusOK, gin.H{"count": len(cities), "cities": cities})
}
