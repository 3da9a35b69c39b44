package models

import "time"

// ScopeType classifies how far a role reaches. The four values form a closed
// set; access decisions branch on it in a fixed precedence order rather than
// on ad hoc role-name checks.
type ScopeType string

const (
	ScopeGlobal     ScopeType = "global"     // everything (super admin)
	ScopeCity       ScopeType = "city"       // one city's data
	ScopeRestaurant ScopeType = "restaurant" // one restaurant's data
	ScopeSelf       ScopeType = "self"       // only records the actor owns
)

// Well-known role codes seeded at platform setup.
const (
	RoleSuperAdmin      = "super_admin"
	RoleCityAdmin       = "city_admin"
	RoleDispatcher      = "dispatcher"
	RoleSupport         = "support"
	RoleShiftLead       = "shift_lead"
	RoleRestaurantAdmin = "restaurant_admin"
	RoleCustomer        = "customer"
	RoleRider           = "rider"
	RoleRestaurantOwner = "restaurant_owner"
)

// Role is long-lived reference data. Roles are never deleted, only
// deactivated, because assignments keep pointing at them for audit.
type Role struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;size:50;not null"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Description string    `json:"description" gorm:"size:500"`
	ScopeType   ScopeType `json:"scope_type" gorm:"size:20;not null"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RoleAssignment grants a Role to a user, optionally qualified by a city or
// restaurant. The (CityID, RestaurantID) null pattern must match the role's
// ScopeType:
//
//	global     => both null
//	city       => city set, restaurant null
//	restaurant => restaurant set (city optional, locality hint)
//	self       => both null (ownership comes from record fields)
//
// Assignments are soft-revoked (IsActive=false + RevokedAt), never deleted,
// so the grant history stays auditable.
type RoleAssignment struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"index;not null"`
	RoleID       uint       `json:"role_id" gorm:"index;not null"`
	Role         Role       `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	CityID       *uint      `json:"city_id" gorm:"index"`
	RestaurantID *uint      `json:"restaurant_id" gorm:"index"`
	IsActive     bool       `json:"is_active" gorm:"default:true"`
	AssignedBy   *uint      `json:"assigned_by"`
	AssignedAt   time.Time  `json:"assigned_at" gorm:"autoCreateTime"`
	RevokedAt    *time.Time `json:"revoked_at"`
	Notes        string     `json:"notes" gorm:"size:500"`
}

// City is the geographic scoping anchor.
type City struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:100;not null"`
	Code      string    `json:"code" gorm:"uniqueIndex;size:20;not null"`
	Country   string    `json:"country" gorm:"size:100"`
	Timezone  string    `json:"timezone" gorm:"size:50"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time `json:"created_at"`
}

// SeedRoles holds the catalog installed at boot. Re-running the seed is a
// no-op for codes that already exist.
var SeedRoles = []Role{
	{Code: RoleSuperAdmin, Name: "Super Admin", ScopeType: ScopeGlobal},
	{Code: RoleCityAdmin, Name: "City Admin", ScopeType: ScopeCity},
	{Code: RoleDispatcher, Name: "Dispatcher", ScopeType: ScopeCity},
	{Code: RoleSupport, Name: "Support", ScopeType: ScopeCity},
	{Code: RoleShiftLead, Name: "Shift Lead", ScopeType: ScopeCity},
	{Code: RoleRestaurantAdmin, Name: "Restaurant Admin", ScopeType: ScopeRestaurant},
	{Code: RoleCustomer, Name: "Customer", ScopeType: ScopeSelf},
	{Code: RoleRider, Name: "Rider", ScopeType: ScopeSelf},
	{Code: RoleRestaurantOwner, Name: "Restaurant Owner", ScopeType: ScopeSelf},
}
