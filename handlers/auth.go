package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"food-marketplace-api/config"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
	"food-marketplace-api/scopes"
)

type RegisterRequest struct {
	Name     string             `json:"name" binding:"required"`
	Email    string             `json:"email" binding:"required,email"`
	Password string             `json:"password" binding:"required,min=6"`
	Role     string             `json:"role" binding:"required"`
	Phone    string             `json:"phone"`
	Vehicle  models.VehicleType `json:"vehicle_type"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// selfServeRoles are the only roles a user may claim at signup. Everything
// else is granted through the role-assignment governor.
var selfServeRoles = map[string]bool{
	models.RoleCustomer:        true,
	models.RoleRider:           true,
	models.RoleRestaurantOwner: true,
}

// Register creates a user account and grants the matching self-scoped role
// assignment. Riders additionally get a courier profile.
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !selfServeRoles[req.Role] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: customer, rider, or restaurant_owner"})
		return
	}

	var existing models.User
	if result := config.DB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Phone:        req.Phone,
		IsActive:     true,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	var role models.Role
	if err := config.DB.Where("code = ? AND is_active = ?", req.Role, true).First(&role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Role catalog not initialized"})
		return
	}
	assignment := models.RoleAssignment{
		UserID:   user.ID,
		RoleID:   role.ID,
		IsActive: true,
		Notes:    "self-serve signup",
	}
	config.DB.Create(&assignment)

	if req.Role == models.RoleRider {
		vehicle := req.Vehicle
		if vehicle == "" {
			vehicle = models.VehicleBike
		}
		config.DB.Create(&models.Driver{UserID: user.ID, VehicleType: vehicle, IsAvailable: true})
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": req.Role}).Info("user registered")

	c.JSON(http.StatusCreated, gin.H{
		"message": "Account created successfully",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  req.Role,
		},
	})
}

// Login authenticates a user and returns a JWT.
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account deactivated"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token, err := middleware.GenerateToken(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
		},
	})
}

// GetProfile returns the authenticated user's profile and resolved roles.
func GetProfile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	s := middleware.GetScopes(c)
	c.JSON(http.StatusOK, gin.H{
		"user":  user,
		"roles": roleCodeList(s),
	})
}

func roleCodeList(s scopes.EffectiveScopes) []string {
	codes := make([]string, 0, len(s.RoleCodes))
	for code := range s.RoleCodes {
		codes = append(codes, code)
	}
	return codes
}
