package routes

import (
	"github.com/gin-gonic/gin"

	"food-marketplace-api/handlers"
	"food-marketplace-api/middleware"
	"food-marketplace-api/models"
)

func SetupRoutes(r *gin.Engine) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/register", handlers.Register)
		public.POST("/auth/login", handlers.Login)

		public.GET("/restaurants", handlers.ListRestaurants)
		public.GET("/restaurants/:id", handlers.GetRestaurant)
		public.GET("/restaurants/:id/menu", handlers.GetMenu)

		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", handlers.GetProfile)
		auth.GET("/orders/:id", handlers.GetOrderDetail)
		auth.GET("/cities", handlers.ListCities)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", handlers.PlaceOrder)
		customer.GET("/orders", handlers.GetMyOrders)
		customer.PUT("/orders/:id/cancel", handlers.CancelOrder)
	}

	// ── Restaurant operator routes ─────────────────────────────────
	restaurant := r.Group("/api/restaurant")
	restaurant.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleRestaurantOwner, models.RoleRestaurantAdmin))
	{
		restaurant.POST("/", handlers.CreateRestaurant)
		restaurant.GET("/", handlers.GetMyRestaurant)
		restaurant.PUT("/", handlers.UpdateRestaurant)

		restaurant.POST("/menu", handlers.AddMenuItem)
		restaurant.PUT("/menu/:itemId", handlers.UpdateMenuItem)
		restaurant.DELETE("/menu/:itemId", handlers.DeleteMenuItem)

		restaurant.GET("/orders", handlers.GetRestaurantOrders)
		restaurant.PUT("/orders/:id/status", handlers.UpdateOrderStatus)
	}

	// ── Courier routes ─────────────────────────────────────────────
	rider := r.Group("/api/rider")
	rider.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleRider))
	{
		rider.GET("/deliveries/available", handlers.GetAvailableDeliveries)
		rider.GET("/deliveries", handlers.GetMyDeliveries)
		rider.POST("/deliveries/:id/accept", handlers.AcceptDelivery)
		rider.PUT("/deliveries/:id/pickup", handlers.PickupOrder)
		rider.PUT("/deliveries/:id/deliver", handlers.DeliverOrder)
		rider.GET("/earnings", handlers.GetEarningsSummary)
		rider.PUT("/availability", handlers.SetAvailability)
	}

	// ── Staff routes (scoped per request inside the handlers) ──────
	staff := r.Group("/api/staff")
	staff.Use(middleware.AuthRequired())
	{
		staff.GET("/orders", handlers.ListOrdersScoped)
		staff.GET("/orders/stats", handlers.GetOrderStats)
		staff.PATCH("/orders/:id/assign-rider", handlers.AssignRider)
		staff.POST("/orders/:id/refund", handlers.RefundOrder)
		staff.GET("/restaurants", handlers.ListRestaurantsScoped)
		staff.POST("/restaurants/:id/approve", handlers.ApproveRestaurant)
		staff.GET("/users", handlers.AdminListUsers)
	}

	// ── RBAC administration ────────────────────────────────────────
	rbac := r.Group("/api/rbac")
	rbac.Use(middleware.AuthRequired())
	{
		rbac.GET("/roles", handlers.ListRoles)
		rbac.POST("/roles", handlers.CreateRole)
		rbac.PATCH("/roles/:id", handlers.ToggleRole)

		rbac.GET("/assignments", handlers.ListAssignments)
		rbac.POST("/assignments", handlers.AssignRole)
		rbac.DELETE("/assignments/:id", handlers.RevokeRole)

		rbac.POST("/cities", handlers.CreateCity)
	}
}
