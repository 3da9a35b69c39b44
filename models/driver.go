package models

import "time"

// VehicleType limits how far a courier can be dispatched; maximum distances
// per vehicle come from pricing configuration.
type VehicleType string

const (
	VehicleBike VehicleType = "bike"
	VehicleCar  VehicleType = "car"
)

// Driver is the courier profile attached to a rider user.
type Driver struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	UserID      uint        `json:"user_id" gorm:"uniqueIndex;not null"`
	User        User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	VehicleType VehicleType `json:"vehicle_type" gorm:"size:20;not null"`
	IsAvailable bool        `json:"is_available" gorm:"default:true"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// Delivery is the courier leg of one order. Pickup and delivery timestamps
// are set exactly once each by the assigned courier; the earning is computed
// when the delivery completes.
type Delivery struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	OrderID       uint       `json:"order_id" gorm:"uniqueIndex;not null"`
	DriverID      uint       `json:"driver_id" gorm:"index;not null"`
	PickupTime    *time.Time `json:"pickup_time"`
	DeliveryTime  *time.Time `json:"delivery_time"`
	DriverEarning *float64   `json:"driver_earning"`
	CreatedAt     time.Time  `json:"created_at"`
}
