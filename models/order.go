package models

import "time"

// OrderType distinguishes pickup orders (no courier leg) from deliveries.
type OrderType string

const (
	OrderPickup   OrderType = "pickup"
	OrderDelivery OrderType = "delivery"
)

// OrderStatus is the order lifecycle state. The lowercase tokens are part of
// the persisted/wire format and must not change.
type OrderStatus string

const (
	StatusCreated   OrderStatus = "created"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusAssigned  OrderStatus = "assigned"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
	StatusRefunded  OrderStatus = "refunded"
)

// Order is created once and then mutated only through state-machine
// transitions. CityID is denormalized from the restaurant at creation time
// and never changes — it is the scoping anchor for city-level reporting.
type Order struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	CityID       uint        `json:"city_id" gorm:"index;not null"`
	CustomerID   uint        `json:"customer_id" gorm:"index;not null"`
	Customer     User        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	RestaurantID uint        `json:"restaurant_id" gorm:"index;not null"`
	Restaurant   Restaurant  `json:"restaurant,omitempty" gorm:"foreignKey:RestaurantID"`
	RiderID      *uint       `json:"rider_id" gorm:"index"`
	Rider        *User       `json:"rider,omitempty" gorm:"foreignKey:RiderID"`
	OrderType    OrderType   `json:"order_type" gorm:"size:20;not null"`
	Status       OrderStatus `json:"status" gorm:"size:20;not null;default:'created'"`

	CustomerName    string   `json:"customer_name"`
	CustomerPhone   string   `json:"customer_phone"`
	CustomerAddress string   `json:"customer_address"`
	CustomerLat     *float64 `json:"customer_lat"`
	CustomerLon     *float64 `json:"customer_lon"`
	DeliveryNote    string   `json:"delivery_note"`

	// Monetary fields, fixed at creation: Total = Subtotal + ServiceFee +
	// DeliveryFee + Tip, all non-negative.
	Subtotal    float64 `json:"subtotal"`
	ServiceFee  float64 `json:"service_fee"`
	DeliveryFee float64 `json:"delivery_fee"`
	Tip         float64 `json:"tip" gorm:"default:0"`
	Total       float64 `json:"total"`

	DistanceKM *float64 `json:"distance_km"`

	Items         []OrderItem          `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
}

// OrderItem snapshots name and unit price at order time so later menu edits
// never change what the customer was billed. LineTotal = UnitPrice * Quantity.
type OrderItem struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	OrderID    uint    `json:"order_id" gorm:"index;not null"`
	MenuItemID uint    `json:"menu_item_id" gorm:"not null"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity" gorm:"not null"`
	UnitPrice  float64 `json:"unit_price" gorm:"not null"`
	LineTotal  float64 `json:"line_total" gorm:"not null"`
}

// OrderStatusHistory records every applied transition for audit.
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"index;not null"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"`
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}

// Terminal reports whether no further status-changing transition may apply,
// other than the delivered/cancelled → refunded side exit.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled || s == StatusRefunded
}
