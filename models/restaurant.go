package models

import "time"

// Restaurant belongs to a city and to the user who applied for it. A new
// restaurant starts unapproved and stays invisible to ordering customers
// until a platform admin approves it.
type Restaurant struct {
	ID             uint       `json:"id" gorm:"primaryKey"`
	CityID         uint       `json:"city_id" gorm:"index;not null"`
	City           City       `json:"city,omitempty" gorm:"foreignKey:CityID"`
	OwnerID        uint       `json:"owner_id" gorm:"index;not null"`
	Owner          User       `json:"owner,omitempty" gorm:"foreignKey:OwnerID"`
	Name           string     `json:"name" gorm:"not null"`
	Cuisine        string     `json:"cuisine"`
	Address        string     `json:"address"`
	Description    string     `json:"description"`
	Lat            *float64   `json:"lat"`
	Lon            *float64   `json:"lon"`
	IsApproved     bool       `json:"is_approved" gorm:"default:false"`
	ApprovedBy     *uint      `json:"approved_by"`
	ApprovedAt     *time.Time `json:"approved_at"`
	IsActive       bool       `json:"is_active" gorm:"default:true"`
	CommissionRate float64    `json:"commission_rate" gorm:"default:0.12"`
	MenuItems      []MenuItem `json:"menu_items,omitempty" gorm:"foreignKey:RestaurantID"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type MenuItem struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	RestaurantID uint      `json:"restaurant_id" gorm:"index;not null"`
	Name         string    `json:"name" gorm:"not null"`
	Description  string    `json:"description"`
	Price        float64   `json:"price" gorm:"not null"`
	Category     string    `json:"category"`
	IsAvailable  bool      `json:"is_available" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
