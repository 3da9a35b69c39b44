// Package pricing computes the monetary breakdown of an order and courier
// eligibility/earnings. The engine is deterministic: all constants are
// injected through Config, never read from ambient state, and every monetary
// value is rounded half-up to 2 decimals because totals feed invoicing.
package pricing

import (
	"math"

	"food-marketplace-api/models"
)

// Config carries every tunable the engine consumes.
type Config struct {
	ServiceFeeRate   float64
	DeliveryBaseFee  float64
	DeliveryPerKMFee float64
	BikeMaxKM        float64
	CarMaxKM         float64
	PayPerKM         float64
	BonusEveryN      int
	BonusAmount      float64
}

// Engine is a pure calculator over one Config.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Quote is the computed breakdown for a prospective or placed order. Tip is
// added by the caller after quoting and is not part of Total here.
type Quote struct {
	Subtotal    float64 `json:"subtotal"`
	ServiceFee  float64 `json:"service_fee"`
	DeliveryFee float64 `json:"delivery_fee"`
	Total       float64 `json:"total"`
}

// Quote derives fees and total from the item subtotal. The delivery fee only
// applies to delivery orders with a known distance; pickup orders and
// deliveries without a distance carry no delivery fee.
func (e *Engine) Quote(subtotal float64, distanceKM *float64, orderType models.OrderType) Quote {
	q := Quote{
		Subtotal:   round2(subtotal),
		ServiceFee: round2(subtotal * e.cfg.ServiceFeeRate),
	}
	if orderType == models.OrderDelivery && distanceKM != nil {
		q.DeliveryFee = round2(e.cfg.DeliveryBaseFee + *distanceKM*e.cfg.DeliveryPerKMFee)
	}
	q.Total = round2(q.Subtotal + q.ServiceFee + q.DeliveryFee)
	return q
}

// CourierEligible reports whether a vehicle may serve a delivery of the given
// distance. Unknown vehicle types are never eligible.
func (e *Engine) CourierEligible(vehicle models.VehicleType, distanceKM float64) bool {
	switch vehicle {
	case models.VehicleBike:
		return distanceKM <= e.cfg.BikeMaxKM
	case models.VehicleCar:
		return distanceKM <= e.cfg.CarMaxKM
	default:
		return false
	}
}

// CourierEarning is the per-delivery payout. Nil distance means no
// distance-based earning can be computed.
func (e *Engine) CourierEarning(distanceKM *float64) *float64 {
	if distanceKM == nil {
		return nil
	}
	earning := round2(*distanceKM * e.cfg.PayPerKM)
	return &earning
}

// Bonus returns the cumulative milestone bonus for a courier who has
// completed the given number of deliveries.
func (e *Engine) Bonus(completedDeliveries int) float64 {
	if e.cfg.BonusEveryN <= 0 {
		return 0
	}
	return round2(float64(completedDeliveries/e.cfg.BonusEveryN) * e.cfg.BonusAmount)
}

// round2 rounds half-up to 2 decimal places. Inputs are non-negative, so
// math.Round's half-away-from-zero behaviour is exactly half-up here.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
