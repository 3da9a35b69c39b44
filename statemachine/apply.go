package statemachine

import (
	"gorm.io/gorm"

	"food-marketplace-api/apperr"
	"food-marketplace-api/models"
)

// Apply performs one transition: it validates the move for the given actor,
// then writes the new status with a conditional UPDATE guarded on the status
// the caller read. If a concurrent transition won the race the write touches
// zero rows and the caller gets a DomainError instead of a silent lost
// update. On success the audit history row is appended and the in-memory
// order is brought up to date.
//
// extra carries side effects that must land atomically with the status
// change, such as rider_id on assignment.
func Apply(db *gorm.DB, order *models.Order, to models.OrderStatus, actor Actor, changedBy uint, note string, extra map[string]interface{}) error {
	if err := CanTransition(order.Status, to, actor); err != nil {
		return err
	}

	updates := map[string]interface{}{"status": to}
	for k, v := range extra {
		updates[k] = v
	}

	res := db.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Lost the race: someone else moved the order first.
		var current models.Order
		db.Select("status").First(&current, order.ID)
		return apperr.WrongState("order status changed concurrently", string(current.Status), string(order.Status))
	}

	history := models.OrderStatusHistory{
		OrderID:    order.ID,
		FromStatus: order.Status,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Note:       note,
	}
	db.Create(&history)

	order.Status = to
	if rider, ok := extra["rider_id"]; ok {
		if id, ok := rider.(uint); ok {
			order.RiderID = &id
		}
	}
	return nil
}
