package models

import (
	"time"
)

// Order statuses shown on the orders screen
const (
	OrderStatusProcessing = "processing"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// ScooterOrder represents a scooter purchase belonging to a single user
type ScooterOrder struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           string     `gorm:"not null;index" json:"user_id"` // Auth0 subject of the owner
	OrderNumber      string     `gorm:"uniqueIndex;not null" json:"order_number"`
	ScooterModel     string     `gorm:"not null" json:"scooter_model"`
	OrderStatus      string     `gorm:"not null;default:'processing'" json:"order_status"`
	OrderDate        time.Time  `gorm:"not null" json:"order_date"`
	ExpectedDelivery *time.Time `json:"expected_delivery"` // nullable
	TrackingNumber   *string    `json:"tracking_number"`   // nullable, assigned once shipped
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for the ScooterOrder model
func (ScooterOrder) TableName() string {
	return "scooter_orders"
}

// Context returns the read-only view of the order used to scope chat answers
func (o ScooterOrder) Context() OrderContext {
	return OrderContext{
		OrderNumber:      o.OrderNumber,
		Model:            o.ScooterModel,
		Status:           o.OrderStatus,
		OrderDate:        o.OrderDate,
		ExpectedDelivery: o.ExpectedDelivery,
		TrackingNumber:   o.TrackingNumber,
	}
}

// OrderContext is the order a user has selected to ask about
type OrderContext struct {
	OrderNumber      string
	Model            string
	Status           string
	OrderDate        time.Time
	ExpectedDelivery *time.Time
	TrackingNumber   *string
}
