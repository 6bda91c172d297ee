package model

import "time"

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentRefunded = "refunded"
)

// AddOnSelection is a booked add-on: the studio's add-on key plus how many.
type AddOnSelection struct {
	Key      string `json:"key" bson:"key" validate:"required,min=1,max=100"`
	Quantity int    `json:"quantity" bson:"quantity" validate:"required,min=1"`
}

type Booking struct {
	ID            string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Studio        string           `json:"studio" bson:"studio" validate:"required,mongodb"`
	Customer      string           `json:"customer" bson:"customer" validate:"required,mongodb"`
	Date          time.Time        `json:"date" bson:"date" validate:"required"`
	Hours         []int            `json:"hours" bson:"hours" validate:"required,min=1,max=24,unique,dive,min=0,max=23"`
	PackageKey    string           `json:"packageKey" bson:"package_key" validate:"required,min=1,max=100"`
	AddOns        []AddOnSelection `json:"addons,omitempty" bson:"addons" validate:"omitempty,dive"`
	TotalPrice    float64          `json:"totalPrice" bson:"total_price" validate:"omitempty,gte=0"`
	PaymentStatus string           `json:"paymentStatus" bson:"payment_status" validate:"required,oneof=pending paid refunded"`
	CreatedAt     time.Time        `json:"createdAt" bson:"created_at"`
}

// SlotLock is an advisory lock claiming a (studio, date) pair while a
// booking for it is being created. The unique _id makes acquisition an
// atomic insert; a TTL index on ExpiresAt reaps abandoned locks.
type SlotLock struct {
	ID        string    `json:"id" bson:"_id"`
	ExpiresAt time.Time `json:"expiresAt" bson:"expires_at"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}
