package model

import "time"

// Slot is one hour of a studio-day, open or closed for booking.
type Slot struct {
	Hour        int  `json:"hour" bson:"hour" validate:"min=0,max=23"`
	IsAvailable bool `json:"isAvailable" bson:"is_available"`
}

// AvailabilityDay holds the hourly inventory of one studio on one calendar
// date. (Studio, Date) is unique; Date is stored at midnight UTC.
type AvailabilityDay struct {
	ID     string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Studio string    `json:"studio" bson:"studio" validate:"required,mongodb"`
	Date   time.Time `json:"date" bson:"date" validate:"required"`
	Slots  []Slot    `json:"slots" bson:"slots" validate:"required,min=1,max=24,dive"`
}

// OpenHours returns the hours of this day currently open for booking.
func (d *AvailabilityDay) OpenHours() []int {
	hours := make([]int, 0, len(d.Slots))
	for _, s := range d.Slots {
		if s.IsAvailable {
			hours = append(hours, s.Hour)
		}
	}
	return hours
}

// DayInput is the availability payload owners send when creating or
// updating a studio: a date plus its slots.
type DayInput struct {
	Date  string `json:"date" validate:"required"`
	Slots []Slot `json:"slots" validate:"required,min=1,max=24,dive"`
}

// DayAvailability is one element of the availability query response.
type DayAvailability struct {
	Date  string `json:"date"`
	Hours []int  `json:"hours"`
}
