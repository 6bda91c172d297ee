package model

import "time"

// Package is a bookable pricing tier. Exactly one is selected per booking
// and its price multiplies by the booked hour count.
type Package struct {
	Key         string  `json:"key" bson:"key" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" bson:"price" validate:"required,gt=0"`
	Description string  `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
}

// AddOn is an optional extra with a per-unit price and a quantity cap.
type AddOn struct {
	Key         string  `json:"key" bson:"key" validate:"required,min=1,max=100"`
	Name        string  `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Price       float64 `json:"price" bson:"price" validate:"required,gt=0"`
	Description string  `json:"description,omitempty" bson:"description,omitempty" validate:"omitempty,max=500"`
	MaxQuantity int     `json:"maxQuantity" bson:"max_quantity" validate:"required,min=1,max=50"`
}

type Location struct {
	FullAddress string `json:"fullAddress" bson:"full_address" validate:"omitempty,max=300"`
	City        string `json:"city" bson:"city" validate:"omitempty,max=100"`
	State       string `json:"state" bson:"state" validate:"omitempty,max=100"`
	PinCode     string `json:"pinCode" bson:"pin_code" validate:"omitempty,max=20"`
}

type RatingSummary struct {
	Average float64 `json:"average" bson:"average"`
	Count   int64   `json:"count" bson:"count"`
}

// OperationalHours is the daily open window, Start inclusive, End exclusive.
type OperationalHours struct {
	Start int `json:"start" bson:"start" validate:"min=0,max=23"`
	End   int `json:"end" bson:"end" validate:"required,min=1,max=24,gtfield=Start"`
}

type Studio struct {
	ID                   string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name                 string           `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Description          string           `json:"description,omitempty" bson:"description" validate:"omitempty,max=2000"`
	Owner                string           `json:"owner" bson:"owner" validate:"required,mongodb"`
	Equipments           []string         `json:"equipments,omitempty" bson:"equipments" validate:"omitempty,dive,min=1,max=100"`
	Amenities            []string         `json:"amenities,omitempty" bson:"amenities" validate:"omitempty,dive,min=1,max=100"`
	Images               []string         `json:"images,omitempty" bson:"images" validate:"omitempty,dive,url"`
	Location             Location         `json:"location" bson:"location"`
	RatingSummary        RatingSummary    `json:"ratingSummary" bson:"rating_summary"`
	Approved             bool             `json:"approved" bson:"approved"`
	PricePerHour         float64          `json:"pricePerHour" bson:"price_per_hour" validate:"required,gt=0"`
	MinimumDurationHours int              `json:"minimumDurationHours" bson:"minimum_duration_hours" validate:"required,min=1,max=8"`
	OperationalHours     OperationalHours `json:"operationalHours" bson:"operational_hours"`
	Packages             []Package        `json:"packages" bson:"packages" validate:"required,min=1,dive"`
	AddOns               []AddOn          `json:"addons,omitempty" bson:"addons" validate:"omitempty,dive"`
	YoutubeLinks         []string         `json:"youtubeLinks,omitempty" bson:"youtube_links" validate:"omitempty,max=2,dive,url"`
	InstagramUsername    string           `json:"instagramUsername,omitempty" bson:"instagram_username" validate:"omitempty,max=100"`
	Area                 float64          `json:"area,omitempty" bson:"area" validate:"omitempty,gt=0"`
	Rules                string           `json:"rules,omitempty" bson:"rules" validate:"omitempty,max=2000"`
	CreatedAt            time.Time        `json:"createdAt" bson:"created_at"`
	UpdatedAt            time.Time        `json:"updatedAt" bson:"updated_at"`
}

// FindPackage returns the studio's package with the given key.
func (s *Studio) FindPackage(key string) (Package, bool) {
	for _, p := range s.Packages {
		if p.Key == key {
			return p, true
		}
	}
	return Package{}, false
}

// FindAddOn returns the studio's add-on with the given key.
func (s *Studio) FindAddOn(key string) (AddOn, bool) {
	for _, a := range s.AddOns {
		if a.Key == key {
			return a, true
		}
	}
	return AddOn{}, false
}
