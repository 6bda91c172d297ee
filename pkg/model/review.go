package model

import "time"

// Review is one reviewer's rating of a studio. At most one exists per
// (studio, reviewer); creation requires a strictly-past booking.
type Review struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Studio      string    `json:"studio" bson:"studio" validate:"required,mongodb"`
	Reviewer    string    `json:"reviewer" bson:"reviewer" validate:"required,mongodb"`
	Rating      int       `json:"rating" bson:"rating" validate:"required,min=1,max=5"`
	Description string    `json:"description" bson:"description" validate:"required,min=1,max=2000"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updated_at"`
}

type ReviewUpdate struct {
	Rating      *int   `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Description string `json:"description,omitempty" validate:"omitempty,min=1,max=2000"`
}
