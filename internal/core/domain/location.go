package domain

import (
	"errors"
	"time"
)

var ErrLocationNotFound = errors.New("location not found")
var ErrLocationInUse = errors.New("location still referenced by credentials")

// Location is an organizational site that credentials and users are scoped to.
// It may only be deleted while no credential references it.
type Location struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	Name      string    `json:"name" bson:"name"`
	Code      string    `json:"code" bson:"code"`
	City      string    `json:"city,omitempty" bson:"city,omitempty"`
	Active    bool      `json:"active" bson:"active"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}
