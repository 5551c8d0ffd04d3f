package domain

import (
	"errors"
	"time"
)

// Category classifies which kind of third-party system a credential belongs to.
type Category string

const (
	CategoryMunicipalities   Category = "municipalities"
	CategorySuppliers        Category = "suppliers"
	CategoryGovernmentBodies Category = "government-bodies"
	CategoryFleetPortals     Category = "fleet-portals"
)

// Categories lists every valid category, in display order.
var Categories = []Category{
	CategoryMunicipalities,
	CategorySuppliers,
	CategoryGovernmentBodies,
	CategoryFleetPortals,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

var ErrCredentialNotFound = errors.New("credential not found")
var ErrInvalidCategory = errors.New("invalid category")
var ErrSecretRequired = errors.New("secret is required")
var ErrSecretUnavailable = errors.New("secret unavailable")
var ErrForbidden = errors.New("access forbidden")

// Credential is a stored third-party system login. The actual password is
// held only as SecretCiphertext; plaintext never appears on this type.
type Credential struct {
	ID               string     `json:"id" bson:"_id,omitempty"`
	SystemName       string     `json:"system_name" bson:"system_name"`
	Username         string     `json:"username" bson:"username"`
	URL              string     `json:"url,omitempty" bson:"url,omitempty"`
	Notes            string     `json:"notes,omitempty" bson:"notes,omitempty"`
	SecretCiphertext string     `json:"-" bson:"secret_ciphertext"`
	Category         Category   `json:"category" bson:"category"`
	LocationID       string     `json:"location_id" bson:"location_id"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty" bson:"expiry_date,omitempty"`
	CreatedBy        string     `json:"created_by" bson:"created_by"`
	UpdatedBy        string     `json:"updated_by" bson:"updated_by"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
	LastUpdated      time.Time  `json:"last_updated" bson:"last_updated"`
}

// ExpiresWithin reports whether the credential has an expiry date falling
// inside the next d. Credentials without an expiry date never expire.
func (c *Credential) ExpiresWithin(d time.Duration, now time.Time) bool {
	if c.ExpiryDate == nil {
		return false
	}
	return !c.ExpiryDate.Before(now) && c.ExpiryDate.Before(now.Add(d))
}
