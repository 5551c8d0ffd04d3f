package handler

import (
	"time"

	"github.com/campneus/cofre/internal/core/domain"
	"github.com/campneus/cofre/internal/core/ports"
)

// credentialRequest is the create/update payload. Secret is required on
// create; on update an empty secret keeps the stored one.
type credentialRequest struct {
	SystemName string `json:"system_name" validate:"required,max=200"`
	Username   string `json:"username" validate:"required,max=200"`
	Secret     string `json:"secret" validate:"omitempty,max=500"`
	URL        string `json:"url" validate:"omitempty,url"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
	Category   string `json:"category" validate:"required,oneof=municipalities suppliers government-bodies fleet-portals"`
	LocationID string `json:"location_id" validate:"omitempty"`
	ExpiryDate string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *credentialRequest) toInput() (ports.CredentialInput, error) {
	input := ports.CredentialInput{
		SystemName: r.SystemName,
		Username:   r.Username,
		Secret:     r.Secret,
		URL:        r.URL,
		Notes:      r.Notes,
		Category:   domain.Category(r.Category),
		LocationID: r.LocationID,
	}
	if r.ExpiryDate != "" {
		d, err := time.Parse("2006-01-02", r.ExpiryDate)
		if err != nil {
			return ports.CredentialInput{}, err
		}
		input.ExpiryDate = &d
	}
	return input, nil
}

// listCredentialsQuery captures the list endpoint's query string.
type listCredentialsQuery struct {
	Category   string `query:"category" validate:"omitempty,oneof=municipalities suppliers government-bodies fleet-portals"`
	LocationID string `query:"location_id"`
	Search     string `query:"search" validate:"omitempty,max=200"`
	Page       int    `query:"page" validate:"omitempty,min=1"`
	Limit      int    `query:"limit" validate:"omitempty,min=1,max=100"`
}

type secretResponse struct {
	Secret string `json:"secret"`
}
