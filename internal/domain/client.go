package domain

import "time"

// Client is a pet owner (tutor).
type Client struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	Address   string
	VetIDs    []string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Pets is populated only by detail lookups.
	Pets []Pet
}

// ClientPatch carries optional fields for partial updates.
type ClientPatch struct {
	Name    *string
	Phone   *string
	Email   *string
	Address *string
	VetIDs  []string
}
