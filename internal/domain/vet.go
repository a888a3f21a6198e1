package domain

import "time"

// Vet is the clinician account that owns sessions and records.
type Vet struct {
	ID           string
	Name         string
	CRMV         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
