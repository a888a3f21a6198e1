package domain

import "time"

// Pet is an animal owned by a client.
type Pet struct {
	ID        string
	OwnerID   string
	Name      string
	Species   string
	Breed     string
	Age       *int
	Weight    *float64
	CreatedAt time.Time
	UpdatedAt time.Time

	Owner     *Client
	Anamneses []Anamnese
}

// PetPatch carries optional fields for partial updates.
type PetPatch struct {
	Name    *string
	Species *string
	Breed   *string
	Age     *int
	Weight  *float64
}
