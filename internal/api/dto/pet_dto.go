package dto

import (
	"time"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/service"
)

// PetRequest payload for pet creation.
type PetRequest struct {
	Owner   string   `json:"owner"`
	Name    string   `json:"name"`
	Species string   `json:"species"`
	Breed   string   `json:"breed"`
	Age     *int     `json:"age"`
	Weight  *float64 `json:"weight"`
}

// PetUpdateRequest payload for partial updates.
type PetUpdateRequest struct {
	Name    *string  `json:"name"`
	Species *string  `json:"species"`
	Breed   *string  `json:"breed"`
	Age     *int     `json:"age"`
	Weight  *float64 `json:"weight"`
}

// PetResponse is the JSON view of a pet. Owner is the client id, or the client when loaded.
type PetResponse struct {
	ID        string             `json:"_id"`
	Owner     any                `json:"owner"`
	Name      string             `json:"name"`
	Species   string             `json:"species"`
	Breed     string             `json:"breed,omitempty"`
	Age       *int               `json:"age,omitempty"`
	Weight    *float64           `json:"weight,omitempty"`
	Anamneses []AnamneseResponse `json:"anamneses,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

func (r PetRequest) Input() service.PetInput {
	return service.PetInput{OwnerID: r.Owner, Name: r.Name, Species: r.Species, Breed: r.Breed, Age: r.Age, Weight: r.Weight}
}

func (r PetUpdateRequest) Patch() domain.PetPatch {
	return domain.PetPatch{Name: r.Name, Species: r.Species, Breed: r.Breed, Age: r.Age, Weight: r.Weight}
}

func NewPetResponse(p domain.Pet) PetResponse {
	resp := PetResponse{
		ID:        p.ID,
		Owner:     p.OwnerID,
		Name:      p.Name,
		Species:   p.Species,
		Breed:     p.Breed,
		Age:       p.Age,
		Weight:    p.Weight,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Owner != nil {
		resp.Owner = NewClientResponse(*p.Owner)
	}
	for _, a := range p.Anamneses {
		resp.Anamneses = append(resp.Anamneses, NewAnamneseResponse(a))
	}
	return resp
}
