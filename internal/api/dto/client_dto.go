package dto

import (
	"time"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/service"
)

// ClientRequest payload for client creation.
type ClientRequest struct {
	Name    string   `json:"name"`
	Phone   string   `json:"phone"`
	Email   string   `json:"email"`
	Address string   `json:"address"`
	Vets    []string `json:"vets"`
}

// ClientUpdateRequest payload for partial updates.
type ClientUpdateRequest struct {
	Name    *string  `json:"name"`
	Phone   *string  `json:"phone"`
	Email   *string  `json:"email"`
	Address *string  `json:"address"`
	Vets    []string `json:"vets"`
}

// ClientResponse is the JSON view of a client.
type ClientResponse struct {
	ID        string        `json:"_id"`
	Name      string        `json:"name"`
	Phone     string        `json:"phone"`
	Email     string        `json:"email,omitempty"`
	Address   string        `json:"address,omitempty"`
	Vets      []string      `json:"vets"`
	Pets      []PetResponse `json:"pets,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

func (r ClientRequest) Input() service.ClientInput {
	return service.ClientInput{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address, VetIDs: r.Vets}
}

func (r ClientUpdateRequest) Patch() domain.ClientPatch {
	return domain.ClientPatch{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address, VetIDs: r.Vets}
}

func NewClientResponse(c domain.Client) ClientResponse {
	resp := ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Phone:     c.Phone,
		Email:     c.Email,
		Address:   c.Address,
		Vets:      c.VetIDs,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if resp.Vets == nil {
		resp.Vets = []string{}
	}
	for _, p := range c.Pets {
		resp.Pets = append(resp.Pets, NewPetResponse(p))
	}
	return resp
}
