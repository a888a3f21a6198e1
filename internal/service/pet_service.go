package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/events"
	"github.com/spec-kit/vetclinic-service/internal/repository"
	"github.com/spec-kit/vetclinic-service/internal/validation"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// PetService manages pets.
type PetService struct {
	pets       repository.PetRepository
	clients    repository.ClientRepository
	anamneses  repository.AnamneseRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PetInput describes pet creation payload.
type PetInput struct {
	OwnerID string
	Name    string
	Species string
	Breed   string
	Age     *int
	Weight  *float64
}

// NewPetService creates the service.
func NewPetService(deps RecordDependencies) *PetService {
	deps = deps.withDefaults()
	return &PetService{
		pets:       deps.PetRepo,
		clients:    deps.ClientRepo,
		anamneses:  deps.AnamneseRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create registers a pet under an existing client.
func (s *PetService) Create(ctx context.Context, in PetInput) (*domain.Pet, error) {
	var v validation.Collector
	v.Required("owner", in.OwnerID, "Owner is required")
	v.Required("name", in.Name, "Name is required")
	v.Required("species", in.Species, "Species is required")
	v.NonNegativeInt("age", in.Age, "Age must be a positive number")
	v.NonNegativeFloat("weight", in.Weight, "Weight must be a positive number")
	if err := v.Err(); err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, in.OwnerID); err != nil {
		if errors.Is(err, apperrors.ErrRecordNotFound) {
			return nil, apperrors.NewDomainError(apperrors.CodeNotFound, "Owner (client) not found", http.StatusNotFound, nil)
		}
		return nil, storeErr(err)
	}

	pet := &domain.Pet{
		OwnerID: in.OwnerID,
		Name:    strings.TrimSpace(in.Name),
		Species: strings.TrimSpace(in.Species),
		Breed:   strings.TrimSpace(in.Breed),
		Age:     in.Age,
		Weight:  in.Weight,
	}
	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, storeErr(err)
	}
	return pet, nil
}

// List returns a page of pets.
func (s *PetService) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Pet], error) {
	page, err := s.pets.List(ctx, opts.Normalize())
	if err != nil {
		return nil, storeErr(err)
	}
	return page, nil
}

// Get returns the pet with its owner and anamneses.
func (s *PetService) Get(ctx context.Context, id string) (*domain.Pet, error) {
	pet, err := s.pets.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Pet")
	}

	owner, err := s.clients.GetByID(ctx, pet.OwnerID)
	switch {
	case err == nil:
		pet.Owner = owner
	case !errors.Is(err, apperrors.ErrRecordNotFound):
		return nil, storeErr(err)
	}

	anamneses, err := s.anamneses.ListByPet(ctx, pet.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	pet.Anamneses = anamneses
	return pet, nil
}

// Update applies a partial change.
func (s *PetService) Update(ctx context.Context, id string, patch domain.PetPatch) (*domain.Pet, error) {
	var v validation.Collector
	if patch.Name != nil {
		v.Required("name", *patch.Name, "Name is required")
	}
	if patch.Species != nil {
		v.Required("species", *patch.Species, "Species is required")
	}
	v.NonNegativeInt("age", patch.Age, "Age must be a positive number")
	v.NonNegativeFloat("weight", patch.Weight, "Weight must be a positive number")
	if err := v.Err(); err != nil {
		return nil, err
	}

	pet, err := s.pets.Update(ctx, id, patch)
	if err != nil {
		return nil, notFound(err, "Pet")
	}
	return pet, nil
}

// Delete removes the pet and its anamneses.
func (s *PetService) Delete(ctx context.Context, vetID, id string) error {
	if err := s.pets.Delete(ctx, id); err != nil {
		return notFound(err, "Pet")
	}
	if err := s.dispatcher.Publish(ctx, events.Event{Type: events.EventPetDeleted, SubjectID: id, VetID: vetID}); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(events.EventPetDeleted)), zap.Error(err))
	}
	return nil
}
