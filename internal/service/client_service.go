package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/events"
	"github.com/spec-kit/vetclinic-service/internal/repository"
	"github.com/spec-kit/vetclinic-service/internal/validation"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// ClientService manages pet owners.
type ClientService struct {
	clients    repository.ClientRepository
	pets       repository.PetRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// RecordDependencies bundles repositories shared by the record services.
type RecordDependencies struct {
	ClientRepo   repository.ClientRepository
	PetRepo      repository.PetRepository
	AnamneseRepo repository.AnamneseRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

func (d RecordDependencies) withDefaults() RecordDependencies {
	if d.Dispatcher == nil {
		d.Dispatcher = events.Nop{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	return d
}

// ClientInput describes client creation payload.
type ClientInput struct {
	Name    string
	Phone   string
	Email   string
	Address string
	VetIDs  []string
}

// NewClientService creates the service.
func NewClientService(deps RecordDependencies) *ClientService {
	deps = deps.withDefaults()
	return &ClientService{
		clients:    deps.ClientRepo,
		pets:       deps.PetRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

// Create stores a client linked to the creating vet and any extra vets given.
func (s *ClientService) Create(ctx context.Context, vetID string, in ClientInput) (*domain.Client, error) {
	var v validation.Collector
	v.Required("name", in.Name, "Name is required")
	v.Phone("phone", in.Phone)
	if strings.TrimSpace(in.Email) != "" {
		v.Email("email", in.Email)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	client := &domain.Client{
		Name:    strings.TrimSpace(in.Name),
		Phone:   strings.TrimSpace(in.Phone),
		Email:   validation.NormalizeEmail(in.Email),
		Address: strings.TrimSpace(in.Address),
		VetIDs:  linkVets(vetID, in.VetIDs),
	}
	if err := s.clients.Create(ctx, client); err != nil {
		return nil, storeErr(err)
	}
	return client, nil
}

// List returns a page of clients.
func (s *ClientService) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Client], error) {
	page, err := s.clients.List(ctx, opts.Normalize())
	if err != nil {
		return nil, storeErr(err)
	}
	return page, nil
}

// Get returns the client with its pets.
func (s *ClientService) Get(ctx context.Context, id string) (*domain.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Client")
	}
	pets, err := s.pets.ListByOwner(ctx, client.ID)
	if err != nil {
		return nil, storeErr(err)
	}
	client.Pets = pets
	return client, nil
}

// Update applies a partial change.
func (s *ClientService) Update(ctx context.Context, id string, patch domain.ClientPatch) (*domain.Client, error) {
	var v validation.Collector
	if patch.Name != nil {
		v.Required("name", *patch.Name, "Name is required")
	}
	if patch.Phone != nil {
		v.Phone("phone", *patch.Phone)
	}
	v.OptionalEmail("email", patch.Email)
	if patch.VetIDs != nil && len(patch.VetIDs) == 0 {
		v.Add("vets", "At least one vet is required")
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	if patch.Email != nil {
		email := validation.NormalizeEmail(*patch.Email)
		patch.Email = &email
	}

	client, err := s.clients.Update(ctx, id, patch)
	if err != nil {
		return nil, notFound(err, "Client")
	}
	return client, nil
}

// Delete removes the client and everything recorded under it.
func (s *ClientService) Delete(ctx context.Context, vetID, id string) error {
	if err := s.clients.Delete(ctx, id); err != nil {
		return notFound(err, "Client")
	}
	if err := s.dispatcher.Publish(ctx, events.Event{Type: events.EventClientDeleted, SubjectID: id, VetID: vetID}); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(events.EventClientDeleted)), zap.Error(err))
	}
	return nil
}

func linkVets(creator string, extra []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(extra)+1)
	for _, id := range append([]string{creator}, extra...) {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// notFound names the missing resource and routes everything else through storeErr.
func notFound(err error, resource string) error {
	if errors.Is(err, apperrors.ErrRecordNotFound) {
		return apperrors.NewNotFound(resource)
	}
	return storeErr(err)
}
