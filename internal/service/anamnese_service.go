package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/events"
	"github.com/spec-kit/vetclinic-service/internal/repository"
	"github.com/spec-kit/vetclinic-service/internal/validation"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// AnamneseService records clinical intakes.
type AnamneseService struct {
	anamneses  repository.AnamneseRepository
	pets       repository.PetRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// AnamneseInput describes a submitted intake form.
type AnamneseInput struct {
	PetID           string
	Date            *time.Time
	Reason          string
	ClinicalHistory domain.ClinicalHistory
	Symptoms        domain.Symptoms
	PhysicalExam    domain.PhysicalExam
	Assessment      string
	Plan            string
}

// NewAnamneseService creates the service.
func NewAnamneseService(deps RecordDependencies) *AnamneseService {
	deps = deps.withDefaults()
	return &AnamneseService{
		anamneses:  deps.AnamneseRepo,
		pets:       deps.PetRepo,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		now:        time.Now,
	}
}

// Submit stores an intake form for an existing pet.
func (s *AnamneseService) Submit(ctx context.Context, in AnamneseInput) (*domain.Anamnese, error) {
	var v validation.Collector
	v.Required("pet", in.PetID, "Pet is required")
	v.Required("reason", in.Reason, "Reason is required")
	if in.PhysicalExam.Temperature != nil && *in.PhysicalExam.Temperature <= 0 {
		v.Add("physicalExam.temperature", "Temperature must be a positive number")
	}
	v.NonNegativeInt("physicalExam.heartRate", in.PhysicalExam.HeartRate, "Heart rate must be a positive number")
	v.NonNegativeInt("physicalExam.respiratoryRate", in.PhysicalExam.RespiratoryRate, "Respiratory rate must be a positive number")
	if err := v.Err(); err != nil {
		return nil, err
	}

	pet, err := s.pets.GetByID(ctx, in.PetID)
	if err != nil {
		return nil, notFound(err, "Pet")
	}

	date := s.now().UTC()
	if in.Date != nil && !in.Date.IsZero() {
		date = in.Date.UTC()
	}

	anamnese := &domain.Anamnese{
		PetID:           pet.ID,
		Date:            date,
		Reason:          strings.TrimSpace(in.Reason),
		ClinicalHistory: in.ClinicalHistory,
		Symptoms:        in.Symptoms,
		PhysicalExam:    in.PhysicalExam,
		Assessment:      in.Assessment,
		Plan:            in.Plan,
	}
	if err := s.anamneses.Create(ctx, anamnese); err != nil {
		return nil, storeErr(err)
	}

	event := events.Event{
		Type:      events.EventAnamneseSubmitted,
		SubjectID: anamnese.ID,
		Payload:   events.AnamneseSubmittedPayload{PetID: pet.ID, Reason: anamnese.Reason},
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
	return anamnese, nil
}

// List returns a page of anamneses.
func (s *AnamneseService) List(ctx context.Context, opts domain.ListOptions) (*domain.Page[domain.Anamnese], error) {
	if opts.SortBy == "" {
		opts.SortBy = "date"
	}
	page, err := s.anamneses.List(ctx, opts.Normalize())
	if err != nil {
		return nil, storeErr(err)
	}
	return page, nil
}

// Get returns the anamnese with its pet.
func (s *AnamneseService) Get(ctx context.Context, id string) (*domain.Anamnese, error) {
	anamnese, err := s.anamneses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Anamnese")
	}
	pet, err := s.pets.GetByID(ctx, anamnese.PetID)
	switch {
	case err == nil:
		anamnese.Pet = pet
	case !errors.Is(err, apperrors.ErrRecordNotFound):
		s.logger.Warn("anamnese pet lookup failed",
			zap.String("anamnese_id", anamnese.ID),
			zap.String("pet_id", anamnese.PetID),
			zap.Error(err))
	}
	return anamnese, nil
}
