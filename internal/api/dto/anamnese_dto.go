package dto

import (
	"time"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/service"
)

// AnamneseRequest is the public intake form.
type AnamneseRequest struct {
	Pet             string                 `json:"pet"`
	Date            *time.Time             `json:"date"`
	Reason          string                 `json:"reason"`
	ClinicalHistory domain.ClinicalHistory `json:"clinicalHistory"`
	Symptoms        domain.Symptoms        `json:"symptoms"`
	PhysicalExam    domain.PhysicalExam    `json:"physicalExam"`
	Assessment      string                 `json:"assessment"`
	Plan            string                 `json:"plan"`
}

// AnamneseResponse is the JSON view of an anamnese. Pet is the pet id, or the pet when loaded.
type AnamneseResponse struct {
	ID              string                 `json:"_id"`
	Pet             any                    `json:"pet"`
	Date            time.Time              `json:"date"`
	Reason          string                 `json:"reason"`
	ClinicalHistory domain.ClinicalHistory `json:"clinicalHistory"`
	Symptoms        domain.Symptoms        `json:"symptoms"`
	PhysicalExam    domain.PhysicalExam    `json:"physicalExam"`
	Assessment      string                 `json:"assessment,omitempty"`
	Plan            string                 `json:"plan,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

func (r AnamneseRequest) Input() service.AnamneseInput {
	return service.AnamneseInput{
		PetID:           r.Pet,
		Date:            r.Date,
		Reason:          r.Reason,
		ClinicalHistory: r.ClinicalHistory,
		Symptoms:        r.Symptoms,
		PhysicalExam:    r.PhysicalExam,
		Assessment:      r.Assessment,
		Plan:            r.Plan,
	}
}

func NewAnamneseResponse(a domain.Anamnese) AnamneseResponse {
	resp := AnamneseResponse{
		ID:              a.ID,
		Pet:             a.PetID,
		Date:            a.Date,
		Reason:          a.Reason,
		ClinicalHistory: a.ClinicalHistory,
		Symptoms:        a.Symptoms,
		PhysicalExam:    a.PhysicalExam,
		Assessment:      a.Assessment,
		Plan:            a.Plan,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if a.Pet != nil {
		resp.Pet = NewPetResponse(*a.Pet)
	}
	return resp
}
