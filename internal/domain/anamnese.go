package domain

import "time"

// Anamnese is a clinical intake record for a pet.
type Anamnese struct {
	ID              string
	PetID           string
	Date            time.Time
	Reason          string
	ClinicalHistory ClinicalHistory
	Symptoms        Symptoms
	PhysicalExam    PhysicalExam
	Assessment      string
	Plan            string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Pet *Pet
}

type ClinicalHistory struct {
	PreviousDiseases string `json:"previousDiseases,omitempty" bson:"previousDiseases,omitempty"`
	Medications      string `json:"medications,omitempty" bson:"medications,omitempty"`
	Allergies        string `json:"allergies,omitempty" bson:"allergies,omitempty"`
	Surgeries        string `json:"surgeries,omitempty" bson:"surgeries,omitempty"`
	Vaccines         string `json:"vaccines,omitempty" bson:"vaccines,omitempty"`
	Diet             string `json:"diet,omitempty" bson:"diet,omitempty"`
}

type Symptoms struct {
	Vomiting     bool   `json:"vomiting" bson:"vomiting"`
	Diarrhea     bool   `json:"diarrhea" bson:"diarrhea"`
	Coughing     bool   `json:"coughing" bson:"coughing"`
	Sneezing     bool   `json:"sneezing" bson:"sneezing"`
	Itching      bool   `json:"itching" bson:"itching"`
	Bleeding     bool   `json:"bleeding" bson:"bleeding"`
	Lethargy     bool   `json:"lethargy" bson:"lethargy"`
	AppetiteLoss bool   `json:"appetiteLoss" bson:"appetiteLoss"`
	Notes        string `json:"notes,omitempty" bson:"notes,omitempty"`
}

type PhysicalExam struct {
	Temperature     *float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	HeartRate       *int     `json:"heartRate,omitempty" bson:"heartRate,omitempty"`
	RespiratoryRate *int     `json:"respiratoryRate,omitempty" bson:"respiratoryRate,omitempty"`
	Hydration       string   `json:"hydration,omitempty" bson:"hydration,omitempty"`
	MucousColor     string   `json:"mucousColor,omitempty" bson:"mucousColor,omitempty"`
	Observations    string   `json:"observations,omitempty" bson:"observations,omitempty"`
}
