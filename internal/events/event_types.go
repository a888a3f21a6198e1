package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventVetRegistered     EventType = "vet_registered"
	EventSessionStarted    EventType = "session_started"
	EventSessionEnded      EventType = "session_ended"
	EventPasswordChanged   EventType = "password_changed"
	EventAnamneseSubmitted EventType = "anamnese_submitted"
	EventClientDeleted     EventType = "client_deleted"
	EventPetDeleted        EventType = "pet_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	VetID     string      `json:"vet_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// VetRegisteredPayload payload.
type VetRegisteredPayload struct {
	Email string `json:"email"`
	CRMV  string `json:"crmv"`
}

// SessionEndedPayload payload.
type SessionEndedPayload struct {
	Reason  string `json:"reason"`
	Revoked int64  `json:"revoked"`
}

// AnamneseSubmittedPayload payload.
type AnamneseSubmittedPayload struct {
	PetID  string `json:"pet_id"`
	Reason string `json:"reason"`
}
