package dto

import (
	"time"

	"github.com/spec-kit/vetclinic-service/internal/domain"
	"github.com/spec-kit/vetclinic-service/internal/service"
)

// VetRegisterRequest payload for new vets.
type VetRegisterRequest struct {
	Name     string `json:"name"`
	CRMV     string `json:"crmv"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VetLoginRequest payload for login.
type VetLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshTokenRequest carries a refresh token for refresh and logout.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// ChangePasswordRequest payload for password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// VetSummary is the registration view of a vet.
type VetSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	CRMV  string `json:"crmv"`
	Email string `json:"email"`
}

// RegisterResponse is returned by POST /vet/register.
type RegisterResponse struct {
	Message string     `json:"message"`
	Vet     VetSummary `json:"vet"`
}

// SessionVet is the vet view embedded in a login response.
type SessionVet struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// LoginResponse is returned by POST /vet/login.
type LoginResponse struct {
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
	ExpiresIn    int64      `json:"expiresIn"`
	Vet          SessionVet `json:"vet"`
}

// RefreshResponse is returned by POST /vet/refresh.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int64  `json:"expiresIn"`
}

// MessageResponse is a bare confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// VetOption is one entry of the vet picker list.
type VetOption struct {
	Value string `json:"value"`
	ID    string `json:"id"`
}

func NewRegisterResponse(v *domain.Vet) RegisterResponse {
	return RegisterResponse{
		Message: "Vet registered successfully",
		Vet:     VetSummary{ID: v.ID, Name: v.Name, CRMV: v.CRMV, Email: v.Email},
	}
}

func NewLoginResponse(res *service.LoginResult) LoginResponse {
	return LoginResponse{
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		ExpiresIn:    res.ExpiresIn,
		Vet: SessionVet{
			ID:        res.Vet.ID,
			Email:     res.Vet.Email,
			Name:      res.Vet.Name,
			CreatedAt: res.Vet.CreatedAt,
		},
	}
}

func NewVetOptions(vets []domain.Vet) []VetOption {
	out := make([]VetOption, 0, len(vets))
	for _, v := range vets {
		out = append(out, VetOption{Value: v.Name, ID: v.ID})
	}
	return out
}
