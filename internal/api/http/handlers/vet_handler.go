package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vetclinic-service/internal/api/dto"
	"github.com/spec-kit/vetclinic-service/internal/auth"
	"github.com/spec-kit/vetclinic-service/internal/service"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// VetHandler exposes account and session endpoints.
type VetHandler struct {
	auth *service.AuthService
}

// NewVetHandler constructs handler.
func NewVetHandler(authService *service.AuthService) *VetHandler {
	return &VetHandler{auth: authService}
}

// Register handles POST /vet/register.
func (h *VetHandler) Register(c *fiber.Ctx) error {
	var req dto.VetRegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	vet, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Name:     req.Name,
		CRMV:     req.CRMV,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewRegisterResponse(vet))
}

// Login handles POST /vet/login.
func (h *VetHandler) Login(c *fiber.Ctx) error {
	var req dto.VetLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	res, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLoginResponse(res))
}

// Refresh handles POST /vet/refresh.
func (h *VetHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	res, err := h.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(dto.RefreshResponse{AccessToken: res.AccessToken, ExpiresIn: res.ExpiresIn})
}

// Logout handles POST /vet/logout.
func (h *VetHandler) Logout(c *fiber.Ctx) error {
	var req dto.RefreshTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	if err := h.auth.Logout(c.UserContext(), req.RefreshToken); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Logged out successfully"})
}

// List handles GET /vet/list.
func (h *VetHandler) List(c *fiber.Ctx) error {
	vets, err := h.auth.ListVets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewVetOptions(vets))
}

// ChangePassword handles POST /vet/password.
func (h *VetHandler) ChangePassword(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewTokenNotProvided()
	}

	var req dto.ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	if err := h.auth.ChangePassword(c.UserContext(), identity.VetID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Password changed successfully"})
}
