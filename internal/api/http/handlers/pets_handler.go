package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vetclinic-service/internal/api/dto"
	"github.com/spec-kit/vetclinic-service/internal/auth"
	"github.com/spec-kit/vetclinic-service/internal/service"
)

// PetsHandler exposes pet endpoints.
type PetsHandler struct {
	pets *service.PetService
}

// NewPetsHandler constructs handler.
func NewPetsHandler(pets *service.PetService) *PetsHandler {
	return &PetsHandler{pets: pets}
}

// Create handles POST /pet.
func (h *PetsHandler) Create(c *fiber.Ctx) error {
	var req dto.PetRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	pet, err := h.pets.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewPetResponse(*pet))
}

// List handles GET /pet.
func (h *PetsHandler) List(c *fiber.Ctx) error {
	opts, err := parseListOptions(c)
	if err != nil {
		return err
	}

	page, err := h.pets.List(c.UserContext(), opts)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(page, opts.Normalize(), dto.NewPetResponse))
}

// Get handles GET /pet/:id.
func (h *PetsHandler) Get(c *fiber.Ctx) error {
	pet, err := h.pets.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPetResponse(*pet))
}

// Update handles PUT /pet/:id.
func (h *PetsHandler) Update(c *fiber.Ctx) error {
	var req dto.PetUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	pet, err := h.pets.Update(c.UserContext(), c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPetResponse(*pet))
}

// Delete handles DELETE /pet/:id.
func (h *PetsHandler) Delete(c *fiber.Ctx) error {
	var vetID string
	if identity, ok := auth.IdentityFromContext(c); ok {
		vetID = identity.VetID
	}
	if err := h.pets.Delete(c.UserContext(), vetID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Pet deleted successfully"})
}
