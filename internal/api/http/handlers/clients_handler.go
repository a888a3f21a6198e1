package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vetclinic-service/internal/api/dto"
	"github.com/spec-kit/vetclinic-service/internal/auth"
	"github.com/spec-kit/vetclinic-service/internal/service"
	apperrors "github.com/spec-kit/vetclinic-service/pkg/util"
)

// ClientsHandler exposes client endpoints.
type ClientsHandler struct {
	clients *service.ClientService
}

// NewClientsHandler constructs handler.
func NewClientsHandler(clients *service.ClientService) *ClientsHandler {
	return &ClientsHandler{clients: clients}
}

// Create handles POST /client.
func (h *ClientsHandler) Create(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewTokenNotProvided()
	}

	var req dto.ClientRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	client, err := h.clients.Create(c.UserContext(), identity.VetID, req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewClientResponse(*client))
}

// List handles GET /client.
func (h *ClientsHandler) List(c *fiber.Ctx) error {
	opts, err := parseListOptions(c)
	if err != nil {
		return err
	}

	page, err := h.clients.List(c.UserContext(), opts)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(page, opts.Normalize(), dto.NewClientResponse))
}

// Get handles GET /client/:id.
func (h *ClientsHandler) Get(c *fiber.Ctx) error {
	client, err := h.clients.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewClientResponse(*client))
}

// Update handles PUT /client/:id.
func (h *ClientsHandler) Update(c *fiber.Ctx) error {
	var req dto.ClientUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	client, err := h.clients.Update(c.UserContext(), c.Params("id"), req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewClientResponse(*client))
}

// Delete handles DELETE /client/:id.
func (h *ClientsHandler) Delete(c *fiber.Ctx) error {
	var vetID string
	if identity, ok := auth.IdentityFromContext(c); ok {
		vetID = identity.VetID
	}
	if err := h.clients.Delete(c.UserContext(), vetID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Client deleted successfully"})
}
