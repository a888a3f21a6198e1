package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vetclinic-service/internal/api/dto"
	"github.com/spec-kit/vetclinic-service/internal/service"
)

// AnamneseHandler exposes intake endpoints.
type AnamneseHandler struct {
	anamneses *service.AnamneseService
}

// NewAnamneseHandler constructs handler.
func NewAnamneseHandler(anamneses *service.AnamneseService) *AnamneseHandler {
	return &AnamneseHandler{anamneses: anamneses}
}

// Submit handles POST /anamnese. The route is public.
func (h *AnamneseHandler) Submit(c *fiber.Ctx) error {
	var req dto.AnamneseRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidBody
	}

	anamnese, err := h.anamneses.Submit(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.NewAnamneseResponse(*anamnese))
}

// List handles GET /anamnese.
func (h *AnamneseHandler) List(c *fiber.Ctx) error {
	opts, err := parseListOptions(c)
	if err != nil {
		return err
	}

	page, err := h.anamneses.List(c.UserContext(), opts)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewPageResponse(page, opts.Normalize(), dto.NewAnamneseResponse))
}

// Get handles GET /anamnese/:id.
func (h *AnamneseHandler) Get(c *fiber.Ctx) error {
	anamnese, err := h.anamneses.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAnamneseResponse(*anamnese))
}
