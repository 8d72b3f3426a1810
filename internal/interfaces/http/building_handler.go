package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inmobiliaria-api/internal/application/dto"
	"github.com/jhoicas/inmobiliaria-api/internal/application/usecase"
	"github.com/jhoicas/inmobiliaria-api/internal/domain"
	"github.com/jhoicas/inmobiliaria-api/pkg/logger"
)

// BuildingHandler maneja el listado y alta de edificios.
type BuildingHandler struct {
	uc  *usecase.BuildingUseCase
	log *logger.Logger
}

// NewBuildingHandler construye el handler de edificios.
func NewBuildingHandler(uc *usecase.BuildingUseCase, log *logger.Logger) *BuildingHandler {
	return &BuildingHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar edificios del scope del actor
// @Tags         buildings
// @Produce      json
// @Success      200  {object}  dto.BuildingListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /buildings [get]
func (h *BuildingHandler) List(c *fiber.Ctx) error {
	actor, ok := GetUserContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no verificada"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	out, err := h.uc.List(c.Context(), actor, page)
	if err != nil {
		h.log.Error().Err(err).Msg("listar edificios")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear edificio
// @Tags         buildings
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBuildingRequest  true  "datos del edificio"
// @Success      201  {object}  dto.BuildingResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Security     BearerAuth
// @Router       /buildings [post]
func (h *BuildingHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetUserContext(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "identidad no verificada"})
	}
	var in dto.CreateBuildingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), actor, in)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "nombre y tenant_id son requeridos"})
		case errors.Is(err, domain.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "tenant fuera de su scope"})
		default:
			h.log.Error().Err(err).Msg("crear edificio")
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
		}
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
