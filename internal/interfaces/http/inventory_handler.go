package http

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jpcastellanos/obra-api/internal/application/dto"
	"github.com/jpcastellanos/obra-api/internal/application/materials"
	"github.com/jpcastellanos/obra-api/internal/domain"
)

// InventoryHandler maneja el libro de movimientos de material (protegido).
type InventoryHandler struct {
	uc       *materials.RegisterMovementUseCase
	validate *validator.Validate
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *materials.RegisterMovementUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc, validate: validator.New()}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de material
// @Description  Registra una entrada (GRN) o salida (vale) en el libro. Un
//
//	movimiento aprobado recalcula el corte del proyecto de inmediato.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "project_id, item_name, direction (INWARD/OUTWARD), quantity, unit, status"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	resp, err := h.uc.RegisterMovement(c.Context(), &in, userID)
	if err != nil {
		return movementError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListMovements godoc
// @Summary      Listar movimientos del proyecto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        projectId  path   int     true   "ID del proyecto"
// @Param        direction  query  string  false  "INWARD u OUTWARD (vacío = ambas)"
// @Param        limit      query  int     false  "Máximo de filas (default 50)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{projectId} [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	projectID, err := strconv.Atoi(c.Params("projectId"))
	if err != nil || projectID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PROJECT", Message: "projectId debe ser un entero positivo"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "paginación inválida"})
	}
	page.DefaultPage()

	movs, err := h.uc.ListMovements(c.Context(), projectID, c.Query("direction"), page)
	if err != nil {
		return movementError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":     len(movs),
		"movements": movs,
	})
}

// movementError traduce errores de dominio a códigos HTTP.
func movementError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proyecto no encontrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de escritura concurrente, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
