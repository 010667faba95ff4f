package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jpcastellanos/obra-api/internal/application/dto"
	"github.com/jpcastellanos/obra-api/internal/application/materials"
	"github.com/jpcastellanos/obra-api/internal/domain"
)

// MaterialHandler maneja el tablero de materiales y el corte manual (protegido).
type MaterialHandler struct {
	reconcile *materials.ReconcileUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(reconcile *materials.ReconcileUseCase) *MaterialHandler {
	return &MaterialHandler{reconcile: reconcile}
}

// GetMaterials godoc
// @Summary      Tablero de materiales del proyecto
// @Description  Reconcilia el stock del día y devuelve la lista completa de
//
//	materiales con disponible, requerido y nivel de urgencia.
//
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        projectId  path  int  true  "ID del proyecto"
// @Success      200  {array}   dto.MaterialRow
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{projectId} [get]
func (h *MaterialHandler) GetMaterials(c *fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PROJECT", Message: "projectId debe ser un entero positivo"})
	}
	rows, err := h.reconcile.GetMaterialRows(c.Context(), projectID)
	if err != nil {
		return materialError(c, err)
	}
	return c.JSON(rows)
}

// GetAlerts godoc
// @Summary      Materiales en nivel Urgent
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        projectId  path  int  true  "ID del proyecto"
// @Success      200  {array}   dto.MaterialRow
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{projectId}/alerts [get]
func (h *MaterialHandler) GetAlerts(c *fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PROJECT", Message: "projectId debe ser un entero positivo"})
	}
	rows, err := h.reconcile.GetUrgentRows(c.Context(), projectID)
	if err != nil {
		return materialError(c, err)
	}
	return c.JSON(rows)
}

// Rollover godoc
// @Summary      Corte manual del día
// @Description  Garantiza que el proyecto tenga corte de hoy; si ya existe no
//
//	hace nada. Mismo efecto que el corte automático de medianoche.
//
// @Tags         materials
// @Security     Bearer
// @Produce      json
// @Param        projectId  path  int  true  "ID del proyecto"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/materials/{projectId}/rollover [post]
func (h *MaterialHandler) Rollover(c *fiber.Ctx) error {
	projectID, err := parseProjectID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_PROJECT", Message: "projectId debe ser un entero positivo"})
	}
	if err := h.reconcile.EnsureTodaySnapshot(c.Context(), projectID); err != nil {
		return materialError(c, err)
	}
	return c.JSON(fiber.Map{"message": "corte del día garantizado"})
}

func parseProjectID(c *fiber.Ctx) (int, error) {
	id, err := strconv.Atoi(c.Params("projectId"))
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidInput
	}
	return id, nil
}

// materialError traduce errores de dominio a códigos HTTP.
func materialError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "proyecto no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto de escritura concurrente, reintente"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
