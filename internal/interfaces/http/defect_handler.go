package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// DefectHandler unidades defectuosas.
type DefectHandler struct {
	errorResponder
	uc *inventory.DefectUseCase
}

// NewDefectHandler construye el handler.
func NewDefectHandler(uc *inventory.DefectUseCase, er errorResponder) *DefectHandler {
	return &DefectHandler{errorResponder: er, uc: uc}
}

// Register godoc
// @Summary      Registrar unidad defectuosa
// @Description  Da de baja una unidad y la deja pendiente de resolución.
// @Tags         defects
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterDefectRequest  true  "sku, description, suggested_action"
// @Success      201   {object}  dto.DefectResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/defects [post]
func (h *DefectHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterDefectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.RegisterDefect(c.UserContext(), GetAccountID(c), GetUserID(c), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar unidades defectuosas
// @Tags         defects
// @Security     Bearer
// @Produce      json
// @Param        status  query     string  false  "pending | resolved (vacío = todos)"
// @Success      200     {object}  map[string]interface{}  "total e items (dto.DefectResponse)"
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/defects [get]
func (h *DefectHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListDefects(c.UserContext(), GetAccountID(c), c.Query("status"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Resolve godoc
// @Summary      Resolver unidad defectuosa
// @Description  Archiva el registro; no modifica el stock.
// @Tags         defects
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID del registro"
// @Success      200  {object}  dto.DefectResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/defects/{id}/resolve [post]
func (h *DefectHandler) Resolve(c *fiber.Ctx) error {
	out, err := h.uc.ResolveDefect(c.UserContext(), GetAccountID(c), c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
