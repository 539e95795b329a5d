package http

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// StockHandler consultas de stock y del libro de movimientos (solo lectura).
type StockHandler struct {
	errorResponder
	q *inventory.QueryFacade
}

// NewStockHandler construye el handler.
func NewStockHandler(q *inventory.QueryFacade, er errorResponder) *StockHandler {
	return &StockHandler{errorResponder: er, q: q}
}

// Get godoc
// @Summary      Cantidad actual de una variante
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku  path      string  true  "SKU"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{sku} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	out, err := h.q.CurrentQuantity(c.UserContext(), GetAccountID(c), c.Params("sku"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Variantes con stock bajo
// @Description  Variantes con cantidad menor al umbral (por defecto LOW_STOCK_THRESHOLD).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        threshold  query     int  false  "Umbral"
// @Success      200        {object}  map[string]interface{}  "total e items (dto.StockResponse)"
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	var threshold *int
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return h.respond(c, fmt.Errorf("%w: threshold debe ser entero", domain.ErrInvalidInput))
		}
		threshold = &n
	}
	out, err := h.q.LowStock(c.UserContext(), GetAccountID(c), threshold)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// History godoc
// @Summary      Historial de movimientos de una variante
// @Description  Más reciente primero. Disponible aunque la variante haya sido eliminada.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku    path      string  true   "SKU"
// @Param        limit  query     int     false  "Máximo de movimientos"
// @Success      200    {object}  dto.HistoryResponse
// @Router       /api/stock/{sku}/history [get]
func (h *StockHandler) History(c *fiber.Ctx) error {
	out, err := h.q.History(c.UserContext(), GetAccountID(c), c.Params("sku"), c.QueryInt("limit"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Reconciliation godoc
// @Summary      Conciliar stock contra el libro
// @Description  Compara la cantidad actual con la reconstruida desde los movimientos.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        sku  path      string  true   "SKU"
// @Param        at   query     string  false  "Instante RFC3339 para reconstruir la cantidad"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{sku}/reconciliation [get]
func (h *StockHandler) Reconciliation(c *fiber.Ctx) error {
	var at *time.Time
	if raw := c.Query("at"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return h.respond(c, fmt.Errorf("%w: at debe ser RFC3339", domain.ErrInvalidInput))
		}
		at = &t
	}
	out, err := h.q.Reconcile(c.UserContext(), GetAccountID(c), c.Params("sku"), at)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
