package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// SaleHandler ventas, reversiones y comprobantes.
type SaleHandler struct {
	errorResponder
	sales     *inventory.SaleUseCase
	reversals *inventory.ReversalProcessor
	receipts  *inventory.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(sales *inventory.SaleUseCase, reversals *inventory.ReversalProcessor, receipts *inventory.ReceiptUseCase, er errorResponder) *SaleHandler {
	return &SaleHandler{errorResponder: er, sales: sales, reversals: reversals, receipts: receipts}
}

// Register godoc
// @Summary      Registrar venta
// @Description  Descuenta el stock de cada línea y guarda la venta en una sola transacción.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterSaleRequest  true  "Líneas, descuento y pago"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.sales.RegisterSale(c.UserContext(), GetAccountID(c), GetUserID(c), in)
	if err != nil {
		return h.respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        limit   query     int  false  "Máximo 100 (por defecto 20)"
// @Param        offset  query     int  false  "Desplazamiento"
// @Success      200     {object}  dto.SaleListResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.sales.ListSales(c.UserContext(), GetAccountID(c), page)
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) Get(c *fiber.Ctx) error {
	out, err := h.sales.GetSale(c.UserContext(), GetAccountID(c), c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Reverse godoc
// @Summary      Revertir venta
// @Description  Restaura el stock de cada línea y marca la venta como revertida. Las variantes
// @Description  eliminadas se omiten y se informan en warnings.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.ReversalResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/reversal [post]
func (h *SaleHandler) Reverse(c *fiber.Ctx) error {
	out, err := h.reversals.ReverseSale(c.UserContext(), GetAccountID(c), GetUserID(c), c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// MarkReceived godoc
// @Summary      Marcar venta a crédito como cobrada
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/received [post]
func (h *SaleHandler) MarkReceived(c *fiber.Ctx) error {
	out, err := h.sales.MarkReceived(c.UserContext(), GetAccountID(c), c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path      string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, filename, err := h.receipts.SaleReceipt(c.UserContext(), GetAccountID(c), c.Params("id"))
	if err != nil {
		return h.respond(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", filename))
	return c.Send(pdf)
}
