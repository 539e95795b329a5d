package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

type api struct {
	t     *testing.T
	app   *fiber.App
	store *memory.Store
}

func newAPI(t *testing.T) *api {
	t.Helper()
	store := memory.NewStore()
	proc := inventory.NewTransactionProcessor(store, store.Variants(), inventory.NewLogListener(logger.Nop()))

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Sales:       inventory.NewSaleUseCase(proc, store.Sales()),
		Reversals:   inventory.NewReversalProcessor(proc, store.Sales()),
		Adjustments: inventory.NewAdjustmentUseCase(proc, store.Variants()),
		Defects:     inventory.NewDefectUseCase(proc, store.Defects(), logger.Nop()),
		Queries:     inventory.NewQueryFacade(store.Variants(), store.Movements(), 5, 100),
		Receipts:    inventory.NewReceiptUseCase(store.Sales(), pdf.NewReceiptGenerator(), "Tienda Centro"),
		Products:    usecase.NewProductUseCase(store.Products()),
		JWTSecret:   testJWTSecret,
		Log:         logger.Nop(),
	})

	require.NoError(t, store.Products().Create(context.Background(), &entity.Product{
		ID: "prod-shirt", AccountID: testAccountID, Name: "Camisa",
		Variants: []entity.Variant{
			{SKU: "A-P-RED", Size: "P", Color: "Rojo", Quantity: 10, UnitCost: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(50)},
			{SKU: "A-M-BLUE", Size: "M", Color: "Azul", Quantity: 2, UnitCost: decimal.NewFromInt(15), SalePrice: decimal.NewFromInt(40)},
		},
	}))
	return &api{t: t, app: app, store: store}
}

// do envía la petición con un token del rol indicado y decodifica la respuesta JSON en out (si no es nil).
func (a *api) do(method, path, role string, body any, out any) *http.Response {
	a.t.Helper()
	return a.doAs(testAccountID, method, path, role, body, out)
}

func (a *api) doAs(accountID, method, path, role string, body any, out any) *http.Response {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(a.t, accountID, role))
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	if out != nil {
		defer resp.Body.Close()
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func (a *api) quantity(sku string) int {
	a.t.Helper()
	v, err := a.store.Variants().GetVariant(context.Background(), testAccountID, sku)
	require.NoError(a.t, err)
	return v.Quantity
}

type errorBody struct {
	Code      string            `json:"code"`
	Retryable bool              `json:"retryable"`
	Fields    map[string]string `json:"fields"`
}

type saleBody struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

func cashSale(sku string, qty int) map[string]any {
	return map[string]any{
		"items":          []map[string]any{{"sku": sku, "quantity": qty}},
		"payment_method": "efectivo",
		"payment_status": "received",
	}
}

func TestSales_RegisterAndReverse(t *testing.T) {
	a := newAPI(t)

	var sale saleBody
	resp := a.do(http.MethodPost, "/api/sales", "vendedor", cashSale("A-P-RED", 3), &sale)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "active", sale.Status)
	assert.Equal(t, 7, a.quantity("A-P-RED"))

	// solo admin revierte
	resp = a.do(http.MethodPost, "/api/sales/"+sale.ID+"/reversal", "vendedor", nil, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var rev struct {
		Sale      saleBody `json:"sale"`
		Movements []struct {
			Kind string `json:"kind"`
		} `json:"movements"`
	}
	resp = a.do(http.MethodPost, "/api/sales/"+sale.ID+"/reversal", "admin", nil, &rev)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "reversed", rev.Sale.Status)
	require.Len(t, rev.Movements, 1)
	assert.Equal(t, "reversal", rev.Movements[0].Kind)
	assert.Equal(t, 10, a.quantity("A-P-RED"))

	var e errorBody
	resp = a.do(http.MethodPost, "/api/sales/"+sale.ID+"/reversal", "admin", nil, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "ALREADY_REVERSED", e.Code)
	assert.Equal(t, 10, a.quantity("A-P-RED"))
}

func TestSales_InsufficientStockLeavesNothing(t *testing.T) {
	a := newAPI(t)

	body := map[string]any{
		"items": []map[string]any{
			{"sku": "A-P-RED", "quantity": 1},
			{"sku": "A-M-BLUE", "quantity": 5},
		},
		"payment_method": "efectivo",
		"payment_status": "received",
	}
	var e errorBody
	resp := a.do(http.MethodPost, "/api/sales", "vendedor", body, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", e.Code)
	assert.False(t, e.Retryable)
	assert.Equal(t, 10, a.quantity("A-P-RED"))
	assert.Equal(t, 2, a.quantity("A-M-BLUE"))
}

func TestSales_ReceivableRequiresCustomer(t *testing.T) {
	a := newAPI(t)

	body := cashSale("A-P-RED", 1)
	body["payment_status"] = "receivable"
	var e errorBody
	resp := a.do(http.MethodPost, "/api/sales", "vendedor", body, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "customer_name")
	assert.Contains(t, e.Fields, "due_date")
}

func TestSales_UnknownSKU(t *testing.T) {
	a := newAPI(t)

	var e errorBody
	resp := a.do(http.MethodPost, "/api/sales", "vendedor", cashSale("NOPE", 1), &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestSales_QuantityAboveMaxIsValidation(t *testing.T) {
	a := newAPI(t)

	body := cashSale("A-P-RED", 1)
	body["items"] = []map[string]any{{"sku": "A-P-RED", "quantity": int64(1) << 31}}
	var e errorBody
	resp := a.do(http.MethodPost, "/api/sales", "vendedor", body, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "quantity")
	assert.Equal(t, 10, a.quantity("A-P-RED"))
}

func TestSales_Receipt(t *testing.T) {
	a := newAPI(t)

	var sale saleBody
	resp := a.do(http.MethodPost, "/api/sales", "vendedor", cashSale("A-P-RED", 2), &sale)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do(http.MethodGet, "/api/sales/"+sale.ID+"/receipt", "vendedor", nil, nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "venta-"+sale.ID[:8]+".pdf")
}

func TestAdjustments_RoleAndReason(t *testing.T) {
	a := newAPI(t)

	resp := a.do(http.MethodPost, "/api/adjustments", "vendedor",
		map[string]any{"sku": "A-P-RED", "target_quantity": 12, "reason": "conteo"}, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var e errorBody
	resp = a.do(http.MethodPost, "/api/adjustments", "bodeguero",
		map[string]any{"sku": "A-P-RED", "target_quantity": 12}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_ADJUSTMENT", e.Code)
	assert.Equal(t, 10, a.quantity("A-P-RED"))

	e = errorBody{}
	resp = a.do(http.MethodPost, "/api/adjustments", "bodeguero",
		map[string]any{"sku": "A-P-RED", "target_quantity": int64(1) << 31, "reason": "conteo"}, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
	assert.Contains(t, e.Fields, "target_quantity")
	assert.Equal(t, 10, a.quantity("A-P-RED"))

	var adj struct {
		QuantityBefore int `json:"quantity_before"`
		Movement       *struct {
			Kind     string `json:"kind"`
			Quantity int    `json:"quantity"`
		} `json:"movement"`
	}
	resp = a.do(http.MethodPost, "/api/adjustments", "bodeguero",
		map[string]any{"sku": "A-P-RED", "target_quantity": 12, "reason": "conteo físico"}, &adj)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 10, adj.QuantityBefore)
	require.NotNil(t, adj.Movement)
	assert.Equal(t, "manual-increase", adj.Movement.Kind)
	assert.Equal(t, 2, adj.Movement.Quantity)
	assert.Equal(t, 12, a.quantity("A-P-RED"))
}

func TestDefects_RegisterListResolve(t *testing.T) {
	a := newAPI(t)

	var d struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	resp := a.do(http.MethodPost, "/api/defects", "bodeguero",
		map[string]any{"sku": "A-M-BLUE", "description": "costura abierta en la manga"}, &d)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "pending", d.Status)
	assert.Equal(t, 1, a.quantity("A-M-BLUE"))

	var list struct {
		Total int `json:"total"`
	}
	resp = a.do(http.MethodGet, "/api/defects?status=pending", "vendedor", nil, &list)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, list.Total)

	resp = a.do(http.MethodPost, "/api/defects/"+d.ID+"/resolve", "admin", nil, &d)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "resolved", d.Status)
	assert.Equal(t, 1, a.quantity("A-M-BLUE"))

	var e errorBody
	resp = a.do(http.MethodPost, "/api/defects/"+d.ID+"/resolve", "admin", nil, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", e.Code)
}

func TestStock_QueriesAndReconciliation(t *testing.T) {
	a := newAPI(t)

	resp := a.do(http.MethodPost, "/api/sales", "vendedor", cashSale("A-P-RED", 4), nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var stock struct {
		Quantity int `json:"quantity"`
	}
	resp = a.do(http.MethodGet, "/api/stock/A-P-RED", "vendedor", nil, &stock)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 6, stock.Quantity)

	var hist struct {
		Movements []struct {
			Kind           string `json:"kind"`
			QuantityBefore int    `json:"quantity_before"`
			QuantityAfter  int    `json:"quantity_after"`
		} `json:"movements"`
	}
	resp = a.do(http.MethodGet, "/api/stock/A-P-RED/history", "vendedor", nil, &hist)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, hist.Movements, 1)
	assert.Equal(t, 10, hist.Movements[0].QuantityBefore)
	assert.Equal(t, 6, hist.Movements[0].QuantityAfter)

	var rec struct {
		Current    int  `json:"current"`
		Initial    int  `json:"initial"`
		Consistent bool `json:"consistent"`
	}
	resp = a.do(http.MethodGet, "/api/stock/A-P-RED/reconciliation", "admin", nil, &rec)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, rec.Consistent)
	assert.Equal(t, 6, rec.Current)
	assert.Equal(t, 10, rec.Initial)

	var low struct {
		Items []struct {
			SKU string `json:"sku"`
		} `json:"items"`
	}
	resp = a.do(http.MethodGet, "/api/stock/low?threshold=3", "bodeguero", nil, &low)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "A-M-BLUE", low.Items[0].SKU)

	var e errorBody
	resp = a.do(http.MethodGet, "/api/stock/low?threshold=-1", "bodeguero", nil, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)
}

func TestStock_AccountIsolation(t *testing.T) {
	a := newAPI(t)

	var e errorBody
	resp := a.doAs("acct-2", http.MethodGet, "/api/stock/A-P-RED", "admin", nil, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestProducts_CatalogLifecycle(t *testing.T) {
	a := newAPI(t)

	body := map[string]any{
		"name": "Gorra",
		"variants": []map[string]any{
			{"sku": "G-U-BLK", "size": "U", "color": "Negro", "quantity": 8, "unit_cost": "12.5", "sale_price": "30"},
		},
	}
	resp := a.do(http.MethodPost, "/api/products", "bodeguero", body, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	var p struct {
		ID       string `json:"id"`
		Variants []struct {
			SKU      string `json:"sku"`
			Quantity int    `json:"quantity"`
		} `json:"variants"`
	}
	resp = a.do(http.MethodPost, "/api/products", "admin", body, &p)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, 8, a.quantity("G-U-BLK"))

	var e errorBody
	resp = a.do(http.MethodPost, "/api/products", "admin", body, &e)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", e.Code)

	// la venta sobre el producto eliminado se revierte sin restaurar stock
	var sale saleBody
	resp = a.do(http.MethodPost, "/api/sales", "vendedor", cashSale("G-U-BLK", 2), &sale)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = a.do(http.MethodDelete, "/api/products/"+p.ID, "admin", nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	var rev struct {
		Sale     saleBody `json:"sale"`
		Warnings []string `json:"warnings"`
	}
	resp = a.do(http.MethodPost, "/api/sales/"+sale.ID+"/reversal", "admin", nil, &rev)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "reversed", rev.Sale.Status)
	assert.Len(t, rev.Warnings, 1)

	var hist struct {
		Movements []struct {
			Kind string `json:"kind"`
		} `json:"movements"`
	}
	resp = a.do(http.MethodGet, "/api/stock/G-U-BLK/history", "admin", nil, &hist)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, hist.Movements, 1)
	assert.Equal(t, "sale", hist.Movements[0].Kind)
}
