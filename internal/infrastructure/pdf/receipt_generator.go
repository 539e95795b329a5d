// Package pdf genera el comprobante de venta en PDF.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────────┐
//	│  Tienda                    │  Venta #xxxxxxxx  │
//	│  ───────────────────────────────────────────  │
//	│  Pago / Cliente / Vencimiento                  │
//	│  Cant | Producto (talla/color) | P.Unit | Total│
//	│  Subtotal / Descuento / TOTAL                  │
//	│  Notas + estado (ANULADA si fue revertida)     │
//	└───────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ inventory.ReceiptGenerator = (*ReceiptGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ReceiptGenerator comprobante de venta con Maroto v2.
type ReceiptGenerator struct{}

// NewReceiptGenerator construye el generador.
func NewReceiptGenerator() *ReceiptGenerator { return &ReceiptGenerator{} }

// GenerateSaleReceipt genera el PDF y devuelve sus bytes.
func (g *ReceiptGenerator) GenerateSaleReceipt(sale *entity.Sale, storeName string) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(8).WithRightMargin(8).
		WithTopMargin(8).WithBottomMargin(8).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(sale, storeName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(paymentRow(sale))
	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(sale.Items)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(sale))
	m.AddRows(footerRows(sale)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(sale *entity.Sale, storeName string) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(nonEmpty(storeName, "Tienda"), props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprobante de venta", props.Text{Size: 8, Top: 8, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("Venta #"+strings.ToUpper(sale.ShortID()), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func paymentRow(sale *entity.Sale) core.Row {
	detail := "Pago: " + nonEmpty(sale.PaymentMethod, "-")
	if sale.PaymentStatus == entity.PaymentStatusReceivable {
		detail += "   |   A crédito: " + sale.CustomerName
		if sale.DueDate != nil {
			detail += "   |   Vence: " + sale.DueDate.Format("02/01/2006")
		}
	}
	return row.New(8).Add(col.New(12).Add(
		text.New(detail, props.Text{Size: 8, Top: 2, Color: colorGray}),
	))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2,
		}))
	}
	return row.New(7).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("P. Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func itemRows(items []entity.SaleItem) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		desc := it.ProductName
		if variant := strings.TrimSpace(it.Size + " " + it.Color); variant != "" {
			desc += " (" + variant + ")"
		}
		rows = append(rows, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.Quantity), props.Text{Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(desc, props.Text{Top: 1})),
			col.New(2).Add(text.New(formatMoney(it.UnitPrice), props.Text{Align: align.Right, Top: 1})),
			col.New(3).Add(text.New(formatMoney(it.LineTotal()), props.Text{Align: align.Right, Top: 1})),
		))
	}
	return rows
}

func totalsRow(sale *entity.Sale) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Align: align.Right, Top: top, Right: 2})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Align: align.Right, Top: top})
	}
	return row.New(18).Add(
		col.New(4),
		col.New(4).Add(
			label("Subtotal:", 1),
			label("Descuento ("+sale.DiscountPercent.String()+"%):", 6),
			text.New("TOTAL:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 11, Right: 2, Color: colorPrimary}),
		),
		col.New(4).Add(
			value(formatMoney(sale.Subtotal), 1),
			value("-"+formatMoney(sale.DiscountAmount), 6),
			text.New(formatMoney(sale.Total), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 11, Color: colorPrimary}),
		),
	)
}

func footerRows(sale *entity.Sale) []core.Row {
	var rows []core.Row
	if sale.Notes != "" {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Notas: "+sale.Notes, props.Text{Size: 7, Top: 2, Color: colorGray}),
		)))
	}
	if !sale.IsActive() {
		msg := "VENTA ANULADA"
		if sale.ReversedAt != nil {
			msg += " el " + sale.ReversedAt.Format("02/01/2006 15:04")
		}
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New(msg, props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Center, Top: 2, Color: colorRed}),
		)))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatMoney "$1.234.567,50": puntos de miles y coma decimal.
func formatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "$" + string(buf) + "," + frac
}
