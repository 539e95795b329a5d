package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReceiptGenerator genera el comprobante PDF de una venta.
type ReceiptGenerator interface {
	GenerateSaleReceipt(sale *entity.Sale, storeName string) ([]byte, error)
}

// ReceiptUseCase entrega el comprobante de una venta ya registrada.
type ReceiptUseCase struct {
	sales     repository.SaleRepository
	generator ReceiptGenerator
	storeName string
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales repository.SaleRepository, generator ReceiptGenerator, storeName string) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, generator: generator, storeName: storeName}
}

// SaleReceipt devuelve el PDF y el nombre de archivo sugerido.
func (uc *ReceiptUseCase) SaleReceipt(ctx context.Context, accountID, saleID string) ([]byte, string, error) {
	sale, err := uc.sales.GetByID(ctx, accountID, saleID)
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GenerateSaleReceipt(sale, uc.storeName)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar pdf: %w", err)
	}
	return pdf, fmt.Sprintf("venta-%s.pdf", sale.ShortID()), nil
}
