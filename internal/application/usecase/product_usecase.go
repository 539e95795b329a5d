package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/validator"
)

// ProductUseCase alta, consulta y baja del catálogo. La cantidad de cada variante
// solo se fija al crear; luego la mueve el procesador de transacciones.
type ProductUseCase struct {
	repo repository.ProductRepository
	now  func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Create crea un producto. SKU repetido en la cuenta devuelve domain.ErrConflict.
func (uc *ProductUseCase) Create(ctx context.Context, accountID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if err := validator.Validate(in); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	now := uc.now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		AccountID:  accountID,
		Name:       in.Name,
		CategoryID: in.CategoryID,
		Variants:   make([]entity.Variant, 0, len(in.Variants)),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, v := range in.Variants {
		if v.UnitCost.IsNegative() || v.SalePrice.IsNegative() {
			return nil, fmt.Errorf("%w: sku %s con costo o precio negativo", domain.ErrInvalidInput, v.SKU)
		}
		product.Variants = append(product.Variants, entity.Variant{
			SKU:       v.SKU,
			Size:      v.Size,
			Color:     v.Color,
			Quantity:  v.Quantity,
			UnitCost:  v.UnitCost,
			SalePrice: v.SalePrice,
		})
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto de la cuenta.
func (uc *ProductUseCase) GetByID(ctx context.Context, accountID, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, accountID, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos de la cuenta con paginación.
func (uc *ProductUseCase) List(ctx context.Context, accountID string, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	if err := validator.Validate(page); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	list, err := uc.repo.ListByAccount(ctx, accountID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  page.Result(len(items)),
	}, nil
}

// Delete elimina el producto. Su historial de movimientos se conserva y las
// reversiones posteriores omiten sus líneas.
func (uc *ProductUseCase) Delete(ctx context.Context, accountID, id string) error {
	return uc.repo.Delete(ctx, accountID, id)
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	variants := make([]dto.VariantResponse, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = dto.VariantResponse{
			SKU:       v.SKU,
			Size:      v.Size,
			Color:     v.Color,
			Quantity:  v.Quantity,
			UnitCost:  v.UnitCost,
			SalePrice: v.SalePrice,
		}
	}
	return &dto.ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		CategoryID: p.CategoryID,
		Variants:   variants,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
