package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepository puerto del catálogo (gestión de productos externa al motor).
// Lo usan la carga inicial y las pruebas; el motor solo lee variantes vía VariantRepository.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, accountID, id string) (*entity.Product, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*entity.Product, error)
	Delete(ctx context.Context, accountID, id string) error
}
