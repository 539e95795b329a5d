package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func newProduct() *entity.Product {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	return &entity.Product{
		ID: "prod-1", AccountID: "acct-1", Name: "Camiseta",
		Variants: []entity.Variant{
			{SKU: "A-P-RED", Size: "P", Color: "Rojo", Quantity: 10, UnitCost: decimal.NewFromInt(20), SalePrice: decimal.NewFromInt(50)},
			{SKU: "A-M-BLUE", Size: "M", Color: "Azul", Quantity: 2, UnitCost: decimal.NewFromInt(15), SalePrice: decimal.NewFromInt(40)},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestProductRepo_Create_InsertsVariantsInOneTx(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs("acct-1", "prod-1", "A-P-RED", "P", "Rojo", 10, pgxmock.AnyArg(), pgxmock.AnyArg(), 0).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs("acct-1", "prod-1", "A-M-BLUE", "M", "Azul", 2, pgxmock.AnyArg(), pgxmock.AnyArg(), 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Create(context.Background(), newProduct()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductRepo_Create_DuplicateSKURollsBack(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewProductRepository(mock)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO products").
		WithArgs(anyArgs(6)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO product_variants").
		WithArgs(anyArgs(9)...).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err = repo.Create(context.Background(), newProduct())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	assert.NoError(t, mock.ExpectationsWereMet())
}
