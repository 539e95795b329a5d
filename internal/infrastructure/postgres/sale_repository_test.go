package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func newSaleFixture(t *testing.T) (*SaleRepo, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return NewSaleRepository(mock), mock
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func TestSaleRepo_Create_InsertsItems(t *testing.T) {
	repo, mock := newSaleFixture(t)
	defer mock.Close()

	s := &entity.Sale{
		ID: "sale-1", AccountID: "acct-1", PaymentMethod: "efectivo",
		PaymentStatus: entity.PaymentStatusReceived, Status: entity.SaleStatusActive,
		Items: []entity.SaleItem{
			{ProductID: "prod-1", ProductName: "Camiseta", SKU: "A-P-RED", Quantity: 2, UnitPrice: decimal.NewFromInt(50), UnitCost: decimal.NewFromInt(20)},
			{ProductID: "prod-2", ProductName: "Gorra", SKU: "G-U-BLK", Quantity: 1, UnitPrice: decimal.NewFromInt(12), UnitCost: decimal.NewFromInt(5)},
		},
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	mock.ExpectExec("INSERT INTO sales").
		WithArgs(anyArgs(17)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO sale_items").
		WithArgs("sale-1", 1, "prod-1", "Camiseta", "A-P-RED", "", "", 2, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("INSERT INTO sale_items").
		WithArgs("sale-1", 2, "prod-2", "Gorra", "G-U-BLK", "", "", 1, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), s))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepo_MarkReversed(t *testing.T) {
	repo, mock := newSaleFixture(t)
	defer mock.Close()

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE sales SET status").
		WithArgs("acct-1", "sale-1", "reversed", at, "active").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, repo.MarkReversed(context.Background(), "acct-1", "sale-1", at))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepo_MarkReversed_AlreadyReversed(t *testing.T) {
	repo, mock := newSaleFixture(t)
	defer mock.Close()

	at := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec("UPDATE sales SET status").
		WithArgs("acct-1", "sale-1", "reversed", at, "active").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT 1 FROM sales").
		WithArgs("acct-1", "sale-1").
		WillReturnRows(pgxmock.NewRows([]string{"one"}).AddRow(1))

	err := repo.MarkReversed(context.Background(), "acct-1", "sale-1", at)
	assert.ErrorIs(t, err, domain.ErrAlreadyReversed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepo_MarkReceived_NotFound(t *testing.T) {
	repo, mock := newSaleFixture(t)
	defer mock.Close()

	mock.ExpectExec("UPDATE sales SET payment_status").
		WithArgs("acct-1", "nope", "received", "receivable").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectQuery("SELECT 1 FROM sales").
		WithArgs("acct-1", "nope").
		WillReturnRows(pgxmock.NewRows([]string{"one"}))

	err := repo.MarkReceived(context.Background(), "acct-1", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaleRepo_GetByID_LoadsItems(t *testing.T) {
	repo, mock := newSaleFixture(t)
	defer mock.Close()

	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM sales WHERE account_id").
		WithArgs("acct-1", "sale-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "account_id", "subtotal", "discount_percent", "discount_amount",
			"total", "cost_of_goods_sold", "profit", "payment_method", "payment_status", "customer_name", "due_date",
			"notes", "status", "reversed_at", "created_by", "created_at"}).
			AddRow("sale-1", "acct-1", decimal.NewFromInt(100), decimal.Zero, decimal.Zero, decimal.NewFromInt(100),
				decimal.NewFromInt(40), decimal.NewFromInt(60), "efectivo", "received", "", nil, "", "active", nil,
				"user-1", created))
	mock.ExpectQuery("FROM sale_items").
		WithArgs([]string{"sale-1"}).
		WillReturnRows(pgxmock.NewRows([]string{"sale_id", "product_id", "product_name", "sku", "size", "color",
			"quantity", "unit_price", "unit_cost"}).
			AddRow("sale-1", "prod-1", "Camiseta", "A-P-RED", "P", "Rojo", 2, decimal.NewFromInt(50), decimal.NewFromInt(20)))

	s, err := repo.GetByID(context.Background(), "acct-1", "sale-1")
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusActive, s.Status)
	assert.Nil(t, s.DueDate)
	require.Len(t, s.Items, 1)
	assert.True(t, s.Items[0].LineTotal().Equal(decimal.NewFromInt(100)))
	assert.NoError(t, mock.ExpectationsWereMet())
}
