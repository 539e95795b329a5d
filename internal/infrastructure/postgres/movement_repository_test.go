package postgres

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func movementRows() *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "seq", "account_id", "product_id", "sku", "kind", "quantity",
		"quantity_before", "quantity_after", "reason", "sale_id", "created_by", "created_at"})
}

func addMovement(rows *pgxmock.Rows, seq int64, before, after int, at time.Time) *pgxmock.Rows {
	kind := "manual-increase"
	qty := after - before
	if qty < 0 {
		kind = "manual-decrease"
		qty = -qty
	}
	return rows.AddRow(fmt.Sprintf("mov-%d", seq), seq, "acct-1", "prod-1", "A-P-RED", kind, qty,
		before, after, "conteo", nil, "user-1", at)
}

func TestMovementRepo_Append_AssignsSeq(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewMovementRepository(mock)

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	m := &entity.Movement{
		ID: "mov-1", AccountID: "acct-1", ProductID: "prod-1", SKU: "A-P-RED",
		Kind: entity.MovementKindSale, Quantity: 2, QuantityBefore: 10, QuantityAfter: 8,
		Reason: "Venta #abcd1234", SaleID: "abcd1234-0000", CreatedBy: "user-1", CreatedAt: at,
	}
	mock.ExpectQuery("INSERT INTO stock_movements").
		WithArgs("mov-1", "acct-1", "prod-1", "A-P-RED", "sale", 2, 10, 8, "Venta #abcd1234",
			pgxmock.AnyArg(), "user-1", at).
		WillReturnRows(pgxmock.NewRows([]string{"seq"}).AddRow(int64(42)))

	require.NoError(t, repo.Append(context.Background(), m))
	assert.Equal(t, int64(42), m.Seq)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepo_HistoryFor_PagesByKeyset(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewMovementRepository(mock).WithPageSize(2)

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM stock_movements").
		WithArgs("acct-1", "A-P-RED", int64(math.MaxInt64), 2).
		WillReturnRows(addMovement(addMovement(movementRows(), 9, 6, 4, t0.Add(3*time.Hour)), 7, 10, 6, t0.Add(2*time.Hour)))
	mock.ExpectQuery("FROM stock_movements").
		WithArgs("acct-1", "A-P-RED", int64(7), 2).
		WillReturnRows(addMovement(movementRows(), 3, 0, 10, t0))

	var seqs []int64
	for m, err := range repo.HistoryFor(context.Background(), "acct-1", "A-P-RED") {
		require.NoError(t, err)
		seqs = append(seqs, m.Seq)
	}
	assert.Equal(t, []int64{9, 7, 3}, seqs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepo_HistoryFor_StopsEarly(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewMovementRepository(mock).WithPageSize(2)

	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("FROM stock_movements").
		WithArgs("acct-1", "A-P-RED", int64(math.MaxInt64), 2).
		WillReturnRows(addMovement(addMovement(movementRows(), 9, 6, 4, t0.Add(time.Hour)), 7, 10, 6, t0))

	n := 0
	for _, err := range repo.HistoryFor(context.Background(), "acct-1", "A-P-RED") {
		require.NoError(t, err)
		n++
		break
	}
	assert.Equal(t, 1, n)
	// no se pidió la segunda página
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovementRepo_ListBySale(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()
	repo := NewMovementRepository(mock)

	saleID := "sale-1"
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery("sale_id = \\$2").
		WithArgs("acct-1", saleID).
		WillReturnRows(movementRows().AddRow("mov-1", int64(1), "acct-1", "prod-1", "A-P-RED", "sale", 2,
			10, 8, "Venta #sale-1", &saleID, "user-1", at))

	list, err := repo.ListBySale(context.Background(), "acct-1", saleID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entity.MovementKindSale, list[0].Kind)
	assert.Equal(t, saleID, list[0].SaleID)
	assert.Equal(t, -2, list[0].SignedDelta())
	assert.NoError(t, mock.ExpectationsWereMet())
}
