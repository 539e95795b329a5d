package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	acct = "acct-1"
	user = "user-1"
)

// racingVariants simula un escritor concurrente que cambia el stock justo después del snapshot.
type racingVariants struct {
	repository.VariantRepository
	mu     sync.Mutex
	onRead map[string]func()
}

func (r *racingVariants) GetVariant(ctx context.Context, accountID, sku string) (*entity.StockItem, error) {
	it, err := r.VariantRepository.GetVariant(ctx, accountID, sku)
	r.mu.Lock()
	fn := r.onRead[sku]
	delete(r.onRead, sku)
	r.mu.Unlock()
	if fn != nil {
		fn()
	}
	return it, err
}

func (r *racingVariants) raceOn(sku string, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onRead[sku] = fn
}

type recorder struct {
	mu        sync.Mutex
	succeeded []inventory.CommitEvent
	failed    []error
}

func (r *recorder) CommitSucceeded(ev inventory.CommitEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.succeeded = append(r.succeeded, ev)
}

func (r *recorder) CommitFailed(_, _ string, err error, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, err)
}

type env struct {
	store       *memory.Store
	variants    *racingVariants
	events      *recorder
	processor   *inventory.TransactionProcessor
	sales       *inventory.SaleUseCase
	reversals   *inventory.ReversalProcessor
	adjustments *inventory.AdjustmentUseCase
	defects     *inventory.DefectUseCase
	query       *inventory.QueryFacade
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	variants := &racingVariants{VariantRepository: store.Variants(), onRead: map[string]func(){}}
	events := &recorder{}
	proc := inventory.NewTransactionProcessor(store, variants, events, inventory.NewLogListener(logger.Nop()))
	e := &env{
		store:       store,
		variants:    variants,
		events:      events,
		processor:   proc,
		sales:       inventory.NewSaleUseCase(proc, store.Sales()),
		reversals:   inventory.NewReversalProcessor(proc, store.Sales()),
		adjustments: inventory.NewAdjustmentUseCase(proc, variants),
		defects:     inventory.NewDefectUseCase(proc, store.Defects(), logger.Nop()),
		query:       inventory.NewQueryFacade(store.Variants(), store.Movements(), 5, 100),
	}
	seedCatalog(t, store)
	return e
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedCatalog: camisa con A-P-RED (10 u, costo 20, precio 50) y A-M-BLUE (2 u, costo 15, precio 40);
// gorra G-U-BLK (8 u) en otro producto.
func seedCatalog(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "prod-shirt", AccountID: acct, Name: "Camisa", CategoryID: "cat-1",
		Variants: []entity.Variant{
			{SKU: "A-P-RED", Size: "P", Color: "Rojo", Quantity: 10, UnitCost: dec("20.00"), SalePrice: dec("50.00")},
			{SKU: "A-M-BLUE", Size: "M", Color: "Azul", Quantity: 2, UnitCost: dec("15.00"), SalePrice: dec("40.00")},
		},
	}))
	require.NoError(t, store.Products().Create(ctx, &entity.Product{
		ID: "prod-cap", AccountID: acct, Name: "Gorra",
		Variants: []entity.Variant{
			{SKU: "G-U-BLK", Size: "U", Color: "Negro", Quantity: 8, UnitCost: dec("5.00"), SalePrice: dec("12.50")},
		},
	}))
}

func (e *env) quantity(t *testing.T, sku string) int {
	t.Helper()
	v, err := e.store.Variants().GetVariant(context.Background(), acct, sku)
	require.NoError(t, err)
	return v.Quantity
}

func (e *env) history(t *testing.T, sku string) []*entity.Movement {
	t.Helper()
	var out []*entity.Movement
	for m, err := range e.store.Movements().HistoryFor(context.Background(), acct, sku) {
		require.NoError(t, err)
		out = append(out, m)
	}
	return out
}

func cashSale(lines ...dto.SaleLineRequest) dto.RegisterSaleRequest {
	return dto.RegisterSaleRequest{
		Items:         lines,
		PaymentMethod: "efectivo",
		PaymentStatus: string(entity.PaymentStatusReceived),
	}
}

func line(sku string, qty int) dto.SaleLineRequest {
	return dto.SaleLineRequest{SKU: sku, Quantity: qty}
}
