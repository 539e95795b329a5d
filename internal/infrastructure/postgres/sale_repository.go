package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, account_id, subtotal, discount_percent, discount_amount, total, cost_of_goods_sold, profit,
	payment_method, payment_status, customer_name, due_date, notes, status, reversed_at, created_by, created_at`

// SaleRepo ventas (cabecera + sale_items) sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta la cabecera y sus líneas. Debe ejecutarse dentro de una tx para que sea atómico.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, account_id, subtotal, discount_percent, discount_amount, total, cost_of_goods_sold, profit,
			payment_method, payment_status, customer_name, due_date, notes, status, reversed_at, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.AccountID, s.Subtotal, s.DiscountPercent, s.DiscountAmount, s.Total, s.CostOfGoodsSold, s.Profit,
		s.PaymentMethod, string(s.PaymentStatus), s.CustomerName, s.DueDate, s.Notes, string(s.Status), s.ReversedAt,
		s.CreatedBy, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("venta %s: %w", s.ID, domain.ErrConflict)
		}
		return wrapErr("insert sale", err)
	}

	itemQuery := `
		INSERT INTO sale_items (sale_id, line_no, product_id, product_name, sku, size, color, quantity, unit_price, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for i, it := range s.Items {
		if _, err := r.q.Exec(ctx, itemQuery,
			s.ID, i+1, it.ProductID, it.ProductName, it.SKU, it.Size, it.Color, it.Quantity, it.UnitPrice, it.UnitCost,
		); err != nil {
			return wrapErr("insert sale item", err)
		}
	}
	return nil
}

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	var paymentStatus, status string
	err := row.Scan(&s.ID, &s.AccountID, &s.Subtotal, &s.DiscountPercent, &s.DiscountAmount, &s.Total,
		&s.CostOfGoodsSold, &s.Profit, &s.PaymentMethod, &paymentStatus, &s.CustomerName, &s.DueDate, &s.Notes,
		&status, &s.ReversedAt, &s.CreatedBy, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.PaymentStatus = entity.PaymentStatus(paymentStatus)
	s.Status = entity.SaleStatus(status)
	return &s, nil
}

// GetByID obtiene la venta con sus líneas.
func (r *SaleRepo) GetByID(ctx context.Context, accountID, id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE account_id = $1 AND id = $2`
	s, err := scanSale(r.q.QueryRow(ctx, query, accountID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("venta %s: %w", id, domain.ErrNotFound)
		}
		return nil, wrapErr("get sale", err)
	}
	if err := r.loadItems(ctx, []*entity.Sale{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// List ventas de la cuenta, más recientes primero.
func (r *SaleRepo) List(ctx context.Context, accountID string, limit, offset int) ([]*entity.Sale, error) {
	query := `SELECT ` + saleColumns + `
		FROM sales WHERE account_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, wrapErr("list sales", err)
	}
	defer rows.Close()

	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list sales", err)
	}
	rows.Close()
	if err := r.loadItems(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

// loadItems carga las líneas de varias ventas en una sola consulta.
func (r *SaleRepo) loadItems(ctx context.Context, sales []*entity.Sale) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for i, s := range sales {
		ids[i] = s.ID
		byID[s.ID] = s
	}
	query := `
		SELECT sale_id, product_id, product_name, sku, size, color, quantity, unit_price, unit_cost
		FROM sale_items WHERE sale_id = ANY($1)
		ORDER BY sale_id, line_no`
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return wrapErr("list sale items", err)
	}
	defer rows.Close()
	for rows.Next() {
		var saleID string
		var it entity.SaleItem
		if err := rows.Scan(&saleID, &it.ProductID, &it.ProductName, &it.SKU, &it.Size, &it.Color,
			&it.Quantity, &it.UnitPrice, &it.UnitCost); err != nil {
			return fmt.Errorf("scan sale item: %w", err)
		}
		if s, ok := byID[saleID]; ok {
			s.Items = append(s.Items, it)
		}
	}
	if err := rows.Err(); err != nil {
		return wrapErr("list sale items", err)
	}
	return nil
}

// MarkReversed active -> reversed. El WHERE sobre status serializa reversiones concurrentes.
func (r *SaleRepo) MarkReversed(ctx context.Context, accountID, id string, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET status = $3, reversed_at = $4 WHERE account_id = $1 AND id = $2 AND status = $5`,
		accountID, id, string(entity.SaleStatusReversed), at, string(entity.SaleStatusActive),
	)
	if err != nil {
		return wrapErr("reverse sale", err)
	}
	if tag.RowsAffected() == 0 {
		if err := r.exists(ctx, accountID, id); err != nil {
			return err
		}
		return fmt.Errorf("venta %s: %w", id, domain.ErrAlreadyReversed)
	}
	return nil
}

// MarkReceived receivable -> received.
func (r *SaleRepo) MarkReceived(ctx context.Context, accountID, id string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE sales SET payment_status = $3 WHERE account_id = $1 AND id = $2 AND payment_status = $4`,
		accountID, id, string(entity.PaymentStatusReceived), string(entity.PaymentStatusReceivable),
	)
	if err != nil {
		return wrapErr("mark sale received", err)
	}
	if tag.RowsAffected() == 0 {
		if err := r.exists(ctx, accountID, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: la venta %s ya estaba cobrada", domain.ErrConflict, id)
	}
	return nil
}

func (r *SaleRepo) exists(ctx context.Context, accountID, id string) error {
	var one int
	err := r.q.QueryRow(ctx, `SELECT 1 FROM sales WHERE account_id = $1 AND id = $2`, accountID, id).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("venta %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return wrapErr("get sale", err)
	}
	return nil
}
