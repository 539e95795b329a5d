// Package memory implementa los puertos de persistencia en memoria (pruebas y modo desarrollo).
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.TxRunner = (*Store)(nil)

// Store guarda el estado completo de todas las cuentas.
// Las transacciones trabajan sobre una copia y la publican solo si fn termina sin error.
// Los valores guardados nunca se modifican en sitio: cada cambio reemplaza el puntero.
type Store struct {
	mu sync.RWMutex
	db *state
}

type state struct {
	products    map[string]*entity.Product // cuenta/productID
	skus        map[string]string          // cuenta/sku -> productID
	movements   []*entity.Movement
	seq         int64
	sales       map[string]*entity.Sale
	saleKeys    []string // orden de creación
	adjustments []*entity.StockAdjustment
	defects     map[string]*entity.DefectiveItem
	defectKeys  []string
}

func key(accountID, id string) string { return accountID + "/" + id }

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{db: &state{
		products: make(map[string]*entity.Product),
		skus:     make(map[string]string),
		sales:    make(map[string]*entity.Sale),
		defects:  make(map[string]*entity.DefectiveItem),
	}}
}

// clone copia superficial: mapas nuevos y slices recortados para que append no toque el original.
func (s *state) clone() *state {
	return &state{
		products:    maps.Clone(s.products),
		skus:        maps.Clone(s.skus),
		movements:   slices.Clip(s.movements),
		seq:         s.seq,
		sales:       maps.Clone(s.sales),
		saleKeys:    slices.Clip(s.saleKeys),
		adjustments: slices.Clip(s.adjustments),
		defects:     maps.Clone(s.defects),
		defectKeys:  slices.Clip(s.defectKeys),
	}
}

// access da a los repositorios lectura o escritura sobre el estado.
// Fuera de tx toma el lock en cada llamada; dentro de tx el lock ya lo tiene Run.
type access struct {
	read  func(fn func(*state) error) error
	write func(fn func(*state) error) error
}

func (s *Store) direct() access {
	return access{
		read: func(fn func(*state) error) error {
			s.mu.RLock()
			defer s.mu.RUnlock()
			return fn(s.db)
		},
		write: func(fn func(*state) error) error {
			s.mu.Lock()
			defer s.mu.Unlock()
			return fn(s.db)
		},
	}
}

func inTx(st *state) access {
	run := func(fn func(*state) error) error { return fn(st) }
	return access{read: run, write: run}
}

// Run ejecuta fn con repositorios sobre una copia del estado. Con error la copia se descarta.
// Las transacciones se serializan entre sí.
func (s *Store) Run(ctx context.Context, fn func(repos inventory.TxRepositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.db.clone()
	a := inTx(work)
	if err := fn(inventory.TxRepositories{
		Variants:    &VariantRepo{a: a},
		Movements:   &MovementRepo{a: a},
		Sales:       &SaleRepo{a: a},
		Adjustments: &AdjustmentRepo{a: a},
		Defects:     &DefectiveItemRepo{a: a},
	}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.db = work
	return nil
}

// Variants repositorio de variantes fuera de transacción.
func (s *Store) Variants() *VariantRepo { return &VariantRepo{a: s.direct()} }

// Movements libro de movimientos fuera de transacción.
func (s *Store) Movements() *MovementRepo { return &MovementRepo{a: s.direct()} }

// Sales repositorio de ventas fuera de transacción.
func (s *Store) Sales() *SaleRepo { return &SaleRepo{a: s.direct()} }

// Adjustments repositorio de ajustes fuera de transacción.
func (s *Store) Adjustments() *AdjustmentRepo { return &AdjustmentRepo{a: s.direct()} }

// Defects repositorio de defectuosos fuera de transacción.
func (s *Store) Defects() *DefectiveItemRepo { return &DefectiveItemRepo{a: s.direct()} }

// Products catálogo.
func (s *Store) Products() *ProductRepo { return &ProductRepo{a: s.direct()} }

var (
	_ repository.VariantRepository       = (*VariantRepo)(nil)
	_ repository.MovementRepository      = (*MovementRepo)(nil)
	_ repository.SaleRepository          = (*SaleRepo)(nil)
	_ repository.AdjustmentRepository    = (*AdjustmentRepo)(nil)
	_ repository.DefectiveItemRepository = (*DefectiveItemRepo)(nil)
	_ repository.ProductRepository       = (*ProductRepo)(nil)
)
