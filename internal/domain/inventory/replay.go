package inventory

import (
	"iter"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// QuantityAt reconstruye la cantidad de una variante en el instante at.
// Recorre el historial (más reciente primero) deshaciendo los movimientos posteriores a at.
func QuantityAt(current int, newestFirst iter.Seq2[*entity.Movement, error], at time.Time) (int, error) {
	q := current
	for m, err := range newestFirst {
		if err != nil {
			return 0, err
		}
		if !m.CreatedAt.After(at) {
			break
		}
		q -= m.SignedDelta()
	}
	return q, nil
}

// Reconciliation resultado de comparar el stock proyectado con el libro de movimientos.
type Reconciliation struct {
	Current     int
	Initial     int
	SignedSum   int
	LedgerAfter int
	Movements   int
	ChainGaps   int // pares consecutivos donde before(n+1) != after(n)
	Consistent  bool
}

// Reconcile recorre todo el historial y verifica conservación y encadenamiento.
// Sin movimientos la cantidad inicial es la actual y el resultado es consistente.
func Reconcile(current int, newestFirst iter.Seq2[*entity.Movement, error]) (Reconciliation, error) {
	r := Reconciliation{Current: current, Initial: current, LedgerAfter: current}
	var newer *entity.Movement
	for m, err := range newestFirst {
		if err != nil {
			return Reconciliation{}, err
		}
		if newer == nil {
			r.LedgerAfter = m.QuantityAfter
		} else if newer.QuantityBefore != m.QuantityAfter {
			r.ChainGaps++
		}
		r.SignedSum += m.SignedDelta()
		r.Initial = m.QuantityBefore
		r.Movements++
		newer = m
	}
	r.Consistent = r.LedgerAfter == current && r.Initial+r.SignedSum == current && r.ChainGaps == 0
	return r, nil
}
