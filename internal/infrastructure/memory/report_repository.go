package memory

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// UncategorizedLabel etiqueta de los productos sin categoría.
const UncategorizedLabel = "sin categoría"

// ReportRepo consultas derivadas sobre el almacén en memoria (recalculadas en cada llamada).
type ReportRepo struct {
	store *Store
}

// NewReportRepository construye el adaptador.
func NewReportRepository(store *Store) *ReportRepo {
	return &ReportRepo{store: store}
}

// LowStockProducts productos activos con stock_current <= stock_minimum.
func (r *ReportRepo) LowStockProducts(_ context.Context) ([]*entity.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*entity.Product
	for _, p := range s.products {
		if p.Active && p.IsLowStock() {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

// Valuation suma precio*stock y costo*stock de los productos activos.
func (r *ReportRepo) Valuation(_ context.Context) (repository.ValuationResult, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := repository.ValuationResult{SaleValue: decimal.Zero, CostValue: decimal.Zero}
	for _, p := range s.products {
		if !p.Active {
			continue
		}
		qty := decimal.NewFromInt(p.StockCurrent)
		res.Products++
		res.Units += p.StockCurrent
		res.SaleValue = res.SaleValue.Add(p.Price.Mul(qty))
		res.CostValue = res.CostValue.Add(p.Cost.Mul(qty))
	}
	return res, nil
}

// CountByKind cuenta movimientos y suma cantidades por tipo en [from, to].
func (r *ReportRepo) CountByKind(_ context.Context, from, to time.Time) ([]repository.KindCount, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc := make(map[entity.MovementKind]*repository.KindCount)
	for _, m := range s.movements {
		if !inRange(m.CreatedAt, from, to) {
			continue
		}
		kc, ok := acc[m.Kind]
		if !ok {
			kc = &repository.KindCount{Kind: m.Kind}
			acc[m.Kind] = kc
		}
		kc.Count++
		kc.Quantity += m.Quantity
	}
	out := make([]repository.KindCount, 0, len(acc))
	for _, kc := range acc {
		out = append(out, *kc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind < out[j].Kind })
	return out, nil
}

// DailyTotals agrupa por día (UTC) y tipo en [from, to].
func (r *ReportRepo) DailyTotals(_ context.Context, from, to time.Time) ([]repository.DailyTotal, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	type key struct {
		day  time.Time
		kind entity.MovementKind
	}
	acc := make(map[key]*repository.DailyTotal)
	for _, m := range s.movements {
		if !inRange(m.CreatedAt, from, to) {
			continue
		}
		t := m.CreatedAt.UTC()
		k := key{day: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), kind: m.Kind}
		dt, ok := acc[k]
		if !ok {
			dt = &repository.DailyTotal{Day: k.day, Kind: k.kind}
			acc[k] = dt
		}
		dt.Count++
		dt.Quantity += m.Quantity
	}
	out := make([]repository.DailyTotal, 0, len(acc))
	for _, dt := range acc {
		out = append(out, *dt)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].Kind < out[j].Kind
	})
	return out, nil
}

// TopProducts productos con más movimientos desde `since`.
func (r *ReportRepo) TopProducts(_ context.Context, since time.Time, limit int) ([]repository.ActivityRow, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := r.groupLocked(since, func(m *entity.Movement) (string, string) {
		name := ""
		if p, ok := s.products[m.ProductID]; ok {
			name = p.Name
		}
		return strconv.FormatInt(m.ProductID, 10), name
	})
	return paginate(rows, 0, limit), nil
}

// TopUsers usuarios con más movimientos desde `since`.
func (r *ReportRepo) TopUsers(_ context.Context, since time.Time, limit int) ([]repository.ActivityRow, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := r.groupLocked(since, func(m *entity.Movement) (string, string) {
		name := ""
		if u, ok := s.users[m.UserID]; ok {
			name = u.Name
		}
		return strconv.FormatInt(m.UserID, 10), name
	})
	return paginate(rows, 0, limit), nil
}

// ActivityByCategory movimientos agrupados por categoría del producto desde `since`.
func (r *ReportRepo) ActivityByCategory(_ context.Context, since time.Time) ([]repository.ActivityRow, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	return r.groupLocked(since, func(m *entity.Movement) (string, string) {
		category := UncategorizedLabel
		if p, ok := s.products[m.ProductID]; ok && p.Category != "" {
			category = p.Category
		}
		return category, category
	}), nil
}

// groupLocked agrupa movimientos por la clave devuelta; el caller sostiene s.mu.
func (r *ReportRepo) groupLocked(since time.Time, keyOf func(*entity.Movement) (string, string)) []repository.ActivityRow {
	acc := make(map[string]*repository.ActivityRow)
	for _, m := range r.store.movements {
		if m.CreatedAt.Before(since) {
			continue
		}
		k, label := keyOf(m)
		row, ok := acc[k]
		if !ok {
			row = &repository.ActivityRow{Key: k, Label: label}
			acc[k] = row
		}
		row.Count++
		row.Quantity += m.Quantity
	}
	rows := make([]repository.ActivityRow, 0, len(acc))
	for _, row := range acc {
		rows = append(rows, *row)
	}
	sortActivity(rows)
	return rows
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && !t.After(to)
}
