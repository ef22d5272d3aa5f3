package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// UncategorizedLabel etiqueta de los productos sin categoría.
const UncategorizedLabel = "sin categoría"

// ReportRepo consultas de solo lectura (sin caché) sobre products y movements.
type ReportRepo struct {
	q Querier
}

// NewReportRepository construye el adaptador.
func NewReportRepository(q Querier) *ReportRepo {
	return &ReportRepo{q: q}
}

// LowStockProducts productos activos con stock_current <= stock_minimum.
func (r *ReportRepo) LowStockProducts(ctx context.Context) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE active AND stock_current <= stock_minimum`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("low stock products: %w", err)
	}
	defer rows.Close()
	var out []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Valuation suma precio*stock y costo*stock de los productos activos.
func (r *ReportRepo) Valuation(ctx context.Context) (repository.ValuationResult, error) {
	query := `
		SELECT COUNT(*)::INT,
		       COALESCE(SUM(stock_current), 0)::BIGINT,
		       COALESCE(SUM(price * stock_current), 0),
		       COALESCE(SUM(cost * stock_current), 0)
		FROM products WHERE active`
	var res repository.ValuationResult
	if err := r.q.QueryRow(ctx, query).Scan(&res.Products, &res.Units, &res.SaleValue, &res.CostValue); err != nil {
		return res, fmt.Errorf("valuation: %w", err)
	}
	return res, nil
}

// CountByKind cuenta movimientos y suma cantidades por tipo en [from, to].
func (r *ReportRepo) CountByKind(ctx context.Context, from, to time.Time) ([]repository.KindCount, error) {
	query := `
		SELECT kind, COUNT(*)::INT, COALESCE(SUM(quantity), 0)::BIGINT
		FROM movements
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY kind ORDER BY kind`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("count by kind: %w", err)
	}
	defer rows.Close()
	out := make([]repository.KindCount, 0, 3)
	for rows.Next() {
		var kc repository.KindCount
		var kind string
		if err := rows.Scan(&kind, &kc.Count, &kc.Quantity); err != nil {
			return nil, fmt.Errorf("scan kind count: %w", err)
		}
		kc.Kind = entity.MovementKind(kind)
		out = append(out, kc)
	}
	return out, rows.Err()
}

// DailyTotals agrupa por día (UTC) y tipo en [from, to].
func (r *ReportRepo) DailyTotals(ctx context.Context, from, to time.Time) ([]repository.DailyTotal, error) {
	query := `
		SELECT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day, kind,
		       COUNT(*)::INT, COALESCE(SUM(quantity), 0)::BIGINT
		FROM movements
		WHERE created_at >= $1 AND created_at <= $2
		GROUP BY day, kind ORDER BY day, kind`
	rows, err := r.q.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()
	var out []repository.DailyTotal
	for rows.Next() {
		var dt repository.DailyTotal
		var kind string
		if err := rows.Scan(&dt.Day, &kind, &dt.Count, &dt.Quantity); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		d := dt.Day
		dt.Day = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		dt.Kind = entity.MovementKind(kind)
		out = append(out, dt)
	}
	return out, rows.Err()
}

// TopProducts productos con más movimientos desde `since`.
func (r *ReportRepo) TopProducts(ctx context.Context, since time.Time, limit int) ([]repository.ActivityRow, error) {
	query := `
		SELECT m.product_id::TEXT, COALESCE(p.name, ''), COUNT(*)::INT, COALESCE(SUM(m.quantity), 0)::BIGINT AS qty
		FROM movements m
		LEFT JOIN products p ON p.id = m.product_id
		WHERE m.created_at >= $1
		GROUP BY m.product_id, p.name
		ORDER BY COUNT(*) DESC, qty DESC, m.product_id::TEXT ASC
		LIMIT $2`
	return r.activity(ctx, "top products", query, since, limit)
}

// TopUsers usuarios con más movimientos desde `since`.
func (r *ReportRepo) TopUsers(ctx context.Context, since time.Time, limit int) ([]repository.ActivityRow, error) {
	query := `
		SELECT m.user_id::TEXT, COALESCE(u.name, ''), COUNT(*)::INT, COALESCE(SUM(m.quantity), 0)::BIGINT AS qty
		FROM movements m
		LEFT JOIN users u ON u.id = m.user_id
		WHERE m.created_at >= $1
		GROUP BY m.user_id, u.name
		ORDER BY COUNT(*) DESC, qty DESC, m.user_id::TEXT ASC
		LIMIT $2`
	return r.activity(ctx, "top users", query, since, limit)
}

// ActivityByCategory movimientos agrupados por categoría del producto desde `since`.
func (r *ReportRepo) ActivityByCategory(ctx context.Context, since time.Time) ([]repository.ActivityRow, error) {
	query := `
		SELECT cat, cat, COUNT(*)::INT, COALESCE(SUM(quantity), 0)::BIGINT AS qty
		FROM (
			SELECT COALESCE(NULLIF(p.category, ''), $2::TEXT) AS cat, m.quantity
			FROM movements m
			LEFT JOIN products p ON p.id = m.product_id
			WHERE m.created_at >= $1
		) t
		GROUP BY cat
		ORDER BY COUNT(*) DESC, qty DESC, cat ASC`
	rows, err := r.q.Query(ctx, query, since, UncategorizedLabel)
	if err != nil {
		return nil, fmt.Errorf("activity by category: %w", err)
	}
	return scanActivity(rows)
}

func (r *ReportRepo) activity(ctx context.Context, op, query string, since time.Time, limit int) ([]repository.ActivityRow, error) {
	rows, err := r.q.Query(ctx, query, since, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return scanActivity(rows)
}

func scanActivity(rows pgx.Rows) ([]repository.ActivityRow, error) {
	defer rows.Close()
	out := make([]repository.ActivityRow, 0)
	for rows.Next() {
		var a repository.ActivityRow
		if err := rows.Scan(&a.Key, &a.Label, &a.Count, &a.Quantity); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
