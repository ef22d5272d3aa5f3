// Package analytics contiene las consultas de consistencia del inventario:
// stock bajo, valorización, actividad y el resumen del tablero.
package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// Agrupaciones válidas para Activity.
const (
	GroupByProduct  = "producto"
	GroupByUser     = "usuario"
	GroupByCategory = "categoria"
)

const (
	MinDays      = 1
	MaxDays      = 365
	summaryTopN  = 5
	activityTopN = 50
)

// LowStockPDFGenerator puerto de salida para el reporte imprimible.
type LowStockPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, items []dto.LowStockItemDTO, generatedAt time.Time) ([]byte, error)
}

// ReportUseCase consultas de solo lectura; cada llamada recalcula sobre el estado actual.
type ReportUseCase struct {
	repo repository.ReportRepository
	pdf  LowStockPDFGenerator
	log  zerolog.Logger
	now  func() time.Time
}

// NewReportUseCase construye el caso de uso. pdf puede ser nil (LowStockPDF devuelve error).
func NewReportUseCase(repo repository.ReportRepository, pdf LowStockPDFGenerator, log zerolog.Logger) *ReportUseCase {
	return &ReportUseCase{repo: repo, pdf: pdf, log: log, now: time.Now}
}

// LowStock productos activos con stock_actual <= stock_minimo, por déficit desc y luego nombre.
func (uc *ReportUseCase) LowStock(ctx context.Context) ([]dto.LowStockItemDTO, error) {
	products, err := uc.repo.LowStockProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("stock bajo: %w", err)
	}
	return sortLowStock(products), nil
}

func sortLowStock(products []*entity.Product) []dto.LowStockItemDTO {
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(products, func(i, j int) bool {
		di, dj := products[i].Deficit(), products[j].Deficit()
		if di != dj {
			return di > dj
		}
		if c := col.CompareString(products[i].Name, products[j].Name); c != 0 {
			return c < 0
		}
		return products[i].ID < products[j].ID
	})
	out := make([]dto.LowStockItemDTO, 0, len(products))
	for _, p := range products {
		out = append(out, dto.LowStockItemDTO{
			ProductID:    p.ID,
			Code:         p.Code,
			Name:         p.Name,
			Category:     p.Category,
			StockCurrent: p.StockCurrent,
			StockMinimum: p.StockMinimum,
			Deficit:      p.Deficit(),
		})
	}
	return out
}

// LowStockPDF genera el reporte imprimible de stock bajo.
func (uc *ReportUseCase) LowStockPDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, fmt.Errorf("generador PDF no configurado")
	}
	items, err := uc.LowStock(ctx)
	if err != nil {
		return nil, err
	}
	out, err := uc.pdf.GenerateLowStockPDF(ctx, items, uc.now())
	if err != nil {
		uc.log.Error().Err(err).Int("productos", len(items)).Msg("no se pudo generar el PDF de stock bajo")
		return nil, err
	}
	return out, nil
}

// Valuation valorización (precio y costo) del inventario activo.
func (uc *ReportUseCase) Valuation(ctx context.Context) (*dto.ValuationDTO, error) {
	v, err := uc.repo.Valuation(ctx)
	if err != nil {
		return nil, fmt.Errorf("valorización: %w", err)
	}
	out := toValuationDTO(v)
	return &out, nil
}

// Activity movimientos de los últimos `days` días agrupados por producto, usuario o categoría.
func (uc *ReportUseCase) Activity(ctx context.Context, days int, groupBy string) (*dto.ActivityResponse, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}
	if groupBy == "" {
		groupBy = GroupByProduct
	}
	since := uc.since(days)

	var rows []repository.ActivityRow
	var err error
	switch groupBy {
	case GroupByProduct:
		rows, err = uc.repo.TopProducts(ctx, since, activityTopN)
	case GroupByUser:
		rows, err = uc.repo.TopUsers(ctx, since, activityTopN)
	case GroupByCategory:
		rows, err = uc.repo.ActivityByCategory(ctx, since)
	default:
		return nil, fmt.Errorf("%w: agrupar debe ser producto, usuario o categoria", domain.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("actividad: %w", err)
	}
	return &dto.ActivityResponse{Days: days, GroupBy: groupBy, Since: since, Items: toActivityDTOs(rows)}, nil
}

// Summary arma el tablero de la ventana en paralelo (errgroup); el primer error cancela el resto.
func (uc *ReportUseCase) Summary(ctx context.Context, days int) (*dto.SummaryResponse, error) {
	if err := validateDays(days); err != nil {
		return nil, err
	}
	now := uc.now()
	since := uc.since(days)

	var (
		byKind      []repository.KindCount
		daily       []repository.DailyTotal
		topProducts []repository.ActivityRow
		topUsers    []repository.ActivityRow
		lowStock    []*entity.Product
		valuation   repository.ValuationResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { byKind, err = uc.repo.CountByKind(gctx, since, now); return })
	g.Go(func() (err error) { daily, err = uc.repo.DailyTotals(gctx, since, now); return })
	g.Go(func() (err error) { topProducts, err = uc.repo.TopProducts(gctx, since, summaryTopN); return })
	g.Go(func() (err error) { topUsers, err = uc.repo.TopUsers(gctx, since, summaryTopN); return })
	g.Go(func() (err error) { lowStock, err = uc.repo.LowStockProducts(gctx); return })
	g.Go(func() (err error) { valuation, err = uc.repo.Valuation(gctx); return })
	if err := g.Wait(); err != nil {
		uc.log.Error().Err(err).Int("dias", days).Msg("resumen de inventario falló")
		return nil, fmt.Errorf("resumen: %w", err)
	}

	dailyDTO := make([]dto.DailyTotalDTO, 0, len(daily))
	for _, d := range daily {
		dailyDTO = append(dailyDTO, dto.DailyTotalDTO{
			Day:      d.Day.Format("2006-01-02"),
			Kind:     string(d.Kind),
			Count:    d.Count,
			Quantity: d.Quantity,
		})
	}
	return &dto.SummaryResponse{
		Days:        days,
		Since:       since,
		ByKind:      normalizeKinds(byKind),
		Daily:       dailyDTO,
		TopProducts: toActivityDTOs(topProducts),
		TopUsers:    toActivityDTOs(topUsers),
		LowStock:    len(lowStock),
		Valuation:   toValuationDTO(valuation),
	}, nil
}

func (uc *ReportUseCase) since(days int) time.Time {
	return uc.now().Add(-time.Duration(days) * 24 * time.Hour)
}

func validateDays(days int) error {
	if days < MinDays || days > MaxDays {
		return fmt.Errorf("%w: dias debe estar entre %d y %d", domain.ErrInvalidInput, MinDays, MaxDays)
	}
	return nil
}

// normalizeKinds devuelve siempre los tres tipos, en orden ENTRADA, SALIDA, AJUSTE.
func normalizeKinds(rows []repository.KindCount) []dto.KindCountDTO {
	byKind := make(map[entity.MovementKind]repository.KindCount, len(rows))
	for _, r := range rows {
		byKind[r.Kind] = r
	}
	kinds := []entity.MovementKind{entity.MovementEntry, entity.MovementExit, entity.MovementAdjustment}
	out := make([]dto.KindCountDTO, 0, len(kinds))
	for _, k := range kinds {
		r := byKind[k]
		out = append(out, dto.KindCountDTO{Kind: string(k), Count: r.Count, Quantity: r.Quantity})
	}
	return out
}

func toActivityDTOs(rows []repository.ActivityRow) []dto.ActivityDTO {
	out := make([]dto.ActivityDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.ActivityDTO{Key: r.Key, Label: r.Label, Count: r.Count, Quantity: r.Quantity})
	}
	return out
}

func toValuationDTO(v repository.ValuationResult) dto.ValuationDTO {
	return dto.ValuationDTO{Products: v.Products, Units: v.Units, SaleValue: v.SaleValue, CostValue: v.CostValue}
}
