package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

type fakeReportRepo struct {
	lowStock  []*entity.Product
	valuation repository.ValuationResult
	byKind    []repository.KindCount
	daily     []repository.DailyTotal
	products  []repository.ActivityRow
	users     []repository.ActivityRow
	category  []repository.ActivityRow
	err       error

	since time.Time
}

func (f *fakeReportRepo) LowStockProducts(context.Context) ([]*entity.Product, error) {
	return f.lowStock, f.err
}

func (f *fakeReportRepo) Valuation(context.Context) (repository.ValuationResult, error) {
	return f.valuation, f.err
}

func (f *fakeReportRepo) CountByKind(_ context.Context, from, _ time.Time) ([]repository.KindCount, error) {
	return f.byKind, f.err
}

func (f *fakeReportRepo) DailyTotals(context.Context, time.Time, time.Time) ([]repository.DailyTotal, error) {
	return f.daily, f.err
}

func (f *fakeReportRepo) TopProducts(_ context.Context, since time.Time, limit int) ([]repository.ActivityRow, error) {
	f.since = since
	return f.products, f.err
}

func (f *fakeReportRepo) TopUsers(_ context.Context, since time.Time, limit int) ([]repository.ActivityRow, error) {
	return f.users, f.err
}

func (f *fakeReportRepo) ActivityByCategory(_ context.Context, since time.Time) ([]repository.ActivityRow, error) {
	f.since = since
	return f.category, f.err
}

type fakePDF struct {
	items []dto.LowStockItemDTO
}

func (f *fakePDF) GenerateLowStockPDF(_ context.Context, items []dto.LowStockItemDTO, _ time.Time) ([]byte, error) {
	f.items = items
	return []byte("%PDF-fake"), nil
}

var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestUseCase(repo repository.ReportRepository, pdf LowStockPDFGenerator) *ReportUseCase {
	uc := NewReportUseCase(repo, pdf, zerolog.Nop())
	uc.now = func() time.Time { return fixedNow }
	return uc
}

func TestLowStock_OrdenDeficitYNombre(t *testing.T) {
	repo := &fakeReportRepo{lowStock: []*entity.Product{
		{ID: 1, Name: "Ñandú", StockMinimum: 5, StockCurrent: 3},
		{ID: 2, Name: "nuez", StockMinimum: 5, StockCurrent: 3},
		{ID: 3, Name: "Arroz", StockMinimum: 10, StockCurrent: 0},
		{ID: 4, Name: "Óleo", StockMinimum: 4, StockCurrent: 4},
		{ID: 5, Name: "Manzana", StockMinimum: 5, StockCurrent: 3},
	}}
	items, err := newTestUseCase(repo, nil).LowStock(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	// Déficit 10, luego déficit 2 en orden alfabético español (n < ñ), luego déficit 0.
	assert.Equal(t, []string{"Arroz", "Manzana", "nuez", "Ñandú", "Óleo"}, names)
	assert.Equal(t, int64(10), items[0].Deficit)
	assert.Equal(t, int64(0), items[4].Deficit)
}

func TestLowStockPDF(t *testing.T) {
	repo := &fakeReportRepo{lowStock: []*entity.Product{{ID: 1, Name: "Arroz", StockMinimum: 3}}}
	pdf := &fakePDF{}
	out, err := newTestUseCase(repo, pdf).LowStockPDF(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(out))
	require.Len(t, pdf.items, 1)
	assert.Equal(t, int64(3), pdf.items[0].Deficit)

	_, err = newTestUseCase(repo, nil).LowStockPDF(context.Background())
	assert.Error(t, err)
}

func TestValuation(t *testing.T) {
	repo := &fakeReportRepo{valuation: repository.ValuationResult{
		Products: 2, Units: 15, SaleValue: decimal.NewFromInt(300), CostValue: decimal.NewFromInt(180),
	}}
	v, err := newTestUseCase(repo, nil).Valuation(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, v.Products)
	assert.Equal(t, int64(15), v.Units)
	assert.True(t, v.SaleValue.Equal(decimal.NewFromInt(300)))
	assert.True(t, v.CostValue.Equal(decimal.NewFromInt(180)))
}

func TestActivity_Validacion(t *testing.T) {
	uc := newTestUseCase(&fakeReportRepo{}, nil)
	ctx := context.Background()

	for _, days := range []int{0, -1, 366} {
		_, err := uc.Activity(ctx, days, GroupByProduct)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "dias=%d", days)
	}
	_, err := uc.Activity(ctx, 7, "bodega")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestActivity_Agrupaciones(t *testing.T) {
	repo := &fakeReportRepo{
		products: []repository.ActivityRow{{Key: "1", Label: "Arroz", Count: 3, Quantity: 30}},
		users:    []repository.ActivityRow{{Key: "9", Label: "Ana", Count: 2, Quantity: 5}},
		category: []repository.ActivityRow{{Key: "granos", Label: "granos", Count: 4, Quantity: 40}},
	}
	uc := newTestUseCase(repo, nil)
	ctx := context.Background()

	res, err := uc.Activity(ctx, 7, "")
	require.NoError(t, err)
	assert.Equal(t, GroupByProduct, res.GroupBy)
	assert.Equal(t, fixedNow.Add(-7*24*time.Hour), res.Since)
	assert.Equal(t, repo.since, res.Since)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "Arroz", res.Items[0].Label)

	res, err = uc.Activity(ctx, 30, GroupByUser)
	require.NoError(t, err)
	assert.Equal(t, "Ana", res.Items[0].Label)

	res, err = uc.Activity(ctx, 365, GroupByCategory)
	require.NoError(t, err)
	assert.Equal(t, "granos", res.Items[0].Key)
}

func TestSummary_NormalizaTipos(t *testing.T) {
	repo := &fakeReportRepo{
		byKind: []repository.KindCount{{Kind: entity.MovementExit, Count: 2, Quantity: 7}},
		daily: []repository.DailyTotal{
			{Day: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC), Kind: entity.MovementExit, Count: 2, Quantity: 7},
		},
		lowStock: []*entity.Product{{ID: 1}, {ID: 2}},
	}
	res, err := newTestUseCase(repo, nil).Summary(context.Background(), 7)
	require.NoError(t, err)

	require.Len(t, res.ByKind, 3)
	assert.Equal(t, dto.KindCountDTO{Kind: "ENTRADA"}, res.ByKind[0])
	assert.Equal(t, dto.KindCountDTO{Kind: "SALIDA", Count: 2, Quantity: 7}, res.ByKind[1])
	assert.Equal(t, dto.KindCountDTO{Kind: "AJUSTE"}, res.ByKind[2])
	require.Len(t, res.Daily, 1)
	assert.Equal(t, "2026-03-14", res.Daily[0].Day)
	assert.Equal(t, 2, res.LowStock)
}

func TestSummary_PropagaError(t *testing.T) {
	repo := &fakeReportRepo{err: errors.New("db caída")}
	_, err := newTestUseCase(repo, nil).Summary(context.Background(), 7)
	assert.Error(t, err)

	_, err = newTestUseCase(repo, nil).Summary(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
