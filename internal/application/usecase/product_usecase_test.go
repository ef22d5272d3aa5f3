package usecase_test

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
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
	"github.com/jhoicas/inventario-stock/internal/infrastructure/memory"
)

func newProductUC(t *testing.T) (*usecase.ProductUseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	engine := inventory.NewRegisterMovementUseCase(memory.NewTxRunner(store), nil,
		inventory.EngineConfig{MaxRetries: 1, AttemptTimeout: time.Second}, zerolog.Nop())
	return usecase.NewProductUseCase(memory.NewProductRepository(store), engine), store
}

func TestProductUseCase_CreateConStockInicial(t *testing.T) {
	uc, store := newProductUC(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, 3, dto.CreateProductRequest{
		Name: "  Arroz  ", Category: "granos", Price: decimal.NewFromInt(4), StockMinimum: 2, InitialStock: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "Arroz", out.Name)
	assert.Equal(t, int64(12), out.StockCurrent)
	assert.True(t, out.Active)
	assert.Len(t, out.Code, 36)

	movs, total, err := memory.NewMovementRepository(store).List(ctx, repository.MovementFilter{ProductID: &out.ID, Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	assert.Equal(t, entity.MovementEntry, movs[0].Kind)
	assert.Equal(t, int64(0), movs[0].StockBefore)
	assert.Equal(t, int64(12), movs[0].StockAfter)
	assert.Equal(t, usecase.InitialStockReason, movs[0].Reason)
	assert.Equal(t, int64(3), movs[0].UserID)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.StockCurrent)
}

func TestProductUseCase_CreateSinStockNoRegistraMovimiento(t *testing.T) {
	uc, store := newProductUC(t)
	out, err := uc.Create(context.Background(), 1, dto.CreateProductRequest{Name: "Sal"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.StockCurrent)

	_, total, err := memory.NewMovementRepository(store).List(context.Background(), repository.MovementFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestProductUseCase_CreateInvalido(t *testing.T) {
	uc, _ := newProductUC(t)
	cases := []struct {
		name string
		in   dto.CreateProductRequest
	}{
		{"sin nombre", dto.CreateProductRequest{Name: "   "}},
		{"precio negativo", dto.CreateProductRequest{Name: "x", Price: decimal.NewFromInt(-1)}},
		{"costo negativo", dto.CreateProductRequest{Name: "x", Cost: decimal.NewFromInt(-1)}},
		{"minimo negativo", dto.CreateProductRequest{Name: "x", StockMinimum: -1}},
		{"stock inicial negativo", dto.CreateProductRequest{Name: "x", InitialStock: -4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), 1, tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

type failingEngine struct{ err error }

func (f failingEngine) ApplyMovement(context.Context, inventory.MovementInput) (*inventory.MovementResult, error) {
	return nil, f.err
}

func TestProductUseCase_CreateFallaStockInicial(t *testing.T) {
	store := memory.NewStore()
	uc := usecase.NewProductUseCase(memory.NewProductRepository(store), failingEngine{err: domain.ErrPersistence})

	_, err := uc.Create(context.Background(), 1, dto.CreateProductRequest{Name: "Café", InitialStock: 5})
	require.ErrorIs(t, err, domain.ErrPersistence)

	// El producto quedó dado de baja: no aparece en el catálogo activo
	list, err := uc.List(context.Background(), dto.ProductListQuery{})
	require.NoError(t, err)
	assert.Zero(t, list.Page.Total)

	all, err := uc.List(context.Background(), dto.ProductListQuery{IncludeInactive: true})
	require.NoError(t, err)
	require.Equal(t, 1, all.Page.Total)
	assert.False(t, all.Items[0].Active)
	assert.Equal(t, int64(0), all.Items[0].StockCurrent)
}

func TestProductUseCase_UpdateNoTocaStock(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, 1, dto.CreateProductRequest{Name: "Lenteja", InitialStock: 9})
	require.NoError(t, err)

	name := "Lenteja roja"
	minimum := int64(4)
	price := decimal.RequireFromString("3.75")
	out, err := uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &name, StockMinimum: &minimum, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, name, out.Name)
	assert.Equal(t, minimum, out.StockMinimum)
	assert.True(t, price.Equal(out.Price))
	assert.Equal(t, int64(9), out.StockCurrent)

	empty := ""
	_, err = uc.Update(ctx, created.ID, dto.UpdateProductRequest{Name: &empty})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Update(ctx, 999, dto.UpdateProductRequest{Name: &name})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_DeactivateYList(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, 1, dto.CreateProductRequest{Name: "A", Category: "x"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, 1, dto.CreateProductRequest{Name: "B", Category: "x"})
	require.NoError(t, err)

	require.NoError(t, uc.Deactivate(ctx, a.ID))
	_, err = uc.GetByID(ctx, a.ID)
	require.True(t, errors.Is(err, domain.ErrNotFound))

	list, err := uc.List(ctx, dto.ProductListQuery{Category: "x"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
	assert.Equal(t, 20, list.Page.Limit)

	list, err = uc.List(ctx, dto.ProductListQuery{Category: "x", IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)
}

func TestProductUseCase_GetByCode(t *testing.T) {
	uc, _ := newProductUC(t)
	ctx := context.Background()
	created, err := uc.Create(ctx, 1, dto.CreateProductRequest{Name: "Avena", InitialStock: 2})
	require.NoError(t, err)

	got, err := uc.GetByCode(ctx, "  "+created.Code+" ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(2), got.StockCurrent)

	_, err = uc.GetByCode(ctx, "")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetByCode(ctx, "otro")
	require.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, uc.Deactivate(ctx, created.ID))
	_, err = uc.GetByCode(ctx, created.Code)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
