package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

func seedProduct(t *testing.T, s *Store, code, category string, stock, minimum int64, created time.Time) *entity.Product {
	t.Helper()
	p := &entity.Product{
		Code:         code,
		Name:         code,
		Category:     category,
		Price:        decimal.RequireFromString("2.5"),
		Cost:         decimal.NewFromInt(1),
		StockCurrent: stock,
		StockMinimum: minimum,
		Active:       true,
		CreatedAt:    created,
	}
	require.NoError(t, NewProductRepository(s).Create(context.Background(), p))
	return p
}

// record confirma un movimiento directo por el TxRunner, como lo haría el motor.
func record(t *testing.T, s *Store, productID int64, kind entity.MovementKind, qty, after int64, userID int64, at time.Time) {
	t.Helper()
	err := NewTxRunner(s).Run(context.Background(), func(w repository.MovementWriter, st repository.StockRepository) error {
		p, err := st.GetForUpdate(context.Background(), productID)
		if err != nil {
			return err
		}
		if err := w.Create(context.Background(), &entity.Movement{
			ProductID: productID, Kind: kind, Quantity: qty,
			StockBefore: p.StockCurrent, StockAfter: after, UserID: userID, CreatedAt: at,
		}); err != nil {
			return err
		}
		return st.SetStock(context.Background(), productID, after)
	})
	require.NoError(t, err)
}

func TestProductRepo(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewProductRepository(s)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := seedProduct(t, s, "ARROZ-1", "granos", 5, 0, base)
	b := seedProduct(t, s, "FRIJOL-1", "granos", 5, 0, base.Add(time.Hour))
	c := seedProduct(t, s, "CAFE-1", "bebidas", 5, 0, base.Add(2*time.Hour))

	err := repo.Create(ctx, &entity.Product{Code: "ARROZ-1", Active: true})
	require.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := repo.GetByCode(ctx, "FRIJOL-1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)

	// Las lecturas devuelven copias
	got.StockCurrent = 999
	again, err := repo.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), again.StockCurrent)

	list, total, err := repo.List(ctx, repository.ProductFilter{Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, c.ID, list[0].ID)
	assert.Equal(t, b.ID, list[1].ID)

	list, _, err = repo.List(ctx, repository.ProductFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	list, total, err = repo.List(ctx, repository.ProductFilter{Category: "GRANOS", Search: "arr"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.ID, list[0].ID)

	require.NoError(t, repo.Deactivate(ctx, a.ID))
	require.ErrorIs(t, repo.Deactivate(ctx, a.ID), domain.ErrNotFound)
	gone, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	_, total, err = repo.List(ctx, repository.ProductFilter{IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	err = repo.Update(ctx, &entity.Product{ID: a.ID, Name: "x"})
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxRunner_ErrorDescartaCambios(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "P", "", 10, 0, time.Now())
	boom := errors.New("boom")

	err := NewTxRunner(s).Run(context.Background(), func(w repository.MovementWriter, st repository.StockRepository) error {
		if _, err := st.GetForUpdate(context.Background(), p.ID); err != nil {
			return err
		}
		require.NoError(t, st.SetStock(context.Background(), p.ID, 3))
		require.NoError(t, w.Create(context.Background(), &entity.Movement{ProductID: p.ID, Kind: entity.MovementExit, Quantity: 7, UserID: 1}))

		// Nada es visible fuera de la tx antes del commit
		outside, err := NewProductRepository(s).GetByID(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(10), outside.StockCurrent)

		inside, err := st.GetForUpdate(context.Background(), p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), inside.StockCurrent)
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := NewProductRepository(s).GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.StockCurrent)
	assert.Empty(t, s.movements)
}

func TestTxRunner_BloqueoPorProducto(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "P", "", 10, 0, time.Now())
	other := seedProduct(t, s, "Q", "", 10, 0, time.Now())
	runner := NewTxRunner(s)

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- runner.Run(context.Background(), func(_ repository.MovementWriter, st repository.StockRepository) error {
			if _, err := st.GetForUpdate(context.Background(), p.ID); err != nil {
				return err
			}
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	// Mismo producto: espera hasta vencer el contexto
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	err := runner.Run(ctx, func(_ repository.MovementWriter, st repository.StockRepository) error {
		_, err := st.GetForUpdate(ctx, p.ID)
		return err
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// Otro producto: no espera
	err = runner.Run(context.Background(), func(_ repository.MovementWriter, st repository.StockRepository) error {
		_, err := st.GetForUpdate(context.Background(), other.ID)
		return err
	})
	require.NoError(t, err)

	close(release)
	require.NoError(t, <-done)

	// Liberado tras el commit
	err = runner.Run(context.Background(), func(_ repository.MovementWriter, st repository.StockRepository) error {
		_, err := st.GetForUpdate(context.Background(), p.ID)
		return err
	})
	require.NoError(t, err)
}

func TestTxRunner_BajaDuranteLaTransaccion(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := seedProduct(t, s, "P", "", 10, 0, time.Now())
	products := NewProductRepository(s)

	err := NewTxRunner(s).Run(ctx, func(w repository.MovementWriter, st repository.StockRepository) error {
		got, err := st.GetForUpdate(ctx, p.ID)
		if err != nil {
			return err
		}
		require.NotNil(t, got)
		require.NoError(t, products.Deactivate(ctx, p.ID))
		if err := w.Create(ctx, &entity.Movement{ProductID: p.ID, Kind: entity.MovementExit, Quantity: 4, StockBefore: 10, StockAfter: 6, UserID: 1}); err != nil {
			return err
		}
		return st.SetStock(ctx, p.ID, 6)
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.False(t, s.products[p.ID].Active)
	assert.Equal(t, int64(10), s.products[p.ID].StockCurrent)
	assert.Empty(t, s.movements)
}

func TestTxRunner_Validaciones(t *testing.T) {
	s := NewStore()
	p := seedProduct(t, s, "P", "", 1, 0, time.Now())

	err := NewTxRunner(s).Run(context.Background(), func(w repository.MovementWriter, st repository.StockRepository) error {
		return st.SetStock(context.Background(), p.ID, -1)
	})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	err = NewTxRunner(s).Run(context.Background(), func(w repository.MovementWriter, st repository.StockRepository) error {
		return st.SetStock(context.Background(), 999, 1)
	})
	require.ErrorIs(t, err, domain.ErrProductNotFound)

	err = NewTxRunner(s).Run(context.Background(), func(w repository.MovementWriter, st repository.StockRepository) error {
		got, err := st.GetForUpdate(context.Background(), 999)
		assert.Nil(t, got)
		return err
	})
	require.NoError(t, err)
}

func TestMovementRepo_OrdenYFiltros(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := seedProduct(t, s, "P", "", 0, 0, time.Now())
	q := seedProduct(t, s, "Q", "", 0, 0, time.Now())
	t0 := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	record(t, s, p.ID, entity.MovementEntry, 10, 10, 1, t0)
	record(t, s, q.ID, entity.MovementEntry, 4, 4, 2, t0.Add(time.Minute))
	record(t, s, p.ID, entity.MovementExit, 3, 7, 1, t0.Add(2*time.Minute))
	record(t, s, p.ID, entity.MovementAdjustment, 2, 9, 2, t0.Add(2*time.Minute))

	repo := NewMovementRepository(s)
	list, total, err := repo.List(ctx, repository.MovementFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	ids := make([]int64, 0, len(list))
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	assert.Equal(t, []int64{4, 3, 2, 1}, ids, "created_at DESC y, en empate, id DESC")

	kind := entity.MovementExit
	list, total, err = repo.List(ctx, repository.MovementFilter{ProductID: &p.ID, Kind: &kind, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, int64(3), list[0].Quantity)

	from, to := t0.Add(time.Minute), t0.Add(time.Minute)
	_, total, err = repo.List(ctx, repository.MovementFilter{From: &from, To: &to, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	list, total, err = repo.List(ctx, repository.MovementFilter{Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)

	last, err := repo.LastByProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), last.ID)
	assert.Equal(t, int64(9), last.StockAfter)

	m, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, q.ID, m.ProductID)
	m, err = repo.GetByID(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestReportRepo(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	users := NewUserRepository(s)
	require.NoError(t, users.Create(ctx, &entity.User{Email: "ana@test.co", Name: "Ana", Active: true}))
	require.NoError(t, users.Create(ctx, &entity.User{Email: "luis@test.co", Name: "Luis", Active: true}))

	now := time.Date(2024, 6, 10, 15, 0, 0, 0, time.UTC)
	arroz := seedProduct(t, s, "ARROZ", "granos", 0, 5, now)
	cafe := seedProduct(t, s, "CAFE", "", 0, 1, now)
	inactive := seedProduct(t, s, "VIEJO", "granos", 0, 10, now)
	require.NoError(t, NewProductRepository(s).Deactivate(ctx, inactive.ID))

	record(t, s, arroz.ID, entity.MovementEntry, 8, 8, 1, now.Add(-48*time.Hour))
	record(t, s, arroz.ID, entity.MovementExit, 5, 3, 2, now.Add(-time.Hour))
	record(t, s, cafe.ID, entity.MovementEntry, 20, 20, 1, now.Add(-time.Hour))
	record(t, s, cafe.ID, entity.MovementExit, 2, 18, 1, now.Add(-30*time.Minute))

	repo := NewReportRepository(s)

	low, err := repo.LowStockProducts(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, arroz.ID, low[0].ID)

	val, err := repo.Valuation(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, val.Products)
	assert.Equal(t, int64(21), val.Units)
	assert.True(t, decimal.RequireFromString("52.5").Equal(val.SaleValue))
	assert.True(t, decimal.NewFromInt(21).Equal(val.CostValue))

	since := now.Add(-24 * time.Hour)
	counts, err := repo.CountByKind(ctx, since, now)
	require.NoError(t, err)
	assert.Equal(t, []repository.KindCount{
		{Kind: entity.MovementEntry, Count: 1, Quantity: 20},
		{Kind: entity.MovementExit, Count: 2, Quantity: 7},
	}, counts)

	daily, err := repo.DailyTotals(ctx, now.Add(-72*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, daily, 3)
	assert.Equal(t, time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC), daily[0].Day)
	assert.Equal(t, entity.MovementEntry, daily[1].Kind)
	assert.Equal(t, int64(7), daily[2].Quantity)

	top, err := repo.TopProducts(ctx, since, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, "CAFE", top[0].Label)
	assert.Equal(t, 2, top[0].Count)

	byUser, err := repo.TopUsers(ctx, since, 10)
	require.NoError(t, err)
	require.Len(t, byUser, 2)
	assert.Equal(t, "Ana", byUser[0].Label)
	assert.Equal(t, "2", byUser[1].Key)

	byCat, err := repo.ActivityByCategory(ctx, since)
	require.NoError(t, err)
	require.Len(t, byCat, 2)
	assert.Equal(t, UncategorizedLabel, byCat[0].Key)
	assert.Equal(t, int64(22), byCat[0].Quantity)
	assert.Equal(t, "granos", byCat[1].Key)
}

func TestUserRepo_EmailUnico(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(NewStore())
	u := &entity.User{Email: "Ana@Test.co", Permissions: []string{entity.PermissionAll}}
	require.NoError(t, repo.Create(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	err := repo.Create(ctx, &entity.User{Email: "ana@test.co"})
	require.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	got, err := repo.FindByEmail(ctx, "ANA@TEST.CO")
	require.NoError(t, err)
	require.NotNil(t, got)
	got.Permissions[0] = "x"
	again, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{entity.PermissionAll}, again.Permissions)

	missing, err := repo.FindByEmail(ctx, "nadie@test.co")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
