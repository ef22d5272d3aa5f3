package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción del almacén en memoria.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados a la tx y publica los cambios solo si fn y el commit tienen éxito.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.MovementWriter,
	stockRepo repository.StockRepository,
) error) error {
	tx := &memTx{
		store: r.store,
		stock: make(map[int64]int64),
		held:  make(map[int64]chan struct{}),
	}
	defer tx.releaseAll()

	if err := fn(&txMovementWriter{tx: tx}, &txStockRepo{tx: tx}); err != nil {
		return err
	}
	if err := tx.commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// memTx cambios preparados y bloqueos tomados; nada es visible hasta commit.
type memTx struct {
	store     *Store
	stock     map[int64]int64
	movements []*entity.Movement
	held      map[int64]chan struct{}
}

func (tx *memTx) lock(ctx context.Context, productID int64) error {
	if _, ok := tx.held[productID]; ok {
		return nil
	}
	l := tx.store.productLock(productID)
	if err := acquire(ctx, l); err != nil {
		return err
	}
	tx.held[productID] = l
	return nil
}

func (tx *memTx) releaseAll() {
	for id, l := range tx.held {
		<-l
		delete(tx.held, id)
	}
}

func (tx *memTx) commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.store.runCommitHook(); err != nil {
		return err
	}

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()
	// una baja concurrente invalida la tx aunque ya tuviera el bloqueo
	for id := range tx.stock {
		if p, ok := s.products[id]; !ok || !p.Active {
			return domain.ErrProductNotFound
		}
	}
	now := time.Now().UTC()
	for id, value := range tx.stock {
		p := s.products[id]
		p.StockCurrent = value
		p.UpdatedAt = now
	}
	for _, m := range tx.movements {
		s.nextMovementID++
		m.ID = s.nextMovementID
		s.movements = append(s.movements, cloneMovement(m))
	}
	return nil
}

type txStockRepo struct {
	tx *memTx
}

// GetForUpdate toma el bloqueo del producto y lo lee (con los cambios propios de la tx).
func (r *txStockRepo) GetForUpdate(ctx context.Context, productID int64) (*entity.Product, error) {
	if err := r.tx.lock(ctx, productID); err != nil {
		return nil, err
	}
	s := r.tx.store
	s.mu.RLock()
	p, ok := s.products[productID]
	var out *entity.Product
	if ok && p.Active {
		out = cloneProduct(p)
	}
	s.mu.RUnlock()
	if out == nil {
		return nil, nil
	}
	if v, ok := r.tx.stock[productID]; ok {
		out.StockCurrent = v
	}
	return out, nil
}

// SetStock prepara la sobreescritura de stock_current; se publica en commit.
func (r *txStockRepo) SetStock(ctx context.Context, productID, value int64) error {
	if value < 0 {
		return fmt.Errorf("set stock %d: %w", value, domain.ErrInvalidQuantity)
	}
	if err := r.tx.lock(ctx, productID); err != nil {
		return err
	}
	s := r.tx.store
	s.mu.RLock()
	_, ok := s.products[productID]
	s.mu.RUnlock()
	if !ok {
		return domain.ErrProductNotFound
	}
	r.tx.stock[productID] = value
	return nil
}

type txMovementWriter struct {
	tx *memTx
}

// Create prepara el movimiento; el ID se asigna al publicar el commit.
func (w *txMovementWriter) Create(_ context.Context, movement *entity.Movement) error {
	if movement.ProductID <= 0 || movement.UserID <= 0 {
		return fmt.Errorf("create movement: %w", domain.ErrInvalidInput)
	}
	w.tx.movements = append(w.tx.movements, movement)
	return nil
}
