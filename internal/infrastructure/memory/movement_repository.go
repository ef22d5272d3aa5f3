package memory

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo lado de lectura del libro en memoria. Las lecturas no toman bloqueos de producto.
type MovementRepo struct {
	store *Store
}

// NewMovementRepository construye el adaptador.
func NewMovementRepository(store *Store) *MovementRepo {
	return &MovementRepo{store: store}
}

// GetByID obtiene un movimiento por ID.
func (r *MovementRepo) GetByID(_ context.Context, id int64) (*entity.Movement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	// los IDs se asignan en orden de commit, así que coinciden con la posición
	if id <= 0 || id > int64(len(s.movements)) {
		return nil, nil
	}
	return cloneMovement(s.movements[id-1]), nil
}

// List filtra (AND) y pagina; orden created_at DESC, id DESC.
func (r *MovementRepo) List(_ context.Context, filter repository.MovementFilter) ([]*entity.Movement, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	var matched []*entity.Movement
	for i := len(s.movements) - 1; i >= 0; i-- {
		m := s.movements[i]
		if matchMovement(m, filter) {
			matched = append(matched, cloneMovement(m))
		}
	}
	sortMovements(matched)
	return paginate(matched, filter.Offset(), filter.Limit), len(matched), nil
}

// LastByProduct devuelve el último movimiento confirmado del producto.
func (r *MovementRepo) LastByProduct(_ context.Context, productID int64) (*entity.Movement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.movements) - 1; i >= 0; i-- {
		if s.movements[i].ProductID == productID {
			return cloneMovement(s.movements[i]), nil
		}
	}
	return nil, nil
}

func matchMovement(m *entity.Movement, f repository.MovementFilter) bool {
	if f.ProductID != nil && m.ProductID != *f.ProductID {
		return false
	}
	if f.Kind != nil && m.Kind != *f.Kind {
		return false
	}
	if f.UserID != nil && m.UserID != *f.UserID {
		return false
	}
	if f.From != nil && m.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && m.CreatedAt.After(*f.To) {
		return false
	}
	return true
}
