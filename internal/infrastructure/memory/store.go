// Package memory implementa un almacén transaccional embebido para el libro de stock.
//
// Cumple el mismo contrato que el adaptador PostgreSQL: bloqueo exclusivo por producto
// durante la transacción (sin bloquear otros productos) y commit atómico de
// "agregar movimiento + sobreescribir stock" bajo una sola sección crítica, de modo que
// ningún lector observa uno sin el otro.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// Store estado compartido. mu protege productos, movimientos y usuarios;
// los bloqueos por producto viven aparte para no serializar productos distintos.
type Store struct {
	mu        sync.RWMutex
	products  map[int64]*entity.Product
	byCode    map[string]int64
	movements []*entity.Movement // orden de commit (id ascendente)
	users     map[int64]*entity.User

	nextProductID  int64
	nextMovementID int64
	nextUserID     int64

	locksMu sync.Mutex
	locks   map[int64]chan struct{}

	hookMu     sync.RWMutex
	commitHook func() error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[int64]*entity.Product),
		byCode:   make(map[string]int64),
		users:    make(map[int64]*entity.User),
		locks:    make(map[int64]chan struct{}),
	}
}

// SetCommitHook instala una función que se ejecuta justo antes de publicar un commit.
// Si devuelve error el commit se aborta sin efectos (inyección de fallos).
func (s *Store) SetCommitHook(fn func() error) {
	s.hookMu.Lock()
	s.commitHook = fn
	s.hookMu.Unlock()
}

func (s *Store) runCommitHook() error {
	s.hookMu.RLock()
	fn := s.commitHook
	s.hookMu.RUnlock()
	if fn == nil {
		return nil
	}
	return fn()
}

// productLock devuelve el semáforo (capacidad 1) del producto, creándolo si no existe.
func (s *Store) productLock(productID int64) chan struct{} {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()
	l, ok := s.locks[productID]
	if !ok {
		l = make(chan struct{}, 1)
		s.locks[productID] = l
	}
	return l
}

// acquire toma el bloqueo respetando la cancelación del contexto.
func acquire(ctx context.Context, l chan struct{}) error {
	select {
	case l <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("bloqueo de producto: %w", ctx.Err())
	}
}

func cloneProduct(p *entity.Product) *entity.Product {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneMovement(m *entity.Movement) *entity.Movement {
	if m == nil {
		return nil
	}
	c := *m
	return &c
}

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Permissions = append([]string(nil), u.Permissions...)
	return &c
}
