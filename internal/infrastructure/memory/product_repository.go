package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo de productos en memoria.
type ProductRepo struct {
	store *Store
}

// NewProductRepository construye el adaptador.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{store: store}
}

// Create persiste un nuevo producto y completa su ID.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byCode[product.Code]; exists {
		return domain.ErrDuplicate
	}
	if product.StockCurrent < 0 {
		return domain.ErrInvalidQuantity
	}
	s.nextProductID++
	product.ID = s.nextProductID
	s.products[product.ID] = cloneProduct(product)
	s.byCode[product.Code] = product.ID
	return nil
}

// GetByID obtiene un producto activo por ID.
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok || !p.Active {
		return nil, nil
	}
	return cloneProduct(p), nil
}

// GetByCode obtiene un producto activo por código.
func (r *ProductRepo) GetByCode(ctx context.Context, code string) (*entity.Product, error) {
	r.store.mu.RLock()
	id, ok := r.store.byCode[code]
	r.store.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

// Update actualiza los campos que no son stock.
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[product.ID]
	if !ok || !p.Active {
		return domain.ErrNotFound
	}
	p.Name = product.Name
	p.Description = product.Description
	p.Category = product.Category
	p.Price = product.Price
	p.Cost = product.Cost
	p.StockMinimum = product.StockMinimum
	p.UpdatedAt = product.UpdatedAt
	return nil
}

// Deactivate da de baja lógica el producto (nunca se elimina).
func (r *ProductRepo) Deactivate(_ context.Context, id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok || !p.Active {
		return domain.ErrNotFound
	}
	p.Active = false
	return nil
}

// List lista productos con filtros y paginación (más recientes primero).
func (r *ProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]*entity.Product, int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var matched []*entity.Product
	for _, p := range s.products {
		if !filter.IncludeInactive && !p.Active {
			continue
		}
		if filter.Category != "" && !strings.EqualFold(p.Category, filter.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Code), search) {
			continue
		}
		matched = append(matched, cloneProduct(p))
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})
	return paginate(matched, filter.Offset, filter.Limit), len(matched), nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
