package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// InitialStockReason motivo del movimiento que registra el stock inicial.
const InitialStockReason = "stock inicial"

// MovementApplier lo implementa el motor de stock (inventory.RegisterMovementUseCase).
type MovementApplier interface {
	ApplyMovement(ctx context.Context, in inventory.MovementInput) (*inventory.MovementResult, error)
}

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía movimientos.
type ProductUseCase struct {
	repo   repository.ProductRepository
	engine MovementApplier
	now    func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, engine MovementApplier) *ProductUseCase {
	return &ProductUseCase{repo: repo, engine: engine, now: func() time.Time { return time.Now().UTC() }}
}

// Create crea un producto con stock 0 y código UUID. Si trae stock_inicial, se registra
// como ENTRADA "stock inicial" a nombre de userID; si esa ENTRADA falla el producto se da de baja.
func (uc *ProductUseCase) Create(ctx context.Context, userID int64, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Price.IsNegative() || in.Cost.IsNegative() {
		return nil, fmt.Errorf("%w: precio y costo deben ser >= 0", domain.ErrInvalidInput)
	}
	if in.StockMinimum < 0 || in.InitialStock < 0 {
		return nil, fmt.Errorf("%w: stock_minimo y stock_inicial deben ser >= 0", domain.ErrInvalidInput)
	}
	now := uc.now()
	product := &entity.Product{
		Code:         uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Category:     strings.TrimSpace(in.Category),
		Price:        in.Price,
		Cost:         in.Cost,
		StockMinimum: in.StockMinimum,
		StockCurrent: 0,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if product.Name == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	if in.InitialStock > 0 {
		res, err := uc.engine.ApplyMovement(ctx, inventory.MovementInput{
			ProductID: product.ID,
			Kind:      entity.MovementEntry,
			Quantity:  in.InitialStock,
			Reason:    InitialStockReason,
			UserID:    userID,
		})
		if err != nil {
			// sin su ENTRADA el producto no queda activo en el catálogo
			if deErr := uc.repo.Deactivate(context.WithoutCancel(ctx), product.ID); deErr != nil {
				return nil, fmt.Errorf("registrar stock inicial: %w (baja del producto: %v)", err, deErr)
			}
			return nil, fmt.Errorf("registrar stock inicial: %w", err)
		}
		product.StockCurrent = res.StockCurrent
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto activo por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// GetByCode obtiene un producto activo por su código.
func (uc *ProductUseCase) GetByCode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, domain.ErrNotFound
	}
	product, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return ToProductResponse(product), nil
}

// Update actualiza campos no relacionados con stock.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
		}
		product.Name = name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Category != nil {
		product.Category = strings.TrimSpace(*in.Category)
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return nil, fmt.Errorf("%w: precio debe ser >= 0", domain.ErrInvalidInput)
		}
		product.Price = *in.Price
	}
	if in.Cost != nil {
		if in.Cost.IsNegative() {
			return nil, fmt.Errorf("%w: costo debe ser >= 0", domain.ErrInvalidInput)
		}
		product.Cost = *in.Cost
	}
	if in.StockMinimum != nil {
		if *in.StockMinimum < 0 {
			return nil, fmt.Errorf("%w: stock_minimo debe ser >= 0", domain.ErrInvalidInput)
		}
		product.StockMinimum = *in.StockMinimum
	}
	product.UpdatedAt = uc.now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Deactivate baja lógica; el producto deja de aceptar movimientos.
func (uc *ProductUseCase) Deactivate(ctx context.Context, id int64) error {
	return uc.repo.Deactivate(ctx, id)
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, q dto.ProductListQuery) (*dto.ProductListResponse, error) {
	page := dto.PageRequest{Page: q.Page, Limit: q.Limit}
	page.DefaultPage()
	list, total, err := uc.repo.List(ctx, repository.ProductFilter{
		Search:          q.Search,
		Category:        q.Category,
		IncludeInactive: q.IncludeInactive,
		Limit:           page.Limit,
		Offset:          (page.Page - 1) * page.Limit,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(page.Page, page.Limit, total)}, nil
}

// ToProductResponse convierte la entidad al DTO de salida.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		Description:  p.Description,
		Category:     p.Category,
		Price:        p.Price,
		Cost:         p.Cost,
		StockMinimum: p.StockMinimum,
		StockCurrent: p.StockCurrent,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
