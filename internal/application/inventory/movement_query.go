package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

const dateLayout = "2006-01-02"

// MovementQueryUseCase consulta el libro de movimientos (solo lectura).
type MovementQueryUseCase struct {
	repo repository.MovementRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(repo repository.MovementRepository) *MovementQueryUseCase {
	return &MovementQueryUseCase{repo: repo}
}

// List devuelve movimientos filtrados (AND) y paginados, más recientes primero.
func (uc *MovementQueryUseCase) List(ctx context.Context, q dto.MovementListQuery) (*dto.MovementListResponse, error) {
	filter, err := BuildMovementFilter(q)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, ToMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.NewPageResponse(filter.Page, filter.Limit, total),
	}, nil
}

// GetByID devuelve un movimiento; domain.ErrNotFound si no existe.
func (uc *MovementQueryUseCase) GetByID(ctx context.Context, id int64) (*dto.MovementResponse, error) {
	if id <= 0 {
		return nil, domain.ErrNotFound
	}
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	out := ToMovementResponse(m)
	return &out, nil
}

// BuildMovementFilter traduce el query HTTP al filtro del repositorio.
func BuildMovementFilter(q dto.MovementListQuery) (repository.MovementFilter, error) {
	page := dto.PageRequest{Page: q.Page, Limit: q.Limit}
	page.DefaultPage()
	filter := repository.MovementFilter{Page: page.Page, Limit: page.Limit}

	if q.ProductID > 0 {
		id := q.ProductID
		filter.ProductID = &id
	}
	if q.UserID > 0 {
		id := q.UserID
		filter.UserID = &id
	}
	if q.Kind != "" {
		kind := entity.MovementKind(strings.ToUpper(q.Kind))
		if !kind.Valid() {
			return repository.MovementFilter{}, domain.ErrInvalidMovementKind
		}
		filter.Kind = &kind
	}
	if q.From != "" {
		from, _, err := parseDate(q.From)
		if err != nil {
			return repository.MovementFilter{}, domain.ErrInvalidInput
		}
		filter.From = &from
	}
	if q.To != "" {
		to, dateOnly, err := parseDate(q.To)
		if err != nil {
			return repository.MovementFilter{}, domain.ErrInvalidInput
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		filter.To = &to
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return repository.MovementFilter{}, domain.ErrInvalidInput
	}
	return filter, nil
}

func parseDate(s string) (time.Time, bool, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.UTC(), true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), false, nil
}
