package inventory

import (
	"context"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// RegisterMovementFromRequest adapta el request HTTP al motor ApplyMovement(ctx, MovementInput).
// userID llega ya autorizado por la capa de autenticación; el motor no vuelve a verificar permisos.
func (uc *RegisterMovementUseCase) RegisterMovementFromRequest(
	ctx context.Context,
	userID int64,
	kind entity.MovementKind,
	requestID string,
	in dto.MovementRequest,
) (*dto.RegisterMovementResponse, error) {
	result, err := uc.ApplyMovement(ctx, MovementInput{
		ProductID: in.ProductID,
		Kind:      kind,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		UserID:    userID,
		RequestID: requestID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.RegisterMovementResponse{
		Movement:     ToMovementResponse(result.Movement),
		StockCurrent: result.StockCurrent,
	}, nil
}

// ToMovementResponse convierte la entidad al DTO de salida.
func ToMovementResponse(m *entity.Movement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		Kind:        string(m.Kind),
		Quantity:    m.Quantity,
		StockBefore: m.StockBefore,
		StockAfter:  m.StockAfter,
		Reason:      m.Reason,
		UserID:      m.UserID,
		RequestID:   m.RequestID,
		CreatedAt:   m.CreatedAt,
	}
}
