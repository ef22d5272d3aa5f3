package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-stock/internal/domain"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
	"github.com/jhoicas/inventario-stock/internal/domain/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/repository"
)

// EngineConfig parámetros del motor de stock.
type EngineConfig struct {
	MaxRetries     int           // reintentos ante ErrConflict (0 = un solo intento)
	AttemptTimeout time.Duration // límite por intento; 0 = solo el ctx del caller
}

// RegisterMovementUseCase es el motor de mutación de stock: registra movimientos
// (ENTRADA, SALIDA, AJUSTE) con bloqueo de fila por producto y Commit/Rollback.
// Es el único escritor de Product.StockCurrent y de los movimientos.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	dedup    RequestDeduplicator
	cfg      EngineConfig
	log      zerolog.Logger
	now      func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso. dedup puede ser nil (sin idempotencia).
func NewRegisterMovementUseCase(
	txRunner TxRunner,
	dedup RequestDeduplicator,
	cfg EngineConfig,
	log zerolog.Logger,
) *RegisterMovementUseCase {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &RegisterMovementUseCase{
		txRunner: txRunner,
		dedup:    dedup,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// MovementInput entrada del motor.
// En AJUSTE, Quantity es el valor absoluto objetivo del stock, no un delta.
type MovementInput struct {
	ProductID int64
	Kind      entity.MovementKind
	Quantity  int64
	Reason    string
	UserID    int64
	RequestID string
}

// MovementResult movimiento confirmado y stock resultante del producto.
type MovementResult struct {
	Movement     *entity.Movement
	StockCurrent int64
}

// ApplyMovement valida la solicitud, bloquea la fila del producto, calcula el nuevo stock
// según el tipo y confirma "agregar movimiento + sobreescribir stock" como una sola unidad.
// Los errores de validación se devuelven sin tocar almacenamiento; los conflictos de
// concurrencia se reintentan con la misma solicitud hasta agotar MaxRetries.
func (uc *RegisterMovementUseCase) ApplyMovement(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if err := inventory.ValidateQuantity(in.Kind, in.Quantity); err != nil {
		return nil, err
	}
	if in.ProductID <= 0 {
		return nil, domain.ErrProductNotFound
	}
	if in.UserID <= 0 {
		return nil, domain.ErrInvalidInput
	}

	claimed := false
	key := DedupKey(in)
	if in.RequestID != "" && uc.dedup != nil {
		ok, err := uc.dedup.Claim(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("%w: reservar clave de idempotencia: %w", domain.ErrPersistence, err)
		}
		if !ok {
			return nil, domain.ErrDuplicateRequest
		}
		claimed = true
	}

	result, err := uc.applyWithRetry(ctx, in)
	if err != nil {
		if claimed {
			// La solicitud no se aplicó: se libera la clave para que el caller pueda reintentar.
			if relErr := uc.dedup.Release(context.WithoutCancel(ctx), key); relErr != nil {
				uc.log.Warn().Err(relErr).Str("request_id", in.RequestID).Msg("liberar clave de idempotencia")
			}
		}
		return nil, err
	}
	return result, nil
}

// DedupKey clave de idempotencia con alcance por usuario y tipo: la misma Idempotency-Key
// de dos usuarios (o de una ENTRADA y una SALIDA) no colisiona.
func DedupKey(in MovementInput) string {
	return fmt.Sprintf("%d:%s:%s", in.UserID, in.Kind, in.RequestID)
}

func (uc *RegisterMovementUseCase) applyWithRetry(ctx context.Context, in MovementInput) (*MovementResult, error) {
	attempts := uc.cfg.MaxRetries + 1
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := uc.attempt(ctx, in)
		if err == nil {
			uc.log.Info().
				Int64("movement_id", result.Movement.ID).
				Int64("product_id", in.ProductID).
				Str("kind", string(in.Kind)).
				Int64("quantity", result.Movement.Quantity).
				Int64("stock_before", result.Movement.StockBefore).
				Int64("stock_after", result.Movement.StockAfter).
				Int64("user_id", in.UserID).
				Int("attempt", attempt).
				Msg("movimiento registrado")
			return result, nil
		}
		if isValidationError(err) {
			return nil, err
		}
		if !errors.Is(err, domain.ErrConflict) {
			uc.log.Error().Err(err).Int64("product_id", in.ProductID).Str("kind", string(in.Kind)).Msg("fallo de persistencia")
			if errors.Is(err, domain.ErrPersistence) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrPersistence, err)
		}
		lastErr = err
		uc.log.Warn().Err(err).Int64("product_id", in.ProductID).Int("attempt", attempt).Msg("conflicto de concurrencia, reintentando")
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("%w: reintentos agotados tras %d intentos: %w", domain.ErrPersistence, attempts, lastErr)
}

// attempt ejecuta una lectura bajo bloqueo + un commit atómico.
func (uc *RegisterMovementUseCase) attempt(ctx context.Context, in MovementInput) (*MovementResult, error) {
	if uc.cfg.AttemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.AttemptTimeout)
		defer cancel()
	}

	var result *MovementResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementWriter,
		stockRepo repository.StockRepository,
	) error {
		// Bloquea la fila del producto hasta el commit para serializar movimientos del mismo producto
		product, err := stockRepo.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.Active {
			return domain.ErrProductNotFound
		}
		change, err := inventory.ComputeStock(in.Kind, product.StockCurrent, in.Quantity)
		if err != nil {
			return err
		}
		mov := &entity.Movement{
			ProductID:   product.ID,
			Kind:        in.Kind,
			Quantity:    change.Recorded,
			StockBefore: change.Before,
			StockAfter:  change.After,
			Reason:      in.Reason,
			UserID:      in.UserID,
			RequestID:   in.RequestID,
			CreatedAt:   uc.now(),
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		if err := stockRepo.SetStock(ctx, product.ID, change.After); err != nil {
			return err
		}
		result = &MovementResult{Movement: mov, StockCurrent: change.After}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrProductNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrInvalidMovementKind) ||
		errors.Is(err, domain.ErrInvalidInput)
}
