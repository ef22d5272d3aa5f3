package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-stock/internal/application/dto"
	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/domain/entity"
)

// HeaderIdempotencyKey header opcional para deduplicar reintentos del cliente.
const HeaderIdempotencyKey = "Idempotency-Key"

const maxIdempotencyKeyLen = 128

// InventoryHandler maneja los movimientos de stock y la consulta del libro (protegido).
type InventoryHandler struct {
	engine *inventory.RegisterMovementUseCase
	query  *inventory.MovementQueryUseCase
	log    zerolog.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(engine *inventory.RegisterMovementUseCase, query *inventory.MovementQueryUseCase, log zerolog.Logger) *InventoryHandler {
	return &InventoryHandler{engine: engine, query: query, log: log}
}

// Entry godoc
// @Summary      Registrar entrada de stock
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para deduplicar reintentos"
// @Param        body  body  dto.MovementRequest  true  "producto_id, cantidad (> 0), motivo"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movimientos/entrada [post]
func (h *InventoryHandler) Entry(c *fiber.Ctx) error {
	return h.register(c, entity.MovementEntry)
}

// Exit godoc
// @Summary      Registrar salida de stock
// @Description  Rechaza con 409 INSUFFICIENT_STOCK si cantidad supera el stock actual.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para deduplicar reintentos"
// @Param        body  body  dto.MovementRequest  true  "producto_id, cantidad (> 0), motivo"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movimientos/salida [post]
func (h *InventoryHandler) Exit(c *fiber.Ctx) error {
	return h.register(c, entity.MovementExit)
}

// Adjustment godoc
// @Summary      Ajustar stock a un valor absoluto
// @Description  cantidad es el stock objetivo (>= 0); el movimiento registra la magnitud del cambio.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Clave para deduplicar reintentos"
// @Param        body  body  dto.MovementRequest  true  "producto_id, cantidad (objetivo), motivo"
// @Success      201   {object}  dto.RegisterMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/movimientos/ajuste [post]
func (h *InventoryHandler) Adjustment(c *fiber.Ctx) error {
	return h.register(c, entity.MovementAdjustment)
}

func (h *InventoryHandler) register(c *fiber.Ctx, kind entity.MovementKind) error {
	userID := GetUserID(c)
	if userID <= 0 {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	requestID := c.Get(HeaderIdempotencyKey)
	if len(requestID) > maxIdempotencyKeyLen {
		return badRequest(c, "VALIDATION", "Idempotency-Key demasiado largo")
	}
	var in dto.MovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.engine.RegisterMovementFromRequest(c.UserContext(), userID, kind, requestID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos del libro
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        producto_id  query  int     false  "Filtrar por producto"
// @Param        tipo         query  string  false  "ENTRADA | SALIDA | AJUSTE"
// @Param        usuario_id   query  int     false  "Filtrar por usuario"
// @Param        desde        query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        hasta        query  string  false  "YYYY-MM-DD o RFC3339"
// @Param        page         query  int     false  "Página (default 1)"
// @Param        limit        query  int     false  "Tamaño (default 20, máx 100)"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movimientos [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var q dto.MovementListQuery
	if ok, err := bindQuery(c, &q); !ok {
		return err
	}
	out, err := h.query.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Param        id   path  int  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movimientos/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return badRequest(c, "INVALID_ID", "id debe ser un entero positivo")
	}
	out, err := h.query.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
