package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventario-stock/internal/application/analytics"
)

const defaultReportDays = 30

// ReportHandler expone las consultas de consistencia del inventario (solo lectura).
type ReportHandler struct {
	uc  *analytics.ReportUseCase
	log zerolog.Logger
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *analytics.ReportUseCase, log zerolog.Logger) *ReportHandler {
	return &ReportHandler{uc: uc, log: log}
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Description  Activos con stock_actual <= stock_minimo, por déficit descendente y luego nombre.
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LowStockItemDTO
// @Router       /api/reportes/stock-bajo [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"total": len(items), "items": items})
}

// LowStockPDF godoc
// @Summary      Reporte PDF de stock bajo
// @Tags         reportes
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reportes/stock-bajo/pdf [get]
func (h *ReportHandler) LowStockPDF(c *fiber.Ctx) error {
	out, err := h.uc.LowStockPDF(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-bajo.pdf"`)
	return c.Send(out)
}

// Valuation godoc
// @Summary      Valorización del inventario
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ValuationDTO
// @Router       /api/reportes/valorizacion [get]
func (h *ReportHandler) Valuation(c *fiber.Ctx) error {
	out, err := h.uc.Valuation(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Activity godoc
// @Summary      Actividad de movimientos
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        dias     query  int     false  "Ventana en días (1-365)"  default(30)
// @Param        agrupar  query  string  false  "producto | usuario | categoria"  default(producto)
// @Success      200  {object}  dto.ActivityResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/actividad [get]
func (h *ReportHandler) Activity(c *fiber.Ctx) error {
	out, err := h.uc.Activity(c.UserContext(), c.QueryInt("dias", defaultReportDays), c.Query("agrupar", analytics.GroupByProduct))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Summary godoc
// @Summary      Resumen del tablero de inventario
// @Tags         reportes
// @Security     Bearer
// @Produce      json
// @Param        dias  query  int  false  "Ventana en días (1-365)"  default(30)
// @Success      200  {object}  dto.SummaryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reportes/resumen [get]
func (h *ReportHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.Summary(c.UserContext(), c.QueryInt("dias", defaultReportDays))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
