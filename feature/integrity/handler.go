package integrity

import (
	"errors"

	"inventory-manager/core/logger"
	"inventory-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/stock", h.HandleStockCheck)
	group.Get("/slots", h.HandleSlotCheck)
	group.Get("/persistence", h.HandlePersistenceCheck)
	group.Get("/schema", h.HandleSchemaCheck)
}

// HandleIntegrityCheck triggers all integrity checks.
// @Summary Run All Integrity Checks
// @Description Performs all available integrity checks (Stock, Slots, Persistence, Schema).
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	report["stock"] = h.service.CheckStock()
	report["slots"] = h.service.CheckSlots()

	if drift, err := h.service.CheckPersistence(ctx); err != nil {
		report["persistence"] = map[string]interface{}{"status": "error", "error": err.Error()}
	} else {
		report["persistence"] = drift
	}

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = map[string]interface{}{"status": "skipped", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	return c.JSON(report)
}

// HandleStockCheck checks the stock index.
// @Summary Check Stock Index
// @Description Recounts storage slots and compares them with the stock index and item locations. Optionally rebuilds the indexes.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Rebuild indexes on mismatch"
// @Success 200 {object} checks.StockReport "Stock Report"
// @Router /integrity/stock [get]
func (h *Handler) HandleStockCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	report := h.service.CheckStock()
	if len(report.Mismatches) > 0 {
		l.Warn("Stock mismatches detected", zap.Int("count", len(report.Mismatches)))
		if fix {
			h.service.FixIndexes()
			return c.JSON(fiber.Map{"status": "fixed", "fixed": report.Mismatches})
		}
	}
	return c.JSON(fiber.Map{"status": "checked", "report": report})
}

// HandleSlotCheck checks the empty-slot index.
// @Summary Check Empty Slots
// @Description Verifies that every cached slot is either occupied or indexed as empty. Optionally rebuilds the indexes.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Rebuild indexes on mismatch"
// @Success 200 {object} checks.SlotReport "Slot Report"
// @Router /integrity/slots [get]
func (h *Handler) HandleSlotCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	report := h.service.CheckSlots()
	if len(report.Mismatches) > 0 {
		l.Warn("Empty slot mismatches detected", zap.Int("count", len(report.Mismatches)))
		if fix {
			h.service.FixIndexes()
			return c.JSON(fiber.Map{"status": "fixed", "fixed": report.Mismatches})
		}
	}
	return c.JSON(fiber.Map{"status": "checked", "report": report})
}

// HandlePersistenceCheck compares the cache with the persistent store.
// @Summary Check Persistence
// @Description Diffs the in-memory cache against the persistent store. Optionally rewrites the store.
// @Tags integrity
// @Accept json
// @Produce json
// @Param fix query boolean false "Rewrite the store from the cache"
// @Success 200 {object} checks.DriftReport "Drift Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/persistence [get]
func (h *Handler) HandlePersistenceCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := utils.ToBool(c.Query("fix"))

	report, err := h.service.CheckPersistence(c.Context())
	if err != nil {
		l.Error("Persistence check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Clean() {
		l.Warn("Persistent store drift detected",
			zap.Strings("missing", report.Missing),
			zap.Strings("stale", report.Stale),
			zap.Strings("drifted", report.Drifted))

		if fix {
			l.Info("Rewriting persistent store from cache")
			if err := h.service.FixPersistence(c.Context()); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix persistence",
					"details": err.Error(),
				})
			}
			return c.JSON(fiber.Map{"status": "fixed", "fixed": report})
		}
	}
	return c.JSON(fiber.Map{"status": "checked", "report": report})
}

// HandleSchemaCheck checks the key/value table schema.
// @Summary Check Store Schema
// @Description Checks that the key/value table has the expected columns.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 404 {object} map[string]string "Store Not Database Backed"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.CheckSchema()
	if err != nil {
		if errors.Is(err, ErrNoDatabase) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(report)
}
