package inventory

import (
	"errors"
	"net/url"

	"inventory-manager/core/inventory"
	"inventory-manager/core/logger"
	"inventory-manager/core/peripheral"
	"inventory-manager/core/transfer"
	"inventory-manager/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the inventory.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the inventory routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/inventory")
	group.Post("/scan", h.HandleScan)
	group.Post("/scan/:name", h.HandleScanContainer)
	group.Get("/stock", h.HandleStock)
	group.Get("/stock/:item", h.HandleStockOf)
	group.Get("/items/:item", h.HandleFindItem)
	group.Get("/empty", h.HandleEmptySlots)
	group.Post("/withdraw", h.HandleWithdraw)
	group.Post("/deposit", h.HandleDeposit)
	group.Post("/pull", h.HandlePull)
	group.Post("/clear", h.HandleClear)
	group.Post("/batch/begin", h.HandleBeginBatch)
	group.Post("/batch/end", h.HandleEndBatch)
	group.Get("/stats", h.HandleStats)
	group.Get("/parallel", h.HandleGetParallel)
	group.Put("/parallel", h.HandleSetParallel)
}

// statusFor maps engine errors to HTTP codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, transfer.ErrInvalidRequest):
		return fiber.StatusBadRequest
	case errors.Is(err, peripheral.ErrUnavailable), errors.Is(err, inventory.ErrUnknownContainer):
		return fiber.StatusNotFound
	case errors.Is(err, peripheral.ErrMissingCapability):
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

func param(c *fiber.Ctx, name string) string {
	raw := c.Params(name)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

// HandleScan runs a full scan.
// @Summary Scan All Containers
// @Description Lists every discovered container, rebuilds the indexes and returns the stock levels. Returns the cached stock without I/O when a scan is already running.
// @Tags inventory
// @Accept json
// @Produce json
// @Param force query boolean false "Rediscover containers"
// @Success 200 {object} ScanResponse "Scan Result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/scan [post]
func (h *Handler) HandleScan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	force := utils.ToBool(c.Query("force"))

	res, err := h.service.Scan(c.Context(), force)
	if err != nil {
		l.Error("Scan failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleScanContainer rescans a single container.
// @Summary Scan Container
// @Description Re-reads one container and rebuilds the indexes unless batch mode is active.
// @Tags inventory
// @Accept json
// @Produce json
// @Param name path string true "Container name"
// @Success 200 {object} inventory.Entry "Container Record"
// @Failure 404 {object} map[string]string "Unknown Container"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /inventory/scan/{name} [post]
func (h *Handler) HandleScanContainer(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	name := param(c, "name")

	entry, err := h.service.ScanContainer(c.Context(), name)
	if err != nil {
		l.Warn("Container scan failed", zap.String("container", name), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(entry)
}

// HandleStock returns all stock levels.
// @Summary Get Stock
// @Description Returns the stored amount of every item key.
// @Tags inventory
// @Produce json
// @Success 200 {object} map[string]int "Stock Levels"
// @Router /inventory/stock [get]
func (h *Handler) HandleStock(c *fiber.Ctx) error {
	return c.JSON(h.service.Stock())
}

// HandleStockOf returns the stock level of one item.
// @Summary Get Item Stock
// @Description Returns the stored amount of one item key, zero when unknown.
// @Tags inventory
// @Produce json
// @Param item path string true "Item key (e.g. 'minecraft:iron_ore')"
// @Success 200 {object} StockResponse "Item Stock"
// @Router /inventory/stock/{item} [get]
func (h *Handler) HandleStockOf(c *fiber.Ctx) error {
	return c.JSON(h.service.StockOf(param(c, "item")))
}

// HandleFindItem lists the slots holding an item.
// @Summary Find Item
// @Description Returns every known slot holding the item key, largest stacks first.
// @Tags inventory
// @Produce json
// @Param item path string true "Item key"
// @Success 200 {array} inventory.Location "Locations"
// @Router /inventory/items/{item} [get]
func (h *Handler) HandleFindItem(c *fiber.Ctx) error {
	locs := h.service.Find(param(c, "item"))
	if locs == nil {
		locs = []inventory.Location{}
	}
	return c.JSON(locs)
}

// HandleEmptySlots lists empty slots.
// @Summary Get Empty Slots
// @Description Returns the empty slots per container.
// @Tags inventory
// @Produce json
// @Param container query string false "Restrict to one container"
// @Success 200 {object} map[string][]int "Empty Slots"
// @Router /inventory/empty [get]
func (h *Handler) HandleEmptySlots(c *fiber.Ctx) error {
	return c.JSON(h.service.EmptySlots(c.Query("container")))
}

// HandleWithdraw moves items out of storage.
// @Summary Withdraw Items
// @Description Moves up to count items of a key from storage into the destination container.
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body WithdrawRequest true "Withdraw Request"
// @Success 200 {object} transfer.Result "Transfer Result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown Destination"
// @Router /inventory/withdraw [post]
func (h *Handler) HandleWithdraw(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	res, err := h.service.Withdraw(c.Context(), req)
	if err != nil {
		l.Warn("Withdraw failed", zap.String("item", req.Item), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	l.Info("Withdraw served",
		zap.String("item", req.Item),
		zap.Int("moved", res.Moved),
		zap.String("status", string(res.Status)))
	return c.JSON(res)
}

// HandleDeposit moves a container's content into storage.
// @Summary Deposit Container
// @Description Tops up partial stacks in storage, then spreads the rest over empty storage slots.
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body DepositRequest true "Deposit Request"
// @Success 200 {object} transfer.Result "Transfer Result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown Source"
// @Router /inventory/deposit [post]
func (h *Handler) HandleDeposit(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	res, err := h.service.Deposit(c.Context(), req)
	if err != nil {
		l.Warn("Deposit failed", zap.String("source", req.Source), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandlePull deposits known slots.
// @Summary Pull Slots
// @Description Deposits source slots whose content the caller already knows, skipping the list call.
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body PullRequest true "Pull Request"
// @Success 200 {object} transfer.Result "Transfer Result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown Source"
// @Router /inventory/pull [post]
func (h *Handler) HandlePull(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req PullRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	res, err := h.service.Pull(c.Context(), req)
	if err != nil {
		l.Warn("Pull failed", zap.String("source", req.Source), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleClear empties known slots.
// @Summary Clear Slots
// @Description Empties the given source slots into storage in a single deposit run.
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body ClearRequest true "Clear Request"
// @Success 200 {object} transfer.Result "Transfer Result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Unknown Source"
// @Router /inventory/clear [post]
func (h *Handler) HandleClear(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req ClearRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	res, err := h.service.Clear(c.Context(), req)
	if err != nil {
		l.Warn("Clear failed", zap.String("source", req.Source), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(res)
}

// HandleBeginBatch enters batch mode.
// @Summary Begin Batch
// @Description Defers index rebuilds until the matching end call.
// @Tags inventory
// @Produce json
// @Success 200 {object} map[string]interface{} "Batch State"
// @Router /inventory/batch/begin [post]
func (h *Handler) HandleBeginBatch(c *fiber.Ctx) error {
	h.service.BeginBatch()
	return c.JSON(fiber.Map{"batch": true})
}

// HandleEndBatch leaves batch mode.
// @Summary End Batch
// @Description Leaves batch mode and rebuilds the indexes once if a rebuild was requested.
// @Tags inventory
// @Produce json
// @Success 200 {object} map[string]interface{} "Batch State"
// @Router /inventory/batch/end [post]
func (h *Handler) HandleEndBatch(c *fiber.Ctx) error {
	rebuilt := h.service.EndBatch()
	return c.JSON(fiber.Map{"batch": h.service.cache.InBatch(), "rebuilt": rebuilt})
}

// HandleStats returns the cache counters.
// @Summary Get Stats
// @Description Returns cache sizes, scan and rebuild counters and the parallel settings.
// @Tags inventory
// @Produce json
// @Success 200 {object} inventory.Stats "Stats"
// @Router /inventory/stats [get]
func (h *Handler) HandleStats(c *fiber.Ctx) error {
	return c.JSON(h.service.Stats())
}

// HandleGetParallel returns the parallel settings.
// @Summary Get Parallel Settings
// @Tags inventory
// @Produce json
// @Success 200 {object} inventory.ParallelSettings "Parallel Settings"
// @Router /inventory/parallel [get]
func (h *Handler) HandleGetParallel(c *fiber.Ctx) error {
	return c.JSON(h.service.Parallel())
}

// HandleSetParallel updates the parallel settings.
// @Summary Set Parallel Settings
// @Description Updates the parallel settings at runtime. Omitted fields keep their current value.
// @Tags inventory
// @Accept json
// @Produce json
// @Param request body inventory.ParallelSettings true "Parallel Settings"
// @Success 200 {object} inventory.ParallelSettings "Effective Settings"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /inventory/parallel [put]
func (h *Handler) HandleSetParallel(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	p := h.service.Parallel()
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	effective := h.service.SetParallel(p)
	l.Info("Parallel settings changed", zap.Bool("enabled", effective.Enabled))
	return c.JSON(effective)
}
