package peripheral

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"
)

// bridgeCall is callRequest as received by the server side, with raw arguments.
type bridgeCall struct {
	Name   string            `json:"name"`
	Method Method            `json:"method"`
	Args   []json.RawMessage `json:"args"`
}

func argInt(args []json.RawMessage, i int) int {
	if i >= len(args) {
		return 0
	}
	var v *int
	if err := json.Unmarshal(args[i], &v); err != nil || v == nil {
		return 0
	}
	return *v
}

func argString(args []json.RawMessage, i int) string {
	var s string
	if i < len(args) {
		_ = json.Unmarshal(args[i], &s)
	}
	return s
}

// NewBridge serves a Network over the bridge protocol understood by Remote.
// A non-empty apiKey is required in the X-API-Key header.
func NewBridge(network Network, apiKey string) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(func(c *fiber.Ctx) error {
		if apiKey != "" && c.Get("X-API-Key") != apiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}
		return c.Next()
	})

	app.Post("/peripherals/discover", func(c *fiber.Ctx) error {
		infos, err := network.Discover(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(infos)
	})

	app.Post("/peripherals/call", func(c *fiber.Ctx) error {
		ctx := c.Context()
		var req bridgeCall
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		inv, err := network.Open(ctx, req.Name)
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.JSON(fiber.Map{"error": err.Error()})
		}

		var result any
		switch req.Method {
		case MethodSize:
			result, err = inv.Size(ctx)
		case MethodList:
			result, err = inv.List(ctx)
		case MethodGetItemDetail:
			result, err = inv.GetItemDetail(ctx, argInt(req.Args, 0))
		case MethodPushItems:
			result, err = inv.PushItems(ctx, argString(req.Args, 0), argInt(req.Args, 1), argInt(req.Args, 2), argInt(req.Args, 3))
		case MethodPullItems:
			result, err = inv.PullItems(ctx, argString(req.Args, 0), argInt(req.Args, 1), argInt(req.Args, 2), argInt(req.Args, 3))
		default:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unknown method " + string(req.Method)})
		}
		if err != nil {
			if errors.Is(err, ErrUnavailable) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
			}
			return c.JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"result": result})
	})

	return app
}
