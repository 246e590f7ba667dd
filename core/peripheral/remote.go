package peripheral

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

// callRequest is the bridge wire format for a method invocation.
type callRequest struct {
	Name   string `json:"name"`
	Method Method `json:"method"`
	Args   []any  `json:"args"`
}

// callResponse is the bridge reply. Error is set when the peripheral raised.
type callResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

// Remote is a Network backed by an HTTP peripheral bridge.
//
// The bridge exposes two endpoints:
//
//	POST /peripherals/discover -> []Info
//	POST /peripherals/call     -> {"result": ..., "error": "..."}
//
// A 404 from /peripherals/call means the container no longer resolves.
type Remote struct {
	endpoint string
	apiKey   string
	timeout  time.Duration

	mu    sync.RWMutex
	known map[string]Info
}

// NewRemote creates a remote network client from configuration.
func NewRemote(cfg Config) *Remote {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 10
	}
	return &Remote{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		apiKey:   cfg.ApiKey,
		timeout:  time.Duration(timeout) * time.Second,
		known:    make(map[string]Info),
	}
}

// Discover lists attached containers and remembers their capabilities for Open.
func (r *Remote) Discover(ctx context.Context) ([]Info, error) {
	var infos []Info
	if err := r.post(ctx, "/peripherals/discover", struct{}{}, &infos); err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}

	known := make(map[string]Info, len(infos))
	for _, info := range infos {
		known[info.Name] = info
	}
	r.mu.Lock()
	r.known = known
	r.mu.Unlock()

	return infos, nil
}

// Open returns a handle for a discovered container.
func (r *Remote) Open(ctx context.Context, name string) (Inventory, error) {
	r.mu.RLock()
	info, ok := r.known[name]
	r.mu.RUnlock()

	if !ok {
		if _, err := r.Discover(ctx); err != nil {
			return nil, err
		}
		r.mu.RLock()
		info, ok = r.known[name]
		r.mu.RUnlock()
		if !ok {
			return nil, fmt.Errorf("%s: %w", name, ErrUnavailable)
		}
	}

	if err := CheckCapabilities(info); err != nil {
		return nil, err
	}
	return &remoteInventory{net: r, name: name}, nil
}

func (r *Remote) call(ctx context.Context, name string, method Method, out any, args ...any) error {
	if args == nil {
		args = []any{}
	}
	req := callRequest{Name: name, Method: method, Args: args}

	var resp callResponse
	if err := r.post(ctx, "/peripherals/call", req, &resp); err != nil {
		return fmt.Errorf("%s.%s: %w", name, method, err)
	}
	if resp.Error != "" {
		return fmt.Errorf("%s.%s: %s", name, method, resp.Error)
	}
	if out == nil || len(resp.Result) == 0 || string(resp.Result) == "null" {
		return nil
	}
	if err := json.Unmarshal(resp.Result, out); err != nil {
		return fmt.Errorf("%s.%s: decode result: %w", name, method, err)
	}
	return nil
}

func (r *Remote) post(ctx context.Context, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	agent := fiber.Post(r.endpoint + path)
	agent.JSON(body)
	agent.Timeout(r.timeout)
	if r.apiKey != "" {
		agent.Set("X-API-Key", r.apiKey)
	}

	code, data, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("bridge request failed: %v", errs[0])
	}
	switch {
	case code == fiber.StatusNotFound:
		return ErrUnavailable
	case code >= 400:
		return fmt.Errorf("bridge returned status %d: %s", code, string(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode bridge response: %w", err)
	}
	return nil
}

// remoteInventory is a handle to a container behind the bridge.
type remoteInventory struct {
	net  *Remote
	name string
}

func (i *remoteInventory) Name() string { return i.name }

func (i *remoteInventory) Size(ctx context.Context) (int, error) {
	var size int
	err := i.net.call(ctx, i.name, MethodSize, &size)
	return size, err
}

func (i *remoteInventory) List(ctx context.Context) (map[int]Item, error) {
	// Slot keys arrive as JSON object keys; encoding/json converts them to int.
	items := make(map[int]Item)
	if err := i.net.call(ctx, i.name, MethodList, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (i *remoteInventory) GetItemDetail(ctx context.Context, slot int) (*Item, error) {
	var item *Item
	if err := i.net.call(ctx, i.name, MethodGetItemDetail, &item, slot); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *remoteInventory) PushItems(ctx context.Context, to string, fromSlot, limit, toSlot int) (int, error) {
	var moved int
	err := i.net.call(ctx, i.name, MethodPushItems, &moved, transferArgs(to, fromSlot, limit, toSlot)...)
	return moved, err
}

func (i *remoteInventory) PullItems(ctx context.Context, from string, fromSlot, limit, toSlot int) (int, error) {
	var moved int
	err := i.net.call(ctx, i.name, MethodPullItems, &moved, transferArgs(from, fromSlot, limit, toSlot)...)
	return moved, err
}

// transferArgs drops trailing optional arguments so the bridge applies its defaults.
func transferArgs(peer string, slot, limit, toSlot int) []any {
	args := []any{peer, slot}
	switch {
	case toSlot > 0:
		var l any
		if limit > 0 {
			l = limit
		}
		args = append(args, l, toSlot)
	case limit > 0:
		args = append(args, limit)
	}
	return args
}
