package transfer

import (
	"context"
	"errors"
	"time"

	"inventory-manager/core/peripheral"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is a step of the per-transfer state machine:
//
//	planned -> attempting -> {success | zero_progress} (retried) -> applied_to_cache | abandoned
type State string

const (
	StatePlanned      State = "planned"
	StateAttempting   State = "attempting"
	StateSuccess      State = "success"
	StateZeroProgress State = "zero_progress"
	StateApplied      State = "applied_to_cache"
	StateAbandoned    State = "abandoned"
)

// Kind tells which side of a transfer issues the peripheral call.
type Kind string

const (
	// KindPush is issued by the source container.
	KindPush Kind = "push"
	// KindPull is issued by the destination container.
	KindPull Kind = "pull"
)

// Transfer is one planned move of a single source slot.
type Transfer struct {
	ID         uuid.UUID
	Kind       Kind
	Source     string
	SourceSlot int
	Dest       string
	// DestSlot is 0 when the destination chooses the slot.
	DestSlot int
	Item     peripheral.Item
	Limit    int
	Moved    int
	Attempts int
	State    State
	History  []State
	Err      error
}

func (a *Allocator) plan(kind Kind, src string, srcSlot int, dest string, destSlot int, item peripheral.Item, limit int) *Transfer {
	t := &Transfer{
		ID:         uuid.New(),
		Kind:       kind,
		Source:     src,
		SourceSlot: srcSlot,
		Dest:       dest,
		DestSlot:   destSlot,
		Item:       peripheral.Item{Name: item.Name, NBT: item.NBT},
		Limit:      limit,
	}
	t.set(StatePlanned)
	return t
}

func (t *Transfer) set(s State) {
	t.State = s
	t.History = append(t.History, s)
}

// execute performs the transfer, retrying zero-progress calls up to the retry
// limit with a fixed delay. Peripheral errors count as zero progress; an
// unavailable container abandons the transfer at once. It returns the amount
// the container reported moved. The cache is not touched.
func (a *Allocator) execute(ctx context.Context, t *Transfer) int {
	caller := t.Source
	if t.Kind == KindPull {
		caller = t.Dest
	}

	for attempt := 0; attempt <= a.retryLimit; attempt++ {
		if attempt > 0 && !a.backoff(ctx) {
			break
		}
		t.set(StateAttempting)
		t.Attempts++

		moved, err := a.call(ctx, caller, t)
		if err != nil {
			t.Err = err
			a.metrics.ObserveAttempt("error")
			t.set(StateZeroProgress)
			if errors.Is(err, peripheral.ErrUnavailable) || ctx.Err() != nil {
				break
			}
			continue
		}
		if moved > 0 {
			t.Moved = moved
			t.Err = nil
			a.metrics.ObserveAttempt("success")
			t.set(StateSuccess)
			return moved
		}
		a.metrics.ObserveAttempt("zero_progress")
		t.set(StateZeroProgress)
	}

	t.set(StateAbandoned)
	a.log.Debug("Transfer abandoned",
		zap.String("id", t.ID.String()),
		zap.String("source", t.Source),
		zap.Int("source_slot", t.SourceSlot),
		zap.String("dest", t.Dest),
		zap.Int("attempts", t.Attempts),
		zap.Error(t.Err))
	return 0
}

func (a *Allocator) call(ctx context.Context, caller string, t *Transfer) (int, error) {
	inv, err := a.network.Open(ctx, caller)
	if err != nil {
		return 0, err
	}
	if t.Kind == KindPull {
		return inv.PullItems(ctx, t.Source, t.SourceSlot, t.Limit, t.DestSlot)
	}
	return inv.PushItems(ctx, t.Dest, t.SourceSlot, t.Limit, t.DestSlot)
}

// commit applies a successful transfer to the cache. The destination side is
// only updated when the slot is known. It returns the amount moved.
func (a *Allocator) commit(ctx context.Context, t *Transfer) int {
	if t.State != StateSuccess || t.Moved <= 0 {
		return 0
	}
	a.cache.ApplyRemoval(ctx, t.Source, t.SourceSlot, t.Item.Key(), t.Moved)
	if t.DestSlot > 0 {
		a.cache.ApplyAddition(ctx, t.Dest, t.DestSlot, t.Item.Name, t.Moved, t.Item.NBT)
	}
	t.set(StateApplied)

	a.log.Debug("Transfer applied",
		zap.String("id", t.ID.String()),
		zap.String("kind", string(t.Kind)),
		zap.String("item", t.Item.Key()),
		zap.String("source", t.Source),
		zap.Int("source_slot", t.SourceSlot),
		zap.String("dest", t.Dest),
		zap.Int("dest_slot", t.DestSlot),
		zap.Int("moved", t.Moved),
		zap.Int("attempts", t.Attempts))
	return t.Moved
}

// backoff waits the retry delay. It reports false when ctx ended first.
func (a *Allocator) backoff(ctx context.Context) bool {
	if a.retryDelay <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(a.retryDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
