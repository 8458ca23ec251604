// Package bridge provides the single-slot handoff that lets the background
// voice worker ask the main loop to execute a purchase.
//
// The worker calls Submit and blocks; the main loop calls DrainOne once per
// frame, runs the resolver synchronously, and wakes the worker with the
// outcome. Game state is therefore only ever touched on the main loop, and a
// purchase is serialized against everything else that frame does.
//
// There is deliberately no timeout: liveness rests on the controller's
// per-frame drain contract, not on a deadline.
package bridge

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tavernworks/go-merchant/pkg/shop"
)

// ErrRequestPending is returned by Submit when a request is already waiting.
// The orchestrator issues one synchronous purchase per utterance, so hitting
// this is a logic error upstream; it is surfaced loudly instead of queued.
var ErrRequestPending = errors.New("bridge: purchase request already pending")

// Resolver executes a purchase for a spoken item name. It runs on the main
// loop, inside DrainOne.
type Resolver func(rawName string) shop.PurchaseOutcome

type request struct {
	rawName string
	done    chan struct{}
	outcome shop.PurchaseOutcome
}

// Bridge is the single-slot request/response channel between the worker and
// the main loop. The zero value is not usable; use New.
type Bridge struct {
	slot   chan *request
	logger *slog.Logger
}

// New creates an empty bridge.
func New() *Bridge {
	return &Bridge{
		slot:   make(chan *request, 1),
		logger: slog.Default().With("component", "bridge"),
	}
}

// Submit hands a purchase request to the main loop and blocks the calling
// goroutine until DrainOne resolves it. Worker-side only.
func (b *Bridge) Submit(rawName string) (shop.PurchaseOutcome, error) {
	req := &request{
		rawName: rawName,
		done:    make(chan struct{}),
	}
	select {
	case b.slot <- req:
	default:
		return shop.PurchaseOutcome{}, ErrRequestPending
	}

	b.logger.Debug("purchase request submitted", "raw_name", rawName)
	<-req.done
	return req.outcome, nil
}

// DrainOne takes the pending request, if any, resolves it synchronously, and
// wakes the blocked submitter. It reports whether it did work. Main-loop only.
func (b *Bridge) DrainOne(resolve Resolver) bool {
	var req *request
	select {
	case req = <-b.slot:
	default:
		return false
	}

	req.outcome = b.safeResolve(resolve, req.rawName)
	close(req.done)
	return true
}

// Pending reports whether a request is waiting to be drained.
func (b *Bridge) Pending() bool {
	return len(b.slot) > 0
}

// safeResolve converts a panicking resolver into a failure outcome so the
// blocked worker is always woken.
func (b *Bridge) safeResolve(resolve Resolver, rawName string) (outcome shop.PurchaseOutcome) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("resolver panicked", "raw_name", rawName, "panic", r)
			outcome = shop.PurchaseOutcome{
				ItemName: rawName,
				Message:  fmt.Sprintf("Trade failed: %v", r),
			}
		}
	}()
	return resolve(rawName)
}
