// Package grab tracks the number of grab attempts left in a round.
package grab

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/clawround/internal/event"
)

// TopicCountChanged is published whenever the remaining count changes.
const TopicCountChanged event.Topic = "grab.count_changed"

// CountChanged carries the new remaining count. Remaining == 0 signals
// exhaustion; what that means for the round is the orchestrator's call.
type CountChanged struct {
	Remaining int
}

// Topic implements event.Event.
func (CountChanged) Topic() event.Topic { return TopicCountChanged }

// Budget holds the remaining grab count. Remaining never goes below zero.
type Budget struct {
	remaining int
	bus       *event.Bus
	logger    *log.Logger
}

// NewBudget creates an empty budget publishing on bus.
func NewBudget(bus *event.Bus, logger *log.Logger) *Budget {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Budget{
		bus:    bus,
		logger: logger.WithPrefix("grab"),
	}
}

// Initialize sets the remaining count. Negative counts clamp to zero.
func (b *Budget) Initialize(count int) {
	if count < 0 {
		b.logger.Warn("negative grab count clamped", "count", count)
		count = 0
	}
	b.remaining = count
	b.publish()
}

// Consume spends one grab. At zero it is a logged no-op and returns false.
func (b *Budget) Consume() bool {
	if b.remaining <= 0 {
		b.logger.Warn("grab consumed with empty budget")
		return false
	}
	b.remaining--
	b.publish()
	return true
}

// Add grants extra grabs. Non-positive amounts are ignored.
func (b *Budget) Add(amount int) {
	if amount <= 0 {
		b.logger.Warn("ignored non-positive grab reward", "amount", amount)
		return
	}
	b.remaining += amount
	b.publish()
}

// Remaining returns the current count.
func (b *Budget) Remaining() int {
	return b.remaining
}

func (b *Budget) publish() {
	b.logger.Debug("grab count changed", "remaining", b.remaining)
	b.bus.Publish(CountChanged{Remaining: b.remaining})
}
