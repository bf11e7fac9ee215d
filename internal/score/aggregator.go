// Package score turns settled batches into round score.
package score

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/event"
)

// TopicChanged is published when a batch adds to the total.
const TopicChanged event.Topic = "score.changed"

// Changed carries the delta of one batch and the new running total.
type Changed struct {
	Delta int
	Total int
}

// Topic implements event.Event.
func (Changed) Topic() event.Topic { return TopicChanged }

// Compute applies the batch formula: the sum of score values times the sum
// of multiplier values, with a multiplier of exactly 1 when the batch has no
// multiplier balls. The product is rounded half away from zero. ok is false
// for an empty batch.
func Compute(items []ball.Valued) (delta int, ok bool) {
	var base, mult float64
	mults := 0
	n := 0
	for _, it := range items {
		if it == nil {
			continue
		}
		n++
		switch it.Category() {
		case ball.CategoryScore:
			base += it.Value()
		case ball.CategoryMultiplier:
			mult += it.Value()
			mults++
		}
	}
	if n == 0 {
		return 0, false
	}
	if mults == 0 {
		mult = 1
	}
	return int(math.Round(base * mult)), true
}

// Aggregator keeps the round total and target.
type Aggregator struct {
	bus    *event.Bus
	logger *log.Logger

	total  int
	target int
	counts int // Batches applied this round
}

// NewAggregator creates an aggregator publishing on bus.
func NewAggregator(bus *event.Bus, logger *log.Logger) *Aggregator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Aggregator{
		bus:    bus,
		logger: logger.WithPrefix("score"),
	}
}

// Reset zeroes the total and sets the target for a new round.
func (a *Aggregator) Reset(target int) {
	a.total = 0
	a.target = target
	a.counts = 0
}

// Apply scores a batch and publishes the new total. An empty batch publishes
// nothing and returns false.
func (a *Aggregator) Apply(items []ball.Valued) (int, bool) {
	delta, ok := Compute(items)
	if !ok {
		a.logger.Debug("empty batch, nothing scored")
		return 0, false
	}
	a.total += delta
	a.counts++
	a.logger.Debug("batch scored", "delta", delta, "total", a.total, "target", a.target)
	a.bus.Publish(Changed{Delta: delta, Total: a.total})
	return delta, true
}

// Total returns the running total.
func (a *Aggregator) Total() int { return a.total }

// Target returns the round target.
func (a *Aggregator) Target() int { return a.target }

// Reached reports whether the total meets the target.
func (a *Aggregator) Reached() bool { return a.total >= a.target }

// Batches returns how many non-empty batches were scored since Reset.
func (a *Aggregator) Batches() int { return a.counts }
