// Package settle decides when a batch of balls dropped into the settlement
// zone has stopped moving.
//
// The detector is a debounced quiescence check over the whole batch: a
// single fast body resets the quiet timer for everyone, so a late-settling
// ball cannot trigger a partial score.
package settle

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/elliotchance/orderedmap/v2"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/event"
)

// Event topics published by the detector.
const (
	TopicBallSettled  event.Topic = "settle.ball_settled"
	TopicBatchSettled event.Topic = "settle.batch_settled"
)

// BallSettled is published per body when its batch flushes.
type BallSettled struct {
	Handle ball.Handle
}

// Topic implements event.Event.
func (BallSettled) Topic() event.Topic { return TopicBallSettled }

// BatchSettled carries a copy of the flushed batch. Published exactly once
// per batch; Bodies may be empty when an armed detector saw no arrivals.
type BatchSettled struct {
	Bodies []ball.Handle
}

// Topic implements event.Event.
func (BatchSettled) Topic() event.Topic { return TopicBatchSettled }

// SpeedSource reports a body's current speed; ok is false for bodies that
// no longer exist.
type SpeedSource interface {
	Speed(h ball.Handle) (speed float64, ok bool)
}

// Remover destroys bodies on a destructive clear.
type Remover interface {
	Remove(h ball.Handle)
}

// Config holds detector timing. Durations are seconds.
type Config struct {
	PollInterval      float64 // Time between speed checks
	VelocityThreshold float64 // Speed at or below which a body counts as still
	WaitDuration      float64 // Quiet time required before flushing
	ArrivalGrace      float64 // How long an armed, empty detector waits for arrivals
}

// DefaultConfig returns the default detector timing.
func DefaultConfig() Config {
	return Config{
		PollInterval:      0.1,
		VelocityThreshold: 0.05,
		WaitDuration:      1.0,
		ArrivalGrace:      2.5,
	}
}

// Detector tracks bodies in the settlement zone.
type Detector struct {
	cfg     Config
	bus     *event.Bus
	speeds  SpeedSource
	remover Remover
	logger  *log.Logger

	batch    *orderedmap.OrderedMap[ball.Handle, struct{}] // Arrived since last flush
	resident *orderedmap.OrderedMap[ball.Handle, struct{}] // Everything still in the zone

	polling   bool
	armed     bool
	sincePoll float64
	quiet     float64
	emptyFor  float64
	flushes   int
}

// NewDetector creates a detector. A nil speed source or remover disables the
// corresponding feature.
func NewDetector(cfg Config, bus *event.Bus, speeds SpeedSource, remover Remover, logger *log.Logger) *Detector {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Detector{
		cfg:      cfg,
		bus:      bus,
		speeds:   speeds,
		remover:  remover,
		logger:   logger.WithPrefix("settle"),
		batch:    orderedmap.NewOrderedMap[ball.Handle, struct{}](),
		resident: orderedmap.NewOrderedMap[ball.Handle, struct{}](),
	}
}

// Enter records a body entering the zone and (re)starts polling.
func (d *Detector) Enter(h ball.Handle) {
	d.resident.Set(h, struct{}{})
	if d.batch.Set(h, struct{}{}) {
		d.quiet = 0
	}
	d.startPolling()
}

// Exit records a body leaving the zone before its batch settled.
func (d *Detector) Exit(h ball.Handle) {
	d.resident.Delete(h)
	d.batch.Delete(h)
}

// Expect arms the detector after a release, so an empty drop still resolves
// once ArrivalGrace passes without arrivals.
func (d *Detector) Expect() {
	d.armed = true
	d.emptyFor = 0
	d.startPolling()
}

// Update advances the detector's clock by dt seconds.
func (d *Detector) Update(dt float64) {
	if !d.polling || dt <= 0 {
		return
	}
	interval := d.cfg.PollInterval
	if interval <= 0 {
		interval = dt
	}

	d.sincePoll += dt
	for d.polling && d.sincePoll >= interval {
		d.sincePoll -= interval
		d.poll(interval)
	}
}

func (d *Detector) poll(elapsed float64) {
	if d.batch.Len() == 0 {
		if !d.armed {
			d.stopPolling()
			return
		}
		d.emptyFor += elapsed
		if d.emptyFor >= d.cfg.ArrivalGrace {
			d.logger.Debug("no arrivals within grace", "grace", d.cfg.ArrivalGrace)
			d.flush()
		}
		return
	}

	moving := false
	var gone []ball.Handle
	for el := d.batch.Front(); el != nil; el = el.Next() {
		speed, ok := d.speed(el.Key)
		if !ok {
			gone = append(gone, el.Key)
			continue
		}
		if speed > d.cfg.VelocityThreshold {
			moving = true
		}
	}
	for _, h := range gone {
		d.batch.Delete(h)
		d.resident.Delete(h)
	}

	if moving {
		d.quiet = 0
		return
	}
	d.quiet += elapsed
	if d.quiet >= d.cfg.WaitDuration {
		d.flush()
	}
}

func (d *Detector) speed(h ball.Handle) (float64, bool) {
	if d.speeds == nil {
		return 0, true
	}
	return d.speeds.Speed(h)
}

// flush hands the batch off by value and resets for the next one.
func (d *Detector) flush() {
	bodies := d.batch.Keys()
	d.batch = orderedmap.NewOrderedMap[ball.Handle, struct{}]()
	d.stopPolling()
	d.flushes++

	d.logger.Debug("batch settled", "bodies", len(bodies))
	for _, h := range bodies {
		d.bus.Publish(BallSettled{Handle: h})
	}
	d.bus.Publish(BatchSettled{Bodies: bodies})
}

// Clear destroys every body still in the zone through the remover and drops
// all bookkeeping. Used after each grab cycle has been scored.
func (d *Detector) Clear() {
	if d.remover != nil {
		for _, h := range d.resident.Keys() {
			d.remover.Remove(h)
		}
	}
	d.Discard()
}

// Discard drops all bookkeeping without touching the bodies. Used on round
// reset or abort.
func (d *Detector) Discard() {
	d.batch = orderedmap.NewOrderedMap[ball.Handle, struct{}]()
	d.resident = orderedmap.NewOrderedMap[ball.Handle, struct{}]()
	d.stopPolling()
}

func (d *Detector) startPolling() {
	if !d.polling {
		d.polling = true
		d.sincePoll = 0
	}
}

func (d *Detector) stopPolling() {
	d.polling = false
	d.armed = false
	d.sincePoll = 0
	d.quiet = 0
	d.emptyFor = 0
}

// Polling reports whether the detector is currently checking speeds.
func (d *Detector) Polling() bool { return d.polling }

// Pending returns the number of bodies in the current batch.
func (d *Detector) Pending() int { return d.batch.Len() }

// Resident returns the number of bodies in the zone.
func (d *Detector) Resident() int { return d.resident.Len() }

// Quiet returns the accumulated quiet time of the current batch.
func (d *Detector) Quiet() float64 { return d.quiet }

// Flushes returns how many batches have been flushed.
func (d *Detector) Flushes() int { return d.flushes }
