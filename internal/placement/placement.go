// Package placement expands a spawn list into non-overlapping ball positions
// inside a rectangular arena using seeded, retry-bounded rejection sampling.
package placement

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/rng"
)

// DefaultMaxRetries is the per-ball draw budget used when none is configured.
const DefaultMaxRetries = 30

// Arena is the axis-aligned spawn rectangle.
type Arena struct {
	Min mgl64.Vec2 // Lower-left corner
	Max mgl64.Vec2 // Upper-right corner
}

// Width returns the arena width.
func (a Arena) Width() float64 { return a.Max.X() - a.Min.X() }

// Height returns the arena height.
func (a Arena) Height() float64 { return a.Max.Y() - a.Min.Y() }

// Contains reports whether a circle lies fully inside the arena.
func (a Arena) Contains(p mgl64.Vec2, r float64) bool {
	return p.X()-r >= a.Min.X() && p.X()+r <= a.Max.X() &&
		p.Y()-r >= a.Min.Y() && p.Y()+r <= a.Max.Y()
}

// Placement is one accepted ball position.
type Placement struct {
	Archetype *ball.Archetype
	Position  mgl64.Vec2
}

// Result is the outcome of a placement run.
type Result struct {
	Placed  []Placement
	Skipped int // Balls that exhausted their retries
	Draws   int // Candidate positions drawn in total
}

// Engine places balls. The zero value uses DefaultMaxRetries.
type Engine struct {
	MaxRetries int
	logger     *log.Logger
}

// NewEngine creates an engine with the given retry budget.
func NewEngine(maxRetries int, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Engine{
		MaxRetries: maxRetries,
		logger:     logger.WithPrefix("placement"),
	}
}

// Place shuffles items in place with the stream and assigns each a position.
// Every ball gets at most MaxRetries draws; failures are counted, not returned
// as errors, so a dense pool degrades to fewer balls instead of hanging.
func (e *Engine) Place(arena Arena, items []*ball.Archetype, stream *rng.Stream) Result {
	retries := e.MaxRetries
	if retries <= 0 {
		retries = DefaultMaxRetries
	}

	// Fisher-Yates; rand.Rand.Shuffle walks from the end swapping with a
	// uniform index in [0, i].
	stream.Shuffle(len(items), func(i, j int) {
		items[i], items[j] = items[j], items[i]
	})

	res := Result{Placed: make([]Placement, 0, len(items))}

	for _, a := range items {
		r := a.Radius
		minX, maxX := arena.Min.X()+r, arena.Max.X()-r
		minY, maxY := arena.Min.Y()+r, arena.Max.Y()-r

		// Ball larger than the arena: no draw can succeed.
		if minX > maxX || minY > maxY {
			res.Skipped++
			continue
		}

		placed := false
		for attempt := 0; attempt < retries; attempt++ {
			res.Draws++
			candidate := mgl64.Vec2{stream.Range(minX, maxX), stream.Range(minY, maxY)}
			if !overlapsAny(candidate, r, res.Placed) {
				res.Placed = append(res.Placed, Placement{Archetype: a, Position: candidate})
				placed = true
				break
			}
		}

		if !placed {
			res.Skipped++
		}
	}

	if res.Skipped > 0 && e.logger != nil {
		e.logger.Warn("placement retries exhausted",
			"skipped", res.Skipped,
			"placed", len(res.Placed),
			"retries", retries,
		)
	}

	return res
}

// overlapsAny reports whether a circle at p with radius r intersects any
// accepted placement. Touching circles do not overlap.
func overlapsAny(p mgl64.Vec2, r float64, placed []Placement) bool {
	for _, other := range placed {
		minDist := r + other.Archetype.Radius
		if p.Sub(other.Position).Len() < minDist {
			return true
		}
	}
	return false
}
