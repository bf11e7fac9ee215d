package score

import (
	"testing"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/event"
)

func scoreBall(v float64) ball.Valued {
	return &ball.Archetype{ID: "s", Kind: ball.CategoryScore, Amount: v}
}

func multBall(v float64) ball.Valued {
	return &ball.Archetype{ID: "m", Kind: ball.CategoryMultiplier, Amount: v}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name   string
		items  []ball.Valued
		expect int
		ok     bool
	}{
		{"score with multiplier", []ball.Valued{scoreBall(10), scoreBall(20), multBall(2)}, 60, true},
		{"no multiplier defaults to one", []ball.Valued{scoreBall(5), scoreBall(7)}, 12, true},
		{"multipliers sum", []ball.Valued{scoreBall(10), multBall(2), multBall(3)}, 50, true},
		{"multiplier only", []ball.Valued{multBall(3)}, 0, true},
		{"half rounds away from zero", []ball.Valued{scoreBall(5), multBall(1.5)}, 8, true},
		{"below half rounds down", []ball.Valued{scoreBall(3), multBall(1.1)}, 3, true},
		{"fractional score values", []ball.Valued{scoreBall(2.5)}, 3, true},
		{"empty", nil, 0, false},
		{"only nil entries", []ball.Valued{nil, nil}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Compute(tt.items)
			if ok != tt.ok || got != tt.expect {
				t.Errorf("Compute() = (%d, %v), expected (%d, %v)", got, ok, tt.expect, tt.ok)
			}
		})
	}
}

func TestApplyPublishes(t *testing.T) {
	bus := event.NewBus()
	var seen []Changed
	event.Subscribe(bus, func(e Changed) { seen = append(seen, e) })

	a := NewAggregator(bus, nil)
	a.Reset(50)

	a.Apply([]ball.Valued{scoreBall(10), scoreBall(20), multBall(2)})
	a.Apply([]ball.Valued{scoreBall(5)})

	if len(seen) != 2 {
		t.Fatalf("published %d events, expected 2", len(seen))
	}
	if seen[0] != (Changed{Delta: 60, Total: 60}) {
		t.Errorf("first event = %+v", seen[0])
	}
	if seen[1] != (Changed{Delta: 5, Total: 65}) {
		t.Errorf("second event = %+v", seen[1])
	}
	if !a.Reached() || a.Batches() != 2 {
		t.Errorf("Reached() = %v, Batches() = %d", a.Reached(), a.Batches())
	}
}

func TestEmptyBatchPublishesNothing(t *testing.T) {
	bus := event.NewBus()
	published := 0
	event.Subscribe(bus, func(Changed) { published++ })

	a := NewAggregator(bus, nil)
	a.Reset(10)
	if _, ok := a.Apply(nil); ok {
		t.Error("Apply(nil) reported a score")
	}
	if published != 0 {
		t.Errorf("empty batch published %d events", published)
	}
	if a.Total() != 0 {
		t.Errorf("Total() = %d, expected 0", a.Total())
	}
}

func TestResetClearsTotal(t *testing.T) {
	a := NewAggregator(event.NewBus(), nil)
	a.Reset(10)
	a.Apply([]ball.Valued{scoreBall(7)})

	a.Reset(30)
	if a.Total() != 0 || a.Target() != 30 || a.Batches() != 0 {
		t.Errorf("after Reset: total=%d target=%d batches=%d", a.Total(), a.Target(), a.Batches())
	}
}
