// Package ball defines ball archetypes, spawn requests, and live ball records.
// Archetypes are immutable data; behavior differences between kinds of balls
// come from the Category tag, not from separate types.
package ball

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// Category tags what a ball contributes when scored.
type Category int

const (
	CategoryScore      Category = iota // Adds Value to the base sum
	CategoryMultiplier                 // Adds Value to the multiplier sum
)

// String returns the lowercase category name.
func (c Category) String() string {
	switch c {
	case CategoryScore:
		return "score"
	case CategoryMultiplier:
		return "multiplier"
	default:
		return "unknown"
	}
}

// ParseCategory parses a category name (case-insensitive).
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "score":
		return CategoryScore, nil
	case "multiplier", "mult":
		return CategoryMultiplier, nil
	default:
		return 0, fmt.Errorf("ball: unknown category %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Valued is the capability scoring needs from a ball.
type Valued interface {
	Category() Category
	Value() float64
}

// Archetype is the immutable template for one kind of ball.
type Archetype struct {
	ID           string
	Kind         Category
	Amount       float64 // Score points or multiplier contribution
	Radius       float64
	Mass         float64
	Drag         float64
	GravityScale float64
	Visual       string // Render tag, opaque to the core
}

// Category returns the archetype's category.
func (a *Archetype) Category() Category { return a.Kind }

// Value returns the archetype's numeric value.
func (a *Archetype) Value() float64 { return a.Amount }

// SpawnRequest asks for Count balls of one archetype.
type SpawnRequest struct {
	Archetype *Archetype
	Count     int
}

// Expand flattens spawn requests into one archetype reference per ball,
// in request order. Non-positive counts and nil archetypes contribute nothing.
func Expand(reqs []SpawnRequest) []*Archetype {
	total := 0
	for _, r := range reqs {
		if r.Archetype != nil && r.Count > 0 {
			total += r.Count
		}
	}

	out := make([]*Archetype, 0, total)
	for _, r := range reqs {
		if r.Archetype == nil {
			continue
		}
		for i := 0; i < r.Count; i++ {
			out = append(out, r.Archetype)
		}
	}
	return out
}

// Merge combines request lists, summing counts per archetype ID.
// Order is first appearance across the lists, so the result is stable for a
// fixed input order.
func Merge(lists ...[]SpawnRequest) []SpawnRequest {
	merged := orderedmap.NewOrderedMap[string, SpawnRequest]()
	for _, list := range lists {
		for _, r := range list {
			if r.Archetype == nil || r.Count <= 0 {
				continue
			}
			if existing, ok := merged.Get(r.Archetype.ID); ok {
				existing.Count += r.Count
				merged.Set(r.Archetype.ID, existing)
				continue
			}
			merged.Set(r.Archetype.ID, r)
		}
	}

	out := make([]SpawnRequest, 0, merged.Len())
	for el := merged.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Handle identifies a live ball for the lifetime of a round session.
type Handle uint32

// Ball is a live ball in the arena. Position and velocity belong to the
// physics collaborator; this record only carries game-side flags.
type Ball struct {
	Handle    Handle
	Archetype *Archetype
	Grabbed   bool // Held by the claw
	Settling  bool // Inside the settlement zone
}

// Category returns the archetype category.
func (b *Ball) Category() Category { return b.Archetype.Kind }

// Value returns the archetype value.
func (b *Ball) Value() float64 { return b.Archetype.Amount }

// Catalog is an ID-indexed set of archetypes, kept in authoring order.
type Catalog struct {
	byID *orderedmap.OrderedMap[string, *Archetype]
}

// NewCatalog builds a catalog. Duplicate IDs are an error.
func NewCatalog(archetypes ...*Archetype) (*Catalog, error) {
	c := &Catalog{byID: orderedmap.NewOrderedMap[string, *Archetype]()}
	for _, a := range archetypes {
		if a == nil {
			continue
		}
		if _, exists := c.byID.Get(a.ID); exists {
			return nil, fmt.Errorf("ball: duplicate archetype %q", a.ID)
		}
		c.byID.Set(a.ID, a)
	}
	return c, nil
}

// Lookup returns the archetype with the given ID.
func (c *Catalog) Lookup(id string) (*Archetype, bool) {
	return c.byID.Get(id)
}

// All returns archetypes in authoring order.
func (c *Catalog) All() []*Archetype {
	out := make([]*Archetype, 0, c.byID.Len())
	for el := c.byID.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Len returns the number of archetypes.
func (c *Catalog) Len() int {
	return c.byID.Len()
}
