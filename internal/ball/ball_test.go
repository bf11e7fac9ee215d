package ball

import "testing"

var (
	red  = &Archetype{ID: "red", Kind: CategoryScore, Amount: 10, Radius: 0.5}
	blue = &Archetype{ID: "blue", Kind: CategoryScore, Amount: 20, Radius: 0.5}
	x3   = &Archetype{ID: "x3", Kind: CategoryMultiplier, Amount: 3, Radius: 0.6}
)

func TestExpand(t *testing.T) {
	got := Expand([]SpawnRequest{
		{Archetype: red, Count: 2},
		{Archetype: x3, Count: 1},
		{Archetype: blue, Count: 0},
		{Archetype: nil, Count: 4},
		{Archetype: blue, Count: -1},
	})

	expected := []*Archetype{red, red, x3}
	if len(got) != len(expected) {
		t.Fatalf("Expand() returned %d balls, expected %d", len(got), len(expected))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("Expand()[%d] = %s, expected %s", i, got[i].ID, expected[i].ID)
		}
	}
}

func TestMerge(t *testing.T) {
	pool := []SpawnRequest{{Archetype: red, Count: 2}, {Archetype: x3, Count: 1}}
	owned := []SpawnRequest{{Archetype: blue, Count: 1}, {Archetype: red, Count: 3}}

	got := Merge(pool, owned)

	expected := []struct {
		id    string
		count int
	}{
		{"red", 5},
		{"x3", 1},
		{"blue", 1},
	}
	if len(got) != len(expected) {
		t.Fatalf("Merge() returned %d requests, expected %d", len(got), len(expected))
	}
	for i, e := range expected {
		if got[i].Archetype.ID != e.id || got[i].Count != e.count {
			t.Errorf("Merge()[%d] = (%s, %d), expected (%s, %d)",
				i, got[i].Archetype.ID, got[i].Count, e.id, e.count)
		}
	}

	// Inputs are not mutated.
	if pool[0].Count != 2 {
		t.Errorf("Merge() mutated input, pool[0].Count = %d", pool[0].Count)
	}
}

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in       string
		expected Category
		wantErr  bool
	}{
		{"score", CategoryScore, false},
		{"Score", CategoryScore, false},
		{"multiplier", CategoryMultiplier, false},
		{" mult ", CategoryMultiplier, false},
		{"bonus", 0, true},
	}

	for _, tc := range tests {
		got, err := ParseCategory(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseCategory(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.expected {
			t.Errorf("ParseCategory(%q) = %v, expected %v", tc.in, got, tc.expected)
		}
	}
}

func TestCatalog(t *testing.T) {
	c, err := NewCatalog(red, blue, x3)
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, expected 3", c.Len())
	}
	if a, ok := c.Lookup("x3"); !ok || a != x3 {
		t.Error("Lookup(x3) should return the multiplier archetype")
	}
	if _, ok := c.Lookup("gold"); ok {
		t.Error("Lookup(gold) should miss")
	}
	all := c.All()
	if all[0] != red || all[2] != x3 {
		t.Error("All() should keep authoring order")
	}

	if _, err := NewCatalog(red, red); err == nil {
		t.Error("NewCatalog() should reject duplicate IDs")
	}
}

func TestBallValued(t *testing.T) {
	var v Valued = &Ball{Handle: 1, Archetype: x3}
	if v.Category() != CategoryMultiplier || v.Value() != 3 {
		t.Errorf("Ball reports (%v, %v), expected (multiplier, 3)", v.Category(), v.Value())
	}
}
