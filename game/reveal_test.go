package game

import "testing"

func TestRevealConnectedStopsAtNumbers(t *testing.T) {
	g := layout(t,
		"*.*.*",
		".....",
		"*...*",
		"...F.",
		"*.*.*",
	)
	center := g.Index(2, 2)
	if c, _ := g.CellAt(center); c.AdjacentMines() != 0 {
		t.Fatalf("center count = %d", c.AdjacentMines())
	}

	next, err := g.Play(center, Dig)
	if err != nil {
		t.Fatal(err)
	}

	for i, c := range next.All() {
		x, y := next.Coordinates(i)
		inner := x >= 1 && x <= 3 && y >= 1 && y <= 3
		switch {
		case x == 3 && y == 3:
			if !c.Flagged() {
				t.Fatalf("flagged cell (3,3) became %v", c.Status())
			}
		case inner:
			if !c.Dug() {
				t.Fatalf("inner cell (%d,%d) is %v, want dug", x, y, c.Status())
			}
		default:
			if c.Status() != Untouched {
				t.Fatalf("outer cell (%d,%d) is %v, want untouched", x, y, c.Status())
			}
		}
	}
}

func TestRevealConnectedOpensRegion(t *testing.T) {
	g := layout(t,
		"....",
		"....",
		"....",
		"...*",
	)
	next, err := g.Play(0, Dig)
	if err != nil {
		t.Fatal(err)
	}
	for i, c := range next.All() {
		if c.HasBomb() {
			if c.Status() != Untouched {
				t.Fatalf("mine %d is %v", i, c.Status())
			}
			continue
		}
		if !c.Dug() {
			t.Fatalf("cell %d is %v, want dug", i, c.Status())
		}
	}
	if !Victory(next) {
		t.Fatal("opening every safe cell should win")
	}
	if Victory(g) {
		t.Fatal("input grid was modified")
	}
}

func TestRevealConnectedSkipsFlags(t *testing.T) {
	g := layout(t,
		"....",
		"....",
		"....",
		"F..*",
	)
	next, err := g.Play(0, Dig)
	if err != nil {
		t.Fatal(err)
	}
	if c, _ := next.CellAtXY(0, 3); !c.Flagged() {
		t.Fatalf("flagged cell is %v", c.Status())
	}
	if c, _ := next.CellAtXY(1, 3); !c.Dug() {
		t.Fatalf("cell next to the flag is %v", c.Status())
	}
	if Victory(next) {
		t.Fatal("a flagged safe cell is still hidden")
	}
}

func TestRevealConnectedIdentity(t *testing.T) {
	g := layout(t,
		"*..",
		"...",
		"...",
	)

	t.Run("flag", func(t *testing.T) {
		flagged, err := g.ApplyAction(8, Flag)
		if err != nil {
			t.Fatal(err)
		}
		assertStatuses(t, flagged.RevealConnected(8, Flag), flagged)
	})

	t.Run("numbered cell", func(t *testing.T) {
		dug, err := g.Play(1, Dig)
		if err != nil {
			t.Fatal(err)
		}
		for i, c := range dug.All() {
			if (i == 1) != c.Dug() {
				t.Fatalf("cell %d is %v", i, c.Status())
			}
		}
	})

	t.Run("untouched start", func(t *testing.T) {
		assertStatuses(t, g.RevealConnected(8, Dig), g)
	})

	t.Run("out of range", func(t *testing.T) {
		assertStatuses(t, g.RevealConnected(42, Dig), g)
	})
}

func assertStatuses(t *testing.T, got, want Grid) {
	t.Helper()
	a, b := statuses(got), statuses(want)
	if len(a) != len(b) {
		t.Fatalf("len = %d, want %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cell %d is %v, want %v", i, a[i], b[i])
		}
	}
}
