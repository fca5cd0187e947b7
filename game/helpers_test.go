package game

import "testing"

// layout builds a grid from one string per row: '*' is a mine, '.' a safe
// cell, 'F' a flagged safe cell and 'X' a flagged mine.
func layout(t *testing.T, rows ...string) Grid {
	t.Helper()
	columns := len(rows[0])
	cells := make([]Cell, 0, columns*len(rows))
	for _, row := range rows {
		if len(row) != columns {
			t.Fatalf("ragged layout row %q", row)
		}
		for _, r := range row {
			var c Cell
			switch r {
			case '*', 'X':
				c = WithBomb()
			case '.', 'F':
				c = WithoutBomb()
			default:
				t.Fatalf("unknown layout rune %q", r)
			}
			if r == 'F' || r == 'X' {
				c, _ = c.Flag()
			}
			cells = append(cells, c)
		}
	}
	g, err := New(columns, UpdateAdjacentMinesCount(cells, len(rows), columns))
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	return g
}

func statuses(g Grid) []Status {
	return Map(g, func(c Cell, _ int) Status { return c.Status() })
}
