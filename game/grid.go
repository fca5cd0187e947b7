package game

import (
	"fmt"
	"iter"
	"math"
	"math/rand/v2"
)

// Grid は rows×columns の盤面を行優先の1次元スライスで持ちます。
// 操作は Grid 自体を変更せず、常に新しい Grid を返します。
type Grid struct {
	columns int
	cells   []Cell
}

// New は列数と行優先に並んだマスから盤面を作ります。スライスはコピーされます。
func New(columns int, cells []Cell) (Grid, error) {
	if columns <= 0 {
		return Grid{}, ErrInvalidColumns
	}
	if len(cells) == 0 || len(cells)%columns != 0 {
		return Grid{}, fmt.Errorf("%w: %d cells for %d columns", ErrInvalidCellCount, len(cells), columns)
	}
	return Grid{columns: columns, cells: append([]Cell(nil), cells...)}, nil
}

// Generate は地雷をちょうど mines 個ランダムに配置した盤面を返します
func Generate(rows, columns, mines int) (Grid, error) {
	return GenerateWithRand(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())), rows, columns, mines)
}

// GenerateWithRand は乱数源を指定できる Generate です（同じシードなら同じ盤面）
func GenerateWithRand(r *rand.Rand, rows, columns, mines int) (Grid, error) {
	if rows <= 0 || columns <= 0 {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, columns)
	}
	// rows*columns がオーバーフローしないこと
	if columns > math.MaxInt/rows {
		return Grid{}, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, columns)
	}
	length := rows * columns
	if mines < 0 || mines > length {
		return Grid{}, fmt.Errorf("%w: %d mines for %d cells", ErrTooManyMines, mines, length)
	}

	cells := make([]Cell, length)
	for i := range cells {
		if i < mines {
			cells[i] = WithBomb()
		} else {
			cells[i] = WithoutBomb()
		}
	}
	// Fisher-Yates シャッフル
	r.Shuffle(length, func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})

	return Grid{columns: columns, cells: UpdateAdjacentMinesCount(cells, rows, columns)}, nil
}

// UpdateAdjacentMinesCount は各マスに周囲8マスの地雷数を設定したコピーを返します
func UpdateAdjacentMinesCount(cells []Cell, rows, columns int) []Cell {
	out := make([]Cell, len(cells))
	for i, c := range cells {
		x, y := i%columns, i/columns
		count := 0
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx >= 0 && nx < columns && ny >= 0 && ny < rows && cells[ny*columns+nx].hasBomb {
					count++
				}
			}
		}
		out[i] = c.withAdjacentMines(count)
	}
	return out
}

func (g Grid) Columns() int { return g.columns }

func (g Grid) Rows() int {
	if g.columns == 0 {
		return 0
	}
	return len(g.cells) / g.columns
}

// Len はマスの総数
func (g Grid) Len() int { return len(g.cells) }

// CellAt は index のマスを返します。範囲外なら false
func (g Grid) CellAt(index int) (Cell, bool) {
	if index < 0 || index >= len(g.cells) {
		return Cell{}, false
	}
	return g.cells[index], true
}

// CellAtXY は (x, y) のマスを返します。盤面の外なら false
func (g Grid) CellAtXY(x, y int) (Cell, bool) {
	if !g.Contains(x, y) {
		return Cell{}, false
	}
	return g.cells[g.Index(x, y)], true
}

// Contains は (x, y) が盤面内かどうか
func (g Grid) Contains(x, y int) bool {
	return x >= 0 && x < g.columns && y >= 0 && y < g.Rows()
}

func (g Grid) Index(x, y int) int {
	return g.columns*y + x
}

func (g Grid) Coordinates(index int) (x, y int) {
	if g.columns == 0 {
		return 0, 0
	}
	return index % g.columns, index / g.columns
}

// Neighbors は index の周囲8マスのうち盤面内のものを返します
func (g Grid) Neighbors(index int) []int {
	if index < 0 || index >= len(g.cells) {
		return nil
	}
	x, y := g.Coordinates(index)
	out := make([]int, 0, 8)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			if g.Contains(x+dx, y+dy) {
				out = append(out, g.Index(x+dx, y+dy))
			}
		}
	}
	return out
}

// All は index 順にマスを列挙します
func (g Grid) All() iter.Seq2[int, Cell] {
	return func(yield func(int, Cell) bool) {
		for i, c := range g.cells {
			if !yield(i, c) {
				return
			}
		}
	}
}

// Map は全マスを fn で変換します
func Map[T any](g Grid, fn func(c Cell, index int) T) []T {
	out := make([]T, len(g.cells))
	for i, c := range g.cells {
		out[i] = fn(c, i)
	}
	return out
}

// ApplyAction は index のマスに action を適用した新しい盤面を返します
func (g Grid) ApplyAction(index int, action Action) (Grid, error) {
	cell, ok := g.CellAt(index)
	if !ok {
		return g, fmt.Errorf("%w: %d", ErrOutOfRange, index)
	}
	next, err := cell.apply(action)
	if err != nil {
		return g, err
	}
	cells := append([]Cell(nil), g.cells...)
	cells[index] = next
	return Grid{columns: g.columns, cells: cells}, nil
}

// Play はプレイヤーの1手です。ApplyAction のあと、0のマスなら周囲を連鎖して開けます
func (g Grid) Play(index int, action Action) (Grid, error) {
	next, err := g.ApplyAction(index, action)
	if err != nil {
		return g, err
	}
	return next.RevealConnected(index, action), nil
}
