package game

// Cell は1つのマスの情報を持ちます。値型なので、状態遷移は常に新しい Cell を返します
type Cell struct {
	hasBomb       bool
	status        Status
	adjacentMines int
}

// WithBomb は地雷ありの未開封マス
func WithBomb() Cell {
	return Cell{hasBomb: true}
}

// WithoutBomb は地雷なしの未開封マス
func WithoutBomb() Cell {
	return Cell{}
}

func (c Cell) HasBomb() bool      { return c.hasBomb }
func (c Cell) Status() Status     { return c.status }
func (c Cell) AdjacentMines() int { return c.adjacentMines }
func (c Cell) Detonated() bool    { return c.status == Detonated }
func (c Cell) Flagged() bool      { return c.status == Flagged }
func (c Cell) Dug() bool          { return c.status == Dug }

// Revealed は開けられたかどうか（地雷を踏んだ場合も含む）
func (c Cell) Revealed() bool {
	return c.status == Dug || c.status == Detonated
}

// CanBeRevealed は連鎖で開けて、さらにそこから広げてよいマスかどうか
func (c Cell) CanBeRevealed() bool {
	return c.status == Untouched && c.adjacentMines == 0 && !c.hasBomb
}

// Dig は未開封のマスを開けます。地雷なら爆発します
func (c Cell) Dig() (Cell, error) {
	switch c.status {
	case Flagged:
		return c, ErrCellFlagged
	case Dug, Detonated:
		return c, ErrCellDug
	}
	if c.hasBomb {
		c.status = Detonated
	} else {
		c.status = Dug
	}
	return c, nil
}

// Flag は未開封マスのフラッグを切り替えます（地雷の有無は関係ない）
func (c Cell) Flag() (Cell, error) {
	switch c.status {
	case Untouched:
		c.status = Flagged
	case Flagged:
		c.status = Untouched
	default:
		return c, ErrCellDug
	}
	return c, nil
}

func (c Cell) apply(a Action) (Cell, error) {
	switch a {
	case Dig:
		return c.Dig()
	case Flag:
		return c.Flag()
	}
	return c, ErrInvalidTransition
}

func (c Cell) withAdjacentMines(n int) Cell {
	c.adjacentMines = n
	return c
}
