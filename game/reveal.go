package game

import "github.com/zyedidia/generic/mapset"

// RevealConnected は0連鎖（Flood Fill）です。
//
// 開けたばかりの周囲地雷数0のマスから幅優先で周囲8マスを辿り、
// 未開封の安全なマスをすべて開けます。数字のマスは開けるだけで、そこからは広げません。
// フラッグや開封済みのマスには触れません。
// フラッグ操作や、周囲に地雷があるマスの場合は g をそのまま返します
func (g Grid) RevealConnected(index int, action Action) Grid {
	if action != Dig {
		return g
	}
	start, ok := g.CellAt(index)
	if !ok || start.status != Dug || start.hasBomb || start.adjacentMines != 0 {
		return g
	}

	var cells []Cell
	visited := mapset.New[int]()
	visited.Put(index)
	queue := []int{index}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, n := range g.Neighbors(current) {
			if visited.Has(n) {
				continue
			}
			visited.Put(n)

			c := g.cells[n]
			if c.status != Untouched || c.hasBomb {
				continue
			}
			expand := c.CanBeRevealed()
			dug, err := c.Dig()
			if err != nil {
				continue
			}
			if cells == nil {
				cells = append([]Cell(nil), g.cells...)
			}
			cells[n] = dug
			if expand {
				queue = append(queue, n)
			}
		}
	}

	if cells == nil {
		return g
	}
	return Grid{columns: g.columns, cells: cells}
}
