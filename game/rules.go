package game

// Victory は地雷を踏まずに安全なマスをすべて開けたかどうか
func Victory(g Grid) bool {
	if len(g.cells) == 0 {
		return false
	}
	for _, c := range g.cells {
		if c.Detonated() {
			return false
		}
		if !c.hasBomb && c.status != Dug {
			return false
		}
	}
	return true
}

// Defeat は地雷を踏んだかどうか
func Defeat(g Grid) bool {
	for _, c := range g.cells {
		if c.Detonated() {
			return true
		}
	}
	return false
}

// State は現在のゲームの状態
func State(g Grid) Outcome {
	switch {
	case Defeat(g):
		return Lost
	case Victory(g):
		return Won
	default:
		return InProgress
	}
}

// MineCount は盤面の地雷数
func MineCount(g Grid) int {
	n := 0
	for _, c := range g.cells {
		if c.hasBomb {
			n++
		}
	}
	return n
}

// FlagCount はフラッグの数
func FlagCount(g Grid) int {
	n := 0
	for _, c := range g.cells {
		if c.Flagged() {
			n++
		}
	}
	return n
}

// RemainingMines は画面に出す残り地雷数。フラッグが多すぎると負になります
func RemainingMines(g Grid) int {
	return MineCount(g) - FlagCount(g)
}
