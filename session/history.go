package session

import "minesweeper/game"

// History は Undo 用の盤面スナップショットのスタックです。
// いっぱいのときに Push すると一番古いものが消えます
type History struct {
	depth     int
	snapshots []game.Grid
}

// NewHistory は最大 depth 個を保持する History を返します（1未満は1）
func NewHistory(depth int) *History {
	if depth < 1 {
		depth = 1
	}
	return &History{depth: depth}
}

func (h *History) Push(g game.Grid) {
	if len(h.snapshots) == h.depth {
		copy(h.snapshots, h.snapshots[1:])
		h.snapshots = h.snapshots[:len(h.snapshots)-1]
	}
	h.snapshots = append(h.snapshots, g)
}

// Pop は一番新しいスナップショットを取り出します
func (h *History) Pop() (game.Grid, bool) {
	if len(h.snapshots) == 0 {
		return game.Grid{}, false
	}
	last := h.snapshots[len(h.snapshots)-1]
	h.snapshots = h.snapshots[:len(h.snapshots)-1]
	return last, true
}

func (h *History) Len() int { return len(h.snapshots) }

func (h *History) Clear() { h.snapshots = h.snapshots[:0] }
