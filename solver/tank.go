package solver

import (
	"minesweeper/game"
)

// maxSegment より未知マスの多いセグメントは探索しません（組み合わせ爆発を防ぐ）
const maxSegment = 18

// TankSolver はバックトラック探索を行う構造体です。
// 数字と矛盾しない境界マスの地雷配置をすべて列挙します
type TankSolver struct {
	Grid game.Grid
}

func NewTankSolver(g game.Grid) *TankSolver {
	return &TankSolver{Grid: g}
}

// Solve は確実に安全なマスか確実な地雷があればそれを返し、
// なければ地雷確率が一番低い境界マスを返します。解けるセグメントがなければ nil
func (ts *TankSolver) Solve() *Move {
	var bestMove *Move
	bestProb := 1.0

	for _, seg := range ts.createSegments() {
		if len(seg.unknowns) > maxSegment {
			continue
		}

		solutions := ts.solveSegment(seg)
		if len(solutions) == 0 {
			continue // 矛盾
		}

		counts := make([]int, len(seg.unknowns))
		for _, sol := range solutions {
			for i, isMine := range sol {
				if isMine {
					counts[i]++
				}
			}
		}

		total := float64(len(solutions))
		for i, count := range counts {
			prob := float64(count) / total
			p := seg.unknowns[i]

			if prob == 0.0 {
				return &Move{X: p.x, Y: p.y, Type: MoveOpen, Strategy: "Tank", Confidence: 1.0}
			}
			if prob == 1.0 {
				return &Move{X: p.x, Y: p.y, Type: MoveFlag, Strategy: "Tank", Confidence: 1.0}
			}

			if prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					X: p.x, Y: p.y,
					Type:       MoveOpen,
					Strategy:   "Tank(Prob)",
					Confidence: 1.0 - prob,
				}
			}
		}
	}

	return bestMove
}

type segment struct {
	unknowns []pos  // セグメントの未開封マス（フラッグなし）
	rules    []rule // 接している数字マスからの制約
}

type rule struct {
	cells []int // unknowns の添字
	mines int   // cells の中に残っている地雷数
}

func (ts *TankSolver) createSegments() []*segment {
	g := ts.Grid
	unknownMap := make(map[int]pos) // 盤面の index -> 座標
	var numbered []pos

	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Columns(); x++ {
			c, _ := g.CellAtXY(x, y)
			if !c.Dug() || c.AdjacentMines() == 0 {
				continue
			}
			flags, hidden := ts.getNeighbors(x, y)
			if flags == c.AdjacentMines() || len(hidden) == 0 {
				continue
			}
			for _, h := range hidden {
				unknownMap[g.Index(h.x, h.y)] = h
			}
			numbered = append(numbered, pos{x, y})
		}
	}

	// 未知マスをノードとし、同じ数字マスに接していれば辺で結ぶ
	adj := make(map[int][]int)
	for _, n := range numbered {
		_, hidden := ts.getNeighbors(n.x, n.y)
		for i := 0; i < len(hidden)-1; i++ {
			u1 := g.Index(hidden[i].x, hidden[i].y)
			for j := i + 1; j < len(hidden); j++ {
				u2 := g.Index(hidden[j].x, hidden[j].y)
				adj[u1] = append(adj[u1], u2)
				adj[u2] = append(adj[u2], u1)
			}
		}
	}

	visited := make(map[int]bool)
	var segments []*segment

	for y := 0; y < g.Rows(); y++ {
		for x := 0; x < g.Columns(); x++ {
			key := g.Index(x, y)
			if _, ok := unknownMap[key]; !ok || visited[key] {
				continue
			}

			var group []int
			queue := []int{key}
			visited[key] = true
			for len(queue) > 0 {
				curr := queue[0]
				queue = queue[1:]
				group = append(group, curr)
				for _, next := range adj[curr] {
					if !visited[next] {
						visited[next] = true
						queue = append(queue, next)
					}
				}
			}

			seg := &segment{unknowns: make([]pos, len(group))}
			local := make(map[int]int, len(group))
			for i, k := range group {
				seg.unknowns[i] = unknownMap[k]
				local[k] = i
			}

			for _, n := range numbered {
				flags, hidden := ts.getNeighbors(n.x, n.y)
				// 数字マスの未開封の隣接マスはすべて同じセグメントに入る
				if _, ok := local[g.Index(hidden[0].x, hidden[0].y)]; !ok {
					continue
				}
				c, _ := g.CellAtXY(n.x, n.y)
				r := rule{cells: make([]int, len(hidden)), mines: c.AdjacentMines() - flags}
				for i, h := range hidden {
					r.cells[i] = local[g.Index(h.x, h.y)]
				}
				seg.rules = append(seg.rules, r)
			}
			segments = append(segments, seg)
		}
	}

	return segments
}

func (ts *TankSolver) solveSegment(seg *segment) [][]bool {
	var solutions [][]bool
	config := make([]bool, len(seg.unknowns))
	ts.backtrack(seg, 0, config, &solutions)
	return solutions
}

func (ts *TankSolver) backtrack(seg *segment, index int, config []bool, solutions *[][]bool) {
	if index == len(seg.unknowns) {
		if isValid(seg, config, true) {
			*solutions = append(*solutions, append([]bool(nil), config...))
		}
		return
	}

	if !isValid(seg, config, false) {
		return
	}

	config[index] = true
	ts.backtrack(seg, index+1, config, solutions)

	config[index] = false
	ts.backtrack(seg, index+1, config, solutions)
}

// isValid は config がすべての制約を満たすか確認します。
// 途中（final でない）なら地雷が多すぎる制約だけを弾きます
func isValid(seg *segment, config []bool, final bool) bool {
	for _, r := range seg.rules {
		mines := 0
		for _, idx := range r.cells {
			if config[idx] {
				mines++
			}
		}
		if mines > r.mines || (final && mines != r.mines) {
			return false
		}
	}
	return true
}

// getNeighbors は (cx, cy) の周囲のフラッグ数と、フラッグのない未開封マスを返します
func (ts *TankSolver) getNeighbors(cx, cy int) (flags int, hidden []pos) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n, ok := ts.Grid.CellAtXY(cx+dx, cy+dy)
			if !ok {
				continue
			}
			if n.Flagged() {
				flags++
			} else if !n.Revealed() {
				hidden = append(hidden, pos{cx + dx, cy + dy})
			}
		}
	}
	return
}
