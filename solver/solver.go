// Package solver は盤面の次の一手を提案します。
// 確実な手を優先し、なければ一番ましな推測をします。
package solver

import (
	"fmt"
	"math/rand/v2"

	"minesweeper/ai"
	"minesweeper/game"
)

// FeatureCount は Features が返す値の数（5x5）
const FeatureCount = 25

type MoveType int

const (
	MoveOpen MoveType = iota
	MoveFlag
)

func (t MoveType) String() string {
	if t == MoveFlag {
		return "flag"
	}
	return "open"
}

type Move struct {
	X, Y       int
	Type       MoveType
	IsGuess    bool    // 確実な手がなかった
	Strategy   string  // "Logic", "Tank", "Tank(Prob)", "AI", "Random"
	Confidence float64 // 手が正しい確率 0.0 ~ 1.0
}

// Index は列数 columns の盤面での index
func (m Move) Index(columns int) int {
	return m.Y*columns + m.X
}

// Action は盤面に適用する操作
func (m Move) Action() game.Action {
	if m.Type == MoveFlag {
		return game.Flag
	}
	return game.Dig
}

type Solver struct {
	Grid  game.Grid
	AiNet *ai.Network
	rng   *rand.Rand
}

type Option func(*Solver)

// WithNetwork は推測に学習済みネットワークを使います。
// 入力数が FeatureCount でないネットワークは無視されます（CheckNetwork を参照）
func WithNetwork(n *ai.Network) Option {
	return func(s *Solver) { s.AiNet = n }
}

// WithRand はランダム推測に使う乱数源を指定します
func WithRand(r *rand.Rand) Option {
	return func(s *Solver) { s.rng = r }
}

func New(g game.Grid, opts ...Option) *Solver {
	s := &Solver{Grid: g}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// CheckNetwork は n が Features の入力を受け付けるか確認します
func CheckNetwork(n *ai.Network) error {
	if n.Inputs() != FeatureCount {
		return fmt.Errorf("%w: network takes %d inputs, features have %d", ai.ErrShape, n.Inputs(), FeatureCount)
	}
	return nil
}

// NextMove は次の一手を返します。未開封のマスがなければ nil
func (s *Solver) NextMove() *Move {
	// 1. 確実に安全なマス
	if move := s.findSafeMove(); move != nil {
		move.Strategy = "Logic"
		move.Confidence = 1.0
		return move
	}

	// 2. 確実に地雷のマス
	if move := s.findFlagMove(); move != nil {
		move.Strategy = "Logic"
		move.Confidence = 1.0
		return move
	}

	// 3. 境界のバックトラック全探索
	tank := NewTankSolver(s.Grid).Solve()
	if tank != nil && tank.Confidence == 1.0 {
		return tank
	}

	// 4. 推測（AI → 確率 → ランダム）
	var move *Move
	if s.AiNet != nil && CheckNetwork(s.AiNet) == nil {
		move = s.findAiMove()
	}
	if move == nil {
		move = tank
	}
	if move == nil {
		move = s.findPureRandomMove()
	}
	if move != nil {
		move.IsGuess = true
	}
	return move
}

func (s *Solver) cell(x, y int) game.Cell {
	c, _ := s.Grid.CellAtXY(x, y)
	return c
}

func (s *Solver) findSafeMove() *Move {
	for y := 0; y < s.Grid.Rows(); y++ {
		for x := 0; x < s.Grid.Columns(); x++ {
			cell := s.cell(x, y)
			if !cell.Dug() || cell.AdjacentMines() == 0 {
				continue
			}
			_, flags, hidden := s.getNeighborsInfo(x, y)
			if flags == cell.AdjacentMines() && len(hidden) > 0 {
				target := hidden[0]
				return &Move{X: target.x, Y: target.y, Type: MoveOpen}
			}
		}
	}
	return nil
}

func (s *Solver) findFlagMove() *Move {
	for y := 0; y < s.Grid.Rows(); y++ {
		for x := 0; x < s.Grid.Columns(); x++ {
			cell := s.cell(x, y)
			if !cell.Dug() || cell.AdjacentMines() == 0 {
				continue
			}
			totalHidden, flags, hidden := s.getNeighborsInfo(x, y)
			if totalHidden == cell.AdjacentMines() && totalHidden-flags > 0 {
				p := hidden[0]
				return &Move{X: p.x, Y: p.y, Type: MoveFlag}
			}
		}
	}
	return nil
}

func (s *Solver) findAiMove() *Move {
	bestProb := 1.0 // 地雷確率（低いほど良い）
	var bestMove *Move

	for y := 0; y < s.Grid.Rows(); y++ {
		for x := 0; x < s.Grid.Columns(); x++ {
			c := s.cell(x, y)
			if c.Status() != game.Untouched {
				continue
			}
			prob, err := s.AiNet.Predict(Features(s.Grid, x, y))
			if err != nil {
				return nil
			}
			if prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					X: x, Y: y,
					Type:       MoveOpen,
					Strategy:   "AI",
					Confidence: 1.0 - prob,
				}
			}
		}
	}
	return bestMove
}

func (s *Solver) findPureRandomMove() *Move {
	var candidates []pos
	for y := 0; y < s.Grid.Rows(); y++ {
		for x := 0; x < s.Grid.Columns(); x++ {
			if s.cell(x, y).Status() == game.Untouched {
				candidates = append(candidates, pos{x, y})
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}
	choice := candidates[s.rng.IntN(len(candidates))]
	return &Move{
		X: choice.x, Y: choice.y,
		Type:       MoveOpen,
		Strategy:   "Random",
		Confidence: 0.0,
	}
}

// Features は (tx, ty) を中心とした5x5をエンコードします。
// 盤面外は9、フラッグは-2、未開封は-1、それ以外は周囲の地雷数
func Features(g game.Grid, tx, ty int) []float64 {
	input := make([]float64, 0, FeatureCount)
	for dy := -2; dy <= 2; dy++ {
		for dx := -2; dx <= 2; dx++ {
			val := 9.0
			if cell, ok := g.CellAtXY(tx+dx, ty+dy); ok {
				switch {
				case cell.Flagged():
					val = -2.0
				case !cell.Revealed():
					val = -1.0
				default:
					val = float64(cell.AdjacentMines())
				}
			}
			input = append(input, val)
		}
	}
	return input
}

type pos struct{ x, y int }

// getNeighborsInfo は (cx, cy) の周囲の未開封マス数（フラッグ込み）、フラッグ数、
// フラッグのない未開封マスの一覧を返します
func (s *Solver) getNeighborsInfo(cx, cy int) (totalHidden int, flags int, hiddenList []pos) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			neighbor, ok := s.Grid.CellAtXY(cx+dx, cy+dy)
			if !ok || neighbor.Revealed() {
				continue
			}
			totalHidden++
			if neighbor.Flagged() {
				flags++
			} else {
				hiddenList = append(hiddenList, pos{cx + dx, cy + dy})
			}
		}
	}
	return
}
