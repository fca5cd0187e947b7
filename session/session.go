// Package session はプレイ中のゲームを管理します（現在の盤面と Undo 用の履歴）
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"minesweeper/game"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrNothingToUndo = errors.New("nothing to undo")
	ErrGameOver      = errors.New("game is over")
)

// Params はゲームのサイズと地雷数
type Params struct {
	Rows    int `json:"rows"`
	Columns int `json:"columns"`
	Mines   int `json:"mines"`
}

// Session はプレイ中の1ゲームです。複数の goroutine から使えます
type Session struct {
	ID uuid.UUID

	mu      sync.Mutex
	params  Params
	grid    game.Grid
	history *History
	touched time.Time
}

// New は新しく生成した盤面でゲームを開始します
func New(p Params, depth int) (*Session, error) {
	g, err := game.Generate(p.Rows, p.Columns, p.Mines)
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	return NewWithGrid(g, depth), nil
}

// NewWithGrid は既存の盤面でゲームを開始します
func NewWithGrid(g game.Grid, depth int) *Session {
	return &Session{
		ID: uuid.New(),
		params: Params{
			Rows:    g.Rows(),
			Columns: g.Columns(),
			Mines:   game.MineCount(g),
		},
		grid:    g,
		history: NewHistory(depth),
		touched: time.Now(),
	}
}

func (s *Session) Grid() game.Grid {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.grid
}

func (s *Session) Params() Params {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

// Touched は最後に操作された時刻
func (s *Session) Touched() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

// Act は1手を適用します。適用前の盤面は Undo 用に保存され、
// 失敗した手はセッションを変更しません。
func (s *Session) Act(index int, action game.Action) (game.Grid, error) {
	return s.Step(func(game.Grid) (int, game.Action, error) {
		return index, action, nil
	})
}

// Step は現在の盤面を choose に渡して手を決め、同じロックの中で適用します。
// 手を選んでから適用するまでの間に、ほかの手が割り込むことはありません。
// choose のエラーはそのまま返され、盤面は変わりません。
func (s *Session) Step(choose func(game.Grid) (int, game.Action, error)) (game.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()

	if game.State(s.grid) != game.InProgress {
		return s.grid, ErrGameOver
	}
	index, action, err := choose(s.grid)
	if err != nil {
		return s.grid, err
	}
	next, err := s.grid.Play(index, action)
	if err != nil {
		return s.grid, err
	}
	s.history.Push(s.grid)
	s.grid = next
	return next, nil
}

// Undo は直前の手の前の盤面に戻します
func (s *Session) Undo() (game.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()

	prev, ok := s.history.Pop()
	if !ok {
		return s.grid, ErrNothingToUndo
	}
	s.grid = prev
	return prev, nil
}

// Restart は同じサイズの新しい盤面でやり直します
func (s *Session) Restart() (game.Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = time.Now()

	g, err := game.Generate(s.params.Rows, s.params.Columns, s.params.Mines)
	if err != nil {
		return s.grid, fmt.Errorf("restart: %w", err)
	}
	s.grid = g
	s.history.Clear()
	return g, nil
}
