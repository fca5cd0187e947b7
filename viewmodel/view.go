package viewmodel

import (
	"encoding/json"

	"minesweeper/game"
)

type CellView struct {
	State  string `json:"state"` // "hidden", "flagged", "opened" のいずれか
	Count  int    `json:"count"`
	IsMine bool   `json:"is_mine"`
}

type GameView struct {
	Rows           int          `json:"rows"`
	Columns        int          `json:"columns"`
	Cells          [][]CellView `json:"cells"`
	MinesRemaining int          `json:"mines_remaining"`
	IsGameOver     bool         `json:"is_game_over"`
	IsGameClear    bool         `json:"is_game_clear"`
}

// New は盤面をプレイヤーに見える形に変換します。
// ゲームオーバーなら地雷をすべて表示し、クリアなら地雷をフラッグ表示にします
func New(g game.Grid) GameView {
	isClear := game.Victory(g)
	isGameOver := game.Defeat(g)

	cells := make([][]CellView, g.Rows())
	for y := range cells {
		cells[y] = make([]CellView, g.Columns())
	}

	for i, c := range g.All() {
		x, y := g.Coordinates(i)
		v := CellView{}

		switch {
		case c.Revealed():
			v.State = "opened"
			v.IsMine = c.HasBomb()
			if !c.HasBomb() {
				v.Count = c.AdjacentMines()
			}
		case c.Flagged():
			v.State = "flagged"
		default:
			v.State = "hidden"
		}

		if c.HasBomb() {
			switch {
			case isClear:
				v.State = "flagged"
			case isGameOver:
				v.State = "opened"
				v.IsMine = true
			}
		}
		cells[y][x] = v
	}

	return GameView{
		Rows:           g.Rows(),
		Columns:        g.Columns(),
		Cells:          cells,
		MinesRemaining: game.RemainingMines(g),
		IsGameOver:     isGameOver,
		IsGameClear:    isClear,
	}
}

// JSON は New(g) をJSON文字列で返します（空の盤面なら "{}"）
func JSON(g game.Grid) string {
	if g.Len() == 0 {
		return "{}"
	}
	bytes, err := json.Marshal(New(g))
	if err != nil {
		return "{}"
	}
	return string(bytes)
}
