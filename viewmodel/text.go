package viewmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/logrusorgru/aurora"

	"minesweeper/game"
)

// TextOptions は Text の出力設定です。ゼロ値は色なし・カーソルなし
type TextOptions struct {
	Color       bool // ANSIカラー
	ShowCursor  bool // Cursor のマスを反転表示する
	Cursor      int  // カーソルのあるマスの index
	Coordinates bool // 列番号と行番号を表示する
}

// Text は盤面を文字で表示します（1マスにつき記号と空白）。
// 未開封は「-」、フラッグは「F」、0は「.」、数字はそのまま、
// 地雷は「*」、踏んだ地雷は「X」。地雷はゲームオーバー時のみ表示します
func Text(g game.Grid, opts TextOptions) string {
	au := aurora.NewAurora(opts.Color)
	lost := game.Defeat(g)

	var b strings.Builder
	if opts.Coordinates {
		b.WriteString("   ")
		for x := 0; x < g.Columns(); x++ {
			fmt.Fprintf(&b, "%d ", x%10)
		}
		b.WriteByte('\n')
	}

	for y := 0; y < g.Rows(); y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		if opts.Coordinates {
			fmt.Fprintf(&b, "%d: ", y%10)
		}
		for x := 0; x < g.Columns(); x++ {
			i := g.Index(x, y)
			c, _ := g.CellAt(i)
			glyph := cellGlyph(au, c, lost)
			if opts.ShowCursor && i == opts.Cursor {
				glyph = au.Reverse(glyph)
			}
			b.WriteString(glyph.String())
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func cellGlyph(au aurora.Aurora, c game.Cell, lost bool) aurora.Value {
	switch {
	case c.Detonated():
		return au.Red("X").Bold()
	case c.HasBomb() && lost && !c.Flagged():
		return au.Red("*")
	case c.Flagged():
		return au.Yellow("F")
	case c.Dug() && c.AdjacentMines() == 0:
		return au.Reset(".")
	case c.Dug():
		return countColor(au, c.AdjacentMines())
	default:
		return au.Reset("-")
	}
}

func countColor(au aurora.Aurora, n int) aurora.Value {
	s := strconv.Itoa(n)
	switch n {
	case 1:
		return au.Blue(s)
	case 2:
		return au.Green(s)
	case 3:
		return au.Red(s)
	case 4:
		return au.Magenta(s)
	case 5:
		return au.Yellow(s)
	case 6:
		return au.Cyan(s)
	default:
		return au.White(s).Bold()
	}
}
