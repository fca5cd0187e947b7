//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"syscall/js"

	"minesweeper/ai"
	"minesweeper/game"
	"minesweeper/session"
	"minesweeper/solver"
	"minesweeper/viewmodel"
)

const undoDepth = 64

var errNoMove = errors.New("no move left")

// browser はページに表示中のゲームを保持します
type browser struct {
	sess *session.Session
	net  *ai.Network
}

var b = &browser{}

func (b *browser) newGame(columns, rows, mines int) string {
	sess, err := session.New(session.Params{Rows: rows, Columns: columns, Mines: mines}, undoDepth)
	if err != nil {
		return failure(err)
	}
	b.sess = sess
	return viewmodel.JSON(sess.Grid())
}

func (b *browser) act(x, y int, action game.Action) string {
	if b.sess == nil {
		return ""
	}
	g := b.sess.Grid()
	if !g.Contains(x, y) {
		return failure(game.ErrOutOfRange)
	}
	if _, err := b.sess.Act(g.Index(x, y), action); err != nil {
		return failure(err)
	}
	return viewmodel.JSON(b.sess.Grid())
}

func (b *browser) undo() string {
	if b.sess == nil {
		return ""
	}
	if _, err := b.sess.Undo(); err != nil {
		return failure(err)
	}
	return viewmodel.JSON(b.sess.Grid())
}

func (b *browser) botStep() string {
	if b.sess == nil {
		return ""
	}
	if g := b.sess.Grid(); game.State(g) != game.InProgress {
		return viewmodel.JSON(g)
	}

	var opts []solver.Option
	if b.net != nil {
		opts = append(opts, solver.WithNetwork(b.net))
	}
	g, err := b.sess.Step(func(g game.Grid) (int, game.Action, error) {
		move := solver.New(g, opts...).NextMove()
		if move == nil {
			return 0, 0, errNoMove
		}
		return move.Index(g.Columns()), move.Action(), nil
	})
	if errors.Is(err, errNoMove) {
		// 打つ手なし
		return viewmodel.JSON(g)
	}
	if err != nil {
		return failure(err)
	}
	return viewmodel.JSON(g)
}

func (b *browser) loadWeights(data string) string {
	net, err := ai.NewNetwork([]byte(data))
	if err == nil {
		err = solver.CheckNetwork(net)
	}
	if err != nil {
		return failure(err)
	}
	b.net = net
	return "{}"
}

func failure(err error) string {
	out, _ := json.Marshal(map[string]string{"error": err.Error()})
	return string(out)
}

func newGameWrapper(this js.Value, args []js.Value) interface{} {
	w, h, m := 10, 10, 10
	// JS側から goNewGame(width, height, mines) と呼ばれる想定
	if len(args) >= 3 {
		w = args[0].Int()
		h = args[1].Int()
		m = args[2].Int()
	}
	return b.newGame(w, h, m)
}

func actionWrapper(action game.Action) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 2 {
			return nil
		}
		return b.act(args[0].Int(), args[1].Int(), action)
	})
}

func main() {
	js.Global().Set("goNewGame", js.FuncOf(newGameWrapper))
	js.Global().Set("goOpenCell", actionWrapper(game.Dig))
	js.Global().Set("goToggleFlag", actionWrapper(game.Flag))
	js.Global().Set("goUndo", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return b.undo()
	}))
	js.Global().Set("goBotStep", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		return b.botStep()
	}))
	js.Global().Set("goLoadWeights", js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		if len(args) < 1 {
			return nil
		}
		return b.loadWeights(args[0].String())
	}))

	println("minesweeper wasm ready")
	select {}
}
