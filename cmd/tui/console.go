package main

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/sirupsen/logrus"

	"minesweeper/ai"
	"minesweeper/game"
	"minesweeper/session"
	"minesweeper/solver"
	"minesweeper/viewmodel"
)

var errNoMove = errors.New("bot has no move")

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

type console struct {
	sess   *session.Session
	net    *ai.Network
	log    *logrus.Logger
	g      *gocui.Gui
	k      []keyBinding
	cursor int
	msg    string
}

var outcomeDescr = map[game.Outcome]string{
	game.InProgress: aurora.Colorize("playing", aurora.BlueFg).String(),
	game.Won:        aurora.Colorize("cleared", aurora.GreenFg).String(),
	game.Lost:       aurora.Colorize("exploded", aurora.RedFg).String(),
}

func newConsole(sess *session.Session, net *ai.Network, log *logrus.Logger) (*console, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}
	g.Mouse = true

	c := &console{sess: sess, net: net, log: log, g: g}
	c.k = []keyBinding{
		{gocui.KeyCtrlC, "^C", "Exit", c.cmdQuit, ""},
		{gocui.KeyArrowUp, "↑", "", c.cmdMove(0, -1), ""},
		{gocui.KeyArrowDown, "↓", "", c.cmdMove(0, 1), ""},
		{gocui.KeyArrowLeft, "←", "", c.cmdMove(-1, 0), ""},
		{gocui.KeyArrowRight, "→", "Move", c.cmdMove(1, 0), ""},
		{gocui.KeySpace, "SPACE", "", c.cmdAct(game.Dig), ""},
		{'d', "D", "Dig", c.cmdAct(game.Dig), ""},
		{'f', "F", "Flag", c.cmdAct(game.Flag), ""},
		{'u', "U", "Undo", c.cmdUndo, ""},
		{'b', "B", "Bot step", c.cmdBot, ""},
		{'n', "N", "New game", c.cmdNew, ""},
		{gocui.MouseLeft, "MOUSE", "Dig the cell", c.cmdMouseClick, "board"},
	}
	g.SetManagerFunc(c.layout)

	for _, kb := range c.k {
		h := kb.handler
		if err := g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error { return h(v) }); err != nil {
			g.Close()
			return nil, err
		}
	}
	return c, nil
}

func (c *console) run() error {
	defer c.g.Close()
	if err := c.g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

func (c *console) layout(g *gocui.Gui) error {
	grid := c.sess.Grid()
	maxX, maxY := g.Size()
	width, height := grid.Columns()*2+1, grid.Rows()+1

	if width+2 > maxX || height+5 > maxY {
		v, err := g.SetView("board", 0, 0, maxX-1, maxY-1)
		if err != nil && !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Clear()
		fmt.Fprintln(v, aurora.Red("Terminal too small for this grid").String())
		return nil
	}

	v, err := g.SetView("board", 0, 0, width, height)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		v.Title = "Minesweeper"
		v.Frame = true
	}
	v.Clear()
	fmt.Fprint(v, viewmodel.Text(grid, viewmodel.TextOptions{Color: true, ShowCursor: true, Cursor: c.cursor}))

	s, err := g.SetView("status", width+1, 0, maxX-1, height)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		s.Title = "Status"
		s.Frame = true
	}
	s.Clear()
	p := c.sess.Params()
	fmt.Fprintln(s, renderProp("Size", "%v x %v", p.Columns, p.Rows))
	fmt.Fprintln(s, renderProp("Mines left", "%v", game.RemainingMines(grid)))
	fmt.Fprintln(s, renderProp("State", "%v", outcomeDescr[game.State(grid)]))
	if c.msg != "" {
		fmt.Fprintln(s, " "+aurora.Yellow(c.msg).String())
	}

	h, err := g.SetView("help", -1, maxY-3, maxX, maxY-1)
	if err != nil {
		if !errors.Is(err, gocui.ErrUnknownView) {
			return err
		}
		h.Frame = false
		var b bytes.Buffer
		b.WriteString("KEYS: ")
		for _, k := range c.k {
			b.WriteString(aurora.Green(k.name).String())
			if k.descr == "" {
				b.WriteByte(' ')
				continue
			}
			b.WriteString(": ")
			b.WriteString(k.descr)
			b.WriteString(", ")
		}
		fmt.Fprintln(h, b.String())
	}
	return nil
}

func renderProp(name, format string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+format, values...)
}

func (c *console) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (c *console) cmdMove(dx, dy int) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		grid := c.sess.Grid()
		x, y := grid.Coordinates(c.cursor)
		if grid.Contains(x+dx, y+dy) {
			c.cursor = grid.Index(x+dx, y+dy)
		}
		return nil
	}
}

func (c *console) cmdAct(action game.Action) func(*gocui.View) error {
	return func(_ *gocui.View) error {
		c.act(c.cursor, action)
		return nil
	}
}

func (c *console) act(index int, action game.Action) {
	c.msg = ""
	g, err := c.sess.Act(index, action)
	if err != nil {
		c.msg = err.Error()
		return
	}
	c.logOutcome(g)
}

func (c *console) cmdUndo(_ *gocui.View) error {
	c.msg = ""
	if _, err := c.sess.Undo(); err != nil {
		c.msg = err.Error()
	}
	return nil
}

func (c *console) cmdBot(_ *gocui.View) error {
	c.msg = ""
	var opts []solver.Option
	if c.net != nil {
		opts = append(opts, solver.WithNetwork(c.net))
	}
	var m *solver.Move
	g, err := c.sess.Step(func(g game.Grid) (int, game.Action, error) {
		if m = solver.New(g, opts...).NextMove(); m == nil {
			return 0, 0, errNoMove
		}
		return m.Index(g.Columns()), m.Action(), nil
	})
	if err != nil {
		c.msg = err.Error()
		return nil
	}
	c.cursor = m.Index(g.Columns())
	c.msg = fmt.Sprintf("bot: %s (%d,%d) by %s", m.Type, m.X, m.Y, m.Strategy)
	c.logOutcome(g)
	return nil
}

func (c *console) cmdNew(_ *gocui.View) error {
	c.msg = ""
	if _, err := c.sess.Restart(); err != nil {
		c.msg = err.Error()
		return nil
	}
	c.cursor = 0
	c.log.Info("game restarted")
	return nil
}

// 1マスは「記号 + 空白」の2文字
func (c *console) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	grid := c.sess.Grid()
	if !grid.Contains(cx/2, cy) {
		return nil
	}
	c.cursor = grid.Index(cx/2, cy)
	c.act(c.cursor, game.Dig)
	return nil
}

func (c *console) logOutcome(g game.Grid) {
	switch game.State(g) {
	case game.Won:
		c.log.Info("game won")
	case game.Lost:
		c.log.Info("game lost")
	}
}
