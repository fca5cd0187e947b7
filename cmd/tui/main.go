package main

import (
	"fmt"
	"io"
	"os"

	"github.com/integrii/flaggy"
	"github.com/sirupsen/logrus"

	"minesweeper/ai"
	"minesweeper/logging"
	"minesweeper/session"
	"minesweeper/solver"
)

func main() {
	var (
		rows, columns, mines = 9, 9, 10
		depth                = 100
		weights, logFile     string
		logLevel             = "info"
	)

	flaggy.SetName("tui")
	flaggy.SetDescription("Play minesweeper in the terminal")
	flaggy.Int(&rows, "r", "rows", "Grid rows")
	flaggy.Int(&columns, "c", "columns", "Grid columns")
	flaggy.Int(&mines, "m", "mines", "Mine count")
	flaggy.Int(&depth, "u", "undo", "Undo depth")
	flaggy.String(&weights, "w", "weights", "Bot network weights (JSON)")
	flaggy.String(&logFile, "l", "log", "Write logs to this file")
	flaggy.String(&logLevel, "", "log-level", "Log level")
	flaggy.Parse()

	// 端末は UI が使うので、ログはファイルにだけ出す
	var out io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	log, err := logging.NewWithOutput(out, logLevel, "text")
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}

	var net *ai.Network
	if weights != "" {
		if net, err = ai.LoadNetwork(weights); err == nil {
			err = solver.CheckNetwork(net)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	sess, err := session.New(session.Params{Rows: rows, Columns: columns, Mines: mines}, depth)
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	log.WithFields(logrus.Fields{"rows": rows, "columns": columns, "mines": mines}).Info("game started")

	ui, err := newConsole(sess, net, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := ui.run(); err != nil {
		log.WithError(err).Error("ui stopped")
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
