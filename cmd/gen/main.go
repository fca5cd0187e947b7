package main

import (
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"strconv"

	"github.com/integrii/flaggy"
	"github.com/sirupsen/logrus"

	"minesweeper/game"
	"minesweeper/logging"
	"minesweeper/solver"
)

type options struct {
	games    int
	output   string
	width    int
	height   int
	mines    int
	seed     int
	logLevel string
}

func main() {
	// 学習には中くらいの密度がちょうど良い
	o := options{games: 10000, output: "dataset.csv", width: 9, height: 9, mines: 10, logLevel: "info"}

	flaggy.SetName("gen")
	flaggy.SetDescription("Plays solver games and records every guess as a training sample")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&o.games, "n", "games", "Number of games to play")
	flaggy.String(&o.output, "o", "output", "CSV file to write")
	flaggy.Int(&o.width, "x", "width", "Grid width")
	flaggy.Int(&o.height, "y", "height", "Grid height")
	flaggy.Int(&o.mines, "m", "mines", "Mine count")
	flaggy.Int(&o.seed, "s", "seed", "Random seed, 0 for a random one")
	flaggy.String(&o.logLevel, "l", "log-level", "Log level")
	flaggy.Parse()

	log, err := logging.New(o.logLevel, "text")
	if err != nil {
		flaggy.ShowHelpAndExit(err.Error())
	}
	if err := generate(o, log); err != nil {
		log.WithError(err).Fatal("dataset generation failed")
	}
}

func generate(o options, log *logrus.Logger) error {
	file, err := os.Create(o.output)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	// ヘッダー: 推測したマスの周囲5x5 + 正解ラベル
	header := make([]string, 0, solver.FeatureCount+1)
	for i := 0; i < solver.FeatureCount; i++ {
		header = append(header, fmt.Sprintf("cell_%d", i))
	}
	header = append(header, "is_mine")
	if err := writer.Write(header); err != nil {
		return err
	}

	seed := uint64(o.seed)
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	log.WithFields(logrus.Fields{"games": o.games, "output": o.output, "seed": seed}).Info("generating")
	samples, won := 0, 0
	for i := 0; i < o.games; i++ {
		n, outcome, err := playGameAndRecord(writer, rng, o)
		if err != nil {
			return err
		}
		samples += n
		if outcome == game.Won {
			won++
		}
		if (i+1)%1000 == 0 {
			log.WithFields(logrus.Fields{"played": i + 1, "samples": samples, "won": won}).Info("progress")
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"samples": samples, "won": won}).Info("done")
	return nil
}

// playGameAndRecord は solver で1ゲーム遊び、推測した手ごとに1行書き出します。
// 論理で確定する手は学習データにしません
func playGameAndRecord(writer *csv.Writer, rng *rand.Rand, o options) (int, game.Outcome, error) {
	g, err := game.GenerateWithRand(rng, o.height, o.width, o.mines)
	if err != nil {
		return 0, game.InProgress, err
	}

	samples := 0
	for game.State(g) == game.InProgress {
		move := solver.New(g, solver.WithRand(rng)).NextMove()
		if move == nil {
			break
		}

		if move.IsGuess {
			if err := recordState(writer, g, move.X, move.Y); err != nil {
				return samples, game.InProgress, err
			}
			samples++
		}

		if g, err = g.Play(move.Index(g.Columns()), move.Action()); err != nil {
			return samples, game.InProgress, err
		}
	}
	return samples, game.State(g), nil
}

func recordState(writer *csv.Writer, g game.Grid, tx, ty int) error {
	features := solver.Features(g, tx, ty)
	row := make([]string, 0, len(features)+1)
	for _, f := range features {
		row = append(row, strconv.Itoa(int(f)))
	}

	// 0: 安全, 1: 地雷
	label := "0"
	if c, _ := g.CellAtXY(tx, ty); c.HasBomb() {
		label = "1"
	}
	row = append(row, label)
	return writer.Write(row)
}
