package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strconv"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Jake-Purton/wasm-tt/ai"
	"github.com/Jake-Purton/wasm-tt/logging"
	"github.com/Jake-Purton/wasm-tt/session"
	"github.com/Jake-Purton/wasm-tt/solver"
)

type options struct {
	games   int
	output  string
	width   int
	height  int
	mines   int
	seed    uint64
	workers int
}

func main() {
	// AI学習用には「中級」程度の密度が良い
	var opts options
	flag.IntVar(&opts.games, "games", 10000, "number of games to play")
	flag.StringVar(&opts.output, "out", "dataset.csv", "output CSV path")
	flag.IntVar(&opts.width, "width", 9, "board width")
	flag.IntVar(&opts.height, "height", 9, "board height")
	flag.IntVar(&opts.mines, "mines", 10, "mine count")
	flag.Uint64Var(&opts.seed, "seed", 1, "base seed; game i uses seed+i and rows are written in game order")
	flag.IntVar(&opts.workers, "workers", runtime.NumCPU(), "parallel games")
	level := flag.String("log-level", "info", "log level")
	flag.Parse()

	log, err := logging.New(*level, "text")
	if err != nil {
		logrus.WithError(err).Fatal("init logger")
	}

	rows, err := run(context.Background(), opts, log)
	if err != nil {
		log.WithError(err).Fatal("generate")
	}
	log.WithFields(logrus.Fields{"rows": rows, "file": opts.output}).Info("done")
}

func run(ctx context.Context, opts options, log logrus.FieldLogger) (int, error) {
	file, err := os.Create(opts.output)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	w := &recorder{w: csv.NewWriter(file)}
	if err := w.writeHeader(); err != nil {
		return 0, err
	}

	log.WithField("games", opts.games).Info("generating data")

	// ゲームごとの行は番号順の枠に入れ、最後にまとめて書く
	results := make([][][]string, opts.games)
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.workers, 1))
	for i := range opts.games {
		seed := opts.seed + uint64(i)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := playGame(opts, seed)
			if err != nil {
				return err
			}
			results[i] = rows
			if n := done.Add(1); n%1000 == 0 {
				log.WithField("finished", n).Debug("progress")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	for _, rows := range results {
		if err := w.write(rows); err != nil {
			return 0, err
		}
	}
	return w.rows, w.flush()
}

// recorder はCSVの書き込みと行数を管理します
type recorder struct {
	w    *csv.Writer
	rows int
}

// CSVヘッダー: 周囲5x5マスの情報(25個) + 正解ラベル
func (r *recorder) writeHeader() error {
	header := make([]string, 0, ai.FeatureSize+1)
	for i := 0; i < ai.FeatureSize; i++ {
		header = append(header, fmt.Sprintf("cell_%d", i))
	}
	header = append(header, "is_mine")
	return r.w.Write(header)
}

func (r *recorder) write(rows [][]string) error {
	for _, row := range rows {
		if err := r.w.Write(row); err != nil {
			return err
		}
	}
	r.rows += len(rows)
	return nil
}

func (r *recorder) flush() error {
	r.w.Flush()
	return r.w.Error()
}

// playGame はBotで1ゲーム遊び、運任せの場面だけを行にして返します
// ロジックで解ける場面を学習させても意味がないため
func playGame(opts options, seed uint64) ([][]string, error) {
	g, err := session.NewGame(session.Params{Width: opts.width, Height: opts.height, Mines: opts.mines, Seed: &seed})
	if err != nil {
		return nil, err
	}
	bot := solver.New(g, nil, rand.New(rand.NewPCG(seed, ^seed)))

	var rows [][]string
	for g.Status() == session.StatusPlaying {
		move := bot.NextMove()
		if move == nil {
			break
		}
		if move.IsGuess {
			rows = append(rows, recordState(g, move.X, move.Y))
		}
		if err := bot.Apply(move); err != nil {
			return nil, err
		}
	}
	return rows, nil
}

func recordState(g *session.Game, tx, ty int) []string {
	features := ai.Features(g, tx, ty)
	row := make([]string, 0, len(features)+1)
	for _, v := range features {
		row = append(row, strconv.Itoa(int(v)))
	}

	// 正解ラベル（0:安全, 1:地雷）
	label := "0"
	if mine, _ := g.Board().IsMine(tx, ty); mine {
		label = "1"
	}
	return append(row, label)
}
