// Package session は盤面エンジンを包んで、勝敗の判定とフラグを管理します。
// エンジン自体はゲームオーバーを宣言しないので、そのルールはここに置きます。
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Jake-Purton/wasm-tt/game"
)

var (
	// ErrGameOver は終了したゲームを操作しようとしたときのエラーです
	ErrGameOver = errors.New("game is over")
	// ErrNotFound は存在しないゲームIDのエラーです
	ErrNotFound = errors.New("game not found")
)

// Status はゲームの進行状態です
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Params はゲーム作成時の設定です
// Seed が nil ならランダムなシードを使います
type Params struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Mines  int     `json:"mines"`
	Seed   *uint64 `json:"seed,omitempty"`
}

// Game は1回分のゲームです
type Game struct {
	ID        uuid.UUID
	Seed      uint64
	CreatedAt time.Time

	board *game.Board
	flags []bool // y*width+x
}

// NewGame は新しいゲームを作ります
func NewGame(p Params) (*Game, error) {
	seed := game.RandomSeed()
	if p.Seed != nil {
		seed = *p.Seed
	}
	b, err := game.NewBoard(p.Width, p.Height, p.Mines, seed)
	if err != nil {
		return nil, fmt.Errorf("new game: %w", err)
	}
	g := FromBoard(b)
	g.Seed = seed
	return g, nil
}

// FromBoard は既存の盤面からゲームを作ります
func FromBoard(b *game.Board) *Game {
	return &Game{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		board:     b,
		flags:     make([]bool, b.Width()*b.Height()),
	}
}

// Board は盤面を返します（読み取り専用で使ってください）
func (g *Game) Board() *game.Board { return g.board }

// Status は現在の勝敗を返します
// 地雷を1つでも開けたら負け、地雷以外を全部開けたら勝ちです
func (g *Game) Status() Status {
	switch {
	case g.board.TriggeredMines() > 0:
		return StatusLost
	case g.board.AllSafeRevealed():
		return StatusWon
	default:
		return StatusPlaying
	}
}

// Open は指定マスを開けます
// フラグがあるマスは開けずに AlreadyRevealed と同じ扱いにします
func (g *Game) Open(x, y int) (game.RevealOutcome, error) {
	if g.Status() != StatusPlaying {
		return game.RevealOutcome{}, ErrGameOver
	}
	flagged, err := g.IsFlagged(x, y)
	if err != nil {
		return game.RevealOutcome{}, err
	}
	if flagged {
		return game.RevealOutcome{Kind: game.OutcomeAlreadyRevealed}, nil
	}

	out, err := g.board.Reveal(x, y)
	if err != nil {
		return out, err
	}
	// 連鎖で開いたマスのフラグは外す
	for _, p := range out.Cells {
		g.flags[g.index(p.X, p.Y)] = false
	}
	return out, nil
}

// ToggleFlag は指定された座標のフラッグを切り替えます
func (g *Game) ToggleFlag(x, y int) error {
	if g.Status() != StatusPlaying {
		return ErrGameOver
	}
	revealed, err := g.board.IsRevealed(x, y)
	if err != nil {
		return err
	}
	// すでに開いているマスにはフラッグを置けない
	if revealed {
		return nil
	}
	i := g.index(x, y)
	g.flags[i] = !g.flags[i]
	return nil
}

// IsFlagged は指定マスにフラッグがあるかを返します
func (g *Game) IsFlagged(x, y int) (bool, error) {
	if !g.board.InBounds(x, y) {
		return false, fmt.Errorf("(%d,%d): %w", x, y, game.ErrOutOfBounds)
	}
	return g.flags[g.index(x, y)], nil
}

// FlagCount は立っているフラッグの数です
func (g *Game) FlagCount() int {
	n := 0
	for _, f := range g.flags {
		if f {
			n++
		}
	}
	return n
}

// MinesRemaining は地雷数からフラッグ数を引いた値です（負になることもあります）
func (g *Game) MinesRemaining() int {
	return g.board.MineCount() - g.FlagCount()
}

func (g *Game) index(x, y int) int {
	return y*g.board.Width() + x
}
