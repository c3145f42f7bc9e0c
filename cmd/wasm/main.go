//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/Jake-Purton/wasm-tt/bridge"
	"github.com/Jake-Purton/wasm-tt/config"
	"github.com/Jake-Purton/wasm-tt/game"
	"github.com/Jake-Purton/wasm-tt/session"
	"github.com/Jake-Purton/wasm-tt/solver"
	"github.com/Jake-Purton/wasm-tt/viewmodel"
)

// GameSession はゲームの状態を保持・管理します
type GameSession struct {
	game *session.Game
}

var (
	current = &GameSession{}
	// JS のテキストボックスから渡される値
	textBox bridge.Mailbox[string]
	// JS から指定できる盤面サイズの上限
	limits = config.BoardConfig{MaxWidth: config.DefaultMaxSide, MaxHeight: config.DefaultMaxSide}
)

// NewGame は新しいゲームを開始します
func (s *GameSession) NewGame(width, height, mineCount int) string {
	if err := limits.CheckSize(width, height); err != nil {
		println("new game:", err.Error())
		return ""
	}
	g, err := session.NewGame(session.Params{Width: width, Height: height, Mines: mineCount})
	if err != nil {
		println("new game:", err.Error())
		return ""
	}
	s.game = g
	return viewmodel.JSON(s.game)
}

// Open は指定されたセルを開きます
func (s *GameSession) Open(x, y int) string {
	if s.game == nil {
		return ""
	}
	if _, err := s.game.Open(x, y); err != nil {
		println("open:", err.Error())
	}
	return viewmodel.JSON(s.game)
}

// ToggleFlag はフラグを切り替えます
func (s *GameSession) ToggleFlag(x, y int) string {
	if s.game == nil {
		return ""
	}
	if err := s.game.ToggleFlag(x, y); err != nil {
		println("flag:", err.Error())
	}
	return viewmodel.JSON(s.game)
}

// BotStep はBotに1手進めさせます
func (s *GameSession) BotStep() string {
	if s.game == nil || s.game.Status() != session.StatusPlaying {
		return ""
	}

	bot := solver.New(s.game, nil, nil)
	if move := bot.NextMove(); move != nil {
		if err := bot.Apply(move); err != nil {
			println("bot:", err.Error())
		}
	}
	return viewmodel.JSON(s.game)
}

func newGameWrapper(this js.Value, args []js.Value) interface{} {
	w, h, m := game.DefaultWidth, game.DefaultHeight, game.DefaultMineCount

	// 引数があれば上書き (JS側から goNewGame(w, h, m) と呼ばれる想定)
	if len(args) >= 3 {
		w = args[0].Int()
		h = args[1].Int()
		m = args[2].Int()
	}

	return current.NewGame(w, h, m)
}

func openCellWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	return current.Open(args[0].Int(), args[1].Int())
}

func toggleFlagWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return nil
	}
	return current.ToggleFlag(args[0].Int(), args[1].Int())
}

func botStepWrapper(this js.Value, args []js.Value) interface{} {
	return current.BotStep()
}

func setTextWrapper(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	textBox.Put(args[0].String())
	return nil
}

// takeTextWrapper は描画ループが1フレームに1回呼びます
func takeTextWrapper(this js.Value, args []js.Value) interface{} {
	v, ok := textBox.Take()
	if !ok {
		return nil
	}
	return v
}

func main() {
	c := make(chan struct{})

	js.Global().Set("goNewGame", js.FuncOf(newGameWrapper))
	js.Global().Set("goOpenCell", js.FuncOf(openCellWrapper))
	js.Global().Set("goToggleFlag", js.FuncOf(toggleFlagWrapper))
	js.Global().Set("goBotStep", js.FuncOf(botStepWrapper))
	js.Global().Set("goSetText", js.FuncOf(setTextWrapper))
	js.Global().Set("goTakeText", js.FuncOf(takeTextWrapper))

	println("Go WebAssembly Initialized")
	<-c
}
