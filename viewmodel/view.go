package viewmodel

import (
	"encoding/json"
	"strconv"

	"github.com/Jake-Purton/wasm-tt/session"
)

const (
	StateHidden  = "hidden"
	StateOpened  = "opened"
	StateFlagged = "flagged"
)

type CellView struct {
	State  string `json:"state"`
	Count  int    `json:"count"`
	IsMine bool   `json:"is_mine"`
	Text   string `json:"text"` // 描画する文字（0や未開封は空）
}

type GameView struct {
	ID             string         `json:"id"`
	Width          int            `json:"width"`
	Height         int            `json:"height"`
	Cells          [][]CellView   `json:"cells"`
	MinesRemaining int            `json:"mines_remaining"`
	TriggeredMines int            `json:"triggered_mines"`
	Status         session.Status `json:"status"`
	IsGameOver     bool           `json:"is_game_over"`
	IsGameClear    bool           `json:"is_game_clear"`
}

// Build はゲームを描画用の構造に変換します
// 負けたら全ての地雷を開いて見せ、勝ったら地雷をフラッグ表示にします
func Build(g *session.Game) GameView {
	b := g.Board()
	h, w := b.Height(), b.Width()

	status := g.Status()
	isGameOver := status == session.StatusLost
	isClear := status == session.StatusWon

	grid := make([][]CellView, h)
	for y := 0; y < h; y++ {
		grid[y] = make([]CellView, w)
		for x := 0; x < w; x++ {
			c, _ := b.Cell(x, y)
			flagged, _ := g.IsFlagged(x, y)
			v := CellView{State: StateHidden}

			switch {
			case c.IsRevealed:
				v.State = StateOpened
				v.IsMine = c.IsMine
				v.Count = c.NeighborCount
			case flagged:
				v.State = StateFlagged
			}

			if c.IsMine {
				if isGameOver {
					v.State = StateOpened
					v.IsMine = true
				} else if isClear {
					v.State = StateFlagged
				}
			}
			v.Text = glyph(v)
			grid[y][x] = v
		}
	}

	return GameView{
		ID:             g.ID.String(),
		Width:          w,
		Height:         h,
		Cells:          grid,
		MinesRemaining: g.MinesRemaining(),
		TriggeredMines: b.TriggeredMines(),
		Status:         status,
		IsGameOver:     isGameOver,
		IsGameClear:    isClear,
	}
}

// glyph は開いているマスだけ文字を返します。0のマスは空文字です
func glyph(v CellView) string {
	if v.State != StateOpened {
		return ""
	}
	if v.IsMine {
		return "*"
	}
	if v.Count == 0 {
		return ""
	}
	return strconv.Itoa(v.Count)
}

// JSON はビューをJSON文字列で返します
func JSON(g *session.Game) string {
	if g == nil {
		return "{}"
	}
	bytes, err := json.Marshal(Build(g))
	if err != nil {
		return "{}"
	}
	return string(bytes)
}
