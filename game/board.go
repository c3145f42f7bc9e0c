package game

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"strings"
)

// NewBoard は指定されたサイズと地雷数で盤面を初期化して返します
// 同じ seed なら同じ配置になります
func NewBoard(width, height, mineCount int, seed uint64) (*Board, error) {
	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return NewBoardWithRand(width, height, mineCount, r)
}

// NewBoardWithRand は乱数源を指定して盤面を初期化します
func NewBoardWithRand(width, height, mineCount int, r *rand.Rand) (*Board, error) {
	if err := ValidateConfig(width, height, mineCount); err != nil {
		return nil, err
	}

	board := newEmptyBoard(width, height)
	board.placeMines(mineCount, r)
	board.calculateNeighbors()

	return board, nil
}

// NewBoardFromMines は地雷の位置を直接指定して盤面を作ります
func NewBoardFromMines(width, height int, mines []Point) (*Board, error) {
	if err := ValidateConfig(width, height, len(mines)); err != nil {
		return nil, err
	}

	board := newEmptyBoard(width, height)
	for _, p := range mines {
		if !board.InBounds(p.X, p.Y) {
			return nil, fmt.Errorf("mine at (%d,%d) outside %dx%d: %w", p.X, p.Y, width, height, ErrInvalidConfiguration)
		}
		c := &board.cells[board.index(p.X, p.Y)]
		if c.IsMine {
			return nil, fmt.Errorf("duplicate mine at (%d,%d): %w", p.X, p.Y, ErrInvalidConfiguration)
		}
		c.IsMine = true
	}
	board.mineCount = len(mines)
	board.calculateNeighbors()

	return board, nil
}

// RandomSeed は本番用のランダムなシードを返します
func RandomSeed() uint64 {
	return rand.Uint64()
}

// ValidateConfig は盤面を生成できる設定かどうかを確認します
func ValidateConfig(width, height, mineCount int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("size %dx%d: %w", width, height, ErrInvalidConfiguration)
	}
	// width*height が int に収まらない盤面は作れない
	if width > math.MaxInt/height {
		return fmt.Errorf("size %dx%d overflows: %w", width, height, ErrInvalidConfiguration)
	}
	if mineCount < 0 || mineCount >= width*height {
		return fmt.Errorf("%d mines on %dx%d: %w", mineCount, width, height, ErrInvalidConfiguration)
	}
	return nil
}

func newEmptyBoard(width, height int) *Board {
	return &Board{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}
}

// placeMines は地雷をランダムに配置します（重複なしの非復元抽出）
func (b *Board) placeMines(count int, r *rand.Rand) {
	candidates := make([]int, len(b.cells))
	for i := range candidates {
		candidates[i] = i
	}

	k := len(candidates)
	for range count {
		i := r.IntN(k)
		b.cells[candidates[i]].IsMine = true
		// 選んだ候補は末尾と入れ替えて取り除く
		k--
		candidates[i] = candidates[k]
	}
	b.mineCount = count
}

// calculateNeighbors は全マスの NeighborCount を計算します
func (b *Board) calculateNeighbors() {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			count := 0
			b.eachNeighbor(x, y, func(nx, ny int) {
				if b.cells[b.index(nx, ny)].IsMine {
					count++
				}
			})
			b.cells[b.index(x, y)].NeighborCount = count
		}
	}
}

// eachNeighbor は盤面内の周囲8マスに対して fn を呼びます
func (b *Board) eachNeighbor(x, y int, fn func(nx, ny int)) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if b.InBounds(nx, ny) {
				fn(nx, ny)
			}
		}
	}
}

func (b *Board) index(x, y int) int {
	return y*b.width + x
}

func (b *Board) checkBounds(x, y int) error {
	if !b.InBounds(x, y) {
		return fmt.Errorf("(%d,%d) on %dx%d board: %w", x, y, b.width, b.height, ErrOutOfBounds)
	}
	return nil
}

// InBounds は座標が盤面内かどうかを返します
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

// MineCount は配置された地雷の総数です
func (b *Board) MineCount() int { return b.mineCount }

// TriggeredMines はこれまでに開けてしまった地雷の数です
func (b *Board) TriggeredMines() int { return b.triggered }

// RevealedCount は開いているマスの数です
func (b *Board) RevealedCount() int { return b.revealed }

// AllSafeRevealed は地雷以外のマスがすべて開いているかどうかを返します
// 地雷を開けていても判定には影響しません
func (b *Board) AllSafeRevealed() bool {
	return b.revealed-b.triggered == len(b.cells)-b.mineCount
}

// Cell は指定マスのコピーを返します
func (b *Board) Cell(x, y int) (Cell, error) {
	if err := b.checkBounds(x, y); err != nil {
		return Cell{}, err
	}
	return b.cells[b.index(x, y)], nil
}

// IsRevealed は指定マスが開いているかを返します
func (b *Board) IsRevealed(x, y int) (bool, error) {
	c, err := b.Cell(x, y)
	return c.IsRevealed, err
}

// IsMine は指定マスが地雷かを返します
func (b *Board) IsMine(x, y int) (bool, error) {
	c, err := b.Cell(x, y)
	return c.IsMine, err
}

// AdjacentCount は指定マスの周囲の地雷数を返します
func (b *Board) AdjacentCount(x, y int) (int, error) {
	c, err := b.Cell(x, y)
	return c.NeighborCount, err
}

// Mines は地雷の座標を行優先の順で返します
func (b *Board) Mines() []Point {
	mines := make([]Point, 0, b.mineCount)
	for i, c := range b.cells {
		if c.IsMine {
			mines = append(mines, Point{X: i % b.width, Y: i / b.width})
		}
	}
	return mines
}

// Fprint は現在の盤面を w に書き出します
// 未開封のマスは「-」、地雷は「*」、0は「.」、それ以外は数字を表示します
func (b *Board) Fprint(w io.Writer) error {
	_, err := io.WriteString(w, b.String())
	return err
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("   ")
	for x := 0; x < b.width; x++ {
		fmt.Fprintf(&sb, "%d ", x%10) // 列番号
	}
	sb.WriteString("\n")

	for y := 0; y < b.height; y++ {
		fmt.Fprintf(&sb, "%2d ", y) // 行番号
		for x := 0; x < b.width; x++ {
			cell := b.cells[b.index(x, y)]
			switch {
			case !cell.IsRevealed:
				sb.WriteString("- ")
			case cell.IsMine:
				sb.WriteString("* ") // 踏んでしまった地雷
			case cell.NeighborCount == 0:
				sb.WriteString(". ")
			default:
				fmt.Fprintf(&sb, "%d ", cell.NeighborCount)
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
