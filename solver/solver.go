package solver

import (
	"math/rand/v2"

	"github.com/Jake-Purton/wasm-tt/ai"
	"github.com/Jake-Purton/wasm-tt/session"
)

type MoveType int

const (
	MoveOpen MoveType = iota
	MoveFlag
)

func (t MoveType) String() string {
	if t == MoveFlag {
		return "flag"
	}
	return "open"
}

func (t MoveType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

type Move struct {
	X          int      `json:"x"`
	Y          int      `json:"y"`
	Type       MoveType `json:"type"`
	IsGuess    bool     `json:"is_guess"`   // 運任せかどうか
	Strategy   string   `json:"strategy"`   // "Logic", "Tank", "AI", "Random"
	Confidence float64  `json:"confidence"` // 0.0 ~ 1.0 (安全確率)
}

type Solver struct {
	Game  *session.Game
	AiNet *ai.Network // nil ならAIは使わない
	rng   *rand.Rand
}

// New はソルバーを作ります。net と rng は nil でも構いません
func New(g *session.Game, net *ai.Network, rng *rand.Rand) *Solver {
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Solver{Game: g, AiNet: net, rng: rng}
}

// NextMove は次の一手を返します。打つ手がなければ nil です
func (s *Solver) NextMove() *Move {
	// 1. 論理的に「絶対に安全」
	if move := s.findSafeMove(); move != nil {
		return logicMove(move)
	}

	// 2. 論理的に「絶対に地雷」
	if move := s.findFlagMove(); move != nil {
		return logicMove(move)
	}

	// 3. タンクアルゴリズム
	if move := NewTankSolver(s.Game).Solve(); move != nil {
		if move.Confidence < 1.0 {
			move.IsGuess = true
		}
		return move
	}

	// 4. AI または ランダム
	move := s.findRandomMove()
	if move != nil {
		move.IsGuess = true
	}
	return move
}

// Apply は手を実行します
func (s *Solver) Apply(m *Move) error {
	if m.Type == MoveFlag {
		return s.Game.ToggleFlag(m.X, m.Y)
	}
	_, err := s.Game.Open(m.X, m.Y)
	return err
}

func logicMove(m *Move) *Move {
	m.IsGuess = false
	m.Strategy = "Logic"
	m.Confidence = 1.0
	return m
}

func (s *Solver) findSafeMove() *Move {
	b := s.Game.Board()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			cell, _ := b.Cell(x, y)
			if !cell.IsRevealed || cell.IsMine || cell.NeighborCount == 0 {
				continue
			}
			_, flags, hidden := neighborsInfo(s.Game, x, y)
			if flags == cell.NeighborCount && len(hidden) > 0 {
				target := hidden[0]
				return &Move{X: target.x, Y: target.y, Type: MoveOpen}
			}
		}
	}
	return nil
}

func (s *Solver) findFlagMove() *Move {
	b := s.Game.Board()
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			cell, _ := b.Cell(x, y)
			if !cell.IsRevealed || cell.IsMine || cell.NeighborCount == 0 {
				continue
			}
			totalHidden, _, hidden := neighborsInfo(s.Game, x, y)
			if totalHidden == cell.NeighborCount && len(hidden) > 0 {
				p := hidden[0]
				return &Move{X: p.x, Y: p.y, Type: MoveFlag}
			}
		}
	}
	return nil
}

func (s *Solver) findRandomMove() *Move {
	// AIが使える場合
	if s.AiNet != nil {
		bestProb := 1.0 // 地雷確率（低いほうが良い）
		var bestMove *Move

		for _, p := range s.unknownCells() {
			// Features は常に FeatureSize 個を返し、NewNetwork は入力幅 FeatureSize の重みしか受け付けない
			// それでも失敗したら途中の結果は使わずランダムにする
			prob, err := s.AiNet.Predict(ai.Features(s.Game, p.x, p.y))
			if err != nil {
				return s.findPureRandomMove()
			}
			// より安全なマスが見つかったら更新
			if prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					X: p.x, Y: p.y,
					Type:       MoveOpen,
					Strategy:   "AI",
					Confidence: 1.0 - prob,
				}
			}
		}
		if bestMove != nil {
			return bestMove
		}
	}

	return s.findPureRandomMove()
}

func (s *Solver) findPureRandomMove() *Move {
	candidates := s.unknownCells()
	if len(candidates) == 0 {
		return nil
	}
	choice := candidates[s.rng.IntN(len(candidates))]
	return &Move{
		X: choice.x, Y: choice.y,
		Type:       MoveOpen,
		Strategy:   "Random",
		Confidence: 0.0,
	}
}

// unknownCells は未開封かつフラッグなしのマスです
func (s *Solver) unknownCells() []pos {
	b := s.Game.Board()
	var out []pos
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if isUnknown(s.Game, x, y) {
				out = append(out, pos{x, y})
			}
		}
	}
	return out
}

type pos struct{ x, y int }

func isUnknown(g *session.Game, x, y int) bool {
	revealed, err := g.Board().IsRevealed(x, y)
	if err != nil || revealed {
		return false
	}
	flagged, _ := g.IsFlagged(x, y)
	return !flagged
}

// neighborsInfo は周囲の未開封マス数（フラッグ含む）、フラッグ数、フラッグのない未開封マスを返します
func neighborsInfo(g *session.Game, cx, cy int) (totalHidden int, flags int, hiddenList []pos) {
	b := g.Board()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := cx+dx, cy+dy
			neighbor, err := b.Cell(nx, ny)
			if err != nil || neighbor.IsRevealed {
				continue
			}
			totalHidden++
			if f, _ := g.IsFlagged(nx, ny); f {
				flags++
			} else {
				hiddenList = append(hiddenList, pos{nx, ny})
			}
		}
	}
	return
}
