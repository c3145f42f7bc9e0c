package solver

import (
	"github.com/Jake-Purton/wasm-tt/session"
)

// セグメントの未開封マスがこれより多いと探索しない
const maxSegmentUnknowns = 18

// TankSolver はバックトラック探索を行う構造体
type TankSolver struct {
	Game *session.Game
}

func NewTankSolver(g *session.Game) *TankSolver {
	return &TankSolver{Game: g}
}

// Solve はタンクアルゴリズムを実行し、確定した安全な手または地雷を返します
// 確定しない場合は一番安全そうなマスを返します
func (ts *TankSolver) Solve() *Move {
	// 1. 全ての境界マスと、それに関連する数字マスを特定してグループ化（連結成分分解）
	segments := ts.createSegments()

	var bestMove *Move
	bestProb := 1.0 // 1.0 = 地雷確率100% (最悪)

	// 各セグメントごとに独立して解く
	for _, seg := range segments {
		if len(seg.unknowns) > maxSegmentUnknowns {
			continue
		}

		solutions := ts.solveSegment(seg)
		if len(solutions) == 0 {
			continue // 解なし（矛盾）
		}

		// 各マスの地雷確率を計算
		counts := make([]int, len(seg.unknowns))
		for _, sol := range solutions {
			for i, isMine := range sol {
				if isMine {
					counts[i]++
				}
			}
		}

		total := float64(len(solutions))
		for i, count := range counts {
			prob := float64(count) / total
			p := seg.unknowns[i]

			// 確定安全 (0%)
			if prob == 0.0 {
				return &Move{X: p.x, Y: p.y, Type: MoveOpen, Strategy: "Tank", Confidence: 1.0}
			}
			// 確定地雷 (100%)
			if prob == 1.0 {
				return &Move{X: p.x, Y: p.y, Type: MoveFlag, Strategy: "Tank", Confidence: 1.0}
			}

			if prob < bestProb {
				bestProb = prob
				bestMove = &Move{
					X: p.x, Y: p.y,
					Type:       MoveOpen,
					Strategy:   "Tank(Prob)",
					Confidence: 1.0 - prob,
				}
			}
		}
	}

	return bestMove
}

// --- セグメント（連結成分）管理 ---

type segment struct {
	unknowns []pos  // このセグメントに含まれる未開封マス
	rules    []rule // このセグメント内の数字マス制約
}

type rule struct {
	cells []int // unknownsのインデックスのリスト
	mines int   // 必要な地雷数
}

func (ts *TankSolver) createSegments() []*segment {
	b := ts.Game.Board()
	w := b.Width()
	key := func(p pos) int { return p.y*w + p.x }

	// 1. 「数字マス」と「それに隣接する未開封マス」を集める
	unknownMap := make(map[int]pos)
	var keys []int // map の順序に依存しないよう出現順を保持
	var numbered []pos

	for y := 0; y < b.Height(); y++ {
		for x := 0; x < w; x++ {
			c, _ := b.Cell(x, y)
			if !c.IsRevealed || c.IsMine || c.NeighborCount == 0 {
				continue
			}
			_, flags, hidden := neighborsInfo(ts.Game, x, y)
			if flags == c.NeighborCount || len(hidden) == 0 {
				continue
			}
			for _, h := range hidden {
				if _, ok := unknownMap[key(h)]; !ok {
					unknownMap[key(h)] = h
					keys = append(keys, key(h))
				}
			}
			numbered = append(numbered, pos{x, y})
		}
	}

	// 2. 同じ数字マスに隣接する未開封マス同士を繋ぐ
	adj := make(map[int][]int)
	for _, n := range numbered {
		_, _, hidden := neighborsInfo(ts.Game, n.x, n.y)
		for i := 0; i < len(hidden)-1; i++ {
			for j := i + 1; j < len(hidden); j++ {
				u1, u2 := key(hidden[i]), key(hidden[j])
				adj[u1] = append(adj[u1], u2)
				adj[u2] = append(adj[u2], u1)
			}
		}
	}

	visited := make(map[int]bool)
	var segments []*segment

	for _, start := range keys {
		if visited[start] {
			continue
		}

		// BFSでグループ探索
		var group []int
		queue := []int{start}
		visited[start] = true
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			group = append(group, curr)
			for _, next := range adj[curr] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}

		seg := &segment{unknowns: make([]pos, len(group))}
		local := make(map[int]int, len(group))
		for i, k := range group {
			seg.unknowns[i] = unknownMap[k]
			local[k] = i
		}

		// ルール生成
		// 数字マスの未開封マスは全て同じセグメントに入っている
		for _, n := range numbered {
			_, flags, hidden := neighborsInfo(ts.Game, n.x, n.y)
			if _, ok := local[key(hidden[0])]; !ok {
				continue
			}
			c, _ := b.Cell(n.x, n.y)
			r := rule{cells: make([]int, len(hidden)), mines: c.NeighborCount - flags}
			for i, h := range hidden {
				r.cells[i] = local[key(h)]
			}
			seg.rules = append(seg.rules, r)
		}
		segments = append(segments, seg)
	}

	return segments
}

// --- 探索ロジック ---

func (ts *TankSolver) solveSegment(seg *segment) [][]bool {
	var solutions [][]bool
	config := make([]bool, len(seg.unknowns))
	ts.backtrack(seg, 0, config, &solutions)
	return solutions
}

func (ts *TankSolver) backtrack(seg *segment, index int, config []bool, solutions *[][]bool) {
	if index == len(seg.unknowns) {
		if isValid(seg, config, index, true) {
			sol := make([]bool, len(config))
			copy(sol, config)
			*solutions = append(*solutions, sol)
		}
		return
	}

	// 枝刈り
	if !isValid(seg, config, index, false) {
		return
	}

	// 仮定1: 地雷
	config[index] = true
	ts.backtrack(seg, index+1, config, solutions)

	// 仮定2: 安全
	config[index] = false
	ts.backtrack(seg, index+1, config, solutions)
}

// isValid は decided 個目までの仮定がルールに矛盾しないかを調べます
func isValid(seg *segment, config []bool, decided int, isFinal bool) bool {
	for _, r := range seg.rules {
		mines, open := 0, 0
		for _, idx := range r.cells {
			switch {
			case idx >= decided:
				open++
			case config[idx]:
				mines++
			}
		}

		if isFinal {
			// 最終チェック: 地雷数がぴったり一致すること
			if mines != r.mines {
				return false
			}
			continue
		}
		// 途中チェック: 多すぎる、または残りを全部地雷にしても足りない
		if mines > r.mines || mines+open < r.mines {
			return false
		}
	}
	return true
}
