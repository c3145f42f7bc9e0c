package game

// Reveal は指定された座標のマスを開けます
// 範囲外なら何も変更せずに ErrOutOfBounds を返します
func (b *Board) Reveal(x, y int) (RevealOutcome, error) {
	// 1. 範囲外チェック（書き込み前）
	if err := b.checkBounds(x, y); err != nil {
		return RevealOutcome{}, err
	}

	cell := &b.cells[b.index(x, y)]

	// 2. すでに開いているなら何もしない
	if cell.IsRevealed {
		return RevealOutcome{Kind: OutcomeAlreadyRevealed}, nil
	}

	// 3. 開ける
	b.markRevealed(cell)
	opened := []Point{{X: x, Y: y}}

	// 4. 地雷判定（地雷は連鎖しない）
	if cell.IsMine {
		b.triggered++
		return RevealOutcome{Kind: OutcomeMineTriggered, Cells: opened}, nil
	}

	if cell.NeighborCount > 0 {
		return RevealOutcome{Kind: OutcomeRevealed, Cells: opened}, nil
	}

	// 5. 0連鎖（Flood Fill）
	// 再帰ではなくスタックで処理する
	stack := []Point{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		b.eachNeighbor(p.X, p.Y, func(nx, ny int) {
			n := &b.cells[b.index(nx, ny)]
			if n.IsRevealed || n.IsMine {
				return
			}
			b.markRevealed(n)
			opened = append(opened, Point{X: nx, Y: ny})
			// 境界の数字マスは開けるだけで広げない
			if n.NeighborCount == 0 {
				stack = append(stack, Point{X: nx, Y: ny})
			}
		})
	}

	return RevealOutcome{Kind: OutcomeExpanded, Cells: opened}, nil
}

func (b *Board) markRevealed(c *Cell) {
	c.IsRevealed = true
	b.revealed++
}
