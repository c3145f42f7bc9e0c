package ai

import "github.com/Jake-Purton/wasm-tt/session"

// 周囲5x5マスの特徴量
const (
	FeatureRadius = 2
	FeatureSize   = (2*FeatureRadius + 1) * (2*FeatureRadius + 1)

	FeatureWall   = 9.0  // 範囲外(壁)
	FeatureFlag   = -2.0 // 旗
	FeatureHidden = -1.0 // 未開封
)

// Features は (tx, ty) を中心にした 5x5 の盤面情報を返します
// 開いているマスは周囲の地雷数になります
func Features(g *session.Game, tx, ty int) []float64 {
	b := g.Board()
	input := make([]float64, 0, FeatureSize)
	for dy := -FeatureRadius; dy <= FeatureRadius; dy++ {
		for dx := -FeatureRadius; dx <= FeatureRadius; dx++ {
			nx, ny := tx+dx, ty+dy
			cell, err := b.Cell(nx, ny)
			if err != nil {
				input = append(input, FeatureWall)
				continue
			}

			switch {
			case cell.IsRevealed:
				input = append(input, float64(cell.NeighborCount))
			case isFlagged(g, nx, ny):
				input = append(input, FeatureFlag)
			default:
				input = append(input, FeatureHidden)
			}
		}
	}
	return input
}

func isFlagged(g *session.Game, x, y int) bool {
	f, _ := g.IsFlagged(x, y)
	return f
}
