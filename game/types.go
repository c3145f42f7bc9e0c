package game

// 標準構成（16x16, 地雷40個）
const (
	DefaultWidth     = 16
	DefaultHeight    = 16
	DefaultMineCount = 40
)

// Point は盤面上の座標です
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Cell は1つのマスの情報を持ちます
type Cell struct {
	IsMine        bool // 地雷かどうか（生成後は不変）
	IsRevealed    bool // すでに開けられたか（一度trueになったら戻らない）
	NeighborCount int  // 周囲8マスにある地雷の数（生成後は不変）
}

// Board はゲーム盤面全体を持ちます
// Reveal 中は排他アクセスが必要です。内部でロックは取りません。
type Board struct {
	width     int
	height    int
	cells     []Cell // y*width+x の1次元配列
	mineCount int
	triggered int // 開けてしまった地雷の数
	revealed  int
}

// OutcomeKind は Reveal の結果の種類です
type OutcomeKind int

const (
	OutcomeAlreadyRevealed OutcomeKind = iota
	OutcomeMineTriggered
	OutcomeRevealed
	OutcomeExpanded
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAlreadyRevealed:
		return "already_revealed"
	case OutcomeMineTriggered:
		return "mine_triggered"
	case OutcomeRevealed:
		return "revealed"
	case OutcomeExpanded:
		return "expanded"
	default:
		return "unknown"
	}
}

// RevealOutcome は Reveal で何が起きたかを表します
// Cells は今回新しく開いたマスです（AlreadyRevealed のときは空）
type RevealOutcome struct {
	Kind  OutcomeKind
	Cells []Point
}
