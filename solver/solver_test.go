package solver

import (
	"encoding/json"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jake-Purton/wasm-tt/ai"
	"github.com/Jake-Purton/wasm-tt/game"
	"github.com/Jake-Purton/wasm-tt/session"
)

func newGame(t *testing.T, w, h int, mines ...game.Point) *session.Game {
	t.Helper()
	b, err := game.NewBoardFromMines(w, h, mines)
	require.NoError(t, err)
	return session.FromBoard(b)
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestNextMove_LogicFlag(t *testing.T) {
	g := newGame(t, 3, 1, game.Point{X: 0, Y: 0})
	_, err := g.Open(2, 0)
	require.NoError(t, err)

	m := New(g, nil, seeded()).NextMove()
	require.NotNil(t, m)
	assert.Equal(t, MoveFlag, m.Type)
	assert.Equal(t, "Logic", m.Strategy)
	assert.False(t, m.IsGuess)
	assert.Equal(t, 0, m.X)
}

func TestNextMove_LogicSafe(t *testing.T) {
	g := newGame(t, 4, 1, game.Point{X: 0, Y: 0})
	_, err := g.Open(1, 0)
	require.NoError(t, err)
	require.NoError(t, g.ToggleFlag(0, 0))

	m := New(g, nil, seeded()).NextMove()
	require.NotNil(t, m)
	assert.Equal(t, MoveOpen, m.Type)
	assert.Equal(t, "Logic", m.Strategy)
	assert.Equal(t, 2, m.X)
	assert.Equal(t, 1.0, m.Confidence)
}

func TestNextMove_TankProbability(t *testing.T) {
	g := newGame(t, 3, 3, game.Point{X: 2, Y: 2})
	_, err := g.Open(1, 1)
	require.NoError(t, err)

	m := New(g, nil, seeded()).NextMove()
	require.NotNil(t, m)
	assert.Equal(t, "Tank(Prob)", m.Strategy)
	assert.True(t, m.IsGuess)
	assert.InDelta(t, 7.0/8.0, m.Confidence, 1e-9)
}

func TestTankSolver_FindsForcedMine(t *testing.T) {
	// 1-2-1 パターン: 下段 (0,1) と (2,1) が地雷
	g := newGame(t, 3, 2, game.Point{X: 0, Y: 1}, game.Point{X: 2, Y: 1})
	for x := 0; x < 3; x++ {
		_, err := g.Open(x, 0)
		require.NoError(t, err)
	}

	m := NewTankSolver(g).Solve()
	require.NotNil(t, m)
	assert.Equal(t, "Tank", m.Strategy)
	assert.Equal(t, 1.0, m.Confidence)
	if m.Type == MoveFlag {
		mine, _ := g.Board().IsMine(m.X, m.Y)
		assert.True(t, mine)
	} else {
		assert.Equal(t, game.Point{X: 1, Y: 1}, game.Point{X: m.X, Y: m.Y})
	}
}

func TestNextMove_RandomOnFreshBoard(t *testing.T) {
	g := newGame(t, 4, 4, game.Point{X: 3, Y: 3})

	m := New(g, nil, seeded()).NextMove()
	require.NotNil(t, m)
	assert.Equal(t, "Random", m.Strategy)
	assert.True(t, m.IsGuess)
	assert.True(t, g.Board().InBounds(m.X, m.Y))
}

func TestNextMove_AIGuess(t *testing.T) {
	zeros := make([]float64, ai.FeatureSize)
	data, err := json.Marshal(ai.Weights{
		Fc1Weight: [][]float64{zeros},
		Fc1Bias:   []float64{0},
		Fc2Weight: [][]float64{{0}},
		Fc2Bias:   []float64{0},
		Fc3Weight: [][]float64{{0}},
		Fc3Bias:   []float64{-1},
	})
	require.NoError(t, err)
	net, err := ai.NewNetwork(data)
	require.NoError(t, err)

	g := newGame(t, 4, 4, game.Point{X: 3, Y: 3})
	m := New(g, net, seeded()).NextMove()
	require.NotNil(t, m)
	assert.Equal(t, "AI", m.Strategy)
	assert.Equal(t, 0, m.X)
	assert.Equal(t, 0, m.Y)
	assert.True(t, m.IsGuess)
}

func TestNetwork_AcceptsFeaturesOfEveryCell(t *testing.T) {
	data, err := json.Marshal(ai.Weights{
		Fc1Weight: [][]float64{make([]float64, ai.FeatureSize)},
		Fc1Bias:   []float64{0},
		Fc2Weight: [][]float64{{0}},
		Fc2Bias:   []float64{0},
		Fc3Weight: [][]float64{{0}},
		Fc3Bias:   []float64{0},
	})
	require.NoError(t, err)
	net, err := ai.NewNetwork(data)
	require.NoError(t, err)

	for _, size := range [][2]int{{1, 2}, {2, 1}, {3, 3}, {7, 4}} {
		g := newGame(t, size[0], size[1], game.Point{X: 0, Y: 0})
		for y := 0; y < size[1]; y++ {
			for x := 0; x < size[0]; x++ {
				_, err := net.Predict(ai.Features(g, x, y))
				require.NoError(t, err, "%dx%d at (%d,%d)", size[0], size[1], x, y)
			}
		}
	}
}

func TestSolver_PlaysToTheEnd(t *testing.T) {
	for seed := uint64(0); seed < 10; seed++ {
		g, err := session.NewGame(session.Params{Width: 9, Height: 9, Mines: 10, Seed: &seed})
		require.NoError(t, err)
		s := New(g, nil, rand.New(rand.NewPCG(seed, seed)))

		for i := 0; i < 500 && g.Status() == session.StatusPlaying; i++ {
			m := s.NextMove()
			if m == nil {
				break
			}
			require.NoError(t, s.Apply(m))
		}
		assert.NotEqual(t, session.StatusPlaying, g.Status(), "seed %d", seed)
	}
}
