package ai

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jake-Purton/wasm-tt/game"
	"github.com/Jake-Purton/wasm-tt/session"
)

// centerWeights は中心マスの値をそのまま通すだけのネットワークです
func centerWeights() Weights {
	row := func(i int) []float64 {
		r := make([]float64, FeatureSize)
		r[i] = 1
		return r
	}
	return Weights{
		Fc1Weight: [][]float64{row(FeatureSize / 2), make([]float64, FeatureSize)},
		Fc1Bias:   []float64{0, 0},
		Fc2Weight: [][]float64{{1, 0}, {0, 1}},
		Fc2Bias:   []float64{0, 0},
		Fc3Weight: [][]float64{{1, 0}},
		Fc3Bias:   []float64{0},
	}
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestNetwork_Predict(t *testing.T) {
	net, err := NewNetwork(mustJSON(t, centerWeights()))
	require.NoError(t, err)

	input := make([]float64, FeatureSize)
	input[FeatureSize/2] = 2
	p, err := net.Predict(input)
	require.NoError(t, err)
	assert.InDelta(t, 1/(1+math.Exp(-2)), p, 1e-9)

	// ReLUで負の値は0になる
	input[FeatureSize/2] = -1
	p, err = net.Predict(input)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, p, 1e-9)

	_, err = net.Predict(input[:3])
	require.Error(t, err)
}

func TestNewNetwork_RejectsBadShapes(t *testing.T) {
	w := centerWeights()
	w.Fc2Weight = [][]float64{{1, 0, 0}}
	w.Fc2Bias = []float64{0}
	_, err := NewNetwork(mustJSON(t, w))
	require.Error(t, err)

	_, err = NewNetwork([]byte("{not json"))
	require.Error(t, err)
}

func TestLoadNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	require.NoError(t, os.WriteFile(path, mustJSON(t, centerWeights()), 0o600))

	net, err := LoadNetwork(path)
	require.NoError(t, err)
	assert.NotNil(t, net)

	_, err = LoadNetwork(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestFeatures(t *testing.T) {
	b, err := game.NewBoardFromMines(3, 3, []game.Point{{X: 2, Y: 2}})
	require.NoError(t, err)
	g := session.FromBoard(b)

	_, err = g.Open(1, 1)
	require.NoError(t, err)
	require.NoError(t, g.ToggleFlag(2, 2))

	f := Features(g, 0, 0)
	require.Len(t, f, FeatureSize)

	// 上2行と左2列は壁
	for i := 0; i < 10; i++ {
		assert.Equal(t, FeatureWall, f[i])
	}
	assert.Equal(t, FeatureHidden, f[12]) // (0,0)
	assert.Equal(t, 1.0, f[18])           // (1,1)
	assert.Equal(t, FeatureFlag, f[24])   // (2,2)
}
