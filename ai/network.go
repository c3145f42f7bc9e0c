package ai

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// 重みデータの構造体（JSONと同じ構造）
type Weights struct {
	Fc1Weight [][]float64 `json:"fc1_weight"`
	Fc1Bias   []float64   `json:"fc1_bias"`
	Fc2Weight [][]float64 `json:"fc2_weight"`
	Fc2Bias   []float64   `json:"fc2_bias"`
	Fc3Weight [][]float64 `json:"fc3_weight"`
	Fc3Bias   []float64   `json:"fc3_bias"`
}

// Network は推論を行うための構造体
type Network struct {
	w Weights
}

// NewNetwork はJSONデータからネットワークを初期化します
func NewNetwork(jsonData []byte) (*Network, error) {
	var w Weights
	if err := json.Unmarshal(jsonData, &w); err != nil {
		return nil, fmt.Errorf("decode weights: %w", err)
	}
	if err := w.validate(); err != nil {
		return nil, err
	}
	return &Network{w: w}, nil
}

// LoadNetwork は重みファイルを読み込みます
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return NewNetwork(data)
}

// validate は層の形が繋がっているかを確認します
func (w Weights) validate() error {
	layers := []struct {
		name   string
		weight [][]float64
		bias   []float64
	}{
		{"fc1", w.Fc1Weight, w.Fc1Bias},
		{"fc2", w.Fc2Weight, w.Fc2Bias},
		{"fc3", w.Fc3Weight, w.Fc3Bias},
	}

	in := FeatureSize
	for _, l := range layers {
		if len(l.weight) == 0 || len(l.weight) != len(l.bias) {
			return fmt.Errorf("%s: %d rows, %d biases", l.name, len(l.weight), len(l.bias))
		}
		for _, row := range l.weight {
			if len(row) != in {
				return fmt.Errorf("%s: row width %d, want %d", l.name, len(row), in)
			}
		}
		in = len(l.weight)
	}
	if in != 1 {
		return fmt.Errorf("fc3: %d outputs, want 1", in)
	}
	return nil
}

// Predict は入力(25個の数値)を受け取り、地雷確率(0.0~1.0)を返します
func (n *Network) Predict(input []float64) (float64, error) {
	if len(input) != FeatureSize {
		return 0, fmt.Errorf("input size %d, want %d", len(input), FeatureSize)
	}

	// Layer 1
	out1 := matVecMul(n.w.Fc1Weight, input)
	out1 = addBias(out1, n.w.Fc1Bias)
	out1 = relu(out1)

	// Layer 2
	out2 := matVecMul(n.w.Fc2Weight, out1)
	out2 = addBias(out2, n.w.Fc2Bias)
	out2 = relu(out2)

	// Layer 3 (Output)
	out3 := matVecMul(n.w.Fc3Weight, out2)
	out3 = addBias(out3, n.w.Fc3Bias)

	// Sigmoidで0~1の確率に変換
	return sigmoid(out3[0]), nil
}

// --- 以下、行列演算などのヘルパー関数 ---

func matVecMul(mat [][]float64, vec []float64) []float64 {
	result := make([]float64, len(mat))
	for i, row := range mat {
		sum := 0.0
		for j, v := range row {
			sum += v * vec[j]
		}
		result[i] = sum
	}
	return result
}

func addBias(vec []float64, bias []float64) []float64 {
	result := make([]float64, len(vec))
	for i := range vec {
		result[i] = vec[i] + bias[i]
	}
	return result
}

func relu(vec []float64) []float64 {
	result := make([]float64, len(vec))
	for i, v := range vec {
		result[i] = math.Max(v, 0)
	}
	return result
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
