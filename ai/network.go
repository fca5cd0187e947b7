// Package ai は未開封マスの地雷確率を推定する小さなネットワークを実行します
package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
)

// ErrShape は重みや入力の形が合わないときのエラー
var ErrShape = errors.New("inconsistent network weights")

// Weights は重みデータの構造体（学習スクリプトが出力するJSONと同じ構造）
type Weights struct {
	Fc1Weight [][]float64 `json:"fc1_weight"`
	Fc1Bias   []float64   `json:"fc1_bias"`
	Fc2Weight [][]float64 `json:"fc2_weight"`
	Fc2Bias   []float64   `json:"fc2_bias"`
	Fc3Weight [][]float64 `json:"fc3_weight"`
	Fc3Bias   []float64   `json:"fc3_bias"`
}

// Network は推論を行うための構造体（ReLU の3層パーセプトロン）
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

// LoadNetwork はJSONファイルから重みを読み込みます
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weights: %w", err)
	}
	return NewNetwork(data)
}

// Inputs は入力の数
func (n *Network) Inputs() int {
	return len(n.w.Fc1Weight[0])
}

// Predict は入力（マス周辺のエンコード）を受け取り、地雷確率(0.0~1.0)を返します。
// 入力の数が Inputs と違う場合は ErrShape
func (n *Network) Predict(input []float64) (float64, error) {
	if len(input) != n.Inputs() {
		return 0, fmt.Errorf("%w: got %d inputs, want %d", ErrShape, len(input), n.Inputs())
	}
	// Layer 1
	out1 := relu(addBias(matVecMul(n.w.Fc1Weight, input), n.w.Fc1Bias))
	// Layer 2
	out2 := relu(addBias(matVecMul(n.w.Fc2Weight, out1), n.w.Fc2Bias))
	// Layer 3 (Output)
	out3 := addBias(matVecMul(n.w.Fc3Weight, out2), n.w.Fc3Bias)
	// Sigmoidで0~1の確率に変換
	return sigmoid(out3[0]), nil
}

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
	prev := -1
	for _, l := range layers {
		if len(l.weight) == 0 || len(l.weight) != len(l.bias) {
			return fmt.Errorf("%w: %s has %d rows and %d biases", ErrShape, l.name, len(l.weight), len(l.bias))
		}
		cols := len(l.weight[0])
		for _, row := range l.weight {
			if len(row) != cols || cols == 0 {
				return fmt.Errorf("%w: %s rows differ in length", ErrShape, l.name)
			}
		}
		if prev != -1 && cols != prev {
			return fmt.Errorf("%w: %s expects %d inputs, previous layer gives %d", ErrShape, l.name, cols, prev)
		}
		prev = len(l.weight)
	}
	if prev != 1 {
		return fmt.Errorf("%w: output layer has %d units", ErrShape, prev)
	}
	return nil
}

// 行列とベクトルの掛け算
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

// バイアスの加算
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
