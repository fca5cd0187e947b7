package ai

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

// identity-ish network: 2 inputs, one hidden unit per layer.
const tinyWeights = `{
	"fc1_weight": [[1, -1]], "fc1_bias": [0],
	"fc2_weight": [[2]],     "fc2_bias": [0],
	"fc3_weight": [[1]],     "fc3_bias": [-1]
}`

func TestPredict(t *testing.T) {
	n, err := NewNetwork([]byte(tinyWeights))
	if err != nil {
		t.Fatal(err)
	}
	if n.Inputs() != 2 {
		t.Fatalf("Inputs = %d", n.Inputs())
	}

	tests := []struct {
		input []float64
		want  float64
	}{
		{[]float64{1, 0}, sigmoid(1)},  // relu(1)*2 - 1
		{[]float64{0, 1}, sigmoid(-1)}, // hidden unit clipped to 0
		{[]float64{0.5, 0}, 0.5},
	}
	for _, tt := range tests {
		got, err := n.Predict(tt.input)
		if err != nil {
			t.Fatalf("Predict(%v): %v", tt.input, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("Predict(%v) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestPredictRejectsWrongInputSize(t *testing.T) {
	n, err := NewNetwork([]byte(tinyWeights))
	if err != nil {
		t.Fatal(err)
	}
	for _, input := range [][]float64{nil, {1}, {1, 2, 3}, make([]float64, 25)} {
		if _, err := n.Predict(input); !errors.Is(err, ErrShape) {
			t.Fatalf("Predict(%d inputs) err = %v, want ErrShape", len(input), err)
		}
	}
}

func TestNewNetworkRejectsBadShapes(t *testing.T) {
	tests := map[string]string{
		"missing layer":  `{"fc1_weight": [[1]], "fc1_bias": [0]}`,
		"bias mismatch":  `{"fc1_weight": [[1]], "fc1_bias": [0, 1], "fc2_weight": [[1]], "fc2_bias": [0], "fc3_weight": [[1]], "fc3_bias": [0]}`,
		"layer mismatch": `{"fc1_weight": [[1]], "fc1_bias": [0], "fc2_weight": [[1, 1]], "fc2_bias": [0], "fc3_weight": [[1]], "fc3_bias": [0]}`,
		"two outputs":    `{"fc1_weight": [[1]], "fc1_bias": [0], "fc2_weight": [[1]], "fc2_bias": [0], "fc3_weight": [[1], [1]], "fc3_bias": [0, 0]}`,
		"ragged rows":    `{"fc1_weight": [[1, 2], [1]], "fc1_bias": [0, 0], "fc2_weight": [[1, 1]], "fc2_bias": [0], "fc3_weight": [[1]], "fc3_bias": [0]}`,
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := NewNetwork([]byte(data)); !errors.Is(err, ErrShape) {
				t.Fatalf("err = %v, want ErrShape", err)
			}
		})
	}

	if _, err := NewNetwork([]byte("{")); err == nil {
		t.Fatal("invalid JSON accepted")
	}
}

func TestLoadNetwork(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.json")
	if err := os.WriteFile(path, []byte(tinyWeights), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadNetwork(path); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadNetwork(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file accepted")
	}
}
