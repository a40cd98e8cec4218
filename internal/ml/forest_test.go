package ml

import (
	"bytes"
	"encoding/gob"
	"math"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// separableSet builds a three-class dataset where each class occupies its
// own block of binary features.
func separableSet(perClass int) (*mat.Dense, []int) {
	const features = 9
	rows := 3 * perClass
	X := mat.NewDense(rows, features, nil)
	y := make([]int, rows)

	for class := 0; class < 3; class++ {
		for s := 0; s < perClass; s++ {
			row := class*perClass + s
			// Vary which of the class's features are set.
			for f := 0; f < 3; f++ {
				if (s+f)%3 != 0 {
					X.Set(row, class*3+f, 1)
				}
			}
			X.Set(row, class*3+s%3, 1)
			y[row] = class
		}
	}
	return X, y
}

func TestFitLearnsSeparableClasses(t *testing.T) {
	X, y := separableSet(30)
	forest, err := Fit(X, y, ForestConfig{Trees: 30, MaxDepth: 10, MinSamplesSplit: 2, Seed: 42})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	tests := []struct {
		name   string
		sample []float64
		want   int
	}{
		{"class 0", []float64{1, 1, 1, 0, 0, 0, 0, 0, 0}, 0},
		{"class 1", []float64{0, 0, 0, 1, 1, 1, 0, 0, 0}, 1},
		{"class 2", []float64{0, 0, 0, 0, 0, 0, 1, 1, 1}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probs, err := forest.PredictProba(tt.sample)
			if err != nil {
				t.Fatalf("PredictProba failed: %v", err)
			}
			best := 0
			for c := range probs {
				if probs[c] > probs[best] {
					best = c
				}
			}
			if best != tt.want {
				t.Errorf("Predicted class %d, want %d (probs %v)", best, tt.want, probs)
			}
		})
	}
}

func TestPredictProbaSumsToOne(t *testing.T) {
	X, y := separableSet(20)
	forest, err := Fit(X, y, ForestConfig{Trees: 20, MaxDepth: 8, MinSamplesSplit: 2, Seed: 7})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	samples := [][]float64{
		{1, 0, 1, 0, 0, 0, 0, 0, 0},
		{0, 0, 0, 0, 1, 0, 0, 1, 0},
		{0, 0, 0, 0, 0, 0, 0, 0, 0},
	}
	for _, s := range samples {
		probs, err := forest.PredictProba(s)
		if err != nil {
			t.Fatalf("PredictProba failed: %v", err)
		}
		sum := 0.0
		for _, p := range probs {
			if p < 0 || p > 1 {
				t.Errorf("Probability out of range: %f", p)
			}
			sum += p
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("Probabilities sum to %f, want 1", sum)
		}
	}
}

func TestFitDeterministicUnderSeed(t *testing.T) {
	X, y := separableSet(20)
	cfg := ForestConfig{Trees: 15, MaxDepth: 8, MinSamplesSplit: 2, Seed: 42}

	a, err := Fit(X, y, cfg)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	b, err := Fit(X, y, cfg)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	sample := []float64{1, 1, 0, 0, 0, 1, 0, 0, 0}
	pa, _ := a.PredictProba(sample)
	pb, _ := b.PredictProba(sample)
	if !reflect.DeepEqual(pa, pb) {
		t.Errorf("Identical seeds produced different models: %v vs %v", pa, pb)
	}
}

func TestFitRejectsBadInput(t *testing.T) {
	X, y := separableSet(5)

	if _, err := Fit(X, y[:3], ForestConfig{Trees: 5, MaxDepth: 4, MinSamplesSplit: 2, Seed: 1}); err == nil {
		t.Error("Expected error for mismatched label length")
	}
	if _, err := Fit(X, y, ForestConfig{Trees: 0, MaxDepth: 4, MinSamplesSplit: 2, Seed: 1}); err == nil {
		t.Error("Expected error for zero trees")
	}
	if _, err := Fit(mat.NewDense(1, 1, []float64{0}), []int{-1}, ForestConfig{Trees: 1, MaxDepth: 4, MinSamplesSplit: 2, Seed: 1}); err == nil {
		t.Error("Expected error for negative label")
	}
}

func TestPredictProbaDimensionMismatch(t *testing.T) {
	X, y := separableSet(5)
	forest, err := Fit(X, y, ForestConfig{Trees: 5, MaxDepth: 4, MinSamplesSplit: 2, Seed: 1})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	if _, err := forest.PredictProba([]float64{1, 0}); err == nil {
		t.Error("Expected error for wrong feature count")
	}
}

func TestForestGobRoundTrip(t *testing.T) {
	X, y := separableSet(15)
	forest, err := Fit(X, y, ForestConfig{Trees: 10, MaxDepth: 6, MinSamplesSplit: 2, Seed: 42})
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(forest); err != nil {
		t.Fatalf("gob encode failed: %v", err)
	}

	var restored Forest
	if err := gob.NewDecoder(&buf).Decode(&restored); err != nil {
		t.Fatalf("gob decode failed: %v", err)
	}
	if err := restored.Validate(); err != nil {
		t.Fatalf("Restored forest invalid: %v", err)
	}

	sample := []float64{1, 1, 1, 0, 0, 0, 0, 0, 0}
	before, _ := forest.PredictProba(sample)
	after, _ := restored.PredictProba(sample)
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Predictions changed across gob: %v vs %v", before, after)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		forest  *Forest
		wantErr bool
	}{
		{"no trees", &Forest{NumClasses: 2, NumFeatures: 3}, true},
		{"one class", &Forest{Trees: []*Tree{{Root: &Node{IsLeaf: true}}}, NumClasses: 1, NumFeatures: 3}, true},
		{"no features", &Forest{Trees: []*Tree{{Root: &Node{IsLeaf: true}}}, NumClasses: 2, NumFeatures: 0}, true},
		{"nil tree", &Forest{Trees: []*Tree{nil}, NumClasses: 2, NumFeatures: 3}, true},
		{"valid", &Forest{Trees: []*Tree{{Root: &Node{IsLeaf: true}}}, NumClasses: 2, NumFeatures: 3}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.forest.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
