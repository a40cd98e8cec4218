// Package ml implements a bagged ensemble of randomized decision trees with
// multi-class probabilistic output. Training is deterministic under a fixed
// seed: every tree derives its own rand source from seed+treeIndex, so the
// result does not depend on goroutine scheduling.
package ml

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ForestConfig controls ensemble training.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
}

// DefaultForestConfig mirrors the settings the model was validated with.
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		Trees:           150,
		MaxDepth:        24,
		MinSamplesSplit: 2,
		Seed:            42,
	}
}

// Forest is a trained bagged tree ensemble.
type Forest struct {
	Trees       []*Tree
	NumClasses  int
	NumFeatures int
	Config      ForestConfig
}

// Fit trains the ensemble on design matrix X and encoded labels y.
// Each tree sees a bootstrap sample of the rows and sqrt(F) random features
// per split.
func Fit(X *mat.Dense, y []int, cfg ForestConfig) (*Forest, error) {
	rows, cols := X.Dims()
	if rows == 0 || cols == 0 {
		return nil, errors.New("empty design matrix")
	}
	if len(y) != rows {
		return nil, fmt.Errorf("labels length %d does not match %d rows", len(y), rows)
	}
	if cfg.Trees < 1 {
		return nil, errors.New("at least one tree required")
	}

	numClasses := 0
	for _, label := range y {
		if label < 0 {
			return nil, fmt.Errorf("negative class label %d", label)
		}
		if label+1 > numClasses {
			numClasses = label + 1
		}
	}

	params := treeParams{
		maxDepth:        cfg.MaxDepth,
		minSamplesSplit: cfg.MinSamplesSplit,
		maxFeatures:     int(math.Ceil(math.Sqrt(float64(cols)))),
		numClasses:      numClasses,
	}

	forest := &Forest{
		Trees:       make([]*Tree, cfg.Trees),
		NumClasses:  numClasses,
		NumFeatures: cols,
		Config:      cfg,
	}

	var wg sync.WaitGroup
	for i := 0; i < cfg.Trees; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
			idx := make([]int, rows)
			for j := range idx {
				idx[j] = rng.Intn(rows)
			}
			forest.Trees[i] = fitTree(X, y, idx, params, rng)
		}(i)
	}
	wg.Wait()

	return forest, nil
}

// PredictProba returns the class probability distribution for one sample,
// averaged over all trees. The result sums to 1 within floating-point
// tolerance.
func (f *Forest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.NumFeatures {
		return nil, fmt.Errorf("sample has %d features, model expects %d", len(x), f.NumFeatures)
	}

	probs := make([]float64, f.NumClasses)
	for _, t := range f.Trees {
		leaf := t.predictProba(x)
		for c, p := range leaf {
			probs[c] += p
		}
	}
	n := float64(len(f.Trees))
	for c := range probs {
		probs[c] /= n
	}
	return probs, nil
}

// Validate checks structural sanity after loading a persisted model.
func (f *Forest) Validate() error {
	if len(f.Trees) == 0 {
		return errors.New("forest has no trees")
	}
	if f.NumClasses < 2 {
		return fmt.Errorf("forest has %d classes", f.NumClasses)
	}
	if f.NumFeatures < 1 {
		return errors.New("forest has no features")
	}
	for i, t := range f.Trees {
		if t == nil || t.Root == nil {
			return fmt.Errorf("tree %d is empty", i)
		}
	}
	return nil
}
