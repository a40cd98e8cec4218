package triage

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Synthesize generates the labeled training set. Users report subsets of a
// disease's canonical symptoms, never the full set and never symptoms
// outside it, so each disease contributes samplesPerDisease partial
// observations: a uniform subset size k in [1, n] and a random k-element
// subset of the disease's true symptoms, one-hot encoded over the
// vocabulary. No negative sampling and no cross-disease symptom injection.
//
// Diseases are iterated in sorted order and all randomness comes from rng,
// so a fixed seed reproduces the exact design matrix.
func Synthesize(kb *KnowledgeBase, vocab *Vocabulary, samplesPerDisease int, rng *rand.Rand) (*mat.Dense, []string, error) {
	if samplesPerDisease < 1 {
		return nil, nil, fmt.Errorf("samplesPerDisease must be >= 1, got %d", samplesPerDisease)
	}
	if kb.Len() == 0 || vocab.Len() == 0 {
		return nil, nil, fmt.Errorf("empty knowledge base or vocabulary")
	}

	rows := kb.Len() * samplesPerDisease
	X := mat.NewDense(rows, vocab.Len(), nil)
	labels := make([]string, 0, rows)

	row := 0
	for _, disease := range kb.Diseases() {
		symptoms := kb.Symptoms(disease)
		n := len(symptoms)

		for s := 0; s < samplesPerDisease; s++ {
			k := 1 + rng.Intn(n)
			for _, pick := range rng.Perm(n)[:k] {
				if i, ok := vocab.Index(symptoms[pick]); ok {
					X.Set(row, i, 1)
				}
			}
			labels = append(labels, disease)
			row++
		}
	}

	return X, labels, nil
}
