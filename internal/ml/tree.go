package ml

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Node is a single decision tree node. Exported fields so the trained tree
// survives a gob round trip.
type Node struct {
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
	IsLeaf    bool
	// Probs is the class distribution of training samples reaching the leaf.
	Probs []float64
}

// Tree is a single randomized CART tree over binary features.
type Tree struct {
	Root       *Node
	NumClasses int
}

type treeParams struct {
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
	numClasses      int
}

// fitTree grows a tree on the rows of X selected by idx.
func fitTree(X *mat.Dense, y []int, idx []int, p treeParams, rng *rand.Rand) *Tree {
	t := &Tree{NumClasses: p.numClasses}
	t.Root = buildNode(X, y, idx, p, rng, 0)
	return t
}

func buildNode(X *mat.Dense, y []int, idx []int, p treeParams, rng *rand.Rand, depth int) *Node {
	counts := classCounts(y, idx, p.numClasses)

	if depth >= p.maxDepth || len(idx) < p.minSamplesSplit || isPure(counts) {
		return leaf(counts, len(idx))
	}

	feature, threshold, ok := bestSplit(X, y, idx, p, rng)
	if !ok {
		return leaf(counts, len(idx))
	}

	var left, right []int
	for _, i := range idx {
		if X.At(i, feature) <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf(counts, len(idx))
	}

	return &Node{
		Feature:   feature,
		Threshold: threshold,
		Left:      buildNode(X, y, left, p, rng, depth+1),
		Right:     buildNode(X, y, right, p, rng, depth+1),
	}
}

// bestSplit searches a random feature subset for the split with the lowest
// weighted gini impurity. Features are binary, so the only useful threshold
// is 0.5.
func bestSplit(X *mat.Dense, y []int, idx []int, p treeParams, rng *rand.Rand) (int, float64, bool) {
	_, cols := X.Dims()
	features := rng.Perm(cols)
	if p.maxFeatures > 0 && p.maxFeatures < len(features) {
		features = features[:p.maxFeatures]
	}

	const threshold = 0.5
	bestGini := math.Inf(1)
	bestFeature := -1

	leftCounts := make([]int, p.numClasses)
	rightCounts := make([]int, p.numClasses)

	for _, f := range features {
		for i := range leftCounts {
			leftCounts[i], rightCounts[i] = 0, 0
		}
		nLeft, nRight := 0, 0
		for _, i := range idx {
			if X.At(i, f) <= threshold {
				leftCounts[y[i]]++
				nLeft++
			} else {
				rightCounts[y[i]]++
				nRight++
			}
		}
		if nLeft == 0 || nRight == 0 {
			continue
		}

		total := float64(nLeft + nRight)
		g := float64(nLeft)/total*gini(leftCounts, nLeft) + float64(nRight)/total*gini(rightCounts, nRight)
		if g < bestGini {
			bestGini = g
			bestFeature = f
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, threshold, true
}

func gini(counts []int, n int) float64 {
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}

func classCounts(y []int, idx []int, numClasses int) []int {
	counts := make([]int, numClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func isPure(counts []int) bool {
	seen := 0
	for _, c := range counts {
		if c > 0 {
			seen++
		}
	}
	return seen <= 1
}

func leaf(counts []int, n int) *Node {
	probs := make([]float64, len(counts))
	if n > 0 {
		for i, c := range counts {
			probs[i] = float64(c) / float64(n)
		}
	}
	return &Node{IsLeaf: true, Probs: probs}
}

// predictProba walks the tree for one sample.
func (t *Tree) predictProba(x []float64) []float64 {
	node := t.Root
	for !node.IsLeaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Probs
}
