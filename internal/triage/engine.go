package triage

import (
	"math"
	"sort"

	"github.com/vietcare/platform/internal/ml"
	"github.com/vietcare/platform/internal/shared/errors"
)

// topK is the maximum number of predictions returned per request.
const topK = 3

// missingCap bounds the Missing list of each prediction.
const missingCap = 7

// Prediction is one ranked candidate disease. Field names match the wire
// contract consumed by the frontend.
type Prediction struct {
	Disease     string   `json:"Disease"`
	Confidence  float64  `json:"Confidence"`
	Specialist  string   `json:"Specialist"`
	Description string   `json:"Description"`
	Missing     []string `json:"Missing"`
}

// InferenceResult carries the ranked predictions plus per-request input
// statistics.
type InferenceResult struct {
	Results []Prediction
	// UnknownDropped counts input symptoms silently ignored as
	// out-of-vocabulary.
	UnknownDropped int
}

// Engine answers triage requests against immutable trained artifacts. It
// holds no mutable state and is safe for unsynchronized concurrent use.
type Engine struct {
	vocab    *Vocabulary
	kb       *KnowledgeBase
	codec    *LabelCodec
	model    *ml.Forest
	resolver *Resolver

	// strictFilter drops predicted diseases whose ground-truth symptoms do
	// not cover the input. Off by default: the statistical ranking is
	// trusted over strict containment, trading precision for recall.
	strictFilter bool
}

// NewEngine assembles an engine from loaded artifacts. Artifact consistency
// is the loader's responsibility (see LoadArtifacts).
func NewEngine(vocab *Vocabulary, kb *KnowledgeBase, codec *LabelCodec, model *ml.Forest, resolver *Resolver, strictFilter bool) *Engine {
	return &Engine{
		vocab:        vocab,
		kb:           kb,
		codec:        codec,
		model:        model,
		resolver:     resolver,
		strictFilter: strictFilter,
	}
}

// Vocabulary exposes the engine's symptom vocabulary.
func (e *Engine) Vocabulary() *Vocabulary { return e.vocab }

// KnowledgeBase exposes the engine's disease knowledge base.
func (e *Engine) KnowledgeBase() *KnowledgeBase { return e.kb }

// Infer ranks up to three candidate diseases for the given raw symptoms.
// Inputs are trimmed; out-of-vocabulary tokens are dropped silently. An
// input that is empty after normalization yields ErrEmptyInput.
func (e *Engine) Infer(symptoms []string) (*InferenceResult, error) {
	vec, input, unknown := e.vocab.Encode(symptoms)
	if len(input) == 0 && unknown == 0 {
		return nil, errors.EmptyInput()
	}

	probs, err := e.model.PredictProba(vec)
	if err != nil {
		return nil, errors.Wrap(err, "classifier query failed")
	}

	// Rank classes by probability descending; ties broken by lower class
	// index, keeping the ordering deterministic and reproducible.
	order := make([]int, len(probs))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if probs[order[a]] != probs[order[b]] {
			return probs[order[a]] > probs[order[b]]
		}
		return order[a] < order[b]
	})

	results := make([]Prediction, 0, topK)
	for _, idx := range order {
		if len(results) == topK {
			break
		}

		disease, err := e.codec.Decode(idx)
		if err != nil {
			// Only possible with a mispaired model+codec; treated as
			// artifact corruption.
			return nil, errors.Wrap(err, "artifact corruption detected")
		}

		truth := e.kb.SymptomSet(disease)

		if e.strictFilter && !covers(truth, input) {
			continue
		}

		results = append(results, Prediction{
			Disease:     disease,
			Confidence:  round2(probs[idx] * 100),
			Specialist:  e.resolver.Specialist(disease),
			Description: e.resolver.Description(disease),
			Missing:     e.missing(truth, input),
		})
	}

	return &InferenceResult{Results: results, UnknownDropped: unknown}, nil
}

// missing returns the disease's ground-truth symptoms absent from the input,
// in vocabulary order, capped at missingCap.
func (e *Engine) missing(truth map[string]struct{}, input map[string]struct{}) []string {
	missing := make([]string, 0, missingCap)
	for _, s := range e.vocab.Symptoms() {
		if len(missing) == missingCap {
			break
		}
		if _, ok := truth[s]; !ok {
			continue
		}
		if _, ok := input[s]; ok {
			continue
		}
		missing = append(missing, s)
	}
	return missing
}

// covers reports whether every input symptom is in the truth set.
func covers(truth map[string]struct{}, input map[string]struct{}) bool {
	for s := range input {
		if _, ok := truth[s]; !ok {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
