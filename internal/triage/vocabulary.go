// Package triage implements the hybrid symptom-to-disease inference engine:
// a statistical classifier over symptom-presence vectors combined with a
// deterministic disease knowledge base used to filter, explain and extend
// the classifier's output.
package triage

import (
	"fmt"
	"sort"
	"strings"
)

// Vocabulary is the fixed, ordered, deduplicated universe of known symptoms.
// It defines the feature space: symbol i of every symptom-presence vector is
// the symptom at position i. Immutable after construction.
type Vocabulary struct {
	symptoms []string
	index    map[string]int
}

// NewVocabulary builds a vocabulary from raw symptom strings: trimmed,
// lowercased, deduplicated, sorted ascending.
func NewVocabulary(raw []string) *Vocabulary {
	seen := make(map[string]struct{}, len(raw))
	var symptoms []string
	for _, s := range raw {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		symptoms = append(symptoms, s)
	}
	sort.Strings(symptoms)

	index := make(map[string]int, len(symptoms))
	for i, s := range symptoms {
		index[s] = i
	}
	return &Vocabulary{symptoms: symptoms, index: index}
}

// LoadVocabulary validates an already-persisted symptom list: every entry
// must be non-empty, trimmed and lowercase, and the list sorted ascending
// with no duplicates.
func LoadVocabulary(symptoms []string) (*Vocabulary, error) {
	if len(symptoms) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	index := make(map[string]int, len(symptoms))
	for i, s := range symptoms {
		if s == "" {
			return nil, fmt.Errorf("vocabulary has empty entry at position %d", i)
		}
		if s != strings.ToLower(strings.TrimSpace(s)) {
			return nil, fmt.Errorf("vocabulary entry %q at position %d is not trimmed lowercase", s, i)
		}
		if i > 0 && symptoms[i-1] >= s {
			return nil, fmt.Errorf("vocabulary not sorted or has duplicates at position %d (%q)", i, s)
		}
		index[s] = i
	}
	return &Vocabulary{symptoms: symptoms, index: index}, nil
}

// Len returns the feature-space width.
func (v *Vocabulary) Len() int { return len(v.symptoms) }

// Symptoms returns the ordered symptom list. Callers must not mutate it.
func (v *Vocabulary) Symptoms() []string { return v.symptoms }

// Index returns the feature position of a symptom.
func (v *Vocabulary) Index(symptom string) (int, bool) {
	i, ok := v.index[symptom]
	return i, ok
}

// Contains reports whether a symptom is in the vocabulary.
func (v *Vocabulary) Contains(symptom string) bool {
	_, ok := v.index[symptom]
	return ok
}

// Encode builds a symptom-presence vector from raw input symptoms. Inputs
// are trimmed; tokens not in the vocabulary are dropped silently (permissive
// input) and counted in unknown. The returned set holds the recognized,
// normalized input symptoms.
func (v *Vocabulary) Encode(inputs []string) (vec []float64, matched map[string]struct{}, unknown int) {
	vec = make([]float64, len(v.symptoms))
	matched = make(map[string]struct{})
	for _, raw := range inputs {
		s := strings.TrimSpace(raw)
		if s == "" {
			continue
		}
		if i, ok := v.index[s]; ok {
			vec[i] = 1
			matched[s] = struct{}{}
		} else {
			unknown++
		}
	}
	return vec, matched, unknown
}
