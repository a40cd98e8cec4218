package triage

import (
	"fmt"
	"sort"

	"github.com/vietcare/platform/internal/dataset"
)

// KnowledgeBase maps each disease to its ground-truth symptom set. It is the
// deterministic source of truth, independent of anything the classifier
// predicts. Immutable after construction.
type KnowledgeBase struct {
	// entries preserves the symptom lists as originally observed; this is
	// the persisted wire shape.
	entries map[string][]string
	// sets are membership indexes over the same data.
	sets map[string]map[string]struct{}
	// diseases is the sorted disease list, the deterministic iteration order.
	diseases []string
}

// BuildKnowledgeBase constructs the knowledge base from validated source
// records. Records were already filtered by the dataset loader, so every
// record has a disease name and at least one symptom.
func BuildKnowledgeBase(records []dataset.DiseaseRecord) *KnowledgeBase {
	entries := make(map[string][]string, len(records))
	for _, rec := range records {
		entries[rec.Disease] = rec.Symptoms
	}
	return newKnowledgeBase(entries)
}

// LoadKnowledgeBase validates a persisted disease→symptoms map.
func LoadKnowledgeBase(entries map[string][]string) (*KnowledgeBase, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("knowledge base is empty")
	}
	for disease, symptoms := range entries {
		if disease == "" {
			return nil, fmt.Errorf("knowledge base has an unnamed disease")
		}
		if len(symptoms) == 0 {
			return nil, fmt.Errorf("disease %q has no symptoms", disease)
		}
	}
	return newKnowledgeBase(entries), nil
}

func newKnowledgeBase(entries map[string][]string) *KnowledgeBase {
	sets := make(map[string]map[string]struct{}, len(entries))
	diseases := make([]string, 0, len(entries))
	for disease, symptoms := range entries {
		set := make(map[string]struct{}, len(symptoms))
		for _, s := range symptoms {
			set[s] = struct{}{}
		}
		sets[disease] = set
		diseases = append(diseases, disease)
	}
	sort.Strings(diseases)
	return &KnowledgeBase{entries: entries, sets: sets, diseases: diseases}
}

// Diseases returns all disease names, sorted. Callers must not mutate it.
func (kb *KnowledgeBase) Diseases() []string { return kb.diseases }

// Len returns the number of diseases.
func (kb *KnowledgeBase) Len() int { return len(kb.diseases) }

// Symptoms returns a disease's symptom list as originally observed, or nil
// if the disease is unknown.
func (kb *KnowledgeBase) Symptoms(disease string) []string {
	return kb.entries[disease]
}

// SymptomSet returns a disease's symptom membership set, or nil.
func (kb *KnowledgeBase) SymptomSet(disease string) map[string]struct{} {
	return kb.sets[disease]
}

// Entries returns the underlying disease→symptoms map for persistence.
func (kb *KnowledgeBase) Entries() map[string][]string { return kb.entries }

// Validate enforces the build-time invariant: every symptom referenced by
// any disease must exist in the vocabulary.
func (kb *KnowledgeBase) Validate(vocab *Vocabulary) error {
	for _, disease := range kb.diseases {
		for _, s := range kb.entries[disease] {
			if !vocab.Contains(s) {
				return fmt.Errorf("disease %q references symptom %q not in vocabulary", disease, s)
			}
		}
	}
	return nil
}
