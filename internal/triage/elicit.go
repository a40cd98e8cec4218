package triage

import (
	"sort"
	"strings"
)

// relatedCap bounds Mode A suggestion lists.
const relatedCap = 7

// Elicitor suggests additional symptoms to ask about given partial input.
// Two deliberately asymmetric modes exist: Related (Mode A) casts a wide net
// for broad suggestions next to prediction results, StrictRelated (Mode B)
// narrows the diagnostic search for guided questionnaire flows.
type Elicitor struct {
	vocab *Vocabulary
	kb    *KnowledgeBase
}

// NewElicitor builds an elicitor over the loaded artifacts.
func NewElicitor(vocab *Vocabulary, kb *KnowledgeBase) *Elicitor {
	return &Elicitor{vocab: vocab, kb: kb}
}

// Related is Mode A: union the symptom sets of every disease sharing at
// least one symptom with the input, subtract the input, and return up to
// topN entries in vocabulary order. Inputs are trimmed only.
func (el *Elicitor) Related(symptoms []string, topN int) []string {
	if topN <= 0 {
		topN = relatedCap
	}

	input := make(map[string]struct{}, len(symptoms))
	for _, s := range symptoms {
		if s = strings.TrimSpace(s); s != "" {
			input[s] = struct{}{}
		}
	}

	candidates := make(map[string]struct{})
	for _, disease := range el.kb.Diseases() {
		set := el.kb.SymptomSet(disease)
		if !intersects(set, input) {
			continue
		}
		for s := range set {
			candidates[s] = struct{}{}
		}
	}

	related := make([]string, 0, topN)
	for _, s := range el.vocab.Symptoms() {
		if len(related) == topN {
			break
		}
		if _, ok := candidates[s]; !ok {
			continue
		}
		if _, ok := input[s]; ok {
			continue
		}
		related = append(related, s)
	}
	return related
}

// StrictRelated is Mode B: consider only diseases whose ground-truth symptom
// set contains the full input (strict containment, not mere intersection),
// union their symptoms, subtract the input, and return the suggestions
// sorted ascending. Inputs are trimmed and lowercased.
func (el *Elicitor) StrictRelated(symptoms []string) []string {
	input := make(map[string]struct{}, len(symptoms))
	for _, s := range symptoms {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			input[s] = struct{}{}
		}
	}

	candidates := make(map[string]struct{})
	for _, disease := range el.kb.Diseases() {
		set := el.kb.SymptomSet(disease)
		if !covers(set, input) {
			continue
		}
		for s := range set {
			candidates[s] = struct{}{}
		}
	}

	suggestions := make([]string, 0, len(candidates))
	for s := range candidates {
		if _, ok := input[s]; ok {
			continue
		}
		suggestions = append(suggestions, s)
	}
	sort.Strings(suggestions)
	return suggestions
}

func intersects(set map[string]struct{}, input map[string]struct{}) bool {
	for s := range input {
		if _, ok := set[s]; ok {
			return true
		}
	}
	return false
}
