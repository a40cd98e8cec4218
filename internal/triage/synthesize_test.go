package triage

import (
	"math/rand"
	"reflect"
	"testing"
)

func TestSynthesizeShapeAndLabels(t *testing.T) {
	kb := BuildKnowledgeBase(testRecords())
	var all []string
	for _, d := range kb.Diseases() {
		all = append(all, kb.Symptoms(d)...)
	}
	vocab := NewVocabulary(all)

	const samples = 10
	X, labels, err := Synthesize(kb, vocab, samples, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	rows, cols := X.Dims()
	if rows != kb.Len()*samples {
		t.Errorf("Expected %d rows, got %d", kb.Len()*samples, rows)
	}
	if cols != vocab.Len() {
		t.Errorf("Expected %d columns, got %d", vocab.Len(), cols)
	}
	if len(labels) != rows {
		t.Fatalf("Labels length %d does not match rows %d", len(labels), rows)
	}

	for i := 0; i < rows; i++ {
		truth := kb.SymptomSet(labels[i])
		if truth == nil {
			t.Fatalf("Row %d labeled with unknown disease %q", i, labels[i])
		}

		set := 0
		for j := 0; j < cols; j++ {
			v := X.At(i, j)
			if v != 0 && v != 1 {
				t.Fatalf("Row %d has non-binary value %f", i, v)
			}
			if v == 1 {
				set++
				if _, ok := truth[vocab.Symptoms()[j]]; !ok {
					t.Errorf("Row %d sets symptom %q outside its disease", i, vocab.Symptoms()[j])
				}
			}
		}
		if set < 1 || set > len(truth) {
			t.Errorf("Row %d sets %d symptoms, want 1..%d", i, set, len(truth))
		}
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	kb := BuildKnowledgeBase(testRecords())
	var all []string
	for _, d := range kb.Diseases() {
		all = append(all, kb.Symptoms(d)...)
	}
	vocab := NewVocabulary(all)

	x1, l1, err := Synthesize(kb, vocab, 5, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	x2, l2, err := Synthesize(kb, vocab, 5, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if !reflect.DeepEqual(l1, l2) {
		t.Error("Labels differ across identical seeds")
	}
	if !reflect.DeepEqual(x1.RawMatrix().Data, x2.RawMatrix().Data) {
		t.Error("Feature matrices differ across identical seeds")
	}
}

func TestSynthesizeRejectsBadInput(t *testing.T) {
	kb := BuildKnowledgeBase(testRecords())
	var all []string
	for _, d := range kb.Diseases() {
		all = append(all, kb.Symptoms(d)...)
	}
	vocab := NewVocabulary(all)

	if _, _, err := Synthesize(kb, vocab, 0, rand.New(rand.NewSource(1))); err == nil {
		t.Error("Expected error for zero samples per disease")
	}
}
