package triage

import (
	"reflect"
	"testing"
)

func TestNewVocabularyNormalizes(t *testing.T) {
	vocab := NewVocabulary([]string{" Ho ", "sốt", "HO", "", "  ", "đau đầu", "sốt"})

	want := []string{"ho", "sốt", "đau đầu"}
	if !reflect.DeepEqual(vocab.Symptoms(), want) {
		t.Errorf("Symptoms() = %v, want %v", vocab.Symptoms(), want)
	}
}

func TestLoadVocabularyRejectsUnsorted(t *testing.T) {
	tests := []struct {
		name     string
		symptoms []string
		wantErr  bool
	}{
		{"sorted", []string{"a", "b", "c"}, false},
		{"unsorted", []string{"b", "a"}, true},
		{"duplicate", []string{"a", "a", "b"}, true},
		{"empty entry", []string{"", "a"}, true},
		{"untrimmed entry", []string{" a", "b"}, true},
		{"uppercase entry", []string{"B", "a"}, true},
		{"empty list", []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadVocabulary(tt.symptoms)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadVocabulary(%v) error = %v, wantErr %v", tt.symptoms, err, tt.wantErr)
			}
		})
	}
}

func TestVocabularyEncode(t *testing.T) {
	vocab := NewVocabulary([]string{"ho", "sốt", "đau đầu"})

	vec, matched, unknown := vocab.Encode([]string{" sốt ", "ho", "khó thở", "sốt"})

	if len(vec) != vocab.Len() {
		t.Fatalf("Vector length %d, want %d", len(vec), vocab.Len())
	}
	if unknown != 1 {
		t.Errorf("Expected 1 unknown symptom, got %d", unknown)
	}
	if len(matched) != 2 {
		t.Errorf("Expected 2 matched symptoms, got %d", len(matched))
	}

	ones := 0
	for _, v := range vec {
		if v != 0 && v != 1 {
			t.Errorf("Vector entry must be binary, got %f", v)
		}
		if v == 1 {
			ones++
		}
	}
	if ones != 2 {
		t.Errorf("Expected 2 set positions, got %d", ones)
	}
}

func TestVocabularyIndexStable(t *testing.T) {
	vocab := NewVocabulary([]string{"c", "a", "b"})

	for i, s := range vocab.Symptoms() {
		idx, ok := vocab.Index(s)
		if !ok || idx != i {
			t.Errorf("Index(%q) = %d,%v, want %d,true", s, idx, ok, i)
		}
	}
	if _, ok := vocab.Index("z"); ok {
		t.Error("Index of absent symptom must report false")
	}
}
