package triage

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vietcare/platform/internal/shared/errors"
)

func saveTestArtifacts(t *testing.T) string {
	t.Helper()

	engine, _ := newTestEngine(t, false)
	dir := t.TempDir()
	a := &Artifacts{
		Vocabulary: engine.vocab,
		Knowledge:  engine.kb,
		Codec:      engine.codec,
		Model:      engine.model,
		Resolver:   engine.resolver,
	}
	if err := SaveArtifacts(dir, a); err != nil {
		t.Fatalf("SaveArtifacts failed: %v", err)
	}
	return dir
}

func TestArtifactsRoundTrip(t *testing.T) {
	engine, _ := newTestEngine(t, false)
	dir := saveTestArtifacts(t)

	loaded, err := LoadArtifacts(dir)
	if err != nil {
		t.Fatalf("LoadArtifacts failed: %v", err)
	}

	if !reflect.DeepEqual(loaded.Vocabulary.Symptoms(), engine.vocab.Symptoms()) {
		t.Error("Vocabulary changed across persistence")
	}
	if !reflect.DeepEqual(loaded.Codec.Classes(), engine.codec.Classes()) {
		t.Error("Codec classes changed across persistence")
	}
	if !reflect.DeepEqual(loaded.Knowledge.Diseases(), engine.kb.Diseases()) {
		t.Error("Knowledge base diseases changed across persistence")
	}

	// The reloaded engine must answer identically.
	reloaded := NewEngine(loaded.Vocabulary, loaded.Knowledge, loaded.Codec, loaded.Model, loaded.Resolver, false)
	input := []string{"sốt", "ho", "đau họng"}

	before, err := engine.Infer(input)
	if err != nil {
		t.Fatalf("Infer failed: %v", err)
	}
	after, err := reloaded.Infer(input)
	if err != nil {
		t.Fatalf("Infer on reloaded engine failed: %v", err)
	}
	if !reflect.DeepEqual(before, after) {
		t.Errorf("Predictions changed across persistence: %+v vs %+v", before, after)
	}
}

func TestLoadArtifactsMissingFile(t *testing.T) {
	for _, name := range []string{VocabularyFile, KnowledgeFile, ModelFile, CodecFile, SpecialistsFile, DescriptionsFile} {
		t.Run(name, func(t *testing.T) {
			dir := saveTestArtifacts(t)
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				t.Fatalf("remove %s: %v", name, err)
			}

			_, err := LoadArtifacts(dir)
			if err == nil {
				t.Fatal("Expected error for missing artifact")
			}
			if !stderrors.Is(err, errors.ErrArtifactInvalid) {
				t.Errorf("Expected ErrArtifactInvalid, got %v", err)
			}
		})
	}
}

func TestLoadArtifactsMispairedCodec(t *testing.T) {
	dir := saveTestArtifacts(t)

	// A codec with a different class count than the model breaks pairing.
	if err := writeGob(filepath.Join(dir, CodecFile), FitLabels([]string{"a", "b"})); err != nil {
		t.Fatalf("write codec: %v", err)
	}

	_, err := LoadArtifacts(dir)
	if !stderrors.Is(err, errors.ErrArtifactInvalid) {
		t.Errorf("Expected ErrArtifactInvalid for mispaired codec, got %v", err)
	}
}

func TestLoadArtifactsCorruptVocabulary(t *testing.T) {
	dir := saveTestArtifacts(t)

	if err := writeJSONFile(filepath.Join(dir, VocabularyFile), []string{"b", "a"}); err != nil {
		t.Fatalf("write vocabulary: %v", err)
	}

	_, err := LoadArtifacts(dir)
	if !stderrors.Is(err, errors.ErrArtifactInvalid) {
		t.Errorf("Expected ErrArtifactInvalid for unsorted vocabulary, got %v", err)
	}
}
