package triage

import (
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vietcare/platform/internal/ml"
	"github.com/vietcare/platform/internal/shared/errors"
)

// Artifact filenames within the artifact directory.
const (
	VocabularyFile   = "symptom_list.json"
	KnowledgeFile    = "disease_symptom_map.json"
	ModelFile        = "disease_model.gob"
	CodecFile        = "label_codec.gob"
	SpecialistsFile  = "specialists.json"
	DescriptionsFile = "descriptions.json"
)

// Artifacts bundles everything the online engine needs, loaded once at
// startup and immutable thereafter.
type Artifacts struct {
	Vocabulary *Vocabulary
	Knowledge  *KnowledgeBase
	Codec      *LabelCodec
	Model      *ml.Forest
	Resolver   *Resolver
}

// SaveArtifacts persists the trained artifact set. The vocabulary is a
// sorted JSON array, the knowledge base a JSON object of symptom arrays as
// originally observed, model and codec gob blobs, and the two lookup tables
// JSON objects.
func SaveArtifacts(dir string, a *Artifacts) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	if err := writeJSONFile(filepath.Join(dir, VocabularyFile), a.Vocabulary.Symptoms()); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(dir, KnowledgeFile), a.Knowledge.Entries()); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(dir, SpecialistsFile), a.Resolver.Specialists()); err != nil {
		return err
	}
	if err := writeJSONFile(filepath.Join(dir, DescriptionsFile), a.Resolver.Descriptions()); err != nil {
		return err
	}
	if err := writeGob(filepath.Join(dir, ModelFile), a.Model); err != nil {
		return err
	}
	if err := writeGob(filepath.Join(dir, CodecFile), a.Codec); err != nil {
		return err
	}
	return nil
}

// LoadArtifacts loads and cross-validates the persisted artifact set.
// Any missing or structurally invalid artifact yields ErrArtifactInvalid:
// serving with a partial model would silently produce wrong predictions, so
// callers are expected to fail the process.
func LoadArtifacts(dir string) (*Artifacts, error) {
	var rawVocab []string
	if err := readJSON(filepath.Join(dir, VocabularyFile), &rawVocab); err != nil {
		return nil, invalid(err)
	}
	vocab, err := LoadVocabulary(rawVocab)
	if err != nil {
		return nil, invalid(err)
	}

	var entries map[string][]string
	if err := readJSON(filepath.Join(dir, KnowledgeFile), &entries); err != nil {
		return nil, invalid(err)
	}
	kb, err := LoadKnowledgeBase(entries)
	if err != nil {
		return nil, invalid(err)
	}
	if err := kb.Validate(vocab); err != nil {
		return nil, invalid(err)
	}

	var specialists, descriptions map[string]string
	if err := readJSON(filepath.Join(dir, SpecialistsFile), &specialists); err != nil {
		return nil, invalid(err)
	}
	if err := readJSON(filepath.Join(dir, DescriptionsFile), &descriptions); err != nil {
		return nil, invalid(err)
	}

	var model ml.Forest
	if err := readGob(filepath.Join(dir, ModelFile), &model); err != nil {
		return nil, invalid(err)
	}
	if err := model.Validate(); err != nil {
		return nil, invalid(err)
	}

	var codec LabelCodec
	if err := readGob(filepath.Join(dir, CodecFile), &codec); err != nil {
		return nil, invalid(err)
	}

	// Pairing checks: the model's axes must match the vocabulary and codec
	// it was trained with, and the codec must cover exactly the knowledge
	// base's diseases.
	if model.NumFeatures != vocab.Len() {
		return nil, invalid(fmt.Errorf("model expects %d features, vocabulary has %d", model.NumFeatures, vocab.Len()))
	}
	if model.NumClasses != codec.Len() {
		return nil, invalid(fmt.Errorf("model has %d classes, codec has %d", model.NumClasses, codec.Len()))
	}
	if codec.Len() != kb.Len() {
		return nil, invalid(fmt.Errorf("codec has %d classes, knowledge base has %d diseases", codec.Len(), kb.Len()))
	}
	for _, disease := range kb.Diseases() {
		if _, err := codec.Encode(disease); err != nil {
			return nil, invalid(err)
		}
	}

	return &Artifacts{
		Vocabulary: vocab,
		Knowledge:  kb,
		Codec:      &codec,
		Model:      &model,
		Resolver:   NewResolver(specialists, descriptions),
	}, nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", errors.ErrArtifactInvalid, err)
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func writeGob(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()
	if err := gob.NewEncoder(f).Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

func readGob(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gob.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
