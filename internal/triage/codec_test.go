package triage

import (
	"bytes"
	"encoding/gob"
	stderrors "errors"
	"reflect"
	"testing"

	"github.com/vietcare/platform/internal/shared/errors"
)

func TestLabelCodecRoundTrip(t *testing.T) {
	codec := FitLabels([]string{"Viêm họng", "Cúm", "Sốt rét"})

	for _, name := range codec.Classes() {
		idx, err := codec.Encode(name)
		if err != nil {
			t.Fatalf("Encode(%q) failed: %v", name, err)
		}
		back, err := codec.Decode(idx)
		if err != nil {
			t.Fatalf("Decode(%d) failed: %v", idx, err)
		}
		if back != name {
			t.Errorf("Round trip changed %q to %q", name, back)
		}
	}
}

func TestLabelCodecSortedClasses(t *testing.T) {
	codec := FitLabels([]string{"c", "a", "b", "a"})

	want := []string{"a", "b", "c"}
	if !reflect.DeepEqual(codec.Classes(), want) {
		t.Errorf("Classes() = %v, want %v", codec.Classes(), want)
	}
}

func TestLabelCodecUnknownLabel(t *testing.T) {
	codec := FitLabels([]string{"a", "b"})

	if _, err := codec.Encode("z"); !stderrors.Is(err, errors.ErrUnknownLabel) {
		t.Errorf("Expected ErrUnknownLabel, got %v", err)
	}
}

func TestLabelCodecIndexOutOfRange(t *testing.T) {
	codec := FitLabels([]string{"a", "b"})

	for _, idx := range []int{-1, 2, 100} {
		if _, err := codec.Decode(idx); !stderrors.Is(err, errors.ErrIndexOutOfRange) {
			t.Errorf("Decode(%d): expected ErrIndexOutOfRange, got %v", idx, err)
		}
	}
}

func TestLabelCodecGob(t *testing.T) {
	original := FitLabels([]string{"Cúm", "Sốt rét", "Viêm họng"})

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(original); err != nil {
		t.Fatalf("gob encode failed: %v", err)
	}

	var restored LabelCodec
	if err := gob.NewDecoder(&buf).Decode(&restored); err != nil {
		t.Fatalf("gob decode failed: %v", err)
	}

	if !reflect.DeepEqual(restored.Classes(), original.Classes()) {
		t.Errorf("Classes changed across gob: %v vs %v", restored.Classes(), original.Classes())
	}
	idx, err := restored.Encode("Sốt rét")
	if err != nil {
		t.Fatalf("Encode on restored codec failed: %v", err)
	}
	if name, _ := restored.Decode(idx); name != "Sốt rét" {
		t.Errorf("Restored codec index broken: got %q", name)
	}
}
