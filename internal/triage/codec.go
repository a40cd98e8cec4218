package triage

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"sort"

	"github.com/vietcare/platform/internal/shared/errors"
)

// LabelCodec is a fit-once bijection between disease names and dense class
// indices 0..C-1. Indices are assigned in sorted-name order, so a rebuild
// over the same disease set reproduces the same mapping. It is still
// persisted alongside the model, since the model's class axis is only
// meaningful under the exact codec it was trained with.
type LabelCodec struct {
	classes []string
	index   map[string]int
}

// FitLabels assigns class indices to the given disease names. Duplicate
// names collapse to one class so the name-index mapping stays a bijection.
func FitLabels(names []string) *LabelCodec {
	seen := make(map[string]struct{}, len(names))
	classes := make([]string, 0, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		classes = append(classes, name)
	}
	sort.Strings(classes)
	return newLabelCodec(classes)
}

func newLabelCodec(classes []string) *LabelCodec {
	index := make(map[string]int, len(classes))
	for i, name := range classes {
		index[name] = i
	}
	return &LabelCodec{classes: classes, index: index}
}

// Len returns the number of classes C.
func (c *LabelCodec) Len() int { return len(c.classes) }

// Classes returns the ordered class names. Callers must not mutate it.
func (c *LabelCodec) Classes() []string { return c.classes }

// Encode maps a disease name to its class index.
func (c *LabelCodec) Encode(name string) (int, error) {
	i, ok := c.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", errors.ErrUnknownLabel, name)
	}
	return i, nil
}

// Decode maps a class index back to its disease name.
func (c *LabelCodec) Decode(index int) (string, error) {
	if index < 0 || index >= len(c.classes) {
		return "", fmt.Errorf("%w: %d (have %d classes)", errors.ErrIndexOutOfRange, index, len(c.classes))
	}
	return c.classes[index], nil
}

// GobEncode persists the class list; the reverse index is rebuilt on decode.
func (c *LabelCodec) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c.classes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode restores the codec from its persisted class list.
func (c *LabelCodec) GobDecode(data []byte) error {
	var classes []string
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&classes); err != nil {
		return err
	}
	*c = *newLabelCodec(classes)
	return nil
}
