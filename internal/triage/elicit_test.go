package triage

import (
	"reflect"
	"sort"
	"testing"
)

func newTestElicitor(t *testing.T) *Elicitor {
	t.Helper()

	kb := BuildKnowledgeBase(testRecords())
	var all []string
	for _, d := range kb.Diseases() {
		all = append(all, kb.Symptoms(d)...)
	}
	return NewElicitor(NewVocabulary(all), kb)
}

func TestRelatedUnionsOverlappingDiseases(t *testing.T) {
	el := newTestElicitor(t)

	// "đau đầu" appears in dengue and migraine; suggestions come from both.
	related := el.Related([]string{"đau đầu"}, 20)

	set := map[string]bool{}
	for _, s := range related {
		set[s] = true
	}

	for _, want := range []string{"phát ban", "sợ ánh sáng", "buồn nôn"} {
		if !set[want] {
			t.Errorf("Expected %q in related suggestions", want)
		}
	}
	if set["đau đầu"] {
		t.Error("Input symptom must not be suggested back")
	}
	if set["ho"] {
		t.Error("Symptom from a non-overlapping disease must not be suggested")
	}
}

func TestRelatedCapAndOrder(t *testing.T) {
	el := newTestElicitor(t)

	related := el.Related([]string{"sốt"}, 0)
	if len(related) > 7 {
		t.Fatalf("Expected at most 7 suggestions with default cap, got %d", len(related))
	}

	order := map[string]int{}
	for i, s := range el.vocab.Symptoms() {
		order[s] = i
	}
	for i := 1; i < len(related); i++ {
		if order[related[i-1]] >= order[related[i]] {
			t.Errorf("Suggestions not in vocabulary order: %q before %q", related[i-1], related[i])
		}
	}
}

func TestRelatedNoOverlap(t *testing.T) {
	el := newTestElicitor(t)

	if got := el.Related([]string{"không có triệu chứng này"}, 10); len(got) != 0 {
		t.Errorf("Expected no suggestions for unknown symptom, got %v", got)
	}
}

func TestStrictRelatedRequiresContainment(t *testing.T) {
	el := newTestElicitor(t)

	// Contained only in the gastritis set.
	got := el.StrictRelated([]string{"Đau Bụng", " ợ chua "})
	want := []string{"buồn nôn", "chán ăn"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("StrictRelated() = %v, want %v", got, want)
	}
}

func TestStrictRelatedExhaustedInput(t *testing.T) {
	el := newTestElicitor(t)

	// The full gastritis set leaves nothing to suggest.
	got := el.StrictRelated([]string{"đau bụng", "buồn nôn", "ợ chua", "chán ăn"})
	if len(got) != 0 {
		t.Errorf("Expected no suggestions for an exhausted symptom set, got %v", got)
	}
}

func TestStrictRelatedSorted(t *testing.T) {
	el := newTestElicitor(t)

	got := el.StrictRelated([]string{"sợ ánh sáng"})
	if !sort.StringsAreSorted(got) {
		t.Errorf("Suggestions not sorted: %v", got)
	}
}

func TestStrictRelatedNoContainingDisease(t *testing.T) {
	el := newTestElicitor(t)

	// No single disease carries both flu's cough and migraine's photophobia.
	if got := el.StrictRelated([]string{"ho", "sợ ánh sáng"}); len(got) != 0 {
		t.Errorf("Expected no suggestions, got %v", got)
	}
}

func TestModeAsymmetry(t *testing.T) {
	el := newTestElicitor(t)

	// Overlap with dengue and migraine via headache plus flu via cough: the
	// wide mode unions all three, the strict mode finds no containing set.
	input := []string{"đau đầu", "ho"}

	wide := el.Related(input, 20)
	strict := el.StrictRelated(input)

	if len(wide) == 0 {
		t.Error("Expected wide-mode suggestions")
	}
	if len(strict) != 0 {
		t.Errorf("Expected no strict-mode suggestions, got %v", strict)
	}
}
