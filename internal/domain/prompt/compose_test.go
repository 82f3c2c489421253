package prompt

import (
	"reflect"
	"testing"

	"github.com/personaforge/personaforge/internal/domain/granularity"
	"github.com/personaforge/personaforge/internal/domain/token"
)

func tok(id, granularityID string, pol token.Polarity, content string, weight float64, position int) token.Token {
	return token.Token{
		ID:            id,
		PersonaID:     "p1",
		GranularityID: granularityID,
		Polarity:      pol,
		Content:       content,
		Weight:        weight,
		Position:      position,
	}
}

func sampleTokens() []token.Token {
	return []token.Token{
		tok("t1", granularity.Style, token.Positive, "masterpiece", 1.0, 0),
		tok("t2", granularity.General, token.Positive, "1girl", 1.0, 1),
		tok("t3", granularity.Hair, token.Positive, "red hair", 1.2, 2),
		tok("t4", granularity.Style, token.Negative, "blurry", 1.0, 3),
		tok("t5", granularity.Face, token.Negative, "bad anatomy", 1.3, 4),
	}
}

func TestComposeBasic(t *testing.T) {
	got := Compose(sampleTokens(), granularity.All(), DefaultOptions())

	if got.PositivePrompt != "masterpiece, 1girl, (red hair:1.2)" {
		t.Errorf("positive: got %q", got.PositivePrompt)
	}
	if got.NegativePrompt != "blurry, (bad anatomy:1.3)" {
		t.Errorf("negative: got %q", got.NegativePrompt)
	}
	if got.PositiveCount != 3 || got.NegativeCount != 2 {
		t.Errorf("counts: got %d/%d, want 3/2", got.PositiveCount, got.NegativeCount)
	}
}

func TestComposeDeterministic(t *testing.T) {
	tokens := sampleTokens()
	opts := DefaultOptions()

	first := Compose(tokens, granularity.All(), opts)
	second := Compose(tokens, granularity.All(), opts)

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs must produce identical output")
	}
}

func TestComposeInputOrderIrrelevant(t *testing.T) {
	// Positions drive ordering; the slice order a store happens to return
	// tokens in must not matter.
	tokens := sampleTokens()
	reversed := make([]token.Token, len(tokens))
	for i, tk := range tokens {
		reversed[len(tokens)-1-i] = tk
	}

	a := Compose(tokens, granularity.All(), DefaultOptions())
	b := Compose(reversed, granularity.All(), DefaultOptions())

	if a.PositivePrompt != b.PositivePrompt || a.NegativePrompt != b.NegativePrompt {
		t.Errorf("permuted input changed output: %q vs %q", a.PositivePrompt, b.PositivePrompt)
	}
}

func TestComposeInterleavedCategories(t *testing.T) {
	// Global positions may interleave categories; composition follows
	// positions, never category grouping.
	tokens := []token.Token{
		tok("t1", granularity.Hair, token.Positive, "red hair", 1.0, 0),
		tok("t2", granularity.Style, token.Positive, "masterpiece", 1.0, 1),
		tok("t3", granularity.Hair, token.Positive, "twin tails", 1.0, 2),
	}

	got := Compose(tokens, granularity.All(), DefaultOptions())
	if got.PositivePrompt != "red hair, masterpiece, twin tails" {
		t.Errorf("got %q", got.PositivePrompt)
	}
}

func TestComposeWeightsDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeWeights = false

	got := Compose(sampleTokens(), granularity.All(), opts)
	if got.PositivePrompt != "masterpiece, 1girl, red hair" {
		t.Errorf("got %q", got.PositivePrompt)
	}
	if got.NegativePrompt != "blurry, bad anatomy" {
		t.Errorf("got %q", got.NegativePrompt)
	}
}

func TestComposeCustomSeparator(t *testing.T) {
	opts := DefaultOptions()
	opts.Separator = " | "

	got := Compose(sampleTokens(), granularity.All(), opts)
	if got.PositivePrompt != "masterpiece | 1girl | (red hair:1.2)" {
		t.Errorf("got %q", got.PositivePrompt)
	}
}

func TestComposeGranularityFilter(t *testing.T) {
	opts := DefaultOptions()
	opts.GranularityIDs = []string{granularity.Hair, granularity.Face}

	got := Compose(sampleTokens(), granularity.All(), opts)
	if got.PositivePrompt != "(red hair:1.2)" {
		t.Errorf("positive: got %q", got.PositivePrompt)
	}
	if got.NegativePrompt != "(bad anatomy:1.3)" {
		t.Errorf("negative: got %q", got.NegativePrompt)
	}
	if got.PositiveCount != 1 || got.NegativeCount != 1 {
		t.Errorf("counts: got %d/%d", got.PositiveCount, got.NegativeCount)
	}
}

func TestComposeFilterKeepsGlobalOrder(t *testing.T) {
	// Filtering removes tokens but never reorders the survivors.
	tokens := []token.Token{
		tok("t1", granularity.Face, token.Positive, "blue eyes", 1.0, 0),
		tok("t2", granularity.Style, token.Positive, "masterpiece", 1.0, 1),
		tok("t3", granularity.Face, token.Positive, "freckles", 1.0, 2),
	}
	opts := DefaultOptions()
	opts.GranularityIDs = []string{granularity.Face}

	got := Compose(tokens, granularity.All(), opts)
	if got.PositivePrompt != "blue eyes, freckles" {
		t.Errorf("got %q", got.PositivePrompt)
	}
}

func TestComposeAdhocEnd(t *testing.T) {
	opts := DefaultOptions()
	opts.AdhocPositive = "sunset lighting"
	opts.AdhocNegative = "text"

	got := Compose(sampleTokens(), granularity.All(), opts)
	if got.PositivePrompt != "masterpiece, 1girl, (red hair:1.2), sunset lighting" {
		t.Errorf("positive: got %q", got.PositivePrompt)
	}
	if got.NegativePrompt != "blurry, (bad anatomy:1.3), text" {
		t.Errorf("negative: got %q", got.NegativePrompt)
	}
	if got.PositiveCount != 4 || got.NegativeCount != 3 {
		t.Errorf("adhoc fragments must count: got %d/%d", got.PositiveCount, got.NegativeCount)
	}
}

func TestComposeAdhocBeginning(t *testing.T) {
	opts := DefaultOptions()
	opts.AdhocPositive = "photo of"
	opts.AdhocPosition = Beginning

	got := Compose(sampleTokens(), granularity.All(), opts)
	if got.PositivePrompt != "photo of, masterpiece, 1girl, (red hair:1.2)" {
		t.Errorf("got %q", got.PositivePrompt)
	}
}

func TestComposeAdhocBlankIgnored(t *testing.T) {
	opts := DefaultOptions()
	opts.AdhocPositive = "   "
	opts.AdhocNegative = ""

	got := Compose(sampleTokens(), granularity.All(), opts)
	if got.PositiveCount != 3 || got.NegativeCount != 2 {
		t.Errorf("blank adhoc must not count: got %d/%d", got.PositiveCount, got.NegativeCount)
	}
}

func TestComposeAdhocNotInBreakdown(t *testing.T) {
	opts := DefaultOptions()
	opts.AdhocPositive = "extra"

	got := Compose(sampleTokens(), granularity.All(), opts)
	for _, sec := range got.Breakdown {
		for _, f := range sec.PositiveFragments {
			if f == "extra" {
				t.Fatal("adhoc fragments must not appear in the breakdown")
			}
		}
	}
}

func TestComposeBreakdown(t *testing.T) {
	got := Compose(sampleTokens(), granularity.All(), DefaultOptions())

	wantOrder := []string{granularity.Style, granularity.General, granularity.Hair, granularity.Face}
	if len(got.Breakdown) != len(wantOrder) {
		t.Fatalf("expected %d sections, got %d", len(wantOrder), len(got.Breakdown))
	}
	for i, id := range wantOrder {
		if got.Breakdown[i].GranularityID != id {
			t.Errorf("section %d: got %s, want %s", i, got.Breakdown[i].GranularityID, id)
		}
	}

	style := got.Breakdown[0]
	if len(style.PositiveFragments) != 1 || style.PositiveFragments[0] != "masterpiece" {
		t.Errorf("style positives: %v", style.PositiveFragments)
	}
	if len(style.NegativeFragments) != 1 || style.NegativeFragments[0] != "blurry" {
		t.Errorf("style negatives: %v", style.NegativeFragments)
	}

	// Breakdown carries raw content, not weight-decorated fragments.
	hair := got.Breakdown[2]
	if hair.PositiveFragments[0] != "red hair" {
		t.Errorf("breakdown must hold raw content, got %q", hair.PositiveFragments[0])
	}
}

func TestComposeUnknownGranularity(t *testing.T) {
	tokens := []token.Token{
		tok("t1", "mystery", token.Positive, "odd token", 1.0, 0),
		tok("t2", granularity.Style, token.Positive, "masterpiece", 1.0, 1),
		tok("t3", "other", token.Positive, "stranger", 1.0, 2),
	}

	got := Compose(tokens, granularity.All(), DefaultOptions())

	// Known sections first, unknowns appended in first-encounter order.
	if len(got.Breakdown) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(got.Breakdown))
	}
	if got.Breakdown[0].GranularityID != granularity.Style {
		t.Errorf("known sections come first, got %s", got.Breakdown[0].GranularityID)
	}
	if got.Breakdown[1].GranularityID != "mystery" || got.Breakdown[2].GranularityID != "other" {
		t.Errorf("unknown sections out of order: %s, %s",
			got.Breakdown[1].GranularityID, got.Breakdown[2].GranularityID)
	}
	if got.Breakdown[1].GranularityName != "Unknown" {
		t.Errorf("unknown section name: got %q", got.Breakdown[1].GranularityName)
	}
	// Unknown granularity still composes by position.
	if got.PositivePrompt != "odd token, masterpiece, stranger" {
		t.Errorf("got %q", got.PositivePrompt)
	}
}

func TestComposeEmpty(t *testing.T) {
	got := Compose(nil, granularity.All(), DefaultOptions())

	if got.PositivePrompt != "" || got.NegativePrompt != "" {
		t.Errorf("empty input should compose empty prompts: %+v", got)
	}
	if got.PositiveCount != 0 || got.NegativeCount != 0 {
		t.Errorf("counts: got %d/%d", got.PositiveCount, got.NegativeCount)
	}
	if len(got.Breakdown) != 0 {
		t.Errorf("expected empty breakdown, got %v", got.Breakdown)
	}
}

func TestComposeDuplicatePositionsStable(t *testing.T) {
	// Legacy data may carry duplicate positions; sorting must be stable
	// with respect to input order.
	tokens := []token.Token{
		tok("t1", granularity.Style, token.Positive, "first", 1.0, 0),
		tok("t2", granularity.Style, token.Positive, "second", 1.0, 0),
	}

	got := Compose(tokens, granularity.All(), DefaultOptions())
	if got.PositivePrompt != "first, second" {
		t.Errorf("got %q", got.PositivePrompt)
	}
}
