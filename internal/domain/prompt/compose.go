// Package prompt implements prompt composition: flattening a persona's
// tokens into positive and negative prompt strings plus a per-category
// breakdown.
//
// Compose is a pure function. It never touches storage or the network,
// and identical inputs always produce byte-identical output.
package prompt

import (
	"sort"
	"strings"

	"github.com/personaforge/personaforge/internal/domain/granularity"
	"github.com/personaforge/personaforge/internal/domain/token"
)

// AdhocPosition places caller-supplied fragments relative to token ones.
type AdhocPosition string

const (
	// Beginning inserts ad-hoc fragments before all token fragments.
	Beginning AdhocPosition = "beginning"
	// End inserts ad-hoc fragments after all token fragments.
	End AdhocPosition = "end"
)

// Options configures a single composition. The zero value is not useful;
// use DefaultOptions and override as needed.
type Options struct {
	IncludeWeights bool          `json:"include_weights"`
	Separator      string        `json:"separator"`
	GranularityIDs []string      `json:"granularity_ids"`
	AdhocPositive  string        `json:"adhoc_positive"`
	AdhocNegative  string        `json:"adhoc_negative"`
	AdhocPosition  AdhocPosition `json:"adhoc_position"`
}

// DefaultOptions returns the standard composition settings: weights on,
// ", " separator, every granularity, ad-hoc fragments at the end.
func DefaultOptions() Options {
	return Options{
		IncludeWeights: true,
		Separator:      ", ",
		AdhocPosition:  End,
	}
}

// Section is the per-category breakdown entry. Fragments hold the raw
// token content without weight decoration, in composition order.
type Section struct {
	GranularityID     string   `json:"granularity_id"`
	GranularityName   string   `json:"granularity_name"`
	PositiveFragments []string `json:"positive_fragments"`
	NegativeFragments []string `json:"negative_fragments"`
}

// Composed is the final assembled prompt plus breakdown metadata.
type Composed struct {
	PositivePrompt string    `json:"positive_prompt"`
	NegativePrompt string    `json:"negative_prompt"`
	PositiveCount  int       `json:"positive_count"`
	NegativeCount  int       `json:"negative_count"`
	Breakdown      []Section `json:"breakdown"`
}

// Compose assembles tokens into a Composed prompt.
//
// Category selection only filters; ordering comes solely from token
// positions, so a user's ordering may interleave categories freely.
// Sections are emitted in taxonomy display order, with any granularity
// absent from the taxonomy appended afterwards in first-encounter order.
func Compose(tokens []token.Token, levels []granularity.Level, opts Options) Composed {
	var allowed map[string]struct{}
	if len(opts.GranularityIDs) > 0 {
		allowed = make(map[string]struct{}, len(opts.GranularityIDs))
		for _, id := range opts.GranularityIDs {
			allowed[id] = struct{}{}
		}
	}

	sorted := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if allowed != nil {
			if _, ok := allowed[t.GranularityID]; !ok {
				continue
			}
		}
		sorted = append(sorted, t)
	}
	// Stable keeps duplicate positions (legacy data) deterministic for a
	// given input order without promising any particular tie-break.
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	var positive, negative []string

	adhocPositive := strings.TrimSpace(opts.AdhocPositive)
	adhocNegative := strings.TrimSpace(opts.AdhocNegative)
	appendAdhoc := func() {
		if adhocPositive != "" {
			positive = append(positive, adhocPositive)
		}
		if adhocNegative != "" {
			negative = append(negative, adhocNegative)
		}
	}

	if opts.AdhocPosition == Beginning {
		appendAdhoc()
	}

	levelName := make(map[string]string, len(levels))
	for _, l := range levels {
		levelName[l.ID] = l.Name
	}

	sections := make(map[string]*Section)
	var unknownOrder []string

	for _, t := range sorted {
		formatted := t.FormatForPrompt(opts.IncludeWeights)
		if t.Polarity == token.Negative {
			negative = append(negative, formatted)
		} else {
			positive = append(positive, formatted)
		}

		sec, ok := sections[t.GranularityID]
		if !ok {
			name, known := levelName[t.GranularityID]
			if !known {
				name = "Unknown"
				unknownOrder = append(unknownOrder, t.GranularityID)
			}
			sec = &Section{GranularityID: t.GranularityID, GranularityName: name}
			sections[t.GranularityID] = sec
		}
		if t.Polarity == token.Negative {
			sec.NegativeFragments = append(sec.NegativeFragments, t.Content)
		} else {
			sec.PositiveFragments = append(sec.PositiveFragments, t.Content)
		}
	}

	if opts.AdhocPosition != Beginning {
		appendAdhoc()
	}

	breakdown := make([]Section, 0, len(sections))
	for _, l := range levels {
		if sec, ok := sections[l.ID]; ok {
			breakdown = append(breakdown, *sec)
		}
	}
	for _, id := range unknownOrder {
		breakdown = append(breakdown, *sections[id])
	}

	return Composed{
		PositivePrompt: strings.Join(positive, opts.Separator),
		NegativePrompt: strings.Join(negative, opts.Separator),
		PositiveCount:  len(positive),
		NegativeCount:  len(negative),
		Breakdown:      breakdown,
	}
}
