// Package granularity defines the fixed taxonomy of token categories.
//
// Personas organize their tokens into seven levels, from overall artistic
// style down to individual body regions. The set is static: it is defined
// here once, loaded at process start, and passed explicitly to the
// composer and ordering code rather than read from global state.
package granularity

// Level is one category in the taxonomy.
type Level struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"display_order"`
}

// Canonical level IDs, in display order.
const (
	Style      = "style"
	General    = "general"
	Hair       = "hair"
	Face       = "face"
	UpperBody  = "upper_body"
	Midsection = "midsection"
	LowerBody  = "lower_body"
)

// UnknownOrder is returned by DisplayOrder for IDs outside the taxonomy.
// It sorts after every known level, which keeps tokens imported from
// older or newer schemas at the end instead of failing.
const UnknownOrder = int(^uint(0) >> 1)

var levels = []Level{
	{ID: Style, Name: "Style", DisplayOrder: 0},
	{ID: General, Name: "General", DisplayOrder: 1},
	{ID: Hair, Name: "Hair", DisplayOrder: 2},
	{ID: Face, Name: "Face", DisplayOrder: 3},
	{ID: UpperBody, Name: "Upper Body", DisplayOrder: 4},
	{ID: Midsection, Name: "Midsection", DisplayOrder: 5},
	{ID: LowerBody, Name: "Lower Body", DisplayOrder: 6},
}

var byID = func() map[string]Level {
	m := make(map[string]Level, len(levels))
	for _, l := range levels {
		m[l.ID] = l
	}
	return m
}()

// All returns every level in display order. The returned slice is a copy;
// callers may reorder or filter it freely.
func All() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// ByID looks up a level by its stable ID.
func ByID(id string) (Level, bool) {
	l, ok := byID[id]
	return l, ok
}

// Valid reports whether id names a known level.
func Valid(id string) bool {
	_, ok := byID[id]
	return ok
}

// DisplayOrder returns the sort position for id, or UnknownOrder when the
// id is not part of the taxonomy.
func DisplayOrder(id string) int {
	if l, ok := byID[id]; ok {
		return l.DisplayOrder
	}
	return UnknownOrder
}
