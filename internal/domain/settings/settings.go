// Package settings defines the global application settings persisted as
// key-value rows. They seed handler defaults; composition itself always
// receives explicit options.
package settings

// Setting keys in the app_settings table.
const (
	KeyTheme            = "theme"
	KeyTokenSeparator   = "token_separator"
	KeyIncludeWeights   = "include_weights"
	KeyDefaultMaxTokens = "default_max_tokens"
)

// Settings is the full application settings container.
type Settings struct {
	Theme            string `json:"theme"`
	TokenSeparator   string `json:"token_separator"`
	IncludeWeights   bool   `json:"include_weights"`
	DefaultMaxTokens int    `json:"default_max_tokens"`
}

// Defaults returns the settings applied before anything is persisted.
// 77 is the CLIP tokenizer limit most image models inherit.
func Defaults() Settings {
	return Settings{
		Theme:            "system",
		TokenSeparator:   ", ",
		IncludeWeights:   true,
		DefaultMaxTokens: 77,
	}
}

// UpdateRequest is a partial settings update; nil fields are unchanged.
type UpdateRequest struct {
	Theme            *string `json:"theme,omitempty"`
	TokenSeparator   *string `json:"token_separator,omitempty"`
	IncludeWeights   *bool   `json:"include_weights,omitempty"`
	DefaultMaxTokens *int    `json:"default_max_tokens,omitempty"`
}

// Apply copies the provided fields onto s.
func (r *UpdateRequest) Apply(s *Settings) {
	if r.Theme != nil {
		s.Theme = *r.Theme
	}
	if r.TokenSeparator != nil {
		s.TokenSeparator = *r.TokenSeparator
	}
	if r.IncludeWeights != nil {
		s.IncludeWeights = *r.IncludeWeights
	}
	if r.DefaultMaxTokens != nil {
		s.DefaultMaxTokens = *r.DefaultMaxTokens
	}
}
