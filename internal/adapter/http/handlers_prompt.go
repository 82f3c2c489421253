package http

import (
	"net/http"

	"github.com/personaforge/personaforge/internal/domain/prompt"
)

// composeRequest is the request body for prompt composition. Absent
// fields fall back to the composer defaults.
type composeRequest struct {
	IncludeWeights *bool                `json:"include_weights,omitempty"`
	Separator      *string              `json:"separator,omitempty"`
	GranularityIDs []string             `json:"granularity_ids,omitempty"`
	AdhocPositive  string               `json:"adhoc_positive,omitempty"`
	AdhocNegative  string               `json:"adhoc_negative,omitempty"`
	AdhocPosition  prompt.AdhocPosition `json:"adhoc_position,omitempty"`
}

func (req composeRequest) options() prompt.Options {
	opts := prompt.DefaultOptions()
	if req.IncludeWeights != nil {
		opts.IncludeWeights = *req.IncludeWeights
	}
	if req.Separator != nil {
		opts.Separator = *req.Separator
	}
	opts.GranularityIDs = req.GranularityIDs
	opts.AdhocPositive = req.AdhocPositive
	opts.AdhocNegative = req.AdhocNegative
	if req.AdhocPosition != "" {
		opts.AdhocPosition = req.AdhocPosition
	}
	return opts
}

// ComposePrompt handles POST /personas/{id}/compose.
func (h *Handlers) ComposePrompt(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[composeRequest](w, r, maxRequestBodySize)
	if !ok {
		return
	}

	composed, err := h.Prompts.Compose(r.Context(), urlParam(r, "id"), req.options())
	if err != nil {
		writeDomainError(w, err, "persona not found")
		return
	}
	writeJSON(w, http.StatusOK, composed)
}
