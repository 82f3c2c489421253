package postgres

import (
	"context"
	"fmt"
	"strconv"

	"github.com/personaforge/personaforge/internal/domain/settings"
)

// GetSettings overlays persisted rows onto the defaults, so unset keys
// keep their default value and unknown keys are ignored.
func (s *Store) GetSettings(ctx context.Context) (*settings.Settings, error) {
	rows, err := s.pool.Query(ctx, `SELECT key, value FROM app_settings`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	out := settings.Defaults()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		switch key {
		case settings.KeyTheme:
			out.Theme = value
		case settings.KeyTokenSeparator:
			out.TokenSeparator = value
		case settings.KeyIncludeWeights:
			out.IncludeWeights = value == "true"
		case settings.KeyDefaultMaxTokens:
			if n, err := strconv.Atoi(value); err == nil {
				out.DefaultMaxTokens = n
			}
		}
	}
	return &out, rows.Err()
}

// UpdateSettings upserts the provided keys and returns the merged result.
func (s *Store) UpdateSettings(ctx context.Context, req settings.UpdateRequest) (*settings.Settings, error) {
	pairs := map[string]string{}
	if req.Theme != nil {
		pairs[settings.KeyTheme] = *req.Theme
	}
	if req.TokenSeparator != nil {
		pairs[settings.KeyTokenSeparator] = *req.TokenSeparator
	}
	if req.IncludeWeights != nil {
		pairs[settings.KeyIncludeWeights] = strconv.FormatBool(*req.IncludeWeights)
	}
	if req.DefaultMaxTokens != nil {
		pairs[settings.KeyDefaultMaxTokens] = strconv.Itoa(*req.DefaultMaxTokens)
	}

	for key, value := range pairs {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO app_settings (key, value) VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
			key, value)
		if err != nil {
			return nil, fmt.Errorf("upsert setting %s: %w", key, err)
		}
	}

	return s.GetSettings(ctx)
}
