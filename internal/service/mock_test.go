package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/personaforge/personaforge/internal/domain"
	"github.com/personaforge/personaforge/internal/domain/persona"
	"github.com/personaforge/personaforge/internal/domain/settings"
	"github.com/personaforge/personaforge/internal/domain/token"
)

// mockStore is an in-memory database.Store for service tests. Error
// fields, when set, make the corresponding method fail.
type mockStore struct {
	mu sync.Mutex

	personas map[string]persona.Persona
	params   map[string]persona.GenerationParams
	tokens   map[string][]token.Token
	config   settings.Settings

	createPersonaErr error
	listTokensErr    error
	createTokenErr   error
	reorderErr       error
	importTokensErr  error
}

func newMockStore() *mockStore {
	return &mockStore{
		personas: make(map[string]persona.Persona),
		params:   make(map[string]persona.GenerationParams),
		tokens:   make(map[string][]token.Token),
		config:   settings.Defaults(),
	}
}

func (m *mockStore) addPersona(p persona.Persona) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.personas[p.ID] = p
	m.params[p.ID] = persona.DefaultGenerationParams(p.ID)
}

func (m *mockStore) addTokens(personaID string, tokens ...token.Token) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[personaID] = append(m.tokens[personaID], tokens...)
}

func (m *mockStore) ListPersonas(context.Context) ([]persona.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]persona.Persona, 0, len(m.personas))
	for _, p := range m.personas {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockStore) GetPersona(_ context.Context, id string) (*persona.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.personas[id]
	if !ok {
		return nil, fmt.Errorf("persona %s: %w", id, domain.ErrNotFound)
	}
	return &p, nil
}

func (m *mockStore) CreatePersona(_ context.Context, p persona.Persona, params persona.GenerationParams) (*persona.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createPersonaErr != nil {
		return nil, m.createPersonaErr
	}
	for _, existing := range m.personas {
		if existing.Name == p.Name {
			return nil, fmt.Errorf("persona name %q: %w", p.Name, domain.ErrConflict)
		}
	}
	m.personas[p.ID] = p
	m.params[p.ID] = params
	return &p, nil
}

func (m *mockStore) UpdatePersona(_ context.Context, p persona.Persona) (*persona.Persona, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.personas[p.ID]; !ok {
		return nil, fmt.Errorf("persona %s: %w", p.ID, domain.ErrNotFound)
	}
	m.personas[p.ID] = p
	return &p, nil
}

func (m *mockStore) DeletePersona(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.personas[id]; !ok {
		return fmt.Errorf("persona %s: %w", id, domain.ErrNotFound)
	}
	delete(m.personas, id)
	delete(m.params, id)
	delete(m.tokens, id)
	return nil
}

func (m *mockStore) GetGenerationParams(_ context.Context, personaID string) (*persona.GenerationParams, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.params[personaID]
	if !ok {
		return nil, fmt.Errorf("params for %s: %w", personaID, domain.ErrNotFound)
	}
	return &p, nil
}

func (m *mockStore) UpdateGenerationParams(_ context.Context, p persona.GenerationParams) (*persona.GenerationParams, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.params[p.PersonaID] = p
	return &p, nil
}

func (m *mockStore) ListTokens(_ context.Context, personaID string) ([]token.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listTokensErr != nil {
		return nil, m.listTokensErr
	}
	out := make([]token.Token, len(m.tokens[personaID]))
	copy(out, m.tokens[personaID])
	return out, nil
}

func (m *mockStore) GetToken(_ context.Context, id string) (*token.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, list := range m.tokens {
		for _, t := range list {
			if t.ID == id {
				return &t, nil
			}
		}
	}
	return nil, fmt.Errorf("token %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) CreateToken(_ context.Context, req token.CreateRequest) (*token.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createTokenErr != nil {
		return nil, m.createTokenErr
	}
	if _, ok := m.personas[req.PersonaID]; !ok {
		return nil, fmt.Errorf("persona %s: %w", req.PersonaID, domain.ErrNotFound)
	}
	t := token.New(req.PersonaID, req.GranularityID, req.Polarity, req.Content, req.Weight, m.nextPosition(req.PersonaID))
	m.tokens[req.PersonaID] = append(m.tokens[req.PersonaID], t)
	return &t, nil
}

func (m *mockStore) CreateTokenBatch(_ context.Context, req token.BatchCreateRequest, contents []string) ([]token.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.personas[req.PersonaID]; !ok {
		return nil, fmt.Errorf("persona %s: %w", req.PersonaID, domain.ErrNotFound)
	}
	out := make([]token.Token, 0, len(contents))
	for _, c := range contents {
		t := token.New(req.PersonaID, req.GranularityID, req.Polarity, c, req.Weight, m.nextPosition(req.PersonaID))
		m.tokens[req.PersonaID] = append(m.tokens[req.PersonaID], t)
		out = append(out, t)
	}
	return out, nil
}

func (m *mockStore) UpdateToken(_ context.Context, id string, req token.UpdateRequest) (*token.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pid, list := range m.tokens {
		for i := range list {
			if list[i].ID == id {
				req.Apply(&m.tokens[pid][i])
				t := m.tokens[pid][i]
				return &t, nil
			}
		}
	}
	return nil, fmt.Errorf("token %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) DeleteToken(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for pid, list := range m.tokens {
		for i := range list {
			if list[i].ID == id {
				m.tokens[pid] = append(list[:i], list[i+1:]...)
				return nil
			}
		}
	}
	return fmt.Errorf("token %s: %w", id, domain.ErrNotFound)
}

func (m *mockStore) ReorderTokens(_ context.Context, req token.ReorderRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.reorderErr != nil {
		return m.reorderErr
	}
	byID := make(map[string]int, len(req.Assignments))
	for _, a := range req.Assignments {
		byID[a.TokenID] = a.Position
	}
	list := m.tokens[req.PersonaID]
	for i := range list {
		if pos, ok := byID[list[i].ID]; ok {
			list[i].Position = pos
		}
	}
	return nil
}

func (m *mockStore) ImportTokens(_ context.Context, personaID string, tokens []token.Token) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.importTokensErr != nil {
		return m.importTokensErr
	}
	for i, t := range tokens {
		fresh := token.New(personaID, t.GranularityID, t.Polarity, t.Content, t.Weight, i)
		m.tokens[personaID] = append(m.tokens[personaID], fresh)
	}
	return nil
}

func (m *mockStore) GetSettings(context.Context) (*settings.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cfg := m.config
	return &cfg, nil
}

func (m *mockStore) UpdateSettings(_ context.Context, req settings.UpdateRequest) (*settings.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req.Apply(&m.config)
	cfg := m.config
	return &cfg, nil
}

func (m *mockStore) nextPosition(personaID string) int {
	next := 0
	for _, t := range m.tokens[personaID] {
		if t.Position >= next {
			next = t.Position + 1
		}
	}
	return next
}

// mockHub records broadcast events.
type mockHub struct {
	mu     sync.Mutex
	events []string
}

func (h *mockHub) BroadcastEvent(_ context.Context, eventType string, _ any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, eventType)
}

func (h *mockHub) eventTypes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.events))
	copy(out, h.events)
	return out
}

// mockInvalidator records invalidated persona IDs.
type mockInvalidator struct {
	mu  sync.Mutex
	ids []string
}

func (i *mockInvalidator) Invalidate(personaID string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.ids = append(i.ids, personaID)
}

func (i *mockInvalidator) count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return len(i.ids)
}

// memCache is a minimal in-memory cache.Cache for compose tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
	gets int
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	c.data[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}
