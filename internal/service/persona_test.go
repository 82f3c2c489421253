package service

import (
	"context"
	"errors"
	"testing"

	"github.com/personaforge/personaforge/internal/domain"
	"github.com/personaforge/personaforge/internal/domain/persona"
)

func TestPersonaServiceCreate(t *testing.T) {
	store := newMockStore()
	hub := &mockHub{}
	svc := NewPersonaService(store, hub, nil)

	created, err := svc.Create(context.Background(), &persona.CreateRequest{Name: "Aria", Tags: []string{"fantasy"}})
	if err != nil {
		t.Fatal(err)
	}
	if created.ID == "" || created.Name != "Aria" {
		t.Errorf("unexpected persona %+v", created)
	}

	// Default generation params are created alongside.
	params, err := svc.GetParams(context.Background(), created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if params.ModelID != persona.DefaultImageModelID {
		t.Errorf("expected default model, got %q", params.ModelID)
	}

	events := hub.eventTypes()
	if len(events) != 1 || events[0] != EventPersonaCreated {
		t.Errorf("expected persona.created event, got %v", events)
	}
}

func TestPersonaServiceCreateInvalid(t *testing.T) {
	svc := NewPersonaService(newMockStore(), nil, nil)

	_, err := svc.Create(context.Background(), &persona.CreateRequest{Name: "  "})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestPersonaServiceUpdate(t *testing.T) {
	store := newMockStore()
	p := persona.New("Aria", "old", nil)
	store.addPersona(p)
	hub := &mockHub{}
	svc := NewPersonaService(store, hub, nil)

	desc := "new description"
	updated, err := svc.Update(context.Background(), p.ID, persona.UpdateRequest{Description: &desc})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Description != "new description" {
		t.Errorf("got %q", updated.Description)
	}
	if updated.Name != "Aria" {
		t.Error("unset name must stay unchanged")
	}

	events := hub.eventTypes()
	if len(events) != 1 || events[0] != EventPersonaUpdated {
		t.Errorf("expected persona.updated event, got %v", events)
	}
}

func TestPersonaServiceUpdateNotFound(t *testing.T) {
	svc := NewPersonaService(newMockStore(), nil, nil)

	name := "x"
	_, err := svc.Update(context.Background(), "missing", persona.UpdateRequest{Name: &name})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPersonaServiceDelete(t *testing.T) {
	store := newMockStore()
	p := persona.New("Aria", "", nil)
	store.addPersona(p)
	hub := &mockHub{}
	inv := &mockInvalidator{}
	svc := NewPersonaService(store, hub, inv)

	if err := svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Get(context.Background(), p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("persona should be gone, got %v", err)
	}
	if inv.count() != 1 {
		t.Errorf("expected 1 invalidation, got %d", inv.count())
	}
	events := hub.eventTypes()
	if len(events) != 1 || events[0] != EventPersonaDeleted {
		t.Errorf("expected persona.deleted event, got %v", events)
	}
}

func TestPersonaServiceUpdateParams(t *testing.T) {
	store := newMockStore()
	p := persona.New("Aria", "", nil)
	store.addPersona(p)
	svc := NewPersonaService(store, nil, nil)

	steps := 50
	params, err := svc.UpdateParams(context.Background(), p.ID, persona.UpdateParamsRequest{Steps: &steps})
	if err != nil {
		t.Fatal(err)
	}
	if params.Steps != 50 {
		t.Errorf("got steps %d", params.Steps)
	}
	if params.ModelID != persona.DefaultImageModelID {
		t.Error("unset model must stay unchanged")
	}
}

func TestPersonaServiceList(t *testing.T) {
	store := newMockStore()
	store.addPersona(persona.New("A", "", nil))
	store.addPersona(persona.New("B", "", nil))
	svc := NewPersonaService(store, nil, nil)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 personas, got %d", len(got))
	}
}
