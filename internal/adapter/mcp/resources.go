package mcp

import (
	"context"
	"encoding/json"

	mcplib "github.com/mark3labs/mcp-go/mcp"

	"github.com/personaforge/personaforge/internal/domain/granularity"
)

// registerResources registers all MCP resources on the server.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(
			"personaforge://personas",
			"Persona List",
			mcplib.WithResourceDescription("List of all personas"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handlePersonasResource,
	)

	s.mcpServer.AddResource(
		mcplib.NewResource(
			"personaforge://granularities",
			"Granularity Levels",
			mcplib.WithResourceDescription("The fixed granularity taxonomy tokens are classified into"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleGranularitiesResource,
	)
}

func (s *Server) handlePersonasResource(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	if s.deps.Personas == nil {
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     `{"error":"persona directory not configured"}`,
			},
		}, nil
	}
	personas, err := s.deps.Personas.List(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(personas)
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleGranularitiesResource(_ context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	data, err := json.Marshal(granularity.All())
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
