package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/personaforge/personaforge/internal/domain/prompt"
)

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.listPersonasTool(),
		s.getPersonaTool(),
		s.listTokensTool(),
		s.composePromptTool(),
	)
}

func (s *Server) listPersonasTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_personas",
		mcplib.WithDescription("List all personas with their names, tags and descriptions"),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleListPersonas,
	}
}

func (s *Server) getPersonaTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_persona",
		mcplib.WithDescription("Get details of a specific persona by ID"),
		mcplib.WithString("persona_id",
			mcplib.Required(),
			mcplib.Description("The persona ID to look up"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleGetPersona,
	}
}

func (s *Server) listTokensTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_tokens",
		mcplib.WithDescription("List a persona's prompt tokens in composition order"),
		mcplib.WithString("persona_id",
			mcplib.Required(),
			mcplib.Description("The persona whose tokens to list"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleListTokens,
	}
}

func (s *Server) composePromptTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("compose_prompt",
		mcplib.WithDescription("Compose the positive and negative prompt strings for a persona"),
		mcplib.WithString("persona_id",
			mcplib.Required(),
			mcplib.Description("The persona to compose prompts for"),
		),
		mcplib.WithBoolean("include_weights",
			mcplib.Description("Decorate non-default weights as (content:1.2); defaults to true"),
		),
		mcplib.WithString("separator",
			mcplib.Description("Fragment separator; defaults to ', '"),
		),
	)
	return mcpserver.ServerTool{
		Tool:    tool,
		Handler: s.handleComposePrompt,
	}
}

func (s *Server) handleListPersonas(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Personas == nil {
		return mcplib.NewToolResultError("persona directory not configured"), nil
	}
	personas, err := s.deps.Personas.List(ctx)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to list personas", err), nil
	}
	data, err := json.Marshal(personas)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal personas", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleGetPersona(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Personas == nil {
		return mcplib.NewToolResultError("persona directory not configured"), nil
	}
	personaID, ok := req.GetArguments()["persona_id"].(string)
	if !ok || personaID == "" {
		return mcplib.NewToolResultError("persona_id is required"), nil
	}
	p, err := s.deps.Personas.Get(ctx, personaID)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(
			fmt.Sprintf("failed to get persona %s", personaID), err,
		), nil
	}
	data, err := json.Marshal(p)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal persona", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleListTokens(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Tokens == nil {
		return mcplib.NewToolResultError("token lister not configured"), nil
	}
	personaID, ok := req.GetArguments()["persona_id"].(string)
	if !ok || personaID == "" {
		return mcplib.NewToolResultError("persona_id is required"), nil
	}
	tokens, err := s.deps.Tokens.List(ctx, personaID)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(
			fmt.Sprintf("failed to list tokens for persona %s", personaID), err,
		), nil
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal tokens", err), nil
	}
	return toolResultJSON(string(data)), nil
}

func (s *Server) handleComposePrompt(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Composer == nil {
		return mcplib.NewToolResultError("composer not configured"), nil
	}
	args := req.GetArguments()
	personaID, ok := args["persona_id"].(string)
	if !ok || personaID == "" {
		return mcplib.NewToolResultError("persona_id is required"), nil
	}

	opts := prompt.DefaultOptions()
	if v, ok := args["include_weights"].(bool); ok {
		opts.IncludeWeights = v
	}
	if v, ok := args["separator"].(string); ok && v != "" {
		opts.Separator = v
	}

	composed, err := s.deps.Composer.Compose(ctx, personaID, opts)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(
			fmt.Sprintf("failed to compose prompts for persona %s", personaID), err,
		), nil
	}
	data, err := json.Marshal(composed)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal composition", err), nil
	}
	return toolResultJSON(string(data)), nil
}
