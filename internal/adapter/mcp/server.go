// Package mcp exposes personas and prompt composition to AI agents over
// the Model Context Protocol.
package mcp

import (
	"context"
	"net/http"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/personaforge/personaforge/internal/domain/persona"
	"github.com/personaforge/personaforge/internal/domain/prompt"
	"github.com/personaforge/personaforge/internal/domain/token"
)

const serverVersion = "1.0.0"

// PersonaDirectory reads personas.
type PersonaDirectory interface {
	List(ctx context.Context) ([]persona.Persona, error)
	Get(ctx context.Context, id string) (*persona.Persona, error)
}

// TokenLister reads a persona's tokens in composition order.
type TokenLister interface {
	List(ctx context.Context, personaID string) ([]token.Token, error)
}

// Composer builds prompts from a persona's tokens.
type Composer interface {
	Compose(ctx context.Context, personaID string, opts prompt.Options) (*prompt.Composed, error)
}

// Deps holds the services the MCP tools call into. Nil members disable
// the tools that need them.
type Deps struct {
	Personas PersonaDirectory
	Tokens   TokenLister
	Composer Composer
}

// Server wraps an mcp-go server with personaforge tools and resources.
type Server struct {
	mcpServer *mcpserver.MCPServer
	deps      Deps
}

// NewServer creates the MCP server and registers all tools and resources.
func NewServer(deps Deps) *Server {
	s := &Server{
		mcpServer: mcpserver.NewMCPServer(
			"personaforge",
			serverVersion,
			mcpserver.WithToolCapabilities(true),
			mcpserver.WithResourceCapabilities(false, true),
			mcpserver.WithRecovery(),
		),
		deps: deps,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Handler returns the streamable HTTP transport, for mounting on the
// main router.
func (s *Server) Handler() http.Handler {
	return mcpserver.NewStreamableHTTPServer(s.mcpServer)
}

func toolResultJSON(data string) *mcplib.CallToolResult {
	return mcplib.NewToolResultText(data)
}
