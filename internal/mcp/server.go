// ABOUTME: MCP server setup for the timetrack activity log.
// ABOUTME: Wraps the MCP server with the activity service and the signed-in session.
package mcp

import (
	"context"

	"github.com/harperreed/timetrack/internal/auth"
	"github.com/harperreed/timetrack/internal/models"
	"github.com/harperreed/timetrack/internal/tracker"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SessionFunc returns the session tool calls run as. A nil session means signed out.
type SessionFunc func(ctx context.Context) (*auth.Session, error)

// Server wraps the MCP server with activity access.
type Server struct {
	mcpServer *mcp.Server
	tracker   *tracker.Service
	session   SessionFunc
	today     func() models.Date
}

// NewServer creates a new MCP server over the given activity service.
func NewServer(svc *tracker.Service, session SessionFunc) (*Server, error) {
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "timetrack",
			Version: "1.0.0",
		},
		nil,
	)

	s := &Server{
		mcpServer: mcpServer,
		tracker:   svc,
		session:   session,
		today:     models.Today,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Serve starts the MCP server using stdio transport.
func (s *Server) Serve(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// currentSession resolves the session and fails early when signed out.
func (s *Server) currentSession(ctx context.Context) (*auth.Session, error) {
	session, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	if !session.Valid() {
		return nil, tracker.ErrNotSignedIn
	}
	return session, nil
}

// dateOrToday parses a yyyy-MM-dd date, defaulting to today.
func (s *Server) dateOrToday(raw string) (models.Date, error) {
	if raw == "" {
		return s.today(), nil
	}
	return models.ParseDate(raw)
}
