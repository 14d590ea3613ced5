// Package mcpserver exposes the interview over the Model Context Protocol.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/orchestrator"
)

const serverName = "interviewer"

// New creates an MCP server with the interview tools registered.
func New(svc orchestrator.Service, version string, log *zap.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	t := &Tools{svc: svc, log: log}
	if t.log == nil {
		t.log = zap.NewNop()
	}
	s.AddTool(startDefinition(), t.Start)
	s.AddTool(answerDefinition(), t.Answer)
	s.AddTool(scorecardDefinition(), t.Scorecard)
	s.AddTool(reportDefinition(), t.Report)
	return s
}

// ServeStdio runs s over stdin/stdout until the client disconnects.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = "Runs a three-round interview (behavioural, logical, aptitude; three questions each). " +
	"Call start_interview, then answer_question with each reply until the status is completed. " +
	"Use get_scorecard and export_report at any time."
