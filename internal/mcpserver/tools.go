package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/orchestrator"
	"github.com/abhisek/interviewer/internal/report"
)

// Tools holds the MCP tool handlers.
type Tools struct {
	svc orchestrator.Service
	log *zap.Logger
}

func startDefinition() mcp.Tool {
	return mcp.NewTool("start_interview",
		mcp.WithDescription("Start a new interview session and return the first question."),
		mcp.WithString("candidate_name",
			mcp.Description("Name of the candidate, used in the report."),
		),
	)
}

func answerDefinition() mcp.Tool {
	return mcp.NewTool("answer_question",
		mcp.WithDescription("Submit the candidate's answer to the pending question. "+
			"Returns the evaluation and the next question, or the completion message. "+
			"An empty answer returns the pending question again."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID from start_interview.")),
		mcp.WithString("answer", mcp.Required(), mcp.Description("The candidate's answer text.")),
	)
}

func scorecardDefinition() mcp.Tool {
	return mcp.NewTool("get_scorecard",
		mcp.WithDescription("Return the weighted scorecard of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID.")),
	)
}

func reportDefinition() mcp.Tool {
	return mcp.NewTool("export_report",
		mcp.WithDescription("Render the interview report with the scorecard and transcript."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID.")),
		mcp.WithString("format",
			mcp.Description("Report format: md (default) or txt."),
			mcp.Enum("md", "txt"),
		),
	)
}

// Start handles start_interview.
func (t *Tools) Start(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	res, err := t.svc.Start(ctx, req.GetString("candidate_name", ""))
	if err != nil {
		return t.errorResult(err), nil
	}
	return jsonResult(res)
}

// Answer handles answer_question.
func (t *Tools) Answer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("session_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}

	var answer *string
	if a := req.GetString("answer", ""); strings.TrimSpace(a) != "" {
		answer = &a
	}

	act, err := t.svc.NextAction(ctx, id, answer)
	if err != nil {
		return t.errorResult(err), nil
	}
	return jsonResult(act)
}

// Scorecard handles get_scorecard.
func (t *Tools) Scorecard(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("session_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	sc, err := t.svc.Scorecard(ctx, id)
	if err != nil {
		return t.errorResult(err), nil
	}
	return jsonResult(sc)
}

// Report handles export_report. The document is returned as text.
func (t *Tools) Report(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("session_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'session_id' is required"), nil
	}
	format, err := report.ParseFormat(req.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := t.svc.ExportReport(ctx, id, format)
	if err != nil {
		return t.errorResult(err), nil
	}
	return mcp.NewToolResultText(string(doc)), nil
}

func (t *Tools) errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, orchestrator.ErrNotFound) {
		return mcp.NewToolResultError("session not found")
	}
	t.log.Error("mcp tool failed", zap.Error(err))
	return mcp.NewToolResultError("internal error: " + err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(out)), nil
}
