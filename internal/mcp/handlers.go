package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/snitch-dev/snitch/internal/config"
	"github.com/snitch-dev/snitch/internal/errors"
	"github.com/snitch-dev/snitch/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// projectConfig merges the repo-local config nearest to path over the global
// config, so per-project template and tracking-file overrides apply.
func (h *Handlers) projectConfig(path string) (*config.Config, error) {
	return config.WithRepo(h.cfg, filepath.Dir(path))
}

// Request types for each tool

// CaptureRequest represents the arguments for snitch_capture.
type CaptureRequest struct {
	File     string `json:"file"`
	Start    int    `json:"start,omitempty"`
	End      int    `json:"end,omitempty"`
	Line     int    `json:"line,omitempty"`
	Template string `json:"template"`
	Title    string `json:"title"`
	Body     string `json:"body,omitempty"`
}

// EntriesRequest represents the arguments for snitch_entries.
type EntriesRequest struct {
	Path    string `json:"path"`
	Heading string `json:"heading,omitempty"`
}

// RenderRequest represents the arguments for snitch_render.
type RenderRequest struct {
	File   string `json:"file"`
	Cursor *int   `json:"cursor,omitempty"`
}

// LocateRequest represents the arguments for snitch_locate.
type LocateRequest struct {
	ID string `json:"id"`
}

// ExportRequest represents the arguments for snitch_export.
type ExportRequest struct {
	Path    string `json:"path"`
	Format  string `json:"format"`
	Heading string `json:"heading,omitempty"`
	Out     string `json:"out,omitempty"`
}

// Handler implementations

// HandleCapture handles the snitch_capture tool call.
func (h *Handlers) HandleCapture(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CaptureRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	cfg, err := h.projectConfig(input.File)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Capture(h.db, cfg, ops.CaptureInput{
		File:        input.File,
		Start:       input.Start,
		End:         input.End,
		Line:        input.Line,
		TemplateKey: input.Template,
		Title:       input.Title,
		Body:        input.Body,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleEntries handles the snitch_entries tool call.
func (h *Handlers) HandleEntries(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[EntriesRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	cfg, err := h.projectConfig(input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Entries(cfg, ops.EntriesInput{
		Path:    input.Path,
		Heading: input.Heading,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRender handles the snitch_render tool call.
func (h *Handlers) HandleRender(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RenderRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	cursor := -1
	if input.Cursor != nil {
		cursor = *input.Cursor
	}

	result, err := ops.Render(ops.RenderInput{
		File:   input.File,
		Cursor: cursor,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleLocate handles the snitch_locate tool call.
func (h *Handlers) HandleLocate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[LocateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Locate(h.db, ops.LocateInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleExport handles the snitch_export tool call.
func (h *Handlers) HandleExport(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ExportRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	cfg, err := h.projectConfig(input.Path)
	if err != nil {
		return errorResult(err), nil
	}

	result, err := ops.Export(cfg, ops.ExportInput{
		Path:    input.Path,
		Heading: input.Heading,
		Format:  input.Format,
		Out:     input.Out,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
// Uses IsError: true so MCP clients recognize failures properly.
// Internal error details are not exposed to prevent leaking sensitive info.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	var snitchErr *errors.SnitchError
	if stderrors.As(err, &snitchErr) {
		msg := err.Error()
		if snitchErr.Code == errors.ErrInternal {
			msg = "an internal error occurred"
		}
		errorObj := map[string]any{
			"code":    snitchErr.Code,
			"message": msg,
			"status":  snitchErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if snitchErr.Code != errors.ErrInternal && snitchErr.Details != nil {
			errorObj["details"] = snitchErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
