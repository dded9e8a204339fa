package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/ideastore/internal/errors"
	"github.com/hpungsan/ideastore/internal/ops"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	svc *ops.Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(svc *ops.Service) *Handlers {
	return &Handlers{svc: svc}
}

// SaveRequest represents the arguments for entry_save.
type SaveRequest struct {
	Text  string `json:"text"`
	Title string `json:"title,omitempty"`
}

// IDRequest represents the arguments for entry_get and entry_delete.
type IDRequest struct {
	ID int64 `json:"id"`
}

// ContentRequest represents the arguments for entry_content.
type ContentRequest struct {
	ID    int64  `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
}

// UpdateRequest represents the arguments for entry_update.
type UpdateRequest struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// HandleSave handles the entry_save tool.
func (h *Handlers) HandleSave(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[SaveRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation(err.Error())), nil
	}

	out, err := h.svc.Save(ctx, ops.SaveInput{Text: args.Text, Title: args.Title})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleList handles the entry_list tool.
func (h *Handlers) HandleList(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries, err := h.svc.List(ctx)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(map[string]any{"items": entries, "count": len(entries)})
}

// HandleGet handles the entry_get tool.
func (h *Handlers) HandleGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeID(req)
	if err != nil {
		return errorResult(err), nil
	}

	e, err := h.svc.Get(ctx, args.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(e)
}

// HandleContent handles the entry_content tool.
func (h *Handlers) HandleContent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[ContentRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation(err.Error())), nil
	}
	if args.ID < 0 {
		return errorResult(errors.NewValidation("Invalid ID")), nil
	}

	out, err := h.svc.Content(ctx, ops.ContentInput{ID: args.ID, Title: args.Title})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleUpdate handles the entry_update tool.
func (h *Handlers) HandleUpdate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decode[UpdateRequest](req)
	if err != nil {
		return errorResult(errors.NewValidation(err.Error())), nil
	}
	if args.ID <= 0 {
		return errorResult(errors.NewValidation("Invalid ID")), nil
	}

	out, err := h.svc.Update(ctx, ops.UpdateInput{ID: args.ID, Text: args.Text})
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

// HandleDelete handles the entry_delete tool.
func (h *Handlers) HandleDelete(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := decodeID(req)
	if err != nil {
		return errorResult(err), nil
	}

	out, err := h.svc.Delete(ctx, args.ID)
	if err != nil {
		return errorResult(err), nil
	}
	return successResult(out)
}

func decodeID(req mcp.CallToolRequest) (IDRequest, error) {
	args, err := decode[IDRequest](req)
	if err != nil || args.ID <= 0 {
		return args, errors.NewValidation("Invalid ID")
	}
	return args, nil
}

// errorResult creates an MCP error result. Wrapped causes are never included.
func errorResult(err error) *mcp.CallToolResult {
	e := errors.From(err)
	payload := map[string]any{
		"error": map[string]any{
			"code":    e.Kind,
			"message": e.Message,
			"status":  e.Status(),
		},
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
