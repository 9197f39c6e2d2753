package mcp

import (
	"context"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer registers every streak tool on a new MCP server.
func NewServer(h *Handlers, version string, logger *slog.Logger) *mcpsdk.Server {
	if logger == nil {
		logger = slog.Default()
	}
	impl := &mcpsdk.Implementation{Name: "streakwing-mcp", Version: version}
	server := mcpsdk.NewServer(impl, &mcpsdk.ServerOptions{
		InitializedHandler: func(ctx context.Context, session *mcpsdk.ServerSession, params *mcpsdk.InitializedParams) {
			logger.Info("mcp client initialized")
		},
	})

	addTool(server, logger, ToolGetStreaks,
		"List every streak with its day counter, last update date and whether it is due today.",
		h.HandleGetStreaks)
	addTool(server, logger, ToolSaveStreak,
		"Save a complete streak record locally without creating a Todoist task. The id must be unused.",
		h.HandleSaveStreak)
	addTool(server, logger, ToolDeleteStreak,
		"Delete a streak by id. Tasks already created in Todoist are left alone.",
		h.HandleDeleteStreak)
	addTool(server, logger, ToolUpdateStreakDay,
		"Overwrite a streak's day counter and last update date (YYYY-MM-DD).",
		h.HandleUpdateStreakDay)
	addTool(server, logger, ToolCheckDailyUpdate,
		"Report whether a last update date (YYYY-MM-DD) is today in the configured timezone.",
		h.HandleCheckDailyUpdate)
	addTool(server, logger, ToolRegisterToday,
		"Create today's Todoist task for every due streak and advance its day counter. Safe to call repeatedly.",
		h.HandleRegisterToday)
	addTool(server, logger, ToolResetTodayFlags,
		"Undo today's advance on every streak updated today so registration can run again.",
		h.HandleResetTodayFlags)

	return server
}

func addTool[P any](server *mcpsdk.Server, logger *slog.Logger, name, description string, fn func(context.Context, P) (*ToolResult, error)) {
	tool := &mcpsdk.Tool{Name: name, Description: description}
	mcpsdk.AddTool(server, tool, func(ctx context.Context, _ *mcpsdk.ServerSession, params *mcpsdk.CallToolParamsFor[P]) (*mcpsdk.CallToolResultFor[any], error) {
		var args P
		if params != nil {
			args = params.Arguments
		}
		result, err := fn(ctx, args)
		if err != nil {
			logger.Error("mcp tool failed", "tool", name, "error", err)
			return errorResponse(FormatError(err.Error())), nil
		}
		return toResponse(result), nil
	})
}

func toResponse(r *ToolResult) *mcpsdk.CallToolResultFor[any] {
	if r.Error == "" {
		return markdownResponse(r.Content)
	}
	var text string
	if r.Field != "" {
		text = FormatValidationError(r.Field, r.Error)
	} else {
		text = FormatError(r.Error)
	}
	if r.Content != "" {
		text = strings.Join([]string{r.Content, text}, "\n\n")
	}
	return errorResponse(text)
}

func markdownResponse(markdown string) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: markdown}},
	}
}

// Tool errors go in the result so the client model can see them.
func errorResponse(text string) *mcpsdk.CallToolResultFor[any] {
	return &mcpsdk.CallToolResultFor[any]{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: text}},
		IsError: true,
	}
}
