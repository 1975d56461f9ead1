package mcp

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerTools(srv *server.MCPServer, svc *Service) {
	registerListModesTool(srv, svc)
	registerGetPhrasesTool(srv, svc)
	registerAddPhraseTool(srv, svc)
	registerRemovePhraseTool(srv, svc)
	registerSetPhraseHiddenTool(srv, svc)
	registerCreateModeTool(srv, svc)
	registerUpdateModeTool(srv, svc)
	registerDeleteModeTool(srv, svc)
	registerSetModeHiddenTool(srv, svc)
}

func scopeArgs() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("mode",
			mcp.Required(),
			mcp.Description("Mode id, built-in (panic, anxiety, sadness, anger, grounding) or custom."),
		),
		mcp.WithString("language",
			mcp.Description("Language code such as en or es. Defaults to the stored language preference."),
		),
		mcp.WithString("phase",
			mcp.Description("Phase of phased content: preparation, confrontation or reinforcement. Required when changing phrases of a phased mode, empty for sit modes."),
			mcp.Enum("preparation", "confrontation", "reinforcement"),
		),
	}
}

func scopeFrom(request mcp.CallToolRequest) (ScopeOptions, error) {
	m, err := request.RequireString("mode")
	if err != nil {
		return ScopeOptions{}, err
	}
	return ScopeOptions{
		Mode:     m,
		Language: request.GetString("language", ""),
		Phase:    request.GetString("phase", ""),
	}, nil
}

func newTool(name, description string, opts ...mcp.ToolOption) mcp.Tool {
	return mcp.NewTool(name, append([]mcp.ToolOption{mcp.WithDescription(description)}, opts...)...)
}

func registerListModesTool(srv *server.MCPServer, svc *Service) {
	tool := newTool(
		"list_modes",
		"List modes in display order: built-in modes first, then custom modes by creation time.",
		mcp.WithBoolean("all",
			mcp.Description("Include hidden modes."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		modes := svc.ListModes(ctx, request.GetBool("all", false))
		return toJSONResult(map[string]any{
			"modes": modes,
			"count": len(modes),
		})
	})
}

func registerGetPhrasesTool(srv *server.MCPServer, svc *Service) {
	tool := newTool(
		"get_phrases",
		"Get the active phrases of a mode: built-in phrases that are not hidden, then phrases the user added.",
		scopeArgs()...,
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scope, err := scopeFrom(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.Phrases(ctx, scope)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerAddPhraseTool(srv *server.MCPServer, svc *Service) {
	opts := append(scopeArgs(),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("Phrase text."),
		),
		mcp.WithString("subphrase",
			mcp.Description("Optional smaller line shown under the phrase."),
		),
	)
	tool := newTool("add_phrase", "Add a user phrase to a mode.", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var args struct {
			Text      string `json:"text"`
			Subphrase string `json:"subphrase"`
		}
		if err := request.BindArguments(&args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid arguments: %v", err)), nil
		}
		scope, err := scopeFrom(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		p, err := svc.AddPhrase(ctx, AddPhraseOptions{ScopeOptions: scope, Text: args.Text, Subphrase: args.Subphrase})
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(p)
	})
}

func registerRemovePhraseTool(srv *server.MCPServer, svc *Service) {
	opts := append(scopeArgs(),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Identifier of the user phrase to remove."),
		),
	)
	tool := newTool("remove_phrase", "Remove a phrase the user added.", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scope, err := scopeFrom(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.RemovePhrase(ctx, scope, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]string{"removed": id})
	})
}

func registerSetPhraseHiddenTool(srv *server.MCPServer, svc *Service) {
	opts := append(scopeArgs(),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Identifier of the built-in phrase."),
		),
		mcp.WithBoolean("hidden",
			mcp.Required(),
			mcp.Description("True hides the phrase, false shows it again."),
		),
	)
	tool := newTool("set_phrase_hidden", "Hide or unhide a built-in phrase.", opts...)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		scope, err := scopeFrom(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		hidden, err := request.RequireBool("hidden")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.SetPhraseHidden(ctx, scope, id, hidden); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"id": id, "hidden": hidden})
	})
}

func registerCreateModeTool(srv *server.MCPServer, svc *Service) {
	tool := newTool(
		"create_mode",
		"Create a custom mode.",
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Display name."),
		),
		mcp.WithString("method",
			mcp.Description("How phrases are shown. Defaults to sit."),
			mcp.Enum("sit", "phased"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		name, err := request.RequireString("name")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.CreateMode(ctx, name, request.GetString("method", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerUpdateModeTool(srv *server.MCPServer, svc *Service) {
	tool := newTool(
		"update_mode",
		"Rename a custom mode or change its method.",
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Custom mode id."),
		),
		mcp.WithString("name",
			mcp.Description("New display name."),
		),
		mcp.WithString("method",
			mcp.Description("New method."),
			mcp.Enum("sit", "phased"),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		dto, err := svc.UpdateMode(ctx, id, request.GetString("name", ""), request.GetString("method", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(dto)
	})
}

func registerDeleteModeTool(srv *server.MCPServer, svc *Service) {
	tool := newTool(
		"delete_mode",
		"Delete a custom mode. Phrases stored for it are kept.",
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Custom mode id."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.DeleteMode(ctx, id); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]string{"deleted": id})
	})
}

func registerSetModeHiddenTool(srv *server.MCPServer, svc *Service) {
	tool := newTool(
		"set_mode_hidden",
		"Hide or unhide a built-in or custom mode.",
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Mode id."),
		),
		mcp.WithBoolean("hidden",
			mcp.Required(),
			mcp.Description("True hides the mode, false shows it again."),
		),
	)

	srv.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := request.RequireString("id")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		hidden, err := request.RequireBool("hidden")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := svc.SetModeHidden(ctx, id, hidden); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return toJSONResult(map[string]any{"id": id, "hidden": hidden})
	})
}

func toJSONResult(data any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(data)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return result, nil
}
