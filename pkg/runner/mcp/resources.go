package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

func registerResources(srv *server.MCPServer, svc *Service) {
	registerModesResource(srv, svc)
	registerPreferencesResource(srv, svc)
	registerPhrasesTemplate(srv, svc)
}

func registerModesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"anchor://modes",
		"Modes",
		mcp.WithResourceDescription("Every mode with its method and visibility."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		modes := svc.ListModes(ctx, true)
		payload := map[string]any{
			"modes": modes,
			"count": len(modes),
		}
		return encodeResourceJSON(request.Params.URI, payload)
	})
}

func registerPreferencesResource(srv *server.MCPServer, svc *Service) {
	resource := mcp.NewResource(
		"anchor://preferences",
		"Preferences",
		mcp.WithResourceDescription("Theme, language and navigation hint state."),
		mcp.WithMIMEType("application/json"),
	)

	srv.AddResource(resource, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return encodeResourceJSON(request.Params.URI, svc.Preferences(ctx))
	})
}

func registerPhrasesTemplate(srv *server.MCPServer, svc *Service) {
	template := mcp.NewResourceTemplate(
		"anchor://phrases/{mode}/{language}",
		"Active Phrases",
		mcp.WithTemplateDescription("Active phrases of a mode in a language."),
		mcp.WithTemplateMIMEType("application/json"),
	)

	srv.AddResourceTemplate(template, func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		m := templateArg(request, "mode")
		if m == "" {
			return nil, fmt.Errorf("mode is required")
		}
		dto, err := svc.Phrases(ctx, ScopeOptions{Mode: m, Language: templateArg(request, "language")})
		if err != nil {
			return nil, err
		}
		return encodeResourceJSON(request.Params.URI, dto)
	})
}

// templateArg reads a matched URI template variable, which arrives either as
// a string or as a one-element list.
func templateArg(request mcp.ReadResourceRequest, name string) string {
	switch v := request.Params.Arguments[name].(type) {
	case string:
		return v
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

func encodeResourceJSON(uri string, payload any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
