package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for quizdeck resources.
	uriScheme = "quizdeck://"

	settingsURI = uriScheme + "settings"
)

// settingsInfo is the JSON form of the settings resource.
type settingsInfo struct {
	SourceURL   string `json:"source_url"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	MaxAttempts int    `json:"max_attempts"`
	ConfigPath  string `json:"config_path,omitempty"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         settingsURI,
		Name:        "settings",
		Description: "Configured question source and filters",
		MIMEType:    "application/json",
	}, s.handleSettingsResource)
}

// handleSettingsResource returns the current settings.
func (s *Server) handleSettingsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Settings == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	settings, err := s.ports.Settings.Get()
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}

	data, err := json.MarshalIndent(settingsInfo{
		SourceURL:   settings.SourceURL,
		Category:    settings.Category,
		Difficulty:  settings.Difficulty,
		MaxAttempts: settings.MaxAttempts,
		ConfigPath:  s.ports.Settings.ConfigPath(),
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling settings: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
