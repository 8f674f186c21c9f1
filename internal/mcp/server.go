package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/tsbyq/rdf-mcp/internal/brick"
	"github.com/tsbyq/rdf-mcp/internal/ontology"
	"github.com/tsbyq/rdf-mcp/internal/tools"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tidwall/jsonc"
)

// Config represents the complete brick-mcp configuration
type Config struct {
	Settings Settings `json:"settings"`
}

// Settings represents brick-mcp settings
type Settings struct {
	SuggestionLimit int `json:"suggestionLimit"` // Number of suggestions per miss (default: 5)
}

// BrickServer exposes the Brick vocabulary tools over MCP.
type BrickServer struct {
	server          *mcp.Server
	logger          *slog.Logger
	registry        *tools.Registry
	store           *ontology.Store
	validator       *brick.Validator
	suggestionLimit int
}

// NewBrickServer creates a brick vocabulary MCP server.
func NewBrickServer(name, version string, logger *slog.Logger) (*BrickServer, error) {
	s := &BrickServer{
		logger:          logger,
		registry:        tools.NewRegistry(logger),
		store:           ontology.NewStore(logger),
		suggestionLimit: brick.DefaultSuggestionLimit,
	}

	config, err := s.loadConfig()
	if err != nil {
		logger.Warn("Failed to load config, using defaults", "error", err)
	} else if config.Settings.SuggestionLimit > 0 {
		s.suggestionLimit = config.Settings.SuggestionLimit
		logger.Info("Using custom suggestion limit", "limit", config.Settings.SuggestionLimit)
	}

	s.validator = brick.NewValidator(s.store, s.suggestionLimit, logger)

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    name,
			Version: version,
		},
		nil,
	)

	if err := s.registerBrickTools(server); err != nil {
		return nil, fmt.Errorf("failed to register brick tools: %w", err)
	}

	s.server = server
	return s, nil
}

// loadConfig loads the .brickmcp.json configuration file. Comments in the
// file are tolerated.
func (s *BrickServer) loadConfig() (*Config, error) {
	configPath := os.Getenv("BRICK_MCP_CONFIG")
	if configPath == "" {
		configPath = ".brickmcp.json"
	}

	s.logger.Info("Looking for config", "path", configPath)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info("No config found, using defaults", "path", configPath)
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	s.logger.Info("Found config", "path", configPath, "size_bytes", len(data))

	var config Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// Run starts the MCP server with the given transport
func (s *BrickServer) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// === BRICK TOOLS REGISTRATION ===

// registerBrickTools builds the tool registry and registers each tool with
// the MCP server. The typed input structs give the protocol boundary its
// schema validation; dispatch then goes through the registry.
func (s *BrickServer) registerBrickTools(server *mcp.Server) error {
	registryTools := []*tools.Tool{
		{
			Name:        "validate_brick_tag",
			Description: "Validate if a string is a recognized Brick tag and suggest similar tags if not",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"tag": map[string]any{"type": "string"},
				},
				"required": []string{"tag"},
			},
			Handler: s.handleValidateBrickTag,
		},
		{
			Name:        "get_all_brick_tags",
			Description: "Get all tags in the Brick ontology",
			InputSchema: map[string]any{"type": "object"},
			Handler:     s.handleGetAllBrickTags,
		},
		{
			Name:        "get_brick_tags",
			Description: "Get the tags a compound Brick class name is composed of",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"term": map[string]any{"type": "string"},
				},
				"required": []string{"term"},
			},
			Handler: s.handleGetBrickTags,
		},
		{
			Name:        "get_terms",
			Description: "Get all class names in the Brick ontology",
			InputSchema: map[string]any{"type": "object"},
			Handler:     s.handleGetTerms,
		},
		{
			Name:        "get_properties",
			Description: "Get all property names in the Brick ontology",
			InputSchema: map[string]any{"type": "object"},
			Handler:     s.handleGetProperties,
		},
		{
			Name:        "expand_abbreviation",
			Description: "Expand an abbreviation to its closest full Brick class names",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"abbreviation": map[string]any{"type": "string"},
				},
				"required": []string{"abbreviation"},
			},
			Handler: s.handleExpandAbbreviation,
		},
	}

	for _, tool := range registryTools {
		if err := s.registry.Register(tool); err != nil {
			return err
		}
	}

	mcp.AddTool(server, &mcp.Tool{
		Name:        "validate_brick_tag",
		Description: "Validate if a string is a recognized Brick tag. Returns whether the tag is valid and, if not, the top 5 most similar known tags.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ValidateBrickTagInput) (*mcp.CallToolResult, any, error) {
		return s.dispatch(ctx, "validate_brick_tag", map[string]any{"tag": input.Tag})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_all_brick_tags",
		Description: "Get all tags in the Brick ontology.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input GetAllBrickTagsInput) (*mcp.CallToolResult, any, error) {
		return s.dispatch(ctx, "get_all_brick_tags", map[string]any{})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_brick_tags",
		Description: "Get the tags a compound Brick class name is composed of, in source order.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input GetBrickTagsInput) (*mcp.CallToolResult, any, error) {
		return s.dispatch(ctx, "get_brick_tags", map[string]any{"term": input.Term})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_terms",
		Description: "Get all class names in the Brick ontology.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input GetTermsInput) (*mcp.CallToolResult, any, error) {
		return s.dispatch(ctx, "get_terms", map[string]any{})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_properties",
		Description: "Get all property names in the Brick ontology.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input GetPropertiesInput) (*mcp.CallToolResult, any, error) {
		return s.dispatch(ctx, "get_properties", map[string]any{})
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "expand_abbreviation",
		Description: "Expand an abbreviation to the top 5 closest full Brick class names.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, input ExpandAbbreviationInput) (*mcp.CallToolResult, any, error) {
		return s.dispatch(ctx, "expand_abbreviation", map[string]any{"abbreviation": input.Abbreviation})
	})

	return nil
}

// === TOOL INPUTS ===

// ValidateBrickTagInput defines the input for validate_brick_tag
type ValidateBrickTagInput struct {
	Tag string `json:"tag" jsonschema:"The tag to validate (e.g., 'Air', 'Temperature'). Matching is case-sensitive."`
}

// GetAllBrickTagsInput defines the input for get_all_brick_tags
type GetAllBrickTagsInput struct{}

// GetBrickTagsInput defines the input for get_brick_tags
type GetBrickTagsInput struct {
	Term string `json:"term" jsonschema:"The compound Brick class name to decompose (e.g., 'Zone_Air_Temperature_Sensor')"`
}

// GetTermsInput defines the input for get_terms
type GetTermsInput struct{}

// GetPropertiesInput defines the input for get_properties
type GetPropertiesInput struct{}

// ExpandAbbreviationInput defines the input for expand_abbreviation
type ExpandAbbreviationInput struct {
	Abbreviation string `json:"abbreviation" jsonschema:"The abbreviation to expand (e.g., 'AHU', 'VAV')"`
}

// dispatch routes a tool call through the registry and converts the outcome
// into an MCP result.
func (s *BrickServer) dispatch(ctx context.Context, toolName string, arguments map[string]any) (*mcp.CallToolResult, any, error) {
	result, err := s.registry.Execute(ctx, toolName, arguments)
	if err != nil {
		return nil, nil, err
	}

	if !result.Success {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: result.Error},
			},
		}, nil, nil
	}

	resultJSON, err := json.Marshal(result.Result)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode result: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(resultJSON)},
		},
	}, nil, nil
}

// === TOOL HANDLERS ===

func (s *BrickServer) handleValidateBrickTag(ctx context.Context, args map[string]any) (map[string]any, error) {
	tag, _ := args["tag"].(string)

	result, err := s.validator.Validate(tag)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Validated brick tag", "tag", tag, "valid", result.Valid)

	return map[string]any{
		"valid":       result.Valid,
		"tag":         result.Tag,
		"suggestions": result.Suggestions,
	}, nil
}

func (s *BrickServer) handleGetAllBrickTags(ctx context.Context, args map[string]any) (map[string]any, error) {
	tags, err := s.store.AllTags()
	if err != nil {
		return nil, err
	}
	return map[string]any{"tags": tags}, nil
}

func (s *BrickServer) handleGetBrickTags(ctx context.Context, args map[string]any) (map[string]any, error) {
	term, _ := args["term"].(string)
	return map[string]any{
		"term": term,
		"tags": s.store.Decompose(term),
	}, nil
}

func (s *BrickServer) handleGetTerms(ctx context.Context, args map[string]any) (map[string]any, error) {
	classes, err := s.store.AllClasses()
	if err != nil {
		return nil, err
	}
	return map[string]any{"terms": classes}, nil
}

func (s *BrickServer) handleGetProperties(ctx context.Context, args map[string]any) (map[string]any, error) {
	properties, err := s.store.AllProperties()
	if err != nil {
		return nil, err
	}
	return map[string]any{"properties": properties}, nil
}

func (s *BrickServer) handleExpandAbbreviation(ctx context.Context, args map[string]any) (map[string]any, error) {
	abbreviation, _ := args["abbreviation"].(string)

	classes, err := s.store.AllClasses()
	if err != nil {
		return nil, err
	}

	expansions := brick.TopMatches(abbreviation, classes, s.suggestionLimit)
	s.logger.InfoContext(ctx, "Expanded abbreviation", "abbreviation", abbreviation, "expansions", expansions)

	return map[string]any{
		"abbreviation": abbreviation,
		"expansions":   expansions,
	}, nil
}
