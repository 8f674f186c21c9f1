package tools

import (
	"context"
)

// ToolHandler represents a function that handles tool execution
type ToolHandler func(context.Context, map[string]any) (map[string]any, error)

// Tool represents a single executable tool with its metadata and handler.
type Tool struct {
	Name        string         // Tool name
	Description string         // Tool description
	InputSchema map[string]any // JSON schema for tool arguments
	Handler     ToolHandler    // Handler function
}

// ExecutionResult represents the result of a tool execution.
type ExecutionResult struct {
	Success         bool           `json:"success"`
	ToolName        string         `json:"tool_name"`
	Result          map[string]any `json:"result,omitempty"`
	Error           string         `json:"error,omitempty"`
	ErrorType       string         `json:"error_type,omitempty"`
	ExecutionTimeMs int64          `json:"execution_time_ms"`
}
