// Package tools provides an explicit tool registry: a mapping from tool name
// to a typed handler function, built once at startup. Arguments are checked
// against the tool's schema before the handler runs.
package tools

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Registry manages all available tools and their execution.
type Registry struct {
	tools  map[string]*Tool
	logger *slog.Logger
}

// NewRegistry creates a new tool registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		tools:  make(map[string]*Tool),
		logger: logger,
	}
}

// Register adds a tool to the registry.
func (r *Registry) Register(tool *Tool) error {
	if tool.Name == "" {
		return fmt.Errorf("tool name cannot be empty")
	}
	if tool.Handler == nil {
		return fmt.Errorf("tool handler cannot be nil")
	}
	if _, exists := r.tools[tool.Name]; exists {
		return fmt.Errorf("tool %s already registered", tool.Name)
	}

	r.tools[tool.Name] = tool
	r.logger.Info("Registered tool", "name", tool.Name)
	return nil
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*Tool, error) {
	tool, exists := r.tools[name]
	if !exists {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	return tool, nil
}

// Execute runs a tool with the given arguments. Invalid arguments are
// rejected here, before the handler is invoked.
func (r *Registry) Execute(ctx context.Context, toolName string, arguments map[string]any) (*ExecutionResult, error) {
	start := time.Now()

	tool, err := r.Get(toolName)
	if err != nil {
		return &ExecutionResult{
			Success:         false,
			ToolName:        toolName,
			Error:           err.Error(),
			ErrorType:       "tool_not_found",
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	if err := validateArguments(tool, arguments); err != nil {
		r.logger.WarnContext(ctx, "Rejected tool arguments", "name", toolName, "error", err)
		return &ExecutionResult{
			Success:         false,
			ToolName:        toolName,
			Error:           err.Error(),
			ErrorType:       "invalid_argument",
			ExecutionTimeMs: time.Since(start).Milliseconds(),
		}, nil
	}

	r.logger.InfoContext(ctx, "Executing tool", "name", toolName, "arguments", arguments)

	result, execErr := tool.Handler(ctx, arguments)

	executionTime := time.Since(start).Milliseconds()

	if execErr != nil {
		r.logger.ErrorContext(ctx, "Tool execution failed", "name", toolName, "error", execErr)
		return &ExecutionResult{
			Success:         false,
			ToolName:        toolName,
			Error:           execErr.Error(),
			ErrorType:       "execution_error",
			ExecutionTimeMs: executionTime,
		}, nil
	}

	r.logger.InfoContext(ctx, "Tool execution successful", "name", toolName, "execution_time_ms", executionTime)

	return &ExecutionResult{
		Success:         true,
		ToolName:        toolName,
		Result:          result,
		ExecutionTimeMs: executionTime,
	}, nil
}

// ListAll returns all registered tools.
func (r *Registry) ListAll() []*Tool {
	tools := make([]*Tool, 0, len(r.tools))
	for _, tool := range r.tools {
		tools = append(tools, tool)
	}
	return tools
}

// validateArguments checks arguments against the tool's input schema:
// required fields must be present, and fields declared "string" must carry
// string values. Unknown arguments are tolerated.
func validateArguments(tool *Tool, arguments map[string]any) error {
	if tool.InputSchema == nil {
		return nil
	}

	for _, field := range requiredFields(tool.InputSchema) {
		if _, present := arguments[field]; !present {
			return fmt.Errorf("missing required argument: %s", field)
		}
	}

	properties, ok := tool.InputSchema["properties"].(map[string]any)
	if !ok {
		return nil
	}
	for field, spec := range properties {
		value, present := arguments[field]
		if !present {
			continue
		}
		specMap, ok := spec.(map[string]any)
		if !ok {
			continue
		}
		if specMap["type"] == "string" {
			if _, isString := value.(string); !isString {
				return fmt.Errorf("argument %s must be a string", field)
			}
		}
	}

	return nil
}

// requiredFields reads the schema's "required" list. Schemas built in-process
// carry []string; schemas decoded from JSON carry []any.
func requiredFields(schema map[string]any) []string {
	switch required := schema["required"].(type) {
	case []string:
		return required
	case []any:
		fields := make([]string, 0, len(required))
		for _, f := range required {
			if name, ok := f.(string); ok {
				fields = append(fields, name)
			}
		}
		return fields
	}
	return nil
}
