package tools

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// RegistryTestSuite is the test suite for Registry
type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
	ctx      context.Context
}

// SetupTest runs before each test
func (s *RegistryTestSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError, // Quiet during tests
	}))

	s.registry = NewRegistry(logger)
	s.ctx = context.Background()
}

// echoTool returns a tool that echoes its "tag" argument
func (s *RegistryTestSuite) echoTool() *Tool {
	return &Tool{
		Name:        "validate_tag",
		Description: "Validate a tag",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"tag": map[string]any{"type": "string"},
			},
			"required": []string{"tag"},
		},
		Handler: func(ctx context.Context, args map[string]any) (map[string]any, error) {
			return map[string]any{"tag": args["tag"]}, nil
		},
	}
}

// TestNewRegistry tests registry creation
func (s *RegistryTestSuite) TestNewRegistry() {
	require.NotNil(s.T(), s.registry)
	require.NotNil(s.T(), s.registry.tools)
	require.NotNil(s.T(), s.registry.logger)
}

// TestRegister tests tool registration
func (s *RegistryTestSuite) TestRegister() {
	err := s.registry.Register(s.echoTool())
	require.NoError(s.T(), err)

	registered, err := s.registry.Get("validate_tag")
	require.NoError(s.T(), err)
	require.Equal(s.T(), "validate_tag", registered.Name)
}

// TestRegisterEmptyName tests rejection of unnamed tools
func (s *RegistryTestSuite) TestRegisterEmptyName() {
	tool := s.echoTool()
	tool.Name = ""

	err := s.registry.Register(tool)
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "name cannot be empty")
}

// TestRegisterNilHandler tests rejection of tools without handlers
func (s *RegistryTestSuite) TestRegisterNilHandler() {
	tool := s.echoTool()
	tool.Handler = nil

	err := s.registry.Register(tool)
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "handler cannot be nil")
}

// TestRegisterDuplicate tests rejection of duplicate names
func (s *RegistryTestSuite) TestRegisterDuplicate() {
	require.NoError(s.T(), s.registry.Register(s.echoTool()))

	err := s.registry.Register(s.echoTool())
	require.Error(s.T(), err)
	require.Contains(s.T(), err.Error(), "already registered")
}

// TestExecute tests successful execution
func (s *RegistryTestSuite) TestExecute() {
	require.NoError(s.T(), s.registry.Register(s.echoTool()))

	result, err := s.registry.Execute(s.ctx, "validate_tag", map[string]any{"tag": "Air"})
	require.NoError(s.T(), err)
	require.True(s.T(), result.Success)
	require.Equal(s.T(), "validate_tag", result.ToolName)
	require.Equal(s.T(), "Air", result.Result["tag"])
}

// TestExecuteNotFound tests dispatch to an unknown tool
func (s *RegistryTestSuite) TestExecuteNotFound() {
	result, err := s.registry.Execute(s.ctx, "nonexistent_tool", map[string]any{})
	require.NoError(s.T(), err)
	require.False(s.T(), result.Success)
	require.Equal(s.T(), "tool_not_found", result.ErrorType)
}

// TestExecuteMissingRequiredArgument tests schema validation before dispatch
func (s *RegistryTestSuite) TestExecuteMissingRequiredArgument() {
	require.NoError(s.T(), s.registry.Register(s.echoTool()))

	result, err := s.registry.Execute(s.ctx, "validate_tag", map[string]any{})
	require.NoError(s.T(), err)
	require.False(s.T(), result.Success)
	require.Equal(s.T(), "invalid_argument", result.ErrorType)
	require.Contains(s.T(), result.Error, "missing required argument: tag")
}

// TestExecuteWrongArgumentType tests type checking before dispatch
func (s *RegistryTestSuite) TestExecuteWrongArgumentType() {
	require.NoError(s.T(), s.registry.Register(s.echoTool()))

	result, err := s.registry.Execute(s.ctx, "validate_tag", map[string]any{"tag": 42})
	require.NoError(s.T(), err)
	require.False(s.T(), result.Success)
	require.Equal(s.T(), "invalid_argument", result.ErrorType)
	require.Contains(s.T(), result.Error, "must be a string")
}

// TestExecuteHandlerError tests a failing handler
func (s *RegistryTestSuite) TestExecuteHandlerError() {
	tool := s.echoTool()
	tool.Handler = func(ctx context.Context, args map[string]any) (map[string]any, error) {
		return nil, errors.New("vocabulary unavailable")
	}
	require.NoError(s.T(), s.registry.Register(tool))

	result, err := s.registry.Execute(s.ctx, "validate_tag", map[string]any{"tag": "Air"})
	require.NoError(s.T(), err)
	require.False(s.T(), result.Success)
	require.Equal(s.T(), "execution_error", result.ErrorType)
	require.Contains(s.T(), result.Error, "vocabulary unavailable")
}

// TestListAll tests listing registered tools
func (s *RegistryTestSuite) TestListAll() {
	require.Empty(s.T(), s.registry.ListAll())

	require.NoError(s.T(), s.registry.Register(s.echoTool()))
	other := s.echoTool()
	other.Name = "other_tool"
	require.NoError(s.T(), s.registry.Register(other))

	all := s.registry.ListAll()
	require.Len(s.T(), all, 2)
}

// TestRegistryTestSuite runs the test suite
func TestRegistryTestSuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}
