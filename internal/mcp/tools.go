package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/okanora/tmstore/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeMissingLanguage = -32001 // Source or target language cannot be resolved
)

// handleAddUnit handles the tm_add_unit tool invocation
func (s *Server) handleAddUnit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	source, err := requiredString(args, "source")
	if err != nil {
		return nil, err
	}
	target, err := requiredString(args, "target")
	if err != nil {
		return nil, err
	}
	sourceLang, err := requiredString(args, "source_lang")
	if err != nil {
		return nil, err
	}
	targetLang, err := requiredString(args, "target_lang")
	if err != nil {
		return nil, err
	}
	contextTag := getStringDefault(args, "context", "")

	unit := types.SimpleUnit{
		SourceText: source,
		TargetText: target,
		ContextTag: contextTag,
	}

	if err := s.tm.AddUnit(ctx, unit, sourceLang, targetLang); err != nil {
		var lerr *types.LanguageError
		if errors.As(err, &lerr) {
			return nil, newMCPError(ErrorCodeMissingLanguage, lerr.Error(), map[string]interface{}{
				"side": lerr.Side,
			})
		}
		return nil, newMCPError(ErrorCodeInternalError, "failed to store unit", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"stored":      true,
		"source_lang": sourceLang,
		"target_lang": targetLang,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleTranslate handles the tm_translate tool invocation
func (s *Server) handleTranslate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	text, err := requiredString(args, "text")
	if err != nil {
		return nil, err
	}
	sourceLangs, err := requiredStringSlice(args, "source_langs")
	if err != nil {
		return nil, err
	}
	targetLangs, err := requiredStringSlice(args, "target_langs")
	if err != nil {
		return nil, err
	}

	matches, err := s.tm.TranslateUnit(ctx, text, sourceLangs, targetLangs)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "lookup failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"matches": matches,
		"count":   len(matches),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleStatus handles the tm_status tool invocation
func (s *Server) handleStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.store.Status(ctx)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to read status", map[string]interface{}{
			"error": err.Error(),
		})
	}

	response := map[string]interface{}{
		"sources":          status.SourceCount,
		"targets":          status.TargetCount,
		"database_size_mb": fmt.Sprintf("%.2f", status.SizeMB),
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// requiredString extracts a mandatory non-empty string parameter
func requiredString(args map[string]interface{}, key string) (string, error) {
	val, ok := args[key].(string)
	if !ok || val == "" {
		return "", newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	return val, nil
}

// requiredStringSlice extracts a mandatory non-empty array-of-strings parameter
func requiredStringSlice(args map[string]interface{}, key string) ([]string, error) {
	raw, ok := args[key].([]interface{})
	if !ok || len(raw) == 0 {
		return nil, newMCPError(ErrorCodeInvalidParams, key+" parameter is required", map[string]interface{}{
			"param":  key,
			"reason": "missing or empty",
		})
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok || s == "" {
			return nil, newMCPError(ErrorCodeInvalidParams, key+" must contain non-empty strings", map[string]interface{}{
				"param": key,
			})
		}
		out = append(out, s)
	}
	return out, nil
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}
