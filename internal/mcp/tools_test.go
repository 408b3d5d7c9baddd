package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okanora/tmstore/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = filepath.Join(t.TempDir(), "tm.db")

	s, err := NewServer(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.pool.Close() })
	return s
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, result *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, result)
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &body))
	return body
}

func TestHandleAddUnit(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleAddUnit(ctx, callRequest(map[string]interface{}{
		"source":      "Hello world",
		"target":      "Bonjour le monde",
		"source_lang": "en",
		"target_lang": "fr",
	}))
	require.NoError(t, err)

	body := resultJSON(t, result)
	assert.Equal(t, true, body["stored"])
	assert.Equal(t, "en", body["source_lang"])
	assert.Equal(t, "fr", body["target_lang"])
}

func TestHandleAddUnit_MissingParams(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"no source", map[string]interface{}{
			"target": "Bonjour", "source_lang": "en", "target_lang": "fr",
		}},
		{"no target", map[string]interface{}{
			"source": "Hello", "source_lang": "en", "target_lang": "fr",
		}},
		{"no source_lang", map[string]interface{}{
			"source": "Hello", "target": "Bonjour", "target_lang": "fr",
		}},
		{"empty target_lang", map[string]interface{}{
			"source": "Hello", "target": "Bonjour", "source_lang": "en", "target_lang": "",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.handleAddUnit(ctx, callRequest(tt.args))
			require.Error(t, err)

			var merr *MCPError
			require.ErrorAs(t, err, &merr)
			assert.Equal(t, ErrorCodeInvalidParams, merr.Code)
		})
	}
}

func TestHandleTranslate_RoundTrip(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleAddUnit(ctx, callRequest(map[string]interface{}{
		"source":      "Hello world",
		"target":      "Bonjour le monde",
		"source_lang": "en",
		"target_lang": "fr",
	}))
	require.NoError(t, err)

	result, err := s.handleTranslate(ctx, callRequest(map[string]interface{}{
		"text":         "Hello world",
		"source_langs": []interface{}{"en"},
		"target_langs": []interface{}{"fr"},
	}))
	require.NoError(t, err)

	body := resultJSON(t, result)
	assert.Equal(t, float64(1), body["count"])

	matches, ok := body["matches"].([]interface{})
	require.True(t, ok)
	require.Len(t, matches, 1)
	match := matches[0].(map[string]interface{})
	assert.Equal(t, "Bonjour le monde", match["target"])
	assert.Equal(t, float64(100), match["quality"])
}

func TestHandleTranslate_NoMatches(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleTranslate(ctx, callRequest(map[string]interface{}{
		"text":         "Hello world",
		"source_langs": []interface{}{"en"},
		"target_langs": []interface{}{"fr"},
	}))
	require.NoError(t, err)

	body := resultJSON(t, result)
	assert.Equal(t, float64(0), body["count"])
}

func TestHandleTranslate_MissingLanguages(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	_, err := s.handleTranslate(ctx, callRequest(map[string]interface{}{
		"text":         "Hello world",
		"source_langs": []interface{}{},
		"target_langs": []interface{}{"fr"},
	}))
	require.Error(t, err)

	var merr *MCPError
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, ErrorCodeInvalidParams, merr.Code)
}

func TestHandleStatus(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	result, err := s.handleStatus(ctx, callRequest(nil))
	require.NoError(t, err)

	body := resultJSON(t, result)
	assert.Equal(t, float64(0), body["sources"])
	assert.Equal(t, float64(0), body["targets"])

	_, err = s.handleAddUnit(ctx, callRequest(map[string]interface{}{
		"source":      "Hello world",
		"target":      "Bonjour le monde",
		"source_lang": "en",
		"target_lang": "fr",
	}))
	require.NoError(t, err)

	result, err = s.handleStatus(ctx, callRequest(nil))
	require.NoError(t, err)

	body = resultJSON(t, result)
	assert.Equal(t, float64(1), body["sources"])
	assert.Equal(t, float64(1), body["targets"])
}
