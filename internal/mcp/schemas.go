package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// addUnitTool returns the tool definition for tm_add_unit
func addUnitTool() mcp.Tool {
	return mcp.Tool{
		Name:        "tm_add_unit",
		Description: "Store one source/target translation pair in the translation memory",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source": map[string]interface{}{
					"type":        "string",
					"description": "Sentence in the original language",
				},
				"target": map[string]interface{}{
					"type":        "string",
					"description": "Translation of the source sentence",
				},
				"context": map[string]interface{}{
					"type":        "string",
					"description": "Optional disambiguating tag (e.g. UI string identifier)",
				},
				"source_lang": map[string]interface{}{
					"type":        "string",
					"description": "Language tag of the source sentence (e.g. 'en')",
				},
				"target_lang": map[string]interface{}{
					"type":        "string",
					"description": "Language tag of the translation (e.g. 'fr')",
				},
			},
			Required: []string{"source", "target", "source_lang", "target_lang"},
		},
	}
}

// translateTool returns the tool definition for tm_translate
func translateTool() mcp.Tool {
	return mcp.Tool{
		Name:        "tm_translate",
		Description: "Fuzzy-match a sentence against the translation memory and return ranked suggestions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Sentence to find stored translations for",
				},
				"source_langs": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Accepted source language tags",
				},
				"target_langs": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "string"},
					"description": "Accepted target language tags",
				},
			},
			Required: []string{"text", "source_langs", "target_langs"},
		},
	}
}

// statusTool returns the tool definition for tm_status
func statusTool() mcp.Tool {
	return mcp.Tool{
		Name:        "tm_status",
		Description: "Report translation-memory row counts and database size",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}
