// Package mcp implements the Model Context Protocol server for the
// translation-memory store.
//
// The server exposes three tools to translation clients:
//
//   - tm_add_unit: store one source/target pair with language and context
//     metadata
//   - tm_translate: fuzzy-match a sentence against the stored corpus and
//     return ranked suggestions
//   - tm_status: report row counts and database size
//
// The server speaks MCP over stdio; all logging goes to stderr.
package mcp
