package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/okanora/tmstore/internal/compare"
	"github.com/okanora/tmstore/internal/config"
	"github.com/okanora/tmstore/internal/storage"
	"github.com/okanora/tmstore/internal/tm"
)

const (
	// ServerName is the MCP server name
	ServerName = "tmstore"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp   *server.MCPServer
	pool  *storage.Pool
	store *storage.Store
	tm    *tm.TM
}

// NewServer creates a new MCP server instance from the process configuration.
func NewServer(cfg config.Config) (*Server, error) {
	dbPath := cfg.DBPath
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".tmstore", "tm.db")
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	pool := storage.NewPool()
	store, err := pool.Acquire(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	memory, err := tm.New(store, compare.NewLevenshtein(cfg.MaxLength), tm.Options{
		MaxCandidates: cfg.MaxCandidates,
		MinSimilarity: cfg.MinSimilarity,
		MaxLength:     cfg.MaxLength,
	})
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("failed to initialize translation memory: %w", err)
	}

	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:   mcpServer,
		pool:  pool,
		store: store,
		tm:    memory,
	}

	s.registerTools()

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.pool.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	s.mcp.AddTool(addUnitTool(), s.handleAddUnit)
	s.mcp.AddTool(translateTool(), s.handleTranslate)
	s.mcp.AddTool(statusTool(), s.handleStatus)
}
