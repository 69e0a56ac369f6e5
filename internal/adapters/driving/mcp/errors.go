// Package mcp provides an MCP (Model Context Protocol) server adapter for rulebot.
// It lets AI assistants query the rule manual through retrieval and answering tools.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")

// ErrMissingAnswerer is returned when the answerer is not provided.
var ErrMissingAnswerer = errors.New("mcp: answerer is required")
