// Package domain defines the core business entities for rulebot.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Page: Extracted text of one page of the rule manual
//   - Chunk: One rule passage with its page and rule identifier
//   - SearchResult: A retrieval-time view of a chunk
//   - Turn: One exchange of a conversation
//   - Answer: The outcome of answering one query
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
