// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Offline pipeline
//
//   - PageExtractor: Turns the rule manual into page-indexed text (pdftotext)
//   - Segmenter: Splits page text into rule-tagged chunks
//   - ChunkStore: Chunk collection persistence (processed_chunks.json)
//   - IndexStore: Index artifact persistence (SQLite index.db)
//
// # Query time
//
//   - EmbeddingService: Turns text into vectors (document or query task)
//   - VectorIndex: Exhaustive nearest-neighbour search over loaded vectors
//   - LLMService: Text generation for the final answer
//   - PromptStore: User-editable system instructions
//
// # Configuration
//
//   - ConfigStore: Application configuration (TOML)
//   - AIConfigValidator: Provider connectivity checks
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or postprocessor package
package driven
