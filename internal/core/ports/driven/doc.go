// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChunkStore: Persisted chunks and nearest-neighbour search
//   - LLMClient: Completion model invocation (blocking and streaming)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Required by the SQLite
//     chunk store; the in-memory store can rank pre-embedded queries.
//   - SearchProvider: A single web search backend. Zero providers means the
//     web search tool always reports no results.
//   - PromptStore: Customisable prompt templates. Without it, compiled-in
//     defaults are used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
