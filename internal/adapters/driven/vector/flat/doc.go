// Package flat provides an exhaustive in-memory vector index.
//
// Every query is compared against every stored vector using squared
// Euclidean distance. Hits are addressed by insertion position so callers
// can map them back onto a chunk sequence of the same order.
package flat
