// Package hir defines the typed intermediate representation for the Marlin
// command-pipeline language: the tree a parser produces and an evaluator
// consumes.
//
// The tree is built from sealed variant sets (expressions, literals,
// classified commands, named-argument states) with a source span attached
// to every node. Construction is parse-infallible: malformed regions are
// embedded as Garbage expressions or ErrorCommand stages instead of
// aborting, and every traversal in this package handles those variants as
// first-class outcomes.
//
// Nodes are constructed once, mutated only during two bounded phases
// (implicit parameter inference on Block.Push and argument binding on a
// Call), and are immutable and freely shareable afterwards. Blocks are
// shared by pointer; sharing is acyclic by construction, so unsynchronized
// concurrent reads of a finished tree are safe.
package hir
