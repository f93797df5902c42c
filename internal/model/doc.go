// Package model provides the foundation types shared by the comparison and
// aggregation packages.
//
// This package contains type definitions only. Every other internal package
// may import model; model imports nothing internal. It holds:
//   - Key: a Miller index identifying one reflection
//   - Point: an (x, y) pair produced by the engine for the report sink
//   - Error: the structured error carried by every failure of the engine
package model
