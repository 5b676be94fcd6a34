// Package cmd implements the command-line interface for the critsec
// critical-section library. The binary is a workbench for the library, not
// part of its public surface: it hammers the global critical region and
// reports whether the exclusion guarantees held up.
//
// The package is organized into subpackages:
//
//   - stress: Commands for stress testing and benchmarking the critical region
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// See critsec -help for a list of all commands.
package cmd
