// Package report writes evaluation results.
//
// Three formats are supported:
//
//   - CSV, one file per explanation method with one row per slice
//   - Markdown, a single summary document with per-method statistics
//   - Console, a plain text block for terminal output
package report
