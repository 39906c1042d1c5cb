// Package output provides formatters for displaying run results.
//
// Supported output formats:
//   - Console: human-readable colored terminal output
//   - JSON: machine-readable report for CI pipelines
//
// Each formatter implements the Formatter interface; formats that
// accumulate results before writing also implement Flushable.
package output
