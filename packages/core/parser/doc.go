// Package parser turns raw .http file text into an ordered list of
// request records plus the file's in-place variable declarations.
//
// The format is line-oriented and context-sensitive, so the parser is a
// four-state line scanner rather than a token grammar:
//   - AwaitingRequest: separators, comments, @name = value declarations
//   - ReadingHeaders: Name: value pairs until a blank line
//   - ReadingBody: verbatim body lines
//   - ReadingHandler: verbatim script lines between "> {%" and "%}"
//
// Parsing is lossy-tolerant: unrecognized lines are ignored and a block
// without a method+URL line is dropped. Parse never fails.
package parser
