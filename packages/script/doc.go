// Package script executes response-handler JavaScript in an isolated
// goja runtime. Each run gets a fresh interpreter with exactly two host
// globals: a read-only `response` view and a `client` capability object
// for tests, assertions, logging, and named global values. All state a
// handler can affect lives host-side and is returned as a Result;
// nothing survives in the interpreter between runs.
package script
