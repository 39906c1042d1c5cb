// Package http dispatches resolved requests and builds the immutable
// response view that response handlers observe.
package http
