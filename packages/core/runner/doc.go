// Package runner orchestrates the execution of request files: parsing,
// environment and variable loading, the HTTP exchange per request, and
// response-handler scripts. Requests run sequentially in file order so
// handler-set globals are visible to later requests.
package runner
