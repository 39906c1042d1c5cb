package cmd

// Exit codes for the httprun CLI
const (
	// ExitSuccess indicates all requests and tests succeeded
	ExitSuccess = 0

	// ExitTestFailure indicates one or more tests failed or a request errored
	ExitTestFailure = 1

	// ExitUsageError indicates invalid CLI usage
	ExitUsageError = 64
)
