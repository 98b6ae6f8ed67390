package main

// Exit codes for the kunitz CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing config, invalid values)
	ExitDataError   = 3 // Data error (missing/malformed inputs, label conflicts)
	ExitToolError   = 4 // External tool error (hmmbuild/hmmsearch failed)
)
