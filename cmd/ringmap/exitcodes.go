package main

// Exit codes
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (no dataset, invalid config, bad dimensions)
	ExitDataError   = 3 // Data error (unreadable or malformed dataset, unknown node)
)
