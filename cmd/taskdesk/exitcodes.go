package main

// Exit codes for the CLI
const (
	ExitSuccess          = 0
	ExitGeneralError     = 1
	ExitConfigError      = 2
	ExitDatabaseError    = 3
	ExitInvalidInput     = 4
	ExitServerNotRunning = 5
	ExitNotFound         = 6
	ExitConflict         = 7
)
