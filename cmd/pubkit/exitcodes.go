package main

// Exit codes. Per-record problems (malformed entries, ambiguous matches)
// are warnings and still exit 0; only structural failures are non-zero.
const (
	ExitSuccess     = 0 // Success, including runs with skip-and-warn records
	ExitError       = 1 // General error (invalid arguments, unreadable/unwritable files)
	ExitConfigError = 2 // Configuration error (no repository, invalid config)
	ExitDataError   = 3 // Data error (nothing parseable in a required input)
)
