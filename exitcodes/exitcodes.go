// Package exitcodes defines the standard exit codes used by op-refcheck.
package exitcodes

// Exit code constants used by op-refcheck
// These constants define the exit codes that the application uses to indicate
// the outcome of a run:
//
// * Success (0): The reference was updated, or the output matched it
// * Mismatch (1): The output differs from the reference; a diff was printed
// * RuntimeErr (2): The target failed to run, the reference is missing, or the configuration is invalid
const (
	Success    = 0 // Output matches, or reference updated
	Mismatch   = 1 // Output differs from the reference
	RuntimeErr = 2 // Runtime errors
)
