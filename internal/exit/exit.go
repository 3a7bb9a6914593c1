// Package exit gives every command a typed process exit code instead of a
// bare call to os.Exit, so callers can inspect *and* test which failure
// category sent the program down.
package exit

// Code is a exit code for the program.
type Code int

// Error is an error returned by the program that contains the error that caused
// the program to fail and the desired exit code for the process.
type Error struct {
	Code Code
	Err  error
}

const (
	// Success is the exit code when the program is executed successfully.
	Success Code = 0

	// Failure is the exit code for generic or unknown errors.
	Failure Code = 1

	// InvalidConfig is the exit code for a malformed configuration file or
	// flag combination, caught before any command logic runs.
	InvalidConfig Code = 2

	// CommandRunFailure is the exit code for a command that started running
	// but failed partway through (an RPC call that errored, a gossip_store
	// that failed to decode, and so on).
	CommandRunFailure Code = 3

	// HandshakeFailure is the exit code set aside for a failed getmanifest/init
	// handshake with the daemon. No command in this module returns it:
	// cmd/clnplugin-example exits with status 1 when pkg/plugin's Serve
	// returns an error, including after a failed "init".
	HandshakeFailure Code = 4
)

// New wraps err with code so callers further up the stack (ultimately
// main()) can translate it into a process exit status, matching the pattern
// the CLI command layers rely on throughout this module.
func New(code Code, err error) *Error {
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}
