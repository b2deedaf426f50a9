package ports

import "context"

// Command describes an external tool invocation.
type Command struct {
	// Name is the executable name or path.
	Name string
	// Args are the arguments passed to the executable.
	Args []string
	// Env holds extra environment variables in "KEY=VALUE" format.
	Env []string
	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Output is the captured result of a finished command.
type Output struct {
	// Lines holds stdout and stderr combined, in the order they were written.
	Lines []string
	// ExitCode is the process exit status.
	ExitCode int
}

// CommandRunner defines the interface for running external tools.
//
//go:generate go run go.uber.org/mock/mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes the command and waits for it to finish.
	//
	// A non-zero exit status is reported through Output.ExitCode, not as an error.
	// It returns an error only if the process could not be started.
	Run(ctx context.Context, cmd Command) (*Output, error)
}
