package cli

import (
	"context"
	"errors"
	"io"

	"github.com/vk/varcar/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// Run parses args and executes the selected command. Results go to outW,
// logs and usage errors to errW.
//
// Usage errors are returned as ExitError with code 2. Validation failures
// and regressions are returned as ExitError with code 1. Other errors are
// returned as they are.
func Run(ctx context.Context, args []string, outW, errW io.Writer) error {
	root, state := newRootCommand(outW, errW)
	if args == nil {
		// A nil slice makes cobra fall back to os.Args.
		args = []string{}
	}
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return nil
	}

	var exitErr *ExitError
	switch {
	case errors.As(err, &exitErr):
		return exitErr
	case errors.Is(err, app.ErrValidationFailed), errors.Is(err, app.ErrRegression):
		return &ExitError{Code: 1, Message: err.Error()}
	case !state.started:
		// Cobra failed before any command ran: bad arguments or unknown command.
		return usageError(err)
	default:
		return err
	}
}
