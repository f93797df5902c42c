package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// Execute runs cmd and returns the process exit code.
//
// Errors that a command already reported through its OutputFormatter are
// not printed again. Anything else, such as an unknown flag or a wrong
// argument count, is printed to stderr and treated as a command error.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	var exitErr *ExitError
	if err != nil && !(errors.As(err, &exitErr) && exitErr.reported) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return GetExitCode(err)
}
