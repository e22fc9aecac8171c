package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strandlabs/strand/internal/core"
)

func writeCommandError(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err.Error())

	switch core.KindOf(err) {
	case core.KindConflict:
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: the contact changed underneath you. Re-read it and retry with the new version.")
	case core.KindContention:
		fmt.Fprintln(cmd.ErrOrStderr(), "Hint: the store is busy. Retry the command.")
	}

	return err
}
