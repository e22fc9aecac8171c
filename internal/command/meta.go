package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMetaCmd creates the meta command group for per-thread metadata.
func NewMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Manage per-thread metadata",
	}
	cmd.AddCommand(newMetaSetCmd(), newMetaGetCmd(), newMetaDelCmd(), newMetaListCmd())
	return cmd
}

func newMetaSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <thread-id> <key> <value>",
		Short: "Set a metadata key",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			if err := ctx.Session.SetMetadata(args[0], args[1], args[2]); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}
}

func newMetaGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <thread-id> <key>",
		Short: "Read a metadata key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			value, err := ctx.Session.GetMetadata(args[0], args[1])
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, map[string]string{args[1]: value})
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newMetaDelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "del <thread-id> <key>",
		Short: "Delete a metadata key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			if err := ctx.Session.DeleteMetadata(args[0], args[1]); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}
}

func newMetaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <thread-id>",
		Short: "List all metadata of a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			meta, err := ctx.Session.ListMetadata(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, meta)
			}
			for key, value := range meta {
				fmt.Fprintf(cmd.OutOrStdout(), "%s=%s\n", key, value)
			}
			return nil
		},
	}
}
