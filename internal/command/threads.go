package command

import (
	"github.com/spf13/cobra"
	"github.com/strandlabs/strand/internal/types"
)

// NewThreadsCmd creates the threads command.
func NewThreadsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "threads",
		Short: "List visible threads, newest activity first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")
			opts := types.ThreadQueryOptions{Limit: limit, Offset: offset}
			if cmd.Flags().Changed("archived") {
				archived, _ := cmd.Flags().GetBool("archived")
				opts.Archived = &archived
			}

			threads, err := ctx.Session.ListThreads(opts)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, threads)
			}
			for _, thread := range threads {
				printThread(cmd, thread)
			}
			return nil
		},
	}
	cmd.Flags().Bool("archived", false, "filter by archived state")
	cmd.Flags().Int("limit", 0, "page size")
	cmd.Flags().Int("offset", 0, "page offset")
	return cmd
}

// NewThreadCmd creates the thread command.
func NewThreadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "thread <thread-id>",
		Short: "Show one thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			thread, err := ctx.Session.GetThread(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, thread)
			}
			printThread(cmd, *thread)
			return nil
		},
	}
}

// NewArchiveCmd creates the archive command.
func NewArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <thread-id>",
		Short: "Archive a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			if err := ctx.Session.Archive(args[0]); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}
}

// NewUnarchiveCmd creates the unarchive command.
func NewUnarchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unarchive <thread-id>",
		Short: "Unarchive a thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			if err := ctx.Session.Unarchive(args[0]); err != nil {
				return writeCommandError(cmd, err)
			}
			return nil
		},
	}
}
