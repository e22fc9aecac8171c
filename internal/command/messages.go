package command

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/types"
	"github.com/strandlabs/strand/internal/watch"
)

// NewMessagesCmd creates the messages command.
func NewMessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List visible messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			opts := messageOptsFromFlags(cmd)
			search, _ := cmd.Flags().GetString("search")

			var messages []types.Message
			if search != "" {
				messages, err = ctx.Session.SearchMessages(search, opts.Limit, opts.Offset)
			} else {
				messages, err = ctx.Session.ListMessages(opts)
			}
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, messages)
			}
			for _, msg := range messages {
				printMessage(cmd, msg)
			}
			return nil
		},
	}
	addMessageFlags(cmd)
	cmd.Flags().String("search", "", "substring search over subject and body")
	return cmd
}

// NewFollowCmd creates the follow command: an incremental poll over the
// shared store, re-run whenever another process commits.
func NewFollowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Stream new messages as other processes write them",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			opts := messageOptsFromFlags(cmd)
			storeRef, _ := cmd.Flags().GetString("store")
			var dbPath string
			if storeRef != "" {
				config, err := core.ReadGlobalConfig()
				if err != nil {
					return writeCommandError(cmd, err)
				}
				dbPath = core.ResolveStore(config, storeRef)
			} else {
				project, err := core.DiscoverProject("")
				if err != nil {
					return writeCommandError(cmd, err)
				}
				dbPath = project.DBPath
			}

			drain := func() {
				for {
					messages, err := ctx.Session.ListMessages(opts)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "poll: %v\n", err)
						return
					}
					if len(messages) == 0 {
						return
					}
					for _, msg := range messages {
						printMessage(cmd, msg)
					}
					opts.SinceID = messages[len(messages)-1].ID
				}
			}
			drain()

			changes := make(chan struct{}, 1)
			watcher, err := watch.New(dbPath, 150*time.Millisecond, func() {
				select {
				case changes <- struct{}{}:
				default:
				}
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer watcher.Close()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			for {
				select {
				case <-stop:
					return nil
				case <-changes:
					drain()
				}
			}
		},
	}
	addMessageFlags(cmd)
	return cmd
}

func addMessageFlags(cmd *cobra.Command) {
	cmd.Flags().String("thread", "", "only messages in this thread")
	cmd.Flags().String("since", "", "only messages after this message id")
	cmd.Flags().Int("limit", 0, "page size")
	cmd.Flags().Int("offset", 0, "page offset")
}

func messageOptsFromFlags(cmd *cobra.Command) types.MessageQueryOptions {
	threadID, _ := cmd.Flags().GetString("thread")
	sinceID, _ := cmd.Flags().GetString("since")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	return types.MessageQueryOptions{
		ThreadID: threadID,
		SinceID:  sinceID,
		Limit:    limit,
		Offset:   offset,
	}
}
