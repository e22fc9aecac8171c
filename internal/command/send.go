package command

import (
	"github.com/spf13/cobra"
)

// NewSendCmd creates the send command.
func NewSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send <body>",
		Short: "Send a message, starting a new thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			to, _ := cmd.Flags().GetStringSlice("to")
			subject, _ := cmd.Flags().GetString("subject")
			tags, _ := cmd.Flags().GetStringSlice("tag")

			msg, err := ctx.Session.Send(to, subject, args[0], tags)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, msg)
			}
			printMessage(cmd, *msg)
			return nil
		},
	}
	cmd.Flags().StringSlice("to", nil, "recipient handles (repeatable, required)")
	cmd.Flags().String("subject", "", "thread subject (required)")
	cmd.Flags().StringSlice("tag", nil, "message tags (repeatable)")
	return cmd
}

// NewReplyCmd creates the reply command.
func NewReplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reply <message-id> <body>",
		Short: "Reply to a message in its thread",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			tags, _ := cmd.Flags().GetStringSlice("tag")

			msg, err := ctx.Session.Reply(args[0], args[1], tags)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, msg)
			}
			printMessage(cmd, *msg)
			return nil
		},
	}
	cmd.Flags().StringSlice("tag", nil, "message tags (repeatable)")
	return cmd
}
