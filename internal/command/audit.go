package command

import (
	"github.com/spf13/cobra"
	"github.com/strandlabs/strand/internal/types"
)

// NewAuditCmd creates the audit command (admin-only).
func NewAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "List audit events (admin-only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			actor, _ := cmd.Flags().GetString("actor")
			eventType, _ := cmd.Flags().GetString("type")
			desc, _ := cmd.Flags().GetBool("desc")
			limit, _ := cmd.Flags().GetInt("limit")
			offset, _ := cmd.Flags().GetInt("offset")

			events, err := ctx.Session.ListAuditEvents(types.AuditQueryOptions{
				Actor:      actor,
				EventType:  eventType,
				Descending: desc,
				Limit:      limit,
				Offset:     offset,
			})
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, events)
			}
			for _, event := range events {
				printAuditEvent(cmd, event)
			}
			return nil
		},
	}
	cmd.Flags().String("actor", "", "filter by actor handle")
	cmd.Flags().String("type", "", "filter by event type (exact or glob, e.g. contact.*)")
	cmd.Flags().Bool("desc", false, "newest first")
	cmd.Flags().Int("limit", 0, "page size")
	cmd.Flags().Int("offset", 0, "page offset")
	return cmd
}
