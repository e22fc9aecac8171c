package command

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/strandlabs/strand/internal/types"
)

func printJSON(cmd *cobra.Command, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func formatTS(ms int64) string {
	return time.UnixMilli(ms).Local().Format("2006-01-02 15:04:05")
}

func printContact(cmd *cobra.Command, contact types.Contact) {
	name := ""
	if contact.DisplayName != nil {
		name = " (" + *contact.DisplayName + ")"
	}
	state := "active"
	if !contact.Active {
		state = "inactive"
	}
	tags := ""
	if len(contact.Tags) > 0 {
		tags = " [" + strings.Join(contact.Tags, ", ") + "]"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "@%s%s%s  %s  v%d\n", contact.Handle, name, tags, state, contact.Version)
}

func printThread(cmd *cobra.Command, thread types.Thread) {
	flag := ""
	if thread.Archived {
		flag = " (archived)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s  %s%s\n", thread.ID, thread.Subject, flag)
	fmt.Fprintf(cmd.OutOrStdout(), "  participants: %s  last activity: %s\n",
		strings.Join(thread.Participants, ", "), formatTS(thread.LastActivityAt))
}

func printMessage(cmd *cobra.Command, msg types.Message) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s] @%s -> %s: %s\n",
		msg.ID, formatTS(msg.CreatedAt), msg.From, strings.Join(msg.To, ","), msg.Subject)
	fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", msg.Body)
}

func printAuditEvent(cmd *cobra.Command, event types.AuditEvent) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s  [%s] %s  actor=@%s  target=%s\n",
		event.ID, formatTS(event.CreatedAt), event.Type, event.Actor, event.Target)
}
