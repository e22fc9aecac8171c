package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/db"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a strand store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			dir := ""
			if len(args) > 0 {
				dir = args[0]
			}

			project, err := core.InitProject(dir, force)
			if err != nil {
				return writeCommandError(cmd, err)
			}

			conn, err := db.Open(project.DBPath)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer conn.Close()

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized strand store at %s\n", project.DBPath)
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "reinitialize even if a store exists")
	return cmd
}

// NewWhoamiCmd creates the whoami command.
func NewWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the acting handle and its admin status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			if ctx.JSONMode {
				return printJSON(cmd, map[string]any{
					"handle":   ctx.Session.Handle(),
					"is_admin": ctx.Session.IsAdmin(),
				})
			}
			role := "agent"
			if ctx.Session.IsAdmin() {
				role = "admin"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "@%s (%s)\n", ctx.Session.Handle(), role)
			return nil
		},
	}
}
