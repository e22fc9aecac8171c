package command

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strandlabs/strand/internal/db"
	"github.com/strandlabs/strand/internal/types"
)

// NewContactCmd creates the contact command group.
func NewContactCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Manage the agent directory",
	}
	cmd.AddCommand(
		newContactAddCmd(),
		newContactListCmd(),
		newContactGetCmd(),
		newContactUpdateCmd(),
		newContactDeactivateCmd(),
		newContactSearchCmd(),
	)
	return cmd
}

func newContactAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <handle>",
		Short: "Register a new contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			name, _ := cmd.Flags().GetString("name")
			tags, _ := cmd.Flags().GetStringSlice("tag")

			var displayName *string
			if name != "" {
				displayName = &name
			}

			contact, err := ctx.Session.AddContact(args[0], displayName, tags)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, contact)
			}
			printContact(cmd, *contact)
			return nil
		},
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().StringSlice("tag", nil, "tags (repeatable; \"admin\" grants admin visibility)")
	return cmd
}

func newContactListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			activeOnly, _ := cmd.Flags().GetBool("active")
			contacts, err := ctx.Session.ListContacts(activeOnly)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, contacts)
			}
			for _, contact := range contacts {
				printContact(cmd, contact)
			}
			return nil
		},
	}
	cmd.Flags().Bool("active", false, "only active contacts")
	return cmd
}

func newContactGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <handle>",
		Short: "Show one contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			contact, err := ctx.Session.GetContact(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, contact)
			}
			printContact(cmd, *contact)
			return nil
		},
	}
}

func newContactUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <handle>",
		Short: "Update a contact (optimistic, requires --version)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			version, _ := cmd.Flags().GetInt64("version")
			if version <= 0 {
				return writeCommandError(cmd, fmt.Errorf("--version is required"))
			}

			var updates db.ContactUpdates
			if cmd.Flags().Changed("name") {
				name, _ := cmd.Flags().GetString("name")
				updates.DisplayName = types.OptionalString{Set: true, Value: &name}
			}
			if cmd.Flags().Changed("tag") {
				tags, _ := cmd.Flags().GetStringSlice("tag")
				updates.Tags = types.OptionalStrings{Set: true, Value: tags}
			}

			contact, err := ctx.Session.UpdateContact(args[0], version, updates)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, contact)
			}
			printContact(cmd, *contact)
			return nil
		},
	}
	cmd.Flags().Int64("version", 0, "expected contact version")
	cmd.Flags().String("name", "", "new display name")
	cmd.Flags().StringSlice("tag", nil, "replacement tag set (repeatable)")
	return cmd
}

func newContactDeactivateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deactivate <handle>",
		Short: "Deactivate a contact (never deleted)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			version, _ := cmd.Flags().GetInt64("version")
			if version <= 0 {
				return writeCommandError(cmd, fmt.Errorf("--version is required"))
			}

			contact, err := ctx.Session.DeactivateContact(args[0], version)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, contact)
			}
			printContact(cmd, *contact)
			return nil
		},
	}
	cmd.Flags().Int64("version", 0, "expected contact version")
	return cmd
}

func newContactSearchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search contacts by handle or display name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := GetContext(cmd)
			if err != nil {
				return writeCommandError(cmd, err)
			}
			defer ctx.Session.Close()

			contacts, err := ctx.Session.SearchContacts(args[0])
			if err != nil {
				return writeCommandError(cmd, err)
			}
			if ctx.JSONMode {
				return printJSON(cmd, contacts)
			}
			for _, contact := range contacts {
				printContact(cmd, contact)
			}
			return nil
		},
	}
}
