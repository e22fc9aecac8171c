package command

import (
	"os"

	"github.com/spf13/cobra"
)

const AppName = "strand"

// Version is overwritten at build time using -ldflags.
var Version = "dev"

// NewRootCmd creates the root command.
func NewRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           AppName,
		Short:         "Strand - messaging and threading for autonomous agents",
		Long:          "Strand is a thin CLI over the strand messaging engine: an append-only, thread-linked message store shared by multiple agent processes.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.Version = version
	cmd.SetVersionTemplate(AppName + " version {{.Version}}\n")
	cmd.SetOut(os.Stdout)
	cmd.SetErr(os.Stderr)

	cmd.PersistentFlags().String("store", "", "store alias or path to the strand.db file")
	cmd.PersistentFlags().String("as", "", "act as this handle (default $STRAND_HANDLE or global config)")
	cmd.PersistentFlags().Bool("json", false, "output in JSON format")
	cmd.PersistentFlags().Bool("strict-archive", false, "reject replies into archived threads")

	cmd.AddCommand(
		NewInitCmd(),
		NewWhoamiCmd(),
		NewContactCmd(),
		NewSendCmd(),
		NewReplyCmd(),
		NewMessagesCmd(),
		NewFollowCmd(),
		NewThreadsCmd(),
		NewThreadCmd(),
		NewArchiveCmd(),
		NewUnarchiveCmd(),
		NewMetaCmd(),
		NewAuditCmd(),
	)

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd(Version).Execute()
}
