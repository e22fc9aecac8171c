package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/engine"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	Session  *engine.Session
	JSONMode bool
}

// GetContext resolves the store path and handle, then opens a session.
// The caller owns Session.Close.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	jsonMode, _ := cmd.Flags().GetBool("json")
	storeRef, _ := cmd.Flags().GetString("store")
	handle, _ := cmd.Flags().GetString("as")
	strictArchive, _ := cmd.Flags().GetBool("strict-archive")

	config, err := core.ReadGlobalConfig()
	if err != nil {
		return nil, err
	}

	if handle == "" {
		handle = os.Getenv("STRAND_HANDLE")
	}
	if handle == "" {
		handle = config.DefaultHandle
	}
	if handle == "" {
		return nil, fmt.Errorf("--as is required (or set $STRAND_HANDLE)")
	}

	var dbPath string
	if storeRef != "" {
		dbPath = core.ResolveStore(config, storeRef)
	} else {
		project, err := core.DiscoverProject("")
		if err != nil {
			return nil, err
		}
		dbPath = project.DBPath
	}

	session, err := engine.Open(dbPath, handle, &engine.Options{
		RejectArchivedSends: strictArchive,
	})
	if err != nil {
		return nil, err
	}

	return &CommandContext{Session: session, JSONMode: jsonMode}, nil
}
