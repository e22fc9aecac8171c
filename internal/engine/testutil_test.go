package engine

import (
	"path/filepath"
	"testing"

	"github.com/strandlabs/strand/internal/types"
)

func newStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "strand.db")
}

func openSession(t *testing.T, storePath, handle string, opts *Options) *Session {
	t.Helper()
	s, err := Open(storePath, handle, opts)
	if err != nil {
		t.Fatalf("open session as %s: %v", handle, err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}

// seedDirectory registers an admin plus the given plain contacts, then
// returns a fresh admin session that reflects the admin tag.
func seedDirectory(t *testing.T, storePath string, admin string, others ...string) *Session {
	t.Helper()
	bootstrap := openSession(t, storePath, admin, nil)
	if _, err := bootstrap.AddContact(admin, nil, []string{AdminTag}); err != nil {
		t.Fatalf("add admin %s: %v", admin, err)
	}
	for _, handle := range others {
		if _, err := bootstrap.AddContact(handle, nil, nil); err != nil {
			t.Fatalf("add contact %s: %v", handle, err)
		}
	}
	return openSession(t, storePath, admin, nil)
}

func strPtr(value string) *string {
	return &value
}

func messageIDs(messages []types.Message) []string {
	ids := make([]string, len(messages))
	for i, m := range messages {
		ids[i] = m.ID
	}
	return ids
}
