package engine

import (
	"testing"

	"github.com/strandlabs/strand/internal/core"
)

func TestOpenRejectsBadHandle(t *testing.T) {
	_, err := Open(newStorePath(t), "Not A Handle", nil)
	if !core.IsKind(err, core.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenUnknownHandleIsNotAdmin(t *testing.T) {
	// An unregistered handle must still get a session, otherwise nobody
	// could register the first contact in an empty store.
	s := openSession(t, newStorePath(t), "alice", nil)
	if s.IsAdmin() {
		t.Fatal("unknown handle must not be admin")
	}
	if s.Handle() != "alice" {
		t.Fatalf("unexpected handle: %s", s.Handle())
	}
}

func TestAdminResolvedAtOpen(t *testing.T) {
	storePath := newStorePath(t)

	bootstrap := openSession(t, storePath, "root", nil)
	if _, err := bootstrap.AddContact("root", nil, []string{AdminTag}); err != nil {
		t.Fatalf("add admin: %v", err)
	}
	// The bootstrap session predates the tag; admin status is fixed at open.
	if bootstrap.IsAdmin() {
		t.Fatal("admin status must not change mid-session")
	}

	s := openSession(t, storePath, "root", nil)
	if !s.IsAdmin() {
		t.Fatal("expected admin session after re-open")
	}
}

func TestDeactivatedAdminLosesVisibility(t *testing.T) {
	storePath := newStorePath(t)
	admin := seedDirectory(t, storePath, "root")

	contact, err := admin.GetContact("root")
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if _, err := admin.DeactivateContact("root", contact.Version); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	s := openSession(t, storePath, "root", nil)
	if s.IsAdmin() {
		t.Fatal("inactive contact must not be admin")
	}
}
