package db

import (
	"testing"

	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/types"
)

func TestCreateAndGetContact(t *testing.T) {
	conn := openTestDB(t)

	err := CreateContact(conn, types.Contact{
		Handle:      "alice",
		DisplayName: strPtr("Alice"),
		Tags:        []string{"admin", "ops"},
		CreatedAt:   100,
		UpdatedAt:   100,
	})
	if err != nil {
		t.Fatalf("create contact: %v", err)
	}

	contact, err := GetContact(conn, "alice")
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if contact == nil {
		t.Fatal("expected contact")
	}
	if contact.Version != 1 {
		t.Fatalf("expected version 1, got %d", contact.Version)
	}
	if !contact.Active {
		t.Fatal("expected active contact")
	}
	if len(contact.Tags) != 2 || contact.Tags[0] != "admin" {
		t.Fatalf("unexpected tags: %v", contact.Tags)
	}
	if contact.DisplayName == nil || *contact.DisplayName != "Alice" {
		t.Fatalf("unexpected display name: %v", contact.DisplayName)
	}
}

func TestCreateContactDuplicate(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateContact(conn, types.Contact{Handle: "alice", CreatedAt: 1, UpdatedAt: 1}); err != nil {
		t.Fatalf("create contact: %v", err)
	}
	err := CreateContact(conn, types.Contact{Handle: "alice", CreatedAt: 2, UpdatedAt: 2})
	if !core.IsKind(err, core.KindDuplicate) {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestUpdateContactVersionGate(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateContact(conn, types.Contact{Handle: "bob", CreatedAt: 1, UpdatedAt: 1}); err != nil {
		t.Fatalf("create contact: %v", err)
	}

	updates := ContactUpdates{DisplayName: types.OptionalString{Set: true, Value: strPtr("Bob S.")}}
	ok, err := UpdateContact(conn, "bob", 1, updates, 50)
	if err != nil {
		t.Fatalf("update contact: %v", err)
	}
	if !ok {
		t.Fatal("expected update to match version 1")
	}

	contact, err := GetContact(conn, "bob")
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if contact.Version != 2 {
		t.Fatalf("expected version 2, got %d", contact.Version)
	}
	if contact.DisplayName == nil || *contact.DisplayName != "Bob S." {
		t.Fatalf("unexpected display name: %v", contact.DisplayName)
	}

	// Stale expected version must not match.
	ok, err = UpdateContact(conn, "bob", 1, updates, 60)
	if err != nil {
		t.Fatalf("stale update: %v", err)
	}
	if ok {
		t.Fatal("stale version must not update")
	}
}

func TestDeactivateContact(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateContact(conn, types.Contact{Handle: "bob", CreatedAt: 1, UpdatedAt: 1}); err != nil {
		t.Fatalf("create contact: %v", err)
	}
	ok, err := DeactivateContact(conn, "bob", 1, 50)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if !ok {
		t.Fatal("expected deactivation to match version 1")
	}

	contact, err := GetContact(conn, "bob")
	if err != nil {
		t.Fatalf("get contact: %v", err)
	}
	if contact.Active {
		t.Fatal("expected inactive contact")
	}
	if contact.Version != 2 {
		t.Fatalf("expected version 2, got %d", contact.Version)
	}
}

func TestListContactsActiveOnly(t *testing.T) {
	conn := openTestDB(t)

	for _, handle := range []string{"alice", "bob"} {
		if err := CreateContact(conn, types.Contact{Handle: handle, CreatedAt: 1, UpdatedAt: 1}); err != nil {
			t.Fatalf("create %s: %v", handle, err)
		}
	}
	if _, err := DeactivateContact(conn, "bob", 1, 2); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	all, err := ListContacts(conn, false)
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 contacts, got %d", len(all))
	}

	active, err := ListContacts(conn, true)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].Handle != "alice" {
		t.Fatalf("unexpected active contacts: %v", active)
	}
}

func TestSearchContacts(t *testing.T) {
	conn := openTestDB(t)

	if err := CreateContact(conn, types.Contact{Handle: "alice", DisplayName: strPtr("Alice Smith"), CreatedAt: 1, UpdatedAt: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := CreateContact(conn, types.Contact{Handle: "bob", CreatedAt: 1, UpdatedAt: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	byHandle, err := SearchContacts(conn, "ali")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byHandle) != 1 || byHandle[0].Handle != "alice" {
		t.Fatalf("unexpected search result: %v", byHandle)
	}

	byName, err := SearchContacts(conn, "Smith")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byName) != 1 || byName[0].Handle != "alice" {
		t.Fatalf("unexpected search result: %v", byName)
	}

	// LIKE metacharacters in the query must match literally.
	none, err := SearchContacts(conn, "%")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no match for literal %%, got %v", none)
	}
}
