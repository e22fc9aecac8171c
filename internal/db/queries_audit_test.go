package db

import (
	"fmt"
	"testing"

	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/types"
)

func seedAudit(t *testing.T, conn DBTX, id, actor string, eventType types.EventType, target string, created int64) {
	t.Helper()
	err := AppendAuditEvent(conn, types.AuditEvent{
		ID:        id,
		Actor:     actor,
		Type:      eventType,
		Target:    target,
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("append audit %s: %v", id, err)
	}
}

func TestListAuditEventsOrdering(t *testing.T) {
	conn := openTestDB(t)

	seedAudit(t, conn, "e1", "alice", types.EventContactAdded, "bob", 100)
	seedAudit(t, conn, "e2", "alice", types.EventMessageSent, "m1", 200)
	seedAudit(t, conn, "e3", "bob", types.EventMessageSent, "m2", 300)

	asc, err := ListAuditEvents(conn, types.AuditQueryOptions{Limit: 10})
	if err != nil {
		t.Fatalf("list asc: %v", err)
	}
	if len(asc) != 3 || asc[0].ID != "e1" || asc[2].ID != "e3" {
		t.Fatalf("unexpected ascending order: %v", asc)
	}

	desc, err := ListAuditEvents(conn, types.AuditQueryOptions{Descending: true, Limit: 10})
	if err != nil {
		t.Fatalf("list desc: %v", err)
	}
	if len(desc) != 3 || desc[0].ID != "e3" {
		t.Fatalf("unexpected descending order: %v", desc)
	}
}

func TestListAuditEventsFilters(t *testing.T) {
	conn := openTestDB(t)

	seedAudit(t, conn, "e1", "alice", types.EventContactAdded, "bob", 100)
	seedAudit(t, conn, "e2", "alice", types.EventContactUpdated, "bob", 200)
	seedAudit(t, conn, "e3", "bob", types.EventMessageSent, "m1", 300)

	byActor, err := ListAuditEvents(conn, types.AuditQueryOptions{Actor: "bob", Limit: 10})
	if err != nil {
		t.Fatalf("filter by actor: %v", err)
	}
	if len(byActor) != 1 || byActor[0].ID != "e3" {
		t.Fatalf("unexpected actor filter result: %v", byActor)
	}

	exact, err := ListAuditEvents(conn, types.AuditQueryOptions{EventType: "contact.added", Limit: 10})
	if err != nil {
		t.Fatalf("filter by exact type: %v", err)
	}
	if len(exact) != 1 || exact[0].ID != "e1" {
		t.Fatalf("unexpected exact type result: %v", exact)
	}

	pattern, err := ListAuditEvents(conn, types.AuditQueryOptions{EventType: "contact.*", Limit: 10})
	if err != nil {
		t.Fatalf("filter by pattern: %v", err)
	}
	if len(pattern) != 2 {
		t.Fatalf("expected 2 contact events, got %v", pattern)
	}

	_, err = ListAuditEvents(conn, types.AuditQueryOptions{EventType: "contact.[", Limit: 10})
	if !core.IsKind(err, core.KindValidation) {
		t.Fatalf("expected validation error for bad pattern, got %v", err)
	}
}

func TestListAuditEventsPatternPaging(t *testing.T) {
	conn := openTestDB(t)

	seedAudit(t, conn, "e1", "alice", types.EventContactAdded, "a", 100)
	seedAudit(t, conn, "e2", "alice", types.EventContactUpdated, "b", 200)
	seedAudit(t, conn, "e3", "alice", types.EventContactUpdated, "c", 300)
	seedAudit(t, conn, "e4", "alice", types.EventMessageSent, "m", 400)

	page, err := ListAuditEvents(conn, types.AuditQueryOptions{EventType: "contact.*", Limit: 1, Offset: 1})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page) != 1 || page[0].ID != "e2" {
		t.Fatalf("unexpected page: %v", page)
	}

	past, err := ListAuditEvents(conn, types.AuditQueryOptions{EventType: "contact.*", Limit: 10, Offset: 5})
	if err != nil {
		t.Fatalf("page past end: %v", err)
	}
	if len(past) != 0 {
		t.Fatalf("expected empty page, got %v", past)
	}
}

func TestListAuditEventsPatternStopsAtLimit(t *testing.T) {
	conn := openTestDB(t)

	for i := 0; i < 8; i++ {
		seedAudit(t, conn, fmt.Sprintf("e%d", i), "alice", types.EventContactUpdated, "bob", int64(100+i))
	}
	seedAudit(t, conn, "e8", "alice", types.EventMessageSent, "m", 200)

	page, err := ListAuditEvents(conn, types.AuditQueryOptions{EventType: "contact.*", Limit: 3})
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	if len(page) != 3 || page[0].ID != "e0" || page[2].ID != "e2" {
		t.Fatalf("unexpected page: %v", page)
	}

	desc, err := ListAuditEvents(conn, types.AuditQueryOptions{EventType: "contact.*", Descending: true, Limit: 2})
	if err != nil {
		t.Fatalf("desc page: %v", err)
	}
	if len(desc) != 2 || desc[0].ID != "e7" || desc[1].ID != "e6" {
		t.Fatalf("unexpected descending page: %v", desc)
	}
}

func TestCountAuditEvents(t *testing.T) {
	conn := openTestDB(t)

	seedAudit(t, conn, "e1", "alice", types.EventContactAdded, "bob", 100)
	seedAudit(t, conn, "e2", "alice", types.EventMessageSent, "m1", 200)

	count, err := CountAuditEvents(conn)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 events, got %d", count)
	}
}
