package db

import (
	"database/sql"
	"strings"

	"github.com/gobwas/glob"
	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/types"
)

// AppendAuditEvent inserts one audit row. Audit rows are append-only;
// nothing in this package updates or deletes them.
func AppendAuditEvent(q DBTX, event types.AuditEvent) error {
	_, err := q.Exec(`
		INSERT INTO strand_audit (event_id, actor_handle, event_type, target, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID, event.Actor, string(event.Type), event.Target, marshalDetails(event.Details), event.CreatedAt)
	return err
}

// ListAuditEvents returns audit rows ordered by event id, filtered by actor
// and event type. The type filter accepts an exact type or a glob pattern
// like "contact.*".
func ListAuditEvents(q DBTX, opts types.AuditQueryOptions) ([]types.AuditEvent, error) {
	query := "SELECT event_id, actor_handle, event_type, target, details, created_at FROM strand_audit"
	var conds []string
	var args []any

	if opts.Actor != "" {
		conds = append(conds, "actor_handle = ?")
		args = append(args, opts.Actor)
	}

	var matcher glob.Glob
	if opts.EventType != "" {
		if isGlobPattern(opts.EventType) {
			compiled, err := glob.Compile(opts.EventType)
			if err != nil {
				return nil, core.Validationf("bad event type pattern %q: %v", opts.EventType, err)
			}
			matcher = compiled
		} else {
			conds = append(conds, "event_type = ?")
			args = append(args, opts.EventType)
		}
	}

	query += whereClause(conds)
	if opts.Descending {
		query += " ORDER BY event_id DESC"
	} else {
		query += " ORDER BY event_id"
	}
	if matcher == nil {
		query += " LIMIT ? OFFSET ?"
		args = append(args, opts.Limit, opts.Offset)
	}

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if matcher == nil {
		return scanAuditEvents(rows)
	}

	// Pattern filtering pages in Go, streaming rows and stopping at the
	// page boundary so the growing audit table is never held in memory.
	var events []types.AuditEvent
	skipped := 0
	for rows.Next() {
		event, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		if !matcher.Match(string(event.Type)) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		events = append(events, event)
		if opts.Limit > 0 && len(events) == opts.Limit {
			break
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountAuditEvents returns the number of audit rows.
func CountAuditEvents(q DBTX) (int64, error) {
	row := q.QueryRow("SELECT COUNT(*) FROM strand_audit")
	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func isGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func scanAuditEvent(rows *sql.Rows) (types.AuditEvent, error) {
	var event types.AuditEvent
	var eventType, details string
	if err := rows.Scan(&event.ID, &event.Actor, &eventType, &event.Target, &details, &event.CreatedAt); err != nil {
		return types.AuditEvent{}, err
	}
	event.Type = types.EventType(eventType)
	event.Details = unmarshalDetails(details)
	return event, nil
}

func scanAuditEvents(rows *sql.Rows) ([]types.AuditEvent, error) {
	var events []types.AuditEvent
	for rows.Next() {
		event, err := scanAuditEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
