// Package engine is the call surface exposed to the REST façade and the
// CLI: a Session binds one caller handle to one open store connection,
// resolves admin visibility once, and routes every mutation through a
// single write transaction that also appends its audit row.
package engine

import (
	"database/sql"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/db"
	"github.com/strandlabs/strand/internal/types"
)

// AdminTag is the reserved contact tag that grants admin visibility.
const AdminTag = "admin"

// Options configures a Session.
type Options struct {
	// Logger receives one record per mutation. Nil discards.
	Logger *slog.Logger
	// RejectArchivedSends makes Reply into an archived thread fail
	// validation. Send always starts a fresh thread, so it is unaffected.
	// The default treats archiving as display-only.
	RejectArchivedSends bool
}

// Session binds a caller's identity to an open store connection for a
// unit of work. Admin status is resolved once at construction, never per
// call.
type Session struct {
	id                  string
	handle              string
	admin               bool
	scope               types.Scope
	conn                *sql.DB
	ids                 *core.Generator
	logger              *slog.Logger
	rejectArchivedSends bool
}

// Open opens the store at storePath as handle. Handles are caller-trusted;
// an unregistered handle gets a non-admin session so the first caller can
// register the first contact.
func Open(storePath, handle string, opts *Options) (*Session, error) {
	if err := validateHandle(handle); err != nil {
		return nil, err
	}
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	conn, err := db.Open(storePath)
	if err != nil {
		return nil, err
	}

	contact, err := db.GetContact(conn, handle)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}
	admin := contact != nil && contact.Active && hasTag(contact.Tags, AdminTag)

	return &Session{
		id:                  uuid.NewString(),
		handle:              handle,
		admin:               admin,
		scope:               types.Scope{Handle: handle, Unrestricted: admin},
		conn:                conn,
		ids:                 core.NewGenerator(),
		logger:              logger.With("session", handle),
		rejectArchivedSends: opts.RejectArchivedSends,
	}, nil
}

// Close releases the store connection.
func (s *Session) Close() error {
	return s.conn.Close()
}

// Handle returns the caller handle bound to this session.
func (s *Session) Handle() string {
	return s.handle
}

// IsAdmin reports whether the session has unrestricted visibility.
func (s *Session) IsAdmin() bool {
	return s.admin
}

// audit appends one event row inside the caller's transaction, so the
// mutation and its trail commit or roll back together.
func (s *Session) audit(tx *sql.Tx, eventType types.EventType, target string, details map[string]string) error {
	return db.AppendAuditEvent(tx, types.AuditEvent{
		ID:        s.ids.Next(),
		Actor:     s.handle,
		Type:      eventType,
		Target:    target,
		Details:   details,
		CreatedAt: s.nowMs(),
	})
}

func (s *Session) logMutation(eventType types.EventType, target string) {
	s.logger.Debug("mutation committed", "sid", s.id, "event", string(eventType), "target", target)
}

func (s *Session) nowMs() int64 {
	return time.Now().UnixMilli()
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
