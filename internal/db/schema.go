package db

import (
	"database/sql"
	"fmt"
)

const schemaSQL = `
-- Agent identities (address book)
CREATE TABLE IF NOT EXISTS strand_contacts (
  handle TEXT PRIMARY KEY,             -- unique, immutable
  display_name TEXT,
  tags TEXT NOT NULL DEFAULT '[]',     -- JSON array; "admin" grants admin visibility
  active INTEGER NOT NULL DEFAULT 1,   -- deactivation flips this, rows never deleted
  version INTEGER NOT NULL DEFAULT 1,  -- +1 per successful update
  created_at INTEGER NOT NULL,         -- unix ms
  updated_at INTEGER NOT NULL
);

-- Threads
CREATE TABLE IF NOT EXISTS strand_threads (
  thread_id TEXT PRIMARY KEY,
  subject TEXT NOT NULL,               -- fixed at creation
  created_at INTEGER NOT NULL,
  last_activity_at INTEGER NOT NULL,
  archived INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_strand_threads_activity ON strand_threads(last_activity_at);

-- Thread participants; grows by union, never shrinks
CREATE TABLE IF NOT EXISTS strand_participants (
  thread_id TEXT NOT NULL,
  handle TEXT NOT NULL,
  added_at INTEGER NOT NULL,
  PRIMARY KEY (thread_id, handle),
  FOREIGN KEY (thread_id) REFERENCES strand_threads(thread_id)
);

CREATE INDEX IF NOT EXISTS idx_strand_participants_handle ON strand_participants(handle);

-- Messages (append-only)
CREATE TABLE IF NOT EXISTS strand_messages (
  message_id TEXT PRIMARY KEY,
  thread_id TEXT NOT NULL,
  from_handle TEXT NOT NULL,
  to_handles TEXT NOT NULL,            -- JSON array, non-empty
  subject TEXT NOT NULL,
  body TEXT NOT NULL,
  tags TEXT NOT NULL DEFAULT '[]',     -- JSON array
  reply_to TEXT,                       -- parent message id for threading
  created_at INTEGER NOT NULL,
  FOREIGN KEY (thread_id) REFERENCES strand_threads(thread_id),
  FOREIGN KEY (reply_to) REFERENCES strand_messages(message_id)
);

CREATE INDEX IF NOT EXISTS idx_strand_messages_thread ON strand_messages(thread_id, created_at);
CREATE INDEX IF NOT EXISTS idx_strand_messages_created ON strand_messages(created_at);

-- Per-thread mutable metadata
CREATE TABLE IF NOT EXISTS strand_thread_meta (
  thread_id TEXT NOT NULL,
  key TEXT NOT NULL,
  value TEXT NOT NULL,
  updated_at INTEGER NOT NULL,
  PRIMARY KEY (thread_id, key),
  FOREIGN KEY (thread_id) REFERENCES strand_threads(thread_id)
);

-- Audit trail (append-only)
CREATE TABLE IF NOT EXISTS strand_audit (
  event_id TEXT PRIMARY KEY,
  actor_handle TEXT NOT NULL,
  event_type TEXT NOT NULL,
  target TEXT NOT NULL,
  details TEXT NOT NULL DEFAULT '{}',  -- JSON object
  created_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_strand_audit_actor ON strand_audit(actor_handle);
CREATE INDEX IF NOT EXISTS idx_strand_audit_type ON strand_audit(event_type);
`

// InitSchema creates the strand tables and indexes if missing.
func InitSchema(conn *sql.DB) error {
	if _, err := conn.Exec(schemaSQL); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}
