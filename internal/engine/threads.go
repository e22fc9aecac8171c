package engine

import (
	"database/sql"

	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/db"
	"github.com/strandlabs/strand/internal/types"
)

// ListThreads returns threads visible to the session ordered by last
// activity, newest first. Admin sessions see every thread; others only
// threads they participate in.
func (s *Session) ListThreads(opts types.ThreadQueryOptions) ([]types.Thread, error) {
	limit, offset, err := clampPage(opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	opts.Limit, opts.Offset = limit, offset
	return db.ListThreads(s.conn, s.scope, opts)
}

// GetThread returns one thread the session is allowed to see.
func (s *Session) GetThread(threadID string) (*types.Thread, error) {
	return s.visibleThread(s.conn, threadID)
}

// Archive sets the archived flag. Archiving is display-only unless the
// session was opened with RejectArchivedSends.
func (s *Session) Archive(threadID string) error {
	return s.setArchived(threadID, true, types.EventThreadArchived)
}

// Unarchive clears the archived flag.
func (s *Session) Unarchive(threadID string) error {
	return s.setArchived(threadID, false, types.EventThreadUnarchived)
}

func (s *Session) setArchived(threadID string, archived bool, eventType types.EventType) error {
	err := db.WriteTx(s.conn, func(tx *sql.Tx) error {
		if _, err := s.visibleThread(tx, threadID); err != nil {
			return err
		}
		if _, err := db.SetArchived(tx, threadID, archived); err != nil {
			return err
		}
		return s.audit(tx, eventType, threadID, nil)
	})
	if err != nil {
		return err
	}
	s.logMutation(eventType, threadID)
	return nil
}

// SetMetadata upserts one key in a thread's metadata map. Thread metadata
// is deliberately mutable state, exempt from message immutability.
func (s *Session) SetMetadata(threadID, key, value string) error {
	if err := validateMetaKey(key); err != nil {
		return err
	}
	if err := validateMetaValue(value); err != nil {
		return err
	}

	err := db.WriteTx(s.conn, func(tx *sql.Tx) error {
		if _, err := s.visibleThread(tx, threadID); err != nil {
			return err
		}
		if err := db.SetThreadMeta(tx, threadID, key, value, s.nowMs()); err != nil {
			return err
		}
		return s.audit(tx, types.EventMetadataSet, threadID, map[string]string{"key": key})
	})
	if err != nil {
		return err
	}
	s.logMutation(types.EventMetadataSet, threadID)
	return nil
}

// GetMetadata returns one metadata value.
func (s *Session) GetMetadata(threadID, key string) (string, error) {
	if _, err := s.visibleThread(s.conn, threadID); err != nil {
		return "", err
	}
	value, ok, err := db.GetThreadMeta(s.conn, threadID, key)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", core.NotFoundf("thread %q has no metadata key %q", threadID, key)
	}
	return value, nil
}

// ListMetadata returns every metadata entry of a thread.
func (s *Session) ListMetadata(threadID string) (map[string]string, error) {
	if _, err := s.visibleThread(s.conn, threadID); err != nil {
		return nil, err
	}
	return db.GetAllThreadMeta(s.conn, threadID)
}

// DeleteMetadata removes one metadata key.
func (s *Session) DeleteMetadata(threadID, key string) error {
	err := db.WriteTx(s.conn, func(tx *sql.Tx) error {
		if _, err := s.visibleThread(tx, threadID); err != nil {
			return err
		}
		ok, err := db.DeleteThreadMeta(tx, threadID, key)
		if err != nil {
			return err
		}
		if !ok {
			return core.NotFoundf("thread %q has no metadata key %q", threadID, key)
		}
		return s.audit(tx, types.EventMetadataDeleted, threadID, map[string]string{"key": key})
	})
	if err != nil {
		return err
	}
	s.logMutation(types.EventMetadataDeleted, threadID)
	return nil
}

// visibleThread loads a thread and enforces the session's scope: unknown
// ids fail not-found, threads outside a scoped session's participant set
// fail permission.
func (s *Session) visibleThread(q db.DBTX, threadID string) (*types.Thread, error) {
	thread, err := db.GetThread(q, threadID)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, core.NotFoundf("no thread with id %q", threadID)
	}
	if !s.scope.Sees(thread.Participants) {
		return nil, core.Permissionf("handle %q is not a participant of thread %q", s.handle, threadID)
	}
	return thread, nil
}
