package db

import (
	"database/sql"

	"github.com/strandlabs/strand/internal/types"
)

// CreateThread inserts a thread and its initial participant set.
func CreateThread(q DBTX, thread types.Thread) error {
	_, err := q.Exec(`
		INSERT INTO strand_threads (thread_id, subject, created_at, last_activity_at, archived)
		VALUES (?, ?, ?, ?, 0)
	`, thread.ID, thread.Subject, thread.CreatedAt, thread.LastActivityAt)
	if err != nil {
		return err
	}
	return AddParticipants(q, thread.ID, thread.Participants, thread.CreatedAt)
}

// GetThread returns a thread with its participants, or nil if absent.
func GetThread(q DBTX, threadID string) (*types.Thread, error) {
	row := q.QueryRow(`
		SELECT thread_id, subject, created_at, last_activity_at, archived
		FROM strand_threads
		WHERE thread_id = ?
	`, threadID)

	var thread types.Thread
	var archived int
	if err := row.Scan(&thread.ID, &thread.Subject, &thread.CreatedAt, &thread.LastActivityAt, &archived); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	thread.Archived = archived != 0

	participants, err := GetParticipants(q, threadID)
	if err != nil {
		return nil, err
	}
	thread.Participants = participants
	return &thread, nil
}

// ListThreads returns threads visible to scope, newest activity first.
func ListThreads(q DBTX, scope types.Scope, opts types.ThreadQueryOptions) ([]types.Thread, error) {
	query := `
		SELECT t.thread_id, t.subject, t.created_at, t.last_activity_at, t.archived
		FROM strand_threads t
	`
	var conds []string
	var args []any

	if !scope.Unrestricted {
		conds = append(conds, "EXISTS (SELECT 1 FROM strand_participants p WHERE p.thread_id = t.thread_id AND p.handle = ?)")
		args = append(args, scope.Handle)
	}
	if opts.Archived != nil {
		conds = append(conds, "t.archived = ?")
		if *opts.Archived {
			args = append(args, 1)
		} else {
			args = append(args, 0)
		}
	}
	query += whereClause(conds)
	query += " ORDER BY t.last_activity_at DESC, t.thread_id DESC LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset)

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var threads []types.Thread
	for rows.Next() {
		var thread types.Thread
		var archived int
		if err := rows.Scan(&thread.ID, &thread.Subject, &thread.CreatedAt, &thread.LastActivityAt, &archived); err != nil {
			return nil, err
		}
		thread.Archived = archived != 0
		threads = append(threads, thread)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range threads {
		participants, err := GetParticipants(q, threads[i].ID)
		if err != nil {
			return nil, err
		}
		threads[i].Participants = participants
	}
	return threads, nil
}

// GetParticipants returns the participant handles of a thread.
func GetParticipants(q DBTX, threadID string) ([]string, error) {
	rows, err := q.Query(`
		SELECT handle FROM strand_participants WHERE thread_id = ? ORDER BY handle
	`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var handles []string
	for rows.Next() {
		var handle string
		if err := rows.Scan(&handle); err != nil {
			return nil, err
		}
		handles = append(handles, handle)
	}
	return handles, rows.Err()
}

// AddParticipants unions handles into a thread's participant set.
func AddParticipants(q DBTX, threadID string, handles []string, now int64) error {
	for _, handle := range dedupeStrings(handles) {
		if _, err := q.Exec(`
			INSERT OR IGNORE INTO strand_participants (thread_id, handle, added_at)
			VALUES (?, ?, ?)
		`, threadID, handle, now); err != nil {
			return err
		}
	}
	return nil
}

// TouchThread advances a thread's last activity timestamp.
func TouchThread(q DBTX, threadID string, ts int64) error {
	_, err := q.Exec(`
		UPDATE strand_threads SET last_activity_at = ? WHERE thread_id = ? AND last_activity_at < ?
	`, ts, threadID, ts)
	return err
}

// SetArchived flips the archived flag. It reports whether the thread exists.
func SetArchived(q DBTX, threadID string, archived bool) (bool, error) {
	value := 0
	if archived {
		value = 1
	}
	result, err := q.Exec("UPDATE strand_threads SET archived = ? WHERE thread_id = ?", value, threadID)
	if err != nil {
		return false, err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// SetThreadMeta upserts one metadata key for a thread.
func SetThreadMeta(q DBTX, threadID, key, value string, now int64) error {
	_, err := q.Exec(`
		INSERT INTO strand_thread_meta (thread_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(thread_id, key) DO UPDATE SET
		  value = excluded.value,
		  updated_at = excluded.updated_at
	`, threadID, key, value, now)
	return err
}

// GetThreadMeta returns one metadata value. The bool reports presence.
func GetThreadMeta(q DBTX, threadID, key string) (string, bool, error) {
	row := q.QueryRow("SELECT value FROM strand_thread_meta WHERE thread_id = ? AND key = ?", threadID, key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// GetAllThreadMeta returns every metadata entry of a thread.
func GetAllThreadMeta(q DBTX, threadID string) (map[string]string, error) {
	rows, err := q.Query("SELECT key, value FROM strand_thread_meta WHERE thread_id = ? ORDER BY key", threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		meta[key] = value
	}
	return meta, rows.Err()
}

// DeleteThreadMeta removes one metadata key. It reports whether it existed.
func DeleteThreadMeta(q DBTX, threadID, key string) (bool, error) {
	result, err := q.Exec("DELETE FROM strand_thread_meta WHERE thread_id = ? AND key = ?", threadID, key)
	if err != nil {
		return false, err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	clause := " WHERE " + conds[0]
	for _, cond := range conds[1:] {
		clause += " AND " + cond
	}
	return clause
}
