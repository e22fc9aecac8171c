package db

import (
	"database/sql"
	"fmt"

	"github.com/strandlabs/strand/internal/types"
)

const messageColumns = "message_id, thread_id, from_handle, to_handles, subject, body, tags, reply_to, created_at"

// CreateMessage appends a message row. Messages are immutable; there is no
// update or delete path anywhere in this package.
func CreateMessage(q DBTX, msg types.Message) error {
	_, err := q.Exec(`
		INSERT INTO strand_messages (message_id, thread_id, from_handle, to_handles, subject, body, tags, reply_to, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, msg.ID, msg.ThreadID, msg.From, marshalStrings(msg.To), msg.Subject, msg.Body, marshalStrings(msg.Tags), msg.ReplyTo, msg.CreatedAt)
	return err
}

// GetMessage returns a message by id, or nil if absent.
func GetMessage(q DBTX, messageID string) (*types.Message, error) {
	row := q.QueryRow(fmt.Sprintf(`
		SELECT %s FROM strand_messages WHERE message_id = ?
	`, messageColumns), messageID)

	msg, err := scanMessage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ListMessages returns messages visible to scope in id order, which is
// creation order per emitting process. SinceID is the incremental-polling
// cursor: only messages sorting strictly after it are returned.
func ListMessages(q DBTX, scope types.Scope, opts types.MessageQueryOptions) ([]types.Message, error) {
	query := fmt.Sprintf("SELECT %s FROM strand_messages m", messageColumns)
	var conds []string
	var args []any

	if !scope.Unrestricted {
		conds = append(conds, "EXISTS (SELECT 1 FROM strand_participants p WHERE p.thread_id = m.thread_id AND p.handle = ?)")
		args = append(args, scope.Handle)
	}
	if opts.ThreadID != "" {
		conds = append(conds, "m.thread_id = ?")
		args = append(args, opts.ThreadID)
	}
	if opts.SinceID != "" {
		conds = append(conds, "m.message_id > ?")
		args = append(args, opts.SinceID)
	}
	query += whereClause(conds)
	query += " ORDER BY m.message_id LIMIT ? OFFSET ?"
	args = append(args, opts.Limit, opts.Offset)

	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

// SearchMessages returns scope-visible messages whose subject or body
// contains query, newest first.
func SearchMessages(q DBTX, scope types.Scope, query string, limit, offset int) ([]types.Message, error) {
	pattern := likePattern(query)
	sqlQuery := fmt.Sprintf("SELECT %s FROM strand_messages m", messageColumns)
	conds := []string{`(m.subject LIKE ? ESCAPE '\' OR m.body LIKE ? ESCAPE '\')`}
	args := []any{pattern, pattern}

	if !scope.Unrestricted {
		conds = append(conds, "EXISTS (SELECT 1 FROM strand_participants p WHERE p.thread_id = m.thread_id AND p.handle = ?)")
		args = append(args, scope.Handle)
	}
	sqlQuery += whereClause(conds)
	sqlQuery += " ORDER BY m.message_id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := q.Query(sqlQuery, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func scanMessage(scanner interface{ Scan(dest ...any) error }) (types.Message, error) {
	var msg types.Message
	var to, tags string
	var replyTo sql.NullString
	if err := scanner.Scan(&msg.ID, &msg.ThreadID, &msg.From, &to, &msg.Subject, &msg.Body, &tags, &replyTo, &msg.CreatedAt); err != nil {
		return types.Message{}, err
	}
	msg.To = unmarshalStrings(to)
	msg.Tags = unmarshalStrings(tags)
	msg.ReplyTo = nullStringPtr(replyTo)
	return msg, nil
}

func scanMessages(rows *sql.Rows) ([]types.Message, error) {
	var messages []types.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
