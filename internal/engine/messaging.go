package engine

import (
	"database/sql"

	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/db"
	"github.com/strandlabs/strand/internal/types"
)

// Send appends a new message. A message with no parent starts a new
// thread: the subject is copied from the message and fixed for the
// thread's lifetime, and the participant set starts as sender plus
// recipients.
func (s *Session) Send(to []string, subject, body string, tags []string) (*types.Message, error) {
	if len(to) == 0 {
		return nil, core.Validationf("to_handles must not be empty")
	}
	for _, handle := range to {
		if err := validateHandle(handle); err != nil {
			return nil, err
		}
	}
	if err := validateSubject(subject); err != nil {
		return nil, err
	}
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := validateTags(tags); err != nil {
		return nil, err
	}

	now := s.nowMs()
	thread := types.Thread{
		ID:             s.ids.Next(),
		Subject:        subject,
		Participants:   append([]string{s.handle}, to...),
		CreatedAt:      now,
		LastActivityAt: now,
	}
	msg := types.Message{
		ID:        s.ids.Next(),
		ThreadID:  thread.ID,
		From:      s.handle,
		To:        to,
		Subject:   subject,
		Body:      body,
		Tags:      tags,
		CreatedAt: now,
	}

	err := db.WriteTx(s.conn, func(tx *sql.Tx) error {
		if err := db.CreateThread(tx, thread); err != nil {
			return err
		}
		if err := db.CreateMessage(tx, msg); err != nil {
			return err
		}
		return s.audit(tx, types.EventMessageSent, msg.ID, map[string]string{
			"thread_id": thread.ID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logMutation(types.EventMessageSent, msg.ID)
	if msg.Tags == nil {
		msg.Tags = []string{}
	}
	return &msg, nil
}

// Reply appends a message into the parent's thread. Recipients are the
// thread's current participants minus the replier; the replier is unioned
// into the participant set, and the thread's activity timestamp advances.
// The reply inherits the thread's subject; replies never change it.
func (s *Session) Reply(messageID, body string, tags []string) (*types.Message, error) {
	if err := validateBody(body); err != nil {
		return nil, err
	}
	if err := validateTags(tags); err != nil {
		return nil, err
	}

	var msg types.Message
	err := db.WriteTx(s.conn, func(tx *sql.Tx) error {
		parent, err := db.GetMessage(tx, messageID)
		if err != nil {
			return err
		}
		if parent == nil {
			return core.NotFoundf("no message with id %q", messageID)
		}

		thread, err := db.GetThread(tx, parent.ThreadID)
		if err != nil {
			return err
		}
		if s.rejectArchivedSends && thread.Archived {
			return core.Validationf("thread %q is archived", thread.ID)
		}

		to := make([]string, 0, len(thread.Participants))
		for _, handle := range thread.Participants {
			if handle != s.handle {
				to = append(to, handle)
			}
		}
		if len(to) == 0 {
			// Replying in a thread with no other participants: keep the
			// non-empty recipient invariant by addressing the parent sender.
			to = []string{parent.From}
		}

		now := s.nowMs()
		msg = types.Message{
			ID:        s.ids.Next(),
			ThreadID:  thread.ID,
			From:      s.handle,
			To:        to,
			Subject:   thread.Subject,
			Body:      body,
			Tags:      tags,
			ReplyTo:   &messageID,
			CreatedAt: now,
		}

		if err := db.AddParticipants(tx, thread.ID, append([]string{s.handle}, to...), now); err != nil {
			return err
		}
		if err := db.CreateMessage(tx, msg); err != nil {
			return err
		}
		if err := db.TouchThread(tx, thread.ID, now); err != nil {
			return err
		}
		return s.audit(tx, types.EventMessageSent, msg.ID, map[string]string{
			"thread_id": thread.ID,
			"reply_to":  messageID,
		})
	})
	if err != nil {
		return nil, err
	}
	s.logMutation(types.EventMessageSent, msg.ID)
	if msg.Tags == nil {
		msg.Tags = []string{}
	}
	return &msg, nil
}

// ListMessages returns messages visible to the session in id order,
// filtered by thread and/or since-id cursor.
func (s *Session) ListMessages(opts types.MessageQueryOptions) ([]types.Message, error) {
	limit, offset, err := clampPage(opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	opts.Limit, opts.Offset = limit, offset

	if opts.ThreadID != "" {
		if _, err := s.visibleThread(s.conn, opts.ThreadID); err != nil {
			return nil, err
		}
	}
	return db.ListMessages(s.conn, s.scope, opts)
}

// GetMessage returns one message the session is allowed to see.
func (s *Session) GetMessage(messageID string) (*types.Message, error) {
	msg, err := db.GetMessage(s.conn, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, core.NotFoundf("no message with id %q", messageID)
	}
	if _, err := s.visibleThread(s.conn, msg.ThreadID); err != nil {
		return nil, err
	}
	return msg, nil
}

// SearchMessages returns scope-visible messages whose subject or body
// contains query, newest first.
func (s *Session) SearchMessages(query string, limit, offset int) ([]types.Message, error) {
	if query == "" {
		return nil, core.Validationf("search query must not be empty")
	}
	limit, offset, err := clampPage(limit, offset)
	if err != nil {
		return nil, err
	}
	return db.SearchMessages(s.conn, s.scope, query, limit, offset)
}
