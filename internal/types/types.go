package types

// EventType identifies the kind of a recorded audit event.
type EventType string

const (
	EventMessageSent        EventType = "message.sent"
	EventContactAdded       EventType = "contact.added"
	EventContactUpdated     EventType = "contact.updated"
	EventContactDeactivated EventType = "contact.deactivated"
	EventThreadArchived     EventType = "thread.archived"
	EventThreadUnarchived   EventType = "thread.unarchived"
	EventMetadataSet        EventType = "metadata.set"
	EventMetadataDeleted    EventType = "metadata.deleted"
)

// Contact represents one agent identity in the directory.
type Contact struct {
	Handle      string   `json:"handle"`
	DisplayName *string  `json:"display_name,omitempty"`
	Tags        []string `json:"tags"`
	Active      bool     `json:"active"`
	Version     int64    `json:"version"`
	CreatedAt   int64    `json:"created_at"`
	UpdatedAt   int64    `json:"updated_at"`
}

// Thread represents a linked conversation rooted at one initiating message.
type Thread struct {
	ID             string   `json:"thread_id"`
	Subject        string   `json:"subject"`
	Participants   []string `json:"participant_handles"`
	CreatedAt      int64    `json:"created_at"`
	LastActivityAt int64    `json:"last_activity_at"`
	Archived       bool     `json:"archived"`
}

// Message represents one immutable message inside a thread.
type Message struct {
	ID        string   `json:"message_id"`
	ThreadID  string   `json:"thread_id"`
	From      string   `json:"from_handle"`
	To        []string `json:"to_handles"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	ReplyTo   *string  `json:"reply_to_id,omitempty"`
	CreatedAt int64    `json:"created_at"`
}

// AuditEvent represents one append-only record of a mutating call.
type AuditEvent struct {
	ID        string            `json:"event_id"`
	Actor     string            `json:"actor_handle"`
	Type      EventType         `json:"event_type"`
	Target    string            `json:"target"`
	Details   map[string]string `json:"details,omitempty"`
	CreatedAt int64             `json:"created_at"`
}

// Scope restricts query visibility to threads a handle participates in.
// Admin sessions carry an unrestricted scope and see everything.
type Scope struct {
	Handle       string
	Unrestricted bool
}

// Sees reports whether the scope covers a thread with the given participants.
func (s Scope) Sees(participants []string) bool {
	if s.Unrestricted {
		return true
	}
	for _, handle := range participants {
		if handle == s.Handle {
			return true
		}
	}
	return false
}

// OptionalString represents a nullable string update.
type OptionalString struct {
	Set   bool
	Value *string
}

// OptionalStrings represents an optional string-slice update.
type OptionalStrings struct {
	Set   bool
	Value []string
}

// ThreadQueryOptions controls thread listings.
type ThreadQueryOptions struct {
	Archived *bool
	Limit    int
	Offset   int
}

// MessageQueryOptions controls message listings. SinceID returns only
// messages whose id sorts strictly after the given id.
type MessageQueryOptions struct {
	ThreadID string
	SinceID  string
	Limit    int
	Offset   int
}

// AuditQueryOptions controls audit listings. EventType accepts an exact
// type or a glob pattern like "contact.*".
type AuditQueryOptions struct {
	Actor      string
	EventType  string
	Descending bool
	Limit      int
	Offset     int
}
