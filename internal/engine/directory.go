package engine

import (
	"database/sql"
	"strconv"

	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/db"
	"github.com/strandlabs/strand/internal/types"
)

// AddContact registers a new agent identity. The handle must be unused.
func (s *Session) AddContact(handle string, displayName *string, tags []string) (*types.Contact, error) {
	if err := validateHandle(handle); err != nil {
		return nil, err
	}
	if err := validateTags(tags); err != nil {
		return nil, err
	}

	now := s.nowMs()
	contact := types.Contact{
		Handle:      handle,
		DisplayName: displayName,
		Tags:        tags,
		Active:      true,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := db.WriteTx(s.conn, func(tx *sql.Tx) error {
		if err := db.CreateContact(tx, contact); err != nil {
			return err
		}
		return s.audit(tx, types.EventContactAdded, handle, nil)
	})
	if err != nil {
		return nil, err
	}
	s.logMutation(types.EventContactAdded, handle)
	if contact.Tags == nil {
		contact.Tags = []string{}
	}
	return &contact, nil
}

// GetContact returns one contact by handle.
func (s *Session) GetContact(handle string) (*types.Contact, error) {
	contact, err := db.GetContact(s.conn, handle)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, core.NotFoundf("no contact with handle %q", handle)
	}
	return contact, nil
}

// ListContacts returns all contacts, optionally only active ones.
func (s *Session) ListContacts(activeOnly bool) ([]types.Contact, error) {
	return db.ListContacts(s.conn, activeOnly)
}

// SearchContacts returns contacts whose handle or display name contains query.
func (s *Session) SearchContacts(query string) ([]types.Contact, error) {
	if query == "" {
		return nil, core.Validationf("search query must not be empty")
	}
	return db.SearchContacts(s.conn, query)
}

// UpdateContact applies partial updates if the stored version still equals
// expectedVersion. A stale version fails with a conflict; the caller must
// re-read and retry. There is no unconditional overwrite path.
func (s *Session) UpdateContact(handle string, expectedVersion int64, updates db.ContactUpdates) (*types.Contact, error) {
	if !updates.DisplayName.Set && !updates.Tags.Set {
		return nil, core.Validationf("no fields to update")
	}
	if updates.Tags.Set {
		if err := validateTags(updates.Tags.Value); err != nil {
			return nil, err
		}
	}

	var updated *types.Contact
	err := db.WriteTx(s.conn, func(tx *sql.Tx) error {
		ok, err := db.UpdateContact(tx, handle, expectedVersion, updates, s.nowMs())
		if err != nil {
			return err
		}
		if !ok {
			return s.versionMismatch(tx, handle, expectedVersion)
		}
		updated, err = db.GetContact(tx, handle)
		if err != nil {
			return err
		}
		return s.audit(tx, types.EventContactUpdated, handle, map[string]string{
			"version": strconv.FormatInt(updated.Version, 10),
		})
	})
	if err != nil {
		return nil, err
	}
	s.logMutation(types.EventContactUpdated, handle)
	return updated, nil
}

// DeactivateContact flips the active flag under the same optimistic
// version check as UpdateContact. Contacts are never deleted.
func (s *Session) DeactivateContact(handle string, expectedVersion int64) (*types.Contact, error) {
	var updated *types.Contact
	err := db.WriteTx(s.conn, func(tx *sql.Tx) error {
		ok, err := db.DeactivateContact(tx, handle, expectedVersion, s.nowMs())
		if err != nil {
			return err
		}
		if !ok {
			return s.versionMismatch(tx, handle, expectedVersion)
		}
		updated, err = db.GetContact(tx, handle)
		if err != nil {
			return err
		}
		return s.audit(tx, types.EventContactDeactivated, handle, map[string]string{
			"version": strconv.FormatInt(updated.Version, 10),
		})
	})
	if err != nil {
		return nil, err
	}
	s.logMutation(types.EventContactDeactivated, handle)
	return updated, nil
}

// versionMismatch distinguishes an unknown handle from a lost CAS race.
func (s *Session) versionMismatch(q db.DBTX, handle string, expectedVersion int64) error {
	current, err := db.GetContact(q, handle)
	if err != nil {
		return err
	}
	if current == nil {
		return core.NotFoundf("no contact with handle %q", handle)
	}
	return core.Conflictf("contact %q is at version %d, not %d; re-read and retry", handle, current.Version, expectedVersion)
}
