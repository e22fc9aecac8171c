package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/types"
)

// ContactUpdates represents partial contact updates.
type ContactUpdates struct {
	DisplayName types.OptionalString
	Tags        types.OptionalStrings
}

const contactColumns = "handle, display_name, tags, active, version, created_at, updated_at"

// GetContact returns a contact by handle, or nil if absent.
func GetContact(q DBTX, handle string) (*types.Contact, error) {
	row := q.QueryRow(fmt.Sprintf(`
		SELECT %s FROM strand_contacts WHERE handle = ?
	`, contactColumns), handle)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

// ListContacts returns all contacts, optionally only active ones.
func ListContacts(q DBTX, activeOnly bool) ([]types.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM strand_contacts", contactColumns)
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY handle"

	rows, err := q.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanContacts(rows)
}

// SearchContacts returns contacts whose handle or display name contains query.
func SearchContacts(q DBTX, query string) ([]types.Contact, error) {
	pattern := likePattern(query)
	rows, err := q.Query(fmt.Sprintf(`
		SELECT %s FROM strand_contacts
		WHERE handle LIKE ? ESCAPE '\' OR display_name LIKE ? ESCAPE '\'
		ORDER BY handle
	`, contactColumns), pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanContacts(rows)
}

// CreateContact inserts a new contact at version 1. A handle collision
// fails with a duplicate error.
func CreateContact(q DBTX, contact types.Contact) error {
	_, err := q.Exec(`
		INSERT INTO strand_contacts (handle, display_name, tags, active, version, created_at, updated_at)
		VALUES (?, ?, ?, 1, 1, ?, ?)
	`, contact.Handle, contact.DisplayName, marshalStrings(contact.Tags), contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		if isConstraintError(err) {
			return core.Duplicatef("handle %q already exists", contact.Handle)
		}
		return err
	}
	return nil
}

// UpdateContact applies partial updates if the stored version still equals
// expectedVersion, bumping the version by 1. It reports whether a row
// matched; a false return with a live handle means the version moved.
func UpdateContact(q DBTX, handle string, expectedVersion int64, updates ContactUpdates, now int64) (bool, error) {
	var fields []string
	var args []any

	if updates.DisplayName.Set {
		fields = append(fields, "display_name = ?")
		args = append(args, nullableValue(updates.DisplayName.Value))
	}
	if updates.Tags.Set {
		fields = append(fields, "tags = ?")
		args = append(args, marshalStrings(updates.Tags.Value))
	}
	fields = append(fields, "version = version + 1", "updated_at = ?")
	args = append(args, now, handle, expectedVersion)

	query := fmt.Sprintf("UPDATE strand_contacts SET %s WHERE handle = ? AND version = ?", strings.Join(fields, ", "))
	result, err := q.Exec(query, args...)
	if err != nil {
		return false, err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeactivateContact flips the active flag under the same version check as
// UpdateContact. Contact rows are never deleted.
func DeactivateContact(q DBTX, handle string, expectedVersion int64, now int64) (bool, error) {
	result, err := q.Exec(`
		UPDATE strand_contacts
		SET active = 0, version = version + 1, updated_at = ?
		WHERE handle = ? AND version = ?
	`, now, handle, expectedVersion)
	if err != nil {
		return false, err
	}
	count, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanContact(scanner interface{ Scan(dest ...any) error }) (types.Contact, error) {
	var contact types.Contact
	var displayName sql.NullString
	var tags string
	var active int
	if err := scanner.Scan(&contact.Handle, &displayName, &tags, &active, &contact.Version, &contact.CreatedAt, &contact.UpdatedAt); err != nil {
		return types.Contact{}, err
	}
	contact.DisplayName = nullStringPtr(displayName)
	contact.Tags = unmarshalStrings(tags)
	contact.Active = active != 0
	return contact, nil
}

func scanContacts(rows *sql.Rows) ([]types.Contact, error) {
	var contacts []types.Contact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return contacts, nil
}
