package engine

import (
	"github.com/strandlabs/strand/internal/core"
	"github.com/strandlabs/strand/internal/db"
	"github.com/strandlabs/strand/internal/types"
)

// ListAuditEvents returns audit rows, admin-only. Rows are ordered by
// event id, ascending unless opts.Descending; filterable by actor and by
// exact or glob event type.
func (s *Session) ListAuditEvents(opts types.AuditQueryOptions) ([]types.AuditEvent, error) {
	if !s.admin {
		return nil, core.Permissionf("audit log requires admin visibility")
	}
	limit, offset, err := clampPage(opts.Limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	opts.Limit, opts.Offset = limit, offset
	return db.ListAuditEvents(s.conn, opts)
}
