package ports

import (
	"context"

	"attesto/internal/audit"
)

// AuditEmitter publishes verification events to the compliance stream.
type AuditEmitter interface {
	Emit(ctx context.Context, event audit.Event) error
}
