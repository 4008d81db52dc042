package sheets

import (
	"context"

	"fintrack/internal/core"
)

// Ports for outbound adapters.
type (
	// TransactionExporter appends one mirrored ledger row to an external
	// sheet and returns a row reference.
	TransactionExporter interface {
		Export(ctx context.Context, seq int64, tx core.Transaction) (rowRef string, err error)
	}
)
