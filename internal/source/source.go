// Package source loads datasets into the in-memory table form the engine
// consumes. Sources are thin collaborators: parsing and I/O live here,
// never in the engine.
package source

import (
	"context"

	"github.com/tabscan/tabscan/internal/table"
)

// Source produces one in-memory table per Load call.
type Source interface {
	// Load reads the dataset. The returned table is owned by the caller.
	Load(ctx context.Context) (*table.Table, error)
	// Name describes the source for logs and reports.
	Name() string
}
