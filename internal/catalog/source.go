package catalog

import (
	"context"
	"database/sql"

	"github.com/Simplici0/doorquote/internal/pricing"
)

// Source loads a fresh snapshot from the database on every call, so catalog edits are
// picked up by the next pricing run.
type Source struct {
	db *sql.DB
}

func NewSource(db *sql.DB) *Source {
	return &Source{db: db}
}

func (s *Source) Snapshot(ctx context.Context) (pricing.Catalog, error) {
	return Load(ctx, s.db)
}
