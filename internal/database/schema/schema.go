// Package schema applies the embedded DDL at startup. Every statement is
// idempotent (IF NOT EXISTS), so re-running on boot is safe and no separate
// migration tooling is required.
package schema

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"skillproof/internal/database"
)

//go:embed schema.sql
var ddl string

func Apply(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}

	for _, stmt := range strings.Split(ddl, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
