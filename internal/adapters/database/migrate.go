package database

import (
	"context"
	_ "embed"

	"github.com/hal-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

//go:embed schema.sql
var schemaSQL string

// Migrate applies the schema. Every statement is idempotent.
func Migrate(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, schemaSQL); err != nil {
		return apperrors.NewInternalError("failed to apply schema", err)
	}
	return nil
}
