package database

import (
	"context"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/hal-directory/backend/internal/domain/entities"
	"github.com/hal-directory/backend/internal/domain/repositories"
	"github.com/hal-directory/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/hal-directory/backend/pkg/errors"
)

// ContactAdapter implements contact message persistence in Postgres.
type ContactAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewContactAdapter creates a new contact adapter.
func NewContactAdapter(client *postgres.Client) repositories.ContactRepository {
	return &ContactAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a contact message.
func (a *ContactAdapter) Create(ctx context.Context, message *entities.ContactMessage) error {
	if message == nil {
		return apperrors.NewInternalError("contact message is nil", fmt.Errorf("contact message is nil"))
	}

	record := goqu.Record{
		"id":         message.ID,
		"name":       message.Name,
		"email":      message.Email,
		"phone":      nullString(message.Phone),
		"subject":    nullString(message.Subject),
		"message":    message.Message,
		"created_at": message.CreatedAt,
	}

	query, args, err := a.db.Insert("contact_messages").Prepared(true).Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build contact insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create contact message", err)
	}
	return nil
}
