package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"meetingbook/infras/otel"
	"meetingbook/infras/postgres"
	"meetingbook/internal/domains/setting/model"
	"meetingbook/shared/constant"
	gRepo "meetingbook/shared/repository"

	"github.com/jmoiron/sqlx"
)

const selectAllQuery = `SELECT key, value, updated_at FROM settings ORDER BY key ASC`

const upsertQuery = `INSERT INTO settings (key, value, updated_at) VALUES (:key, :value, :updated_at)
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

type Setting interface {
	GetAll(ctx context.Context) ([]model.Setting, error)
	UpsertAll(ctx context.Context, settings []model.Setting) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Setting]
	db *postgres.Connection
}

func New(db *postgres.Connection, otel otel.Otel) Setting {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Setting](model.EntityName, model.TableName, model.FieldKey, db, otel),
		db:         db,
	}
}

// GetAll reads from the write pool so a read straight after UpsertAll sees the new values.
func (r *repositoryImpl) GetAll(ctx context.Context) ([]model.Setting, error) {
	ctx, scope := r.Scope(ctx, "GetAll")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, selectAllQuery)

	var settings []model.Setting
	if err := r.db.Write.SelectContext(ctx, &settings, selectAllQuery); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list settings: %w", err)
	}

	return settings, nil
}

// UpsertAll writes every pair in one transaction; a single failure leaves the table untouched.
func (r *repositoryImpl) UpsertAll(ctx context.Context, settings []model.Setting) error {
	ctx, scope := r.Scope(ctx, "UpsertAll")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, upsertQuery)

	err := r.db.WithTransaction(ctx, func(tx *sqlx.Tx) error {
		for _, setting := range settings {
			if _, err := tx.NamedExecContext(ctx, upsertQuery, setting); err != nil {
				return fmt.Errorf("failed to upsert setting %q: %w", setting.Key, err)
			}
		}

		return nil
	})
	if err != nil {
		scope.TraceError(err)

		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}
