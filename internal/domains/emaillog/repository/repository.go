package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"meetingbook/infras/otel"
	"meetingbook/infras/postgres"
	"meetingbook/internal/domains/emaillog/model"
	gDto "meetingbook/shared/dto"
	gRepo "meetingbook/shared/repository"
)

type EmailLog interface {
	Insert(ctx context.Context, model model.EmailLog) error
	ListRecent(ctx context.Context, limit int) ([]model.EmailLog, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.EmailLog]
}

func New(db *postgres.Connection, otel otel.Otel) EmailLog {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.EmailLog](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// ListRecent returns up to limit entries, newest first.
func (r *repositoryImpl) ListRecent(ctx context.Context, limit int) ([]model.EmailLog, error) {
	ctx, scope := r.Scope(ctx, "ListRecent")
	defer scope.End()

	params := gDto.QueryParams{Limit: limit, SortBy: model.FieldSentAt, SortDir: gDto.SortDirDesc}

	logs, err := r.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list email log: %w", err)
	}

	return logs, nil
}
