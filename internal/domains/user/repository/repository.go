package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"meetingbook/infras/otel"
	"meetingbook/infras/postgres"
	"meetingbook/internal/domains/user/model"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	gRepo "meetingbook/shared/repository"
)

type User interface {
	gRepo.Table[model.User]
	ActiveAdminEmails(ctx context.Context) ([]string, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// ActiveAdminEmails lists the addresses of every active admin.
func (r *repositoryImpl) ActiveAdminEmails(ctx context.Context) ([]string, error) {
	ctx, scope := r.Scope(ctx, "ActiveAdminEmails")
	defer scope.End()

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldRole, Operator: gDto.FilterOperatorEq, Value: constant.RoleAdmin, Table: model.TableName},
			gDto.Filter{Field: model.FieldActive, Operator: gDto.FilterOperatorEq, Value: true, Table: model.TableName},
		},
	}

	admins, err := r.GetAll(ctx, gDto.QueryParams{}, filter, model.FieldEmail)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list admins: %w", err)
	}

	emails := make([]string, 0, len(admins))
	for _, admin := range admins {
		emails = append(emails, admin.Email)
	}

	return emails, nil
}
