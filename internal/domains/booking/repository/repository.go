package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"meetingbook/infras/otel"
	"meetingbook/infras/postgres"
	"meetingbook/internal/domains/booking/model"
	"meetingbook/shared/constant"
	gDto "meetingbook/shared/dto"
	gRepo "meetingbook/shared/repository"
	"meetingbook/shared/timezone"
)

type Booking interface {
	gRepo.Table[model.Booking]
	GetPrimary(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	DueReminders(ctx context.Context, dates []string) ([]model.Booking, error)
	MarkReminderSent(ctx context.Context, id string) (bool, error)
	CheckIn(ctx context.Context, token string) (bool, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// DueReminders lists approved bookings on the given dates that have not been reminded yet.
func (r *repositoryImpl) DueReminders(ctx context.Context, dates []string) ([]model.Booking, error) {
	ctx, scope := r.Scope(ctx, "DueReminders")
	defer scope.End()

	filter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusApproved, Table: model.TableName},
			gDto.Filter{Field: model.FieldReminderSent, Operator: gDto.FilterOperatorEq, Value: false, Table: model.TableName},
			gDto.Filter{Field: model.FieldDate, Operator: gDto.FilterOperatorIn, Value: dates, Table: model.TableName},
		},
	}

	params := gDto.QueryParams{SortBy: model.FieldStartTime, SortDir: gDto.SortDirAsc}

	bookings, err := r.GetAll(ctx, params, filter)
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list due reminders: %w", err)
	}

	return bookings, nil
}

// MarkReminderSent flips reminder_sent to true. It reports false when the flag was already set.
func (r *repositoryImpl) MarkReminderSent(ctx context.Context, id string) (bool, error) {
	ctx, scope := r.Scope(ctx, "MarkReminderSent")
	defer scope.End()

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id, Table: model.TableName},
			gDto.Filter{
				ArgName:  "where_reminder_sent",
				Field:    model.FieldReminderSent,
				Operator: gDto.FilterOperatorEq,
				Value:    false,
				Table:    model.TableName,
			},
		},
	}

	affected, err := r.UpdateAffected(ctx, map[string]any{
		model.FieldReminderSent:  true,
		constant.FieldModifiedAt: timezone.Now(),
	}, filter)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to mark reminder sent: %w", err)
	}

	return affected > 0, nil
}

// CheckIn marks an approved, not yet checked-in booking as checked in.
func (r *repositoryImpl) CheckIn(ctx context.Context, token string) (bool, error) {
	ctx, scope := r.Scope(ctx, "CheckIn")
	defer scope.End()

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldCheckinToken, Operator: gDto.FilterOperatorEq, Value: token, Table: model.TableName},
			gDto.Filter{Field: model.FieldStatus, Operator: gDto.FilterOperatorEq, Value: model.StatusApproved, Table: model.TableName},
			gDto.Filter{
				ArgName:  "where_checked_in",
				Field:    model.FieldCheckedIn,
				Operator: gDto.FilterOperatorEq,
				Value:    false,
				Table:    model.TableName,
			},
		},
	}

	now := timezone.Now()

	affected, err := r.UpdateAffected(ctx, map[string]any{
		model.FieldCheckedIn:     true,
		model.FieldCheckedInAt:   now,
		constant.FieldModifiedAt: now,
	}, filter)
	if err != nil {
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check in booking: %w", err)
	}

	return affected > 0, nil
}
