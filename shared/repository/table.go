package repository

import (
	"context"

	"meetingbook/shared/dto"
)

// Table is the method set Repository[T] provides. Domain repository interfaces embed
// it and add their own queries.
type Table[T any] interface {
	Insert(ctx context.Context, model T) error
	Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error)
	GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error)
	Exist(ctx context.Context, filter dto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter dto.FilterGroup) (int, error)
	Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error
	Delete(ctx context.Context, filter dto.FilterGroup) error
}

var _ Table[struct{}] = (*Repository[struct{}])(nil)
