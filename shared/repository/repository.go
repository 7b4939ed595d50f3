package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"meetingbook/infras/otel"
	"meetingbook/infras/postgres"
	"meetingbook/shared/constant"
	"meetingbook/shared/dto"
	"meetingbook/shared/logger"

	"github.com/jmoiron/sqlx"
)

// ErrRequiredFilter guards writes that would otherwise touch every row.
var ErrRequiredFilter = errors.New("required filter")

// Repository is the CRUD base embedded by every table-backed domain repository.
// Columns come from the db tags of T; a GetJoinQuery method on T adds a join.
type Repository[T any] struct {
	db     *postgres.Connection
	otel   otel.Otel
	entity string
	schema schema
}

func NewRepository[T any](entityName, tableName, primaryColumn string, db *postgres.Connection, ot otel.Otel) Repository[T] {
	return Repository[T]{
		db:     db,
		otel:   ot,
		entity: entityName,
		schema: describe[T](tableName, primaryColumn),
	}
}

// Scope opens a span named repository.<entity>.<op>; domain repositories use it for their own queries.
func (repo *Repository[T]) Scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

// fail logs, traces and wraps a database error for the given operation.
func (repo *Repository[T]) fail(scope otel.Scope, op string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", op, repo.entity, err)
}

// readOne runs a named query on node and scans a single row into dest.
func readOne(ctx context.Context, node *sqlx.DB, query string, args map[string]any, dest any) error {
	stmt, err := node.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.Scope(ctx, "Insert")
	defer scope.End()

	query := repo.schema.insertStatement()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.Scope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, ErrRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.schema.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var exists bool
	if err := readOne(ctx, repo.db.Read, query, args, &exists); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exists, nil
}

// Get returns the first matching row, or the zero T when nothing matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, "Get", repo.db.Read, filter, columns)
}

// GetPrimary is Get against the write pool, for reads that must see a write made
// moments earlier.
func (repo *Repository[T]) GetPrimary(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, "GetPrimary", repo.db.Write, filter, columns)
}

func (repo *Repository[T]) get(ctx context.Context, op string, node *sqlx.DB, filter dto.FilterGroup, columns []string) (T, error) {
	ctx, scope := repo.Scope(ctx, op)
	defer scope.End()

	where, args := whereClause(filter)
	query := strings.Join([]string{repo.schema.selectFrom(columns), where}, " ")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var model T

	err := readOne(ctx, node, query, args, &model)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.Scope(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)
	parts := []string{repo.schema.selectFrom(columns), where}

	if params.SortBy != "" && params.SortDir != "" {
		parts = append(parts, fmt.Sprintf("ORDER BY %s.%s %s", repo.schema.table, params.SortBy, params.SortDir))
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		parts = append(parts, "LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			parts = append(parts, "OFFSET :offset")
		}
	}

	query := strings.Join(parts, " ")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, repo.fail(scope, "prepare statement", err)
	}
	defer stmt.Close()

	var models []T
	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		return nil, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.Scope(ctx, "Count")
	defer scope.End()

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s",
		repo.schema.table, repo.schema.primary, repo.schema.table, repo.schema.join, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var count int
	if err := readOne(ctx, repo.db.Read, query, args, &count); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.Scope(ctx, "Delete")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return ErrRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.schema.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		return repo.fail(scope, "delete data", err)
	}

	return nil
}

func (repo *Repository[T]) Update(ctx context.Context, fields map[string]any, filter dto.FilterGroup) error {
	_, err := repo.UpdateAffected(ctx, fields, filter)

	return err
}

// UpdateAffected sets fields on every row matching filter and reports how many matched.
// Filter binds share a namespace with the SET binds, so a filter on an updated column needs an ArgName.
func (repo *Repository[T]) UpdateAffected(ctx context.Context, fields map[string]any, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.Scope(ctx, "Update")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return 0, ErrRequiredFilter
	}

	assignments := make([]string, 0, len(fields))
	for _, col := range slices.Sorted(maps.Keys(fields)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.schema.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	maps.Copy(args, fields)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		return 0, repo.fail(scope, "update data", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, repo.fail(scope, "read affected rows", err)
	}

	return affected, nil
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}
