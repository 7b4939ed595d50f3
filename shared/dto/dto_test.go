package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"meetingbook/shared/constant"
	"meetingbook/shared/dto"
	"meetingbook/shared/model"
	"meetingbook/shared/timezone"
)

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equality with table",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "approved", Table: "bookings"},
			wantWhere: "bookings.status = :status",
			wantArgs:  map[string]any{"status": "approved"},
		},
		{
			name:      "arg name keeps a WHERE bind apart from a SET bind",
			filter:    dto.Filter{ArgName: "where_status", Field: "status", Operator: dto.FilterOperatorNotEq, Value: "cancelled"},
			wantWhere: "status != :where_status",
			wantArgs:  map[string]any{"where_status": "cancelled"},
		},
		{
			name:      "like is case insensitive",
			filter:    dto.Filter{Field: "email", Operator: dto.FilterOperatorLike, Value: "Acme"},
			wantWhere: "LOWER(email) LIKE LOWER(:email)",
			wantArgs:  map[string]any{"email": "%Acme%"},
		},
		{
			name:      "in expands one bind per value",
			filter:    dto.Filter{Field: "date", Operator: dto.FilterOperatorIn, Value: []string{"2026-10-20", "2026-10-21"}},
			wantWhere: "date IN (:date_0, :date_1)",
			wantArgs:  map[string]any{"date_0": "2026-10-20", "date_1": "2026-10-21"},
		},
		{
			name:      "in with nothing matches nothing",
			filter:    dto.Filter{Field: "date", Operator: dto.FilterOperatorIn, Value: []string{}},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "range bounds",
			filter:    dto.Filter{Field: "capacity", Operator: dto.FilterOperatorGreaterEq, Value: 4},
			wantWhere: "capacity >= :capacity",
			wantArgs:  map[string]any{"capacity": 4},
		},
		{
			name:      "null check has no bind",
			filter:    dto.Filter{Field: "checked_in_at", Operator: dto.FilterIsNull, Table: "bookings"},
			wantWhere: "bookings.checked_in_at IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator renders nothing",
			filter:    dto.Filter{Field: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	owner := dto.Filter{Field: "user_id", Operator: dto.FilterOperatorEq, Value: "u1"}
	pending := dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "pending"}
	approved := dto.Filter{ArgName: "status_b", Field: "status", Operator: dto.FilterOperatorEq, Value: "approved"}

	t.Run("defaults to AND", func(t *testing.T) {
		group := dto.FilterGroup{Filters: []any{owner, pending}}

		where, args := group.GetWhereClause()

		assert.Equal(t, "(user_id = :user_id AND status = :status)", where)
		assert.Len(t, args, 2)
	})

	t.Run("nested OR", func(t *testing.T) {
		group := dto.FilterGroup{Filters: []any{
			owner,
			dto.FilterGroup{Operator: dto.FilterGroupOperatorOr, Filters: []any{pending, approved}},
		}}

		where, args := group.GetWhereClause()

		assert.Equal(t, "(user_id = :user_id AND (status = :status OR status = :status_b))", where)
		assert.Equal(t, map[string]any{"user_id": "u1", "status": "pending", "status_b": "approved"}, args)
	})

	t.Run("empty nested group is skipped", func(t *testing.T) {
		group := dto.FilterGroup{Filters: []any{dto.FilterGroup{}, owner}}

		where, _ := group.GetWhereClause()

		assert.Equal(t, "(user_id = :user_id)", where)
	})

	t.Run("empty group renders nothing", func(t *testing.T) {
		group := dto.FilterGroup{}

		where, args := group.GetWhereClause()

		assert.Empty(t, where)
		assert.Empty(t, args)
	})
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		defaults bool
		want     dto.QueryParams
	}{
		{
			name:  "all parameters",
			query: "page=2&limit=20&sort_by=start_time&sort_dir=asc",
			want:  dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_time", SortDir: dto.SortDirAsc},
		},
		{
			name:     "defaults fill the gaps",
			defaults: true,
			want:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:  "no defaults leaves zero values",
			query: "",
			want:  dto.QueryParams{},
		},
		{
			name:     "invalid numbers fall back",
			query:    "page=abc&limit=-5",
			defaults: true,
			want:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:  "sort column must be a bare identifier",
			query: "sort_by=date%20desc,id&sort_dir=DESC",
			want:  dto.QueryParams{SortDir: dto.SortDirDesc},
		},
		{
			name:  "unknown direction is ignored",
			query: "sort_dir=sideways",
			want:  dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/bookings?"+tt.query, nil)

			var got dto.QueryParams
			got.FromRequest(req, tt.defaults)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMetadata_FromModel(t *testing.T) {
	created := time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)

	var got dto.Metadata
	got.FromModel(model.Metadata{
		CreatedAt:  created,
		ModifiedAt: created.Add(time.Hour),
		CreatedBy:  "alice@example.com",
		ModifiedBy: "admin@example.com",
	})

	assert.Equal(t, timezone.Format(created, constant.DateFormat), got.CreatedAt)
	assert.Equal(t, timezone.Format(created.Add(time.Hour), constant.DateFormat), got.ModifiedAt)
	assert.Equal(t, "alice@example.com", got.CreatedBy)
	assert.Equal(t, "admin@example.com", got.ModifiedBy)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 10, 1},
		{100, 0, 1},
		{100, 10, 10},
		{101, 10, 11},
		{1, 10, 1},
	}

	for _, tt := range tests {
		got := dto.NewPagination(tt.total, tt.limit)

		assert.Equal(t, tt.want, got.TotalPage, "total=%d limit=%d", tt.total, tt.limit)
		assert.Equal(t, tt.total, got.TotalData)
	}
}

type roomRow struct{ Name string }

type roomView struct{ Label string }

func (v *roomView) FromModel(row roomRow) { v.Label = "Room " + row.Name }

func TestFromModels(t *testing.T) {
	got := dto.FromModels[roomRow, roomView]([]roomRow{{Name: "Orion"}, {Name: "Vega"}})

	assert.Equal(t, []roomView{{Label: "Room Orion"}, {Label: "Room Vega"}}, got)
	assert.Empty(t, dto.FromModels[roomRow, roomView](nil))
}
