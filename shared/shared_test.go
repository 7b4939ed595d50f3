package shared_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"meetingbook/shared"
	cacheMocks "meetingbook/shared/cache/mocks"
	"meetingbook/shared/constant"
	"meetingbook/shared/dto"
)

func TestConvertStringToBool(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		input string
		want  *bool
	}{
		{"", nil},
		{"true", &yes},
		{"1", &yes},
		{"T", &yes},
		{"false", &no},
		{"0", &no},
		{"yes", nil},
		{"active", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestConvertStringToInt(t *testing.T) {
	got, err := shared.ConvertStringToInt(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, got)

	_, err = shared.ConvertStringToInt("twelve")
	assert.Error(t, err)
}

func TestTransformFields(t *testing.T) {
	type updateRoom struct {
		Name     *string `db:"name"`
		Floor    *string `db:"floor"`
		Capacity *int    `db:"capacity"`
		Active   *bool   `db:"active"`
		Note     string  `db:"note"`
		Skipped  string  `db:"-"`
		Untagged string
	}

	name, zero, inactive := "Orion", 0, false

	got := shared.TransformFields(updateRoom{
		Name:     &name,
		Capacity: &zero,
		Active:   &inactive,
		Skipped:  "x",
		Untagged: "y",
	}, "admin@example.com")

	assert.IsType(t, time.Time{}, got[constant.FieldModifiedAt])
	delete(got, constant.FieldModifiedAt)

	assert.Equal(t, map[string]any{
		"name":                   "Orion",
		"capacity":               0,
		"active":                 false,
		constant.FieldModifiedBy: "admin@example.com",
	}, got)
}

func TestFilterByField(t *testing.T) {
	group := shared.FilterByID("b1", "id", "bookings")

	where, args := group.GetWhereClause()

	assert.Equal(t, "(bookings.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "b1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "room:get:abc", shared.BuildCacheKey("room:get", "abc"))
	assert.Equal(t, "room:gets", shared.BuildCacheKey("room:gets"))

	params := dto.QueryParams{Page: 1, Limit: 10}
	first := shared.BuildCacheKeyWithQuery("room:gets", params, shared.FilterByID("a", "id", "rooms"))
	second := shared.BuildCacheKeyWithQuery("room:gets", params, shared.FilterByID("a", "id", "rooms"))
	other := shared.BuildCacheKeyWithQuery("room:gets", params, shared.FilterByID("b", "id", "rooms"))
	nextPage := shared.BuildCacheKeyWithQuery("room:gets", dto.QueryParams{Page: 2, Limit: 10}, shared.FilterByID("a", "id", "rooms"))

	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
	assert.NotEqual(t, first, nextPage)
	assert.Regexp(t, `^room:gets:[0-9a-f]{40}$`, first)
}

func TestEvictAsync(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	var wg sync.WaitGroup
	wg.Add(3)

	done := func(context.Context, string) error {
		wg.Done()

		return nil
	}

	redisCache.EXPECT().Delete(gomock.Any(), "user:get:u1").DoAndReturn(done)
	redisCache.EXPECT().Clear(gomock.Any(), "user:gets:*").DoAndReturn(done)
	redisCache.EXPECT().Clear(gomock.Any(), "user:count:*").DoAndReturn(func(context.Context, string) error {
		wg.Done()

		return errors.New("redis down")
	})

	shared.EvictAsync(context.Background(), redisCache, []string{"user:get:u1"}, "user:gets", "user:count")

	wg.Wait()
}

func TestSaveCacheAsync(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	saved := make(chan struct{})
	redisCache.EXPECT().Save(gomock.Any(), "room:get:r1", "payload", 60).
		DoAndReturn(func(ctx context.Context, _ string, _ any, _ int) error {
			assert.NoError(t, ctx.Err(), "save must outlive the request context")
			close(saved)

			return nil
		})

	shared.SaveCacheAsync(ctx, redisCache, "room:get:r1", "payload", 60)

	<-saved
}
