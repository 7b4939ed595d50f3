package dto

import (
	"fmt"
	"sort"
	"strconv"

	"meetingbook/internal/domains/setting/model"
	"meetingbook/shared/timezone"
)

// Settings is the flat key/value map returned by GET /settings.
type Settings map[string]string

func (s Settings) FromModels(models []model.Setting) {
	for _, mod := range models {
		s[mod.Key] = mod.Value
	}
}

// UpdateSettingsRequest accepts any JSON scalar per key; values are stored as their string form.
type UpdateSettingsRequest map[string]any

func (r UpdateSettingsRequest) ToModels() []model.Setting {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	now := timezone.Now()
	models := make([]model.Setting, 0, len(keys))

	for _, key := range keys {
		models = append(models, model.Setting{Key: key, Value: stringify(r[key]), UpdatedAt: now})
	}

	return models
}

func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

type TestEmailRequest struct {
	To string `json:"to"`
}
