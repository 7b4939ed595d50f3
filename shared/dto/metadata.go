package dto

import (
	"meetingbook/shared/constant"
	"meetingbook/shared/model"
	"meetingbook/shared/timezone"
)

// Metadata renders the audit block with timestamps as RFC 3339 in the app timezone.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by"`
}

func (m *Metadata) FromModel(meta model.Metadata) {
	*m = Metadata{
		CreatedAt:  timezone.Format(meta.CreatedAt, constant.DateFormat),
		ModifiedAt: timezone.Format(meta.ModifiedAt, constant.DateFormat),
		CreatedBy:  meta.CreatedBy,
		ModifiedBy: meta.ModifiedBy,
	}
}
