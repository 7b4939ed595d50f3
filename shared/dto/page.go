package dto

// Pagination is embedded in every list response.
type Pagination struct {
	TotalPage int `json:"total_page"`
	TotalData int `json:"total_data"`
}

// NewPagination never reports fewer than one page.
func NewPagination(totalData, limit int) Pagination {
	pages := 1
	if totalData > 0 && limit > 0 {
		pages = (totalData + limit - 1) / limit
	}

	return Pagination{TotalPage: pages, TotalData: totalData}
}

// FromModels converts each model into its response type R through R's FromModel.
func FromModels[M any, R any, PR interface {
	*R
	FromModel(M)
}](models []M) []R {
	out := make([]R, len(models))
	for i, m := range models {
		PR(&out[i]).FromModel(m)
	}

	return out
}
