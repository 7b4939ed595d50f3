package health

import (
	"net/http"

	"meetingbook/shared/constant"
	"meetingbook/shared/timezone"
	"meetingbook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

type status struct {
	Status string `json:"status"`
	TS     string `json:"ts"`
}

type Handler struct{}

func New() Handler {
	return Handler{}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/health", handler.Health)
}

// Health reports liveness.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} status
// @Router /health [get]
func (handler *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	response.WithPlainJSON(w, http.StatusOK, status{Status: "ok", TS: timezone.Format(timezone.Now(), constant.DateFormat)})
}
