package checkin

import (
	"bytes"
	"embed"
	htmlTemplate "html/template"
	"net/http"

	"meetingbook/config"
	"meetingbook/infras/otel"
	"meetingbook/internal/domains/booking/model/dto"
	"meetingbook/internal/domains/booking/service"
	"meetingbook/internal/handlers"
	"meetingbook/shared/constant"
	"meetingbook/shared/failure"
	"meetingbook/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

//go:embed templates/checkin.html
var templates embed.FS

var page = htmlTemplate.Must(htmlTemplate.ParseFS(templates, "templates/checkin.html"))

type pageData struct {
	AppName  string
	Endpoint string
	Booking  *dto.CheckinResponse
}

// Handler serves the public check-in flow reached from the QR code and the reminder email.
type Handler struct {
	service service.Booking
	cfg     *config.Config
	otel    otel.Otel
}

func New(service service.Booking, cfg *config.Config, otel otel.Otel) Handler {
	return Handler{
		service: service,
		cfg:     cfg,
		otel:    otel,
	}
}

// PageRouter mounts the landing page outside the API prefix.
func (handler *Handler) PageRouter(router chi.Router) {
	router.Get("/checkin/{token}", handler.Page)
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/checkin/{token}", handler.CheckIn)
}

// Page renders the check-in landing page. Unknown tokens get a 404 page, not JSON.
func (handler *Handler) Page(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "CheckinPage")
	defer scope.End()

	token := chi.URLParam(r, constant.RequestParamToken)
	data := pageData{AppName: handler.cfg.App.Name, Endpoint: "/api/checkin/" + token}
	status := http.StatusOK

	booking, err := handler.service.GetByToken(r.Context(), token)
	switch {
	case err == nil:
		data.Booking = &booking
	case failure.GetCode(err) == http.StatusNotFound:
		status = http.StatusNotFound
	default:
		handlers.Fail(w, scope, err, "failed to load check-in page")

		return
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to render check-in page")

		response.WithInternalError(w)

		return
	}

	response.WithBytes(w, status, constant.ContentTypeHTML, buf.Bytes())
}

// CheckIn marks an approved booking as checked in.
// @Summary Check in to a booking
// @Tags Checkin
// @Produce json
// @Param token path string true "Check-in token"
// @Success 200 {object} response.Message
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Router /checkin/{token} [post]
func (handler *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "CheckIn")
	defer scope.End()

	if err := handler.service.CheckIn(r.Context(), chi.URLParam(r, constant.RequestParamToken)); err != nil {
		scope.TraceError(err)
		log.Warn().Err(err).Msg("check-in rejected")

		response.WithError(w, err)

		return
	}

	response.WithMessage(w, http.StatusOK, "Checked in successfully")
}
