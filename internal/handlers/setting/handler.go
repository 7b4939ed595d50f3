package setting

import (
	"net/http"

	"meetingbook/infras/otel"
	"meetingbook/internal/domains/setting/model/dto"
	"meetingbook/internal/domains/setting/service"
	"meetingbook/internal/handlers"
	"meetingbook/shared/constant"
	"meetingbook/transport/http/response"

	"github.com/go-chi/chi/v5"
)

const emailLogFilename = "email-log.xlsx"

type Handler struct {
	service service.Setting
	otel    otel.Otel
}

func New(service service.Setting, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/settings", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetSettings)
		routerGroup.Put("/", handler.UpdateSettings)
		routerGroup.Post("/test-email", handler.SendTestEmail)
		routerGroup.Get("/email-log", handler.GetEmailLog)
		routerGroup.Get("/email-log/export", handler.ExportEmailLog)
	})
}

// GetSettings returns every stored setting plus the SMTP status.
// @Summary Get settings
// @Tags Setting
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} response.Error
// @Router /settings [get]
// @Security BearerAuth
func (handler *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetSettings")
	defer scope.End()

	settings, err := handler.service.GetAll(r.Context())
	if err != nil {
		handlers.Fail(w, scope, err, "failed to get settings")

		return
	}

	response.WithPlainJSON(w, http.StatusOK, settings)
}

// UpdateSettings upserts every key in the body in one transaction.
// @Summary Update settings
// @Tags Setting
// @Accept json
// @Produce json
// @Param request body map[string]string true "Settings"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /settings [put]
// @Security BearerAuth
func (handler *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "UpdateSettings")
	defer scope.End()

	var req dto.UpdateSettingsRequest
	if err := handlers.DecodeOptional(r, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid request body")

		return
	}

	if err := handler.service.Update(r.Context(), req); err != nil {
		handlers.Fail(w, scope, err, "failed to save settings")

		return
	}

	response.WithMessage(w, http.StatusOK, "Settings saved")
}

// SendTestEmail sends the configuration test email to the given address.
// @Summary Send a test email
// @Tags Setting
// @Accept json
// @Produce json
// @Param request body dto.TestEmailRequest true "Recipient"
// @Success 200 {object} response.Message
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /settings/test-email [post]
// @Security BearerAuth
func (handler *Handler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "SendTestEmail")
	defer scope.End()

	var req dto.TestEmailRequest
	if err := handlers.DecodeOptional(r, &req); err != nil {
		handlers.Fail(w, scope, err, "invalid request body")

		return
	}

	msg, err := handler.service.SendTestEmail(r.Context(), req)
	if err != nil {
		handlers.Fail(w, scope, err, "failed to send test email")

		return
	}

	response.WithMessage(w, http.StatusOK, msg)
}

// GetEmailLog lists the latest delivery attempts, newest first.
// @Summary Email log
// @Tags Setting
// @Produce json
// @Success 200 {array} object
// @Failure 500 {object} response.Error
// @Router /settings/email-log [get]
// @Security BearerAuth
func (handler *Handler) GetEmailLog(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "GetEmailLog")
	defer scope.End()

	entries, err := handler.service.EmailLog(r.Context())
	if err != nil {
		handlers.Fail(w, scope, err, "failed to get email log")

		return
	}

	response.WithPlainJSON(w, http.StatusOK, entries)
}

// ExportEmailLog downloads the email log as a spreadsheet.
// @Summary Export email log
// @Tags Setting
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Failure 500 {object} response.Error
// @Router /settings/email-log/export [get]
// @Security BearerAuth
func (handler *Handler) ExportEmailLog(w http.ResponseWriter, r *http.Request) {
	r, scope := handlers.Begin(handler.otel, r, "ExportEmailLog")
	defer scope.End()

	payload, err := handler.service.ExportEmailLog(r.Context())
	if err != nil {
		handlers.Fail(w, scope, err, "failed to export email log")

		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+emailLogFilename+`"`)
	response.WithBytes(w, http.StatusOK, constant.ContentTypeXLSX, payload)
}
