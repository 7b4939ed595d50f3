package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"meetingbook/config"
	"meetingbook/infras/otel"
	emailLogDto "meetingbook/internal/domains/emaillog/model/dto"
	emailLogRepo "meetingbook/internal/domains/emaillog/repository"
	notificationService "meetingbook/internal/domains/notification/service"
	"meetingbook/internal/domains/setting/model"
	"meetingbook/internal/domains/setting/model/dto"
	"meetingbook/internal/domains/setting/repository"
	"meetingbook/shared/constant"
	"meetingbook/shared/failure"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	emailLogLimit = 100
	emailLogSheet = "Email Log"

	msgRecipientRequired = "Recipient email required"
	msgSMTPNotConfigured = "SMTP not configured. Set SMTP_USER and SMTP_PASS in environment variables."
)

var emailLogHeaders = []string{"Sent At", "Type", "Recipient", "Subject", "Status", "Error", "Booking ID"}

type Setting interface {
	GetAll(ctx context.Context) (dto.Settings, error)
	Update(ctx context.Context, req dto.UpdateSettingsRequest) error
	SendTestEmail(ctx context.Context, req dto.TestEmailRequest) (string, error)
	EmailLog(ctx context.Context) ([]emailLogDto.EmailLogResponse, error)
	ExportEmailLog(ctx context.Context) ([]byte, error)
}

type serviceImpl struct {
	repo     repository.Setting
	logs     emailLogRepo.EmailLog
	notifier notificationService.Notification
	cfg      *config.Config
	otel     otel.Otel
}

func New(
	repo repository.Setting,
	logs emailLogRepo.EmailLog,
	notifier notificationService.Notification,
	cfg *config.Config,
	otel otel.Otel,
) Setting {
	return &serviceImpl{
		repo:     repo,
		logs:     logs,
		notifier: notifier,
		cfg:      cfg,
		otel:     otel,
	}
}

// GetAll returns the stored pairs plus the live SMTP status, which always wins over stored keys.
// Settings are read straight from the store on every call so a GET always sees the last PUT.
func (s *serviceImpl) GetAll(ctx context.Context) (res dto.Settings, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.repo.GetAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to get settings")

		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	res = make(dto.Settings, len(models)+2)
	res.FromModels(models)

	res[model.KeySMTPConfigured] = strconv.FormatBool(s.cfg.SMTPConfigured())
	res[model.KeySMTPUser] = s.cfg.SMTP.User

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateSettingsRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(req) == 0 {
		return nil
	}

	if err = s.repo.UpsertAll(ctx, req.ToModels()); err != nil {
		log.Error().Err(err).Msg("failed to save settings")

		return fmt.Errorf("failed to save settings: %w", err)
	}

	return nil
}

func (s *serviceImpl) SendTestEmail(ctx context.Context, req dto.TestEmailRequest) (res string, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".SendTestEmail")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	to := strings.TrimSpace(req.To)
	if to == constant.Empty {
		return res, failure.BadRequestFromString(msgRecipientRequired) // nolint:wrapcheck
	}

	result, err := s.notifier.Test(ctx, to)
	if err != nil {
		log.Error().Err(err).Msg("failed to prepare test email")

		return res, fmt.Errorf("failed to prepare test email: %w", err)
	}

	switch {
	case result.Skipped:
		return res, failure.BadRequestFromString(msgSMTPNotConfigured) // nolint:wrapcheck
	case !result.Sent:
		return res, failure.InternalError(errors.New(result.Error)) // nolint:wrapcheck
	}

	return "Test email sent to " + to, nil
}

func (s *serviceImpl) EmailLog(ctx context.Context) (res []emailLogDto.EmailLogResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".EmailLog")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	models, err := s.logs.ListRecent(ctx, emailLogLimit)
	if err != nil {
		log.Error().Err(err).Msg("failed to get email log")

		return nil, fmt.Errorf("failed to get email log: %w", err)
	}

	return emailLogDto.FromModels(models), nil
}

// ExportEmailLog renders the same rows as EmailLog into an xlsx workbook.
func (s *serviceImpl) ExportEmailLog(ctx context.Context) (res []byte, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ExportEmailLog")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	entries, err := s.EmailLog(ctx)
	if err != nil {
		return nil, err
	}

	book := excelize.NewFile()
	defer func() {
		if err := book.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	if err = book.SetSheetName(book.GetSheetName(0), emailLogSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err = writeRow(book, 1, emailLogHeaders); err != nil {
		return nil, err
	}

	header, err := book.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	if err == nil {
		lastCell, _ := excelize.CoordinatesToCellName(len(emailLogHeaders), 1)
		_ = book.SetCellStyle(emailLogSheet, "A1", lastCell, header)
	}

	for i, entry := range entries {
		row := []string{
			entry.SentAt,
			entry.Type,
			entry.Recipient,
			entry.Subject,
			entry.Status,
			deref(entry.Error),
			deref(entry.BookingID),
		}

		if err = writeRow(book, i+2, row); err != nil {
			return nil, err
		}
	}

	_ = book.SetColWidth(emailLogSheet, "A", "A", 26)
	_ = book.SetColWidth(emailLogSheet, "C", "D", 40)

	buf, err := book.WriteToBuffer()
	if err != nil {
		log.Error().Err(err).Msg("failed to write workbook")

		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeRow(book *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to resolve cell: %w", err)
	}

	cells := make([]any, len(values))
	for i, value := range values {
		cells[i] = value
	}

	if err := book.SetSheetRow(emailLogSheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}

	return nil
}

func deref(value *string) string {
	if value == nil {
		return constant.Empty
	}

	return *value
}
