package service_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/mock/gomock"

	"meetingbook/config"
	"meetingbook/infras/otel/mocks"
	emailLogMocks "meetingbook/internal/domains/emaillog/mocks"
	emailLogModel "meetingbook/internal/domains/emaillog/model"
	"meetingbook/internal/domains/notification/delivery"
	notificationMocks "meetingbook/internal/domains/notification/service/mocks"
	settingMocks "meetingbook/internal/domains/setting/mocks"
	"meetingbook/internal/domains/setting/model"
	"meetingbook/internal/domains/setting/model/dto"
	"meetingbook/internal/domains/setting/service"
	"meetingbook/shared/failure"
)

type fixture struct {
	svc      service.Setting
	repo     *settingMocks.MockSetting
	logs     *emailLogMocks.MockEmailLog
	notifier *notificationMocks.MockNotification
}

func newFixture(t *testing.T, cfg *config.Config) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:     settingMocks.NewMockSetting(ctrl),
		logs:     emailLogMocks.NewMockEmailLog(ctrl),
		notifier: notificationMocks.NewMockNotification(ctrl),
	}
	f.svc = service.New(f.repo, f.logs, f.notifier, cfg, mocks.NewOtel())

	return f
}

func TestSettingService_GetAll(t *testing.T) {
	cfg := &config.Config{}
	cfg.SMTP.User = "mailer@example.com"
	cfg.SMTP.Password = "secret"

	t.Run("stored values with live smtp status", func(t *testing.T) {
		f := newFixture(t, cfg)

		f.repo.EXPECT().GetAll(gomock.Any()).Return([]model.Setting{
			{Key: "company_name", Value: "Acme"},
			{Key: "smtp_configured", Value: "false"},
		}, nil)

		res, err := f.svc.GetAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, dto.Settings{
			"company_name":    "Acme",
			"smtp_configured": "true",
			"smtp_user":       "mailer@example.com",
		}, res)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t, &config.Config{})

		f.repo.EXPECT().GetAll(gomock.Any()).Return(nil, errors.New("db down"))

		_, err := f.svc.GetAll(context.Background())
		assert.Error(t, err)
	})
}

func TestSettingService_Update(t *testing.T) {
	t.Run("values are stringified", func(t *testing.T) {
		f := newFixture(t, &config.Config{})

		f.repo.EXPECT().UpsertAll(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, settings []model.Setting) error {
				got := map[string]string{}
				for _, s := range settings {
					got[s.Key] = s.Value
				}

				assert.Equal(t, map[string]string{
					"company_name":     "Acme",
					"reminder_minutes": "15",
					"require_approval": "true",
				}, got)

				return nil
			})

		err := f.svc.Update(context.Background(), dto.UpdateSettingsRequest{
			"company_name":     "Acme",
			"reminder_minutes": float64(15),
			"require_approval": true,
		})
		assert.NoError(t, err)
	})

	t.Run("empty body is a no-op", func(t *testing.T) {
		f := newFixture(t, &config.Config{})

		assert.NoError(t, f.svc.Update(context.Background(), dto.UpdateSettingsRequest{}))
	})

	t.Run("transaction failure", func(t *testing.T) {
		f := newFixture(t, &config.Config{})

		f.repo.EXPECT().UpsertAll(gomock.Any(), gomock.Any()).Return(errors.New("rolled back"))

		assert.Error(t, f.svc.Update(context.Background(), dto.UpdateSettingsRequest{"a": "b"}))
	})
}

func TestSettingService_SendTestEmail(t *testing.T) {
	tests := []struct {
		name      string
		to        string
		result    delivery.Result
		expectRun bool
		wantMsg   string
		wantCode  int
	}{
		{name: "missing recipient", to: "  ", wantCode: http.StatusBadRequest},
		{name: "smtp not configured", to: "ops@example.com", expectRun: true, result: delivery.Result{Skipped: true}, wantCode: http.StatusBadRequest},
		{name: "transport failure", to: "ops@example.com", expectRun: true, result: delivery.Result{Error: "dial tcp: refused"}, wantCode: http.StatusInternalServerError},
		{name: "sent", to: "ops@example.com", expectRun: true, result: delivery.Result{Sent: true}, wantMsg: "Test email sent to ops@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, &config.Config{})

			if tt.expectRun {
				f.notifier.EXPECT().Test(gomock.Any(), tt.to).Return(tt.result, nil)
			}

			msg, err := f.svc.SendTestEmail(context.Background(), dto.TestEmailRequest{To: tt.to})

			if tt.wantCode != 0 {
				require.Error(t, err)
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)
		})
	}
}

func TestSettingService_ExportEmailLog(t *testing.T) {
	f := newFixture(t, &config.Config{})

	bookingID := "booking-1"
	reason := "mailbox full"

	f.logs.EXPECT().ListRecent(gomock.Any(), 100).Return([]emailLogModel.EmailLog{
		{ID: "1", BookingID: &bookingID, Recipient: "a@example.com", Subject: "Hello", Type: "approved", Status: "failed", Error: &reason, SentAt: time.Now()},
		{ID: "2", Recipient: "b@example.com", Subject: "Test", Type: "test", Status: "sent", SentAt: time.Now()},
	}, nil)

	payload, err := f.svc.ExportEmailLog(context.Background())
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)

	rows, err := book.GetRows("Email Log")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Recipient", rows[0][2])
	assert.Equal(t, "a@example.com", rows[1][2])
	assert.Equal(t, "mailbox full", rows[1][5])
	assert.Equal(t, "booking-1", rows[1][6])
	assert.Equal(t, "test", rows[2][1])
}
