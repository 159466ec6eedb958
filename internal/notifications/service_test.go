package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/wardrop-backend/internal/repo/repotest"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/metrics"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/angelmondragon/wardrop-backend/pkg/twilio"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeSender struct {
	sent []twilio.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, msg twilio.Message) (string, error) {
	f.sent = append(f.sent, msg)
	if f.err != nil {
		return "", f.err
	}
	return "SM42", nil
}

type staticSettings struct{ brand string }

func (s staticSettings) Get(context.Context) (*models.Settings, error) {
	return &models.Settings{BrandName: s.brand}, nil
}

type fixture struct {
	svc    Service
	conn   *gorm.DB
	sender *fakeSender
	reg    *prometheus.Registry
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := repotest.Open(t).DB()
	sender := &fakeSender{}
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		Sender:   sender,
		Settings: staticSettings{brand: "Maison Lina"},
		Metrics:  metrics.NewNotificationMetrics(reg),
	})
	require.NoError(t, err)
	return fixture{svc: svc, conn: conn, sender: sender, reg: reg}
}

func (f fixture) logs(t *testing.T) []models.NotificationLog {
	t.Helper()
	var rows []models.NotificationLog
	require.NoError(t, f.conn.Order("sent_at").Find(&rows).Error)
	return rows
}

func (f fixture) booking(t *testing.T, client *models.Client) *models.Booking {
	t.Helper()
	dress := repotest.MustCreateDress(t, f.conn, "Layla", enums.AvailabilityStatusAvailable)
	b := &models.Booking{
		ClientID:      client.ID,
		DressID:       dress.ID,
		StartDate:     types.NewDate(2025, time.June, 14),
		EndDate:       types.NewDate(2025, time.June, 16),
		RentalPrice:   dress.RentalPrice,
		DepositAmount: dress.DepositAmount,
		DepositStatus: enums.DepositStatusPending,
		BookingStatus: enums.BookingStatusConfirmed,
	}
	require.NoError(t, f.conn.Omit("Client", "Dress").Create(b).Error)
	return b
}

func TestSendDefaultsToWhatsAppAndLogs(t *testing.T) {
	f := newFixture(t)
	client := repotest.MustCreateClient(t, f.conn, "Amina")

	res, err := f.svc.Send(context.Background(), SendInput{ClientID: client.ID, Message: "  Votre robe est prête  "})
	require.NoError(t, err)
	assert.Equal(t, SendResult{Success: true, SID: "SM42"}, res)

	require.Len(t, f.sender.sent, 1)
	assert.Equal(t, enums.NotificationChannelWhatsApp, f.sender.sent[0].Channel)
	assert.Equal(t, "Votre robe est prête", f.sender.sent[0].Body)

	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, enums.NotificationStatusSent, logs[0].Status)
	assert.Equal(t, enums.NotificationTypeGeneral, logs[0].Type)
	require.NotNil(t, logs[0].ProviderSID)
	assert.Equal(t, "SM42", *logs[0].ProviderSID)
	assert.Equal(t, float64(1), sendCount(t, f.reg, "whatsapp", "sent"))
}

func TestSendValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := repotest.MustCreateClient(t, f.conn, "Amina")
	noPhone := &models.Client{FullName: "Sara"}
	require.NoError(t, f.conn.Create(noPhone).Error)

	_, err := f.svc.Send(ctx, SendInput{ClientID: client.ID, Message: " "})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Send(ctx, SendInput{ClientID: client.ID, Message: "x", Channel: "pigeon"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = f.svc.Send(ctx, SendInput{ClientID: noPhone.ID, Message: "x", Channel: enums.NotificationChannelSMS})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Contains(t, err.Error(), "no phone number")

	_, err = f.svc.Send(ctx, SendInput{ClientID: models.Client{}.ID, Message: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	other := repotest.MustCreateClient(t, f.conn, "Nadia")
	require.NoError(t, f.conn.Delete(other).Error)
	_, err = f.svc.Send(ctx, SendInput{ClientID: other.ID, Message: "x"})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	assert.Empty(t, f.sender.sent)
	assert.Empty(t, f.logs(t))
}

func TestSendProviderFailureIsLoggedAsFailed(t *testing.T) {
	f := newFixture(t)
	f.sender.err = errors.New("twilio create message: 21211 invalid number")
	client := repotest.MustCreateClient(t, f.conn, "Amina")

	res, err := f.svc.Send(context.Background(), SendInput{ClientID: client.ID, Message: "x", Channel: enums.NotificationChannelSMS})
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "invalid number")

	logs := f.logs(t)
	require.Len(t, logs, 1)
	assert.Equal(t, enums.NotificationStatusFailed, logs[0].Status)
	assert.Equal(t, enums.NotificationChannelSMS, logs[0].Channel)
	require.NotNil(t, logs[0].Error)
	assert.Equal(t, float64(1), sendCount(t, f.reg, "sms", "failed"))
}

func TestSendWithoutProviderSkipsLog(t *testing.T) {
	conn := repotest.Open(t).DB()
	client := repotest.MustCreateClient(t, conn, "Amina")
	ctx := context.Background()

	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)
	res, err := svc.Send(ctx, SendInput{ClientID: client.ID, Message: "x"})
	require.NoError(t, err)
	assert.Equal(t, SendResult{Error: "sms provider not configured"}, res)

	var unconfigured *twilio.Client
	svc, err = NewService(ServiceParams{Repo: NewRepository(conn), Sender: unconfigured})
	require.NoError(t, err)
	res, err = svc.Send(ctx, SendInput{ClientID: client.ID, Message: "x"})
	require.NoError(t, err)
	assert.False(t, res.Success)

	var count int64
	require.NoError(t, conn.Model(&models.NotificationLog{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestBookingTemplates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	client := repotest.MustCreateClient(t, f.conn, "Amina")
	b := f.booking(t, client)

	_, err := f.svc.SendBookingConfirmation(ctx, b.ID, "")
	require.NoError(t, err)
	_, err = f.svc.SendReturnReminder(ctx, b.ID, enums.NotificationChannelSMS)
	require.NoError(t, err)
	_, err = f.svc.SendThankYou(ctx, b.ID, enums.NotificationChannelWhatsApp)
	require.NoError(t, err)

	require.Len(t, f.sender.sent, 3)
	assert.Equal(t,
		"Bonjour Amina!\n\nVotre réservation a été confirmée:\n- Robe: Layla\n- Date: 14/06/2025 au 16/06/2025\n\nMerci de nous faire confiance!\n\n🌸 Maison Lina",
		f.sender.sent[0].Body)
	assert.Contains(t, f.sender.sent[1].Body, "La robe 'Layla' doit être retournée le 16/06/2025.")
	assert.Equal(t, enums.NotificationChannelSMS, f.sender.sent[1].Channel)
	assert.Contains(t, f.sender.sent[2].Body, "Merci d'avoir choisi Maison Lina!")

	kinds := []enums.NotificationType{}
	for _, l := range f.logs(t) {
		kinds = append(kinds, l.Type)
	}
	assert.ElementsMatch(t, []enums.NotificationType{
		enums.NotificationTypeBookingConfirmation,
		enums.NotificationTypeReturnReminder,
		enums.NotificationTypeThankYou,
	}, kinds)
}

func TestBookingTemplateMissingNumber(t *testing.T) {
	f := newFixture(t)
	client := &models.Client{FullName: "Sara"}
	require.NoError(t, f.conn.Create(client).Error)
	b := f.booking(t, client)

	res, err := f.svc.SendReturnReminder(context.Background(), b.ID, enums.NotificationChannelSMS)
	require.NoError(t, err)
	assert.Equal(t, SendResult{Error: "no sms number for client"}, res)
	assert.Empty(t, f.sender.sent)

	_, err = f.svc.SendThankYou(context.Background(), client.ID, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestListLogsFiltersByClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amina := repotest.MustCreateClient(t, f.conn, "Amina")
	sara := repotest.MustCreateClient(t, f.conn, "Sara")

	for _, id := range []models.Client{*amina, *amina, *sara} {
		_, err := f.svc.Send(ctx, SendInput{ClientID: id.ID, Message: "x"})
		require.NoError(t, err)
	}

	page, err := f.svc.ListLogs(ctx, LogListParams{ClientID: &amina.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Items, 2)

	page, err = f.svc.ListLogs(ctx, LogListParams{Params: pagination.Params{Limit: 1}})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Limit)
}

func sendCount(t *testing.T, reg *prometheus.Registry, channel, outcome string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, fam := range families {
		if fam.GetName() != "notification_sends_total" {
			continue
		}
		for _, m := range fam.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["channel"] == channel && labels["outcome"] == outcome {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}
