package notifications

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/metrics"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/angelmondragon/wardrop-backend/pkg/twilio"
	"github.com/google/uuid"
)

const defaultBrand = "Wardrop"

// Service sends SMS/WhatsApp messages to clients and keeps an audit log of attempts.
type Service interface {
	Send(ctx context.Context, input SendInput) (SendResult, error)
	SendBookingConfirmation(ctx context.Context, bookingID uuid.UUID, channel enums.NotificationChannel) (SendResult, error)
	SendReturnReminder(ctx context.Context, bookingID uuid.UUID, channel enums.NotificationChannel) (SendResult, error)
	SendThankYou(ctx context.Context, bookingID uuid.UUID, channel enums.NotificationChannel) (SendResult, error)
	ListLogs(ctx context.Context, params LogListParams) (pagination.Page[models.NotificationLog], error)
}

type sender interface {
	Send(ctx context.Context, msg twilio.Message) (string, error)
}

type settingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// ServiceParams wires the notifications service. A nil Sender means the provider is not configured.
type ServiceParams struct {
	Repo     Repository
	Sender   sender
	Settings settingsReader
	Metrics  *metrics.NotificationMetrics
	Logger   *logger.Logger
}

type service struct {
	repo     Repository
	sender   sender
	settings settingsReader
	metrics  *metrics.NotificationMetrics
	logg     *logger.Logger
}

func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	return &service{
		repo:     params.Repo,
		sender:   params.Sender,
		settings: params.Settings,
		metrics:  params.Metrics,
		logg:     params.Logger,
	}, nil
}

func (s *service) Send(ctx context.Context, input SendInput) (SendResult, error) {
	if input.ClientID == uuid.Nil {
		return SendResult{}, pkgerrors.New(pkgerrors.CodeValidation, "client_id is required")
	}
	body := strings.TrimSpace(input.Message)
	if body == "" {
		return SendResult{}, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}
	channel, err := resolveChannel(input.Channel)
	if err != nil {
		return SendResult{}, err
	}
	kind := input.Type
	if kind == "" {
		kind = enums.NotificationTypeGeneral
	}
	if !kind.IsValid() {
		return SendResult{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid notification_type %q", kind)
	}

	client, err := s.repo.FindClient(ctx, input.ClientID)
	if err != nil {
		return SendResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get client")
	}
	if client == nil {
		return SendResult{}, pkgerrors.NotFound("client")
	}
	to, ok := recipient(client, channel)
	if !ok {
		if channel == enums.NotificationChannelSMS {
			return SendResult{}, pkgerrors.New(pkgerrors.CodeValidation, "client has no phone number")
		}
		return SendResult{}, pkgerrors.New(pkgerrors.CodeValidation, "client has no WhatsApp number")
	}
	return s.deliver(ctx, client.ID, kind, channel, to, body)
}

func (s *service) SendBookingConfirmation(ctx context.Context, bookingID uuid.UUID, channel enums.NotificationChannel) (SendResult, error) {
	return s.sendForBooking(ctx, bookingID, channel, enums.NotificationTypeBookingConfirmation, func(b *models.Booking, brand string) string {
		return bookingConfirmationText(b.Client.FullName, dressName(b), b.StartDate, b.EndDate, brand)
	})
}

func (s *service) SendReturnReminder(ctx context.Context, bookingID uuid.UUID, channel enums.NotificationChannel) (SendResult, error) {
	return s.sendForBooking(ctx, bookingID, channel, enums.NotificationTypeReturnReminder, func(b *models.Booking, brand string) string {
		return returnReminderText(b.Client.FullName, dressName(b), b.EndDate, brand)
	})
}

func (s *service) SendThankYou(ctx context.Context, bookingID uuid.UUID, channel enums.NotificationChannel) (SendResult, error) {
	return s.sendForBooking(ctx, bookingID, channel, enums.NotificationTypeThankYou, func(b *models.Booking, brand string) string {
		return thankYouText(b.Client.FullName, brand)
	})
}

func (s *service) ListLogs(ctx context.Context, params LogListParams) (pagination.Page[models.NotificationLog], error) {
	params.Params = params.Params.Normalize()
	rows, total, err := s.repo.List(ctx, params)
	if err != nil {
		return pagination.Page[models.NotificationLog]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list notification logs")
	}
	return pagination.NewPage(rows, total, params.Params), nil
}

func (s *service) sendForBooking(
	ctx context.Context,
	bookingID uuid.UUID,
	channel enums.NotificationChannel,
	kind enums.NotificationType,
	render func(b *models.Booking, brand string) string,
) (SendResult, error) {
	channel, err := resolveChannel(channel)
	if err != nil {
		return SendResult{}, err
	}
	booking, err := s.repo.FindBooking(ctx, bookingID)
	if err != nil {
		return SendResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: get booking")
	}
	if booking == nil {
		return SendResult{}, pkgerrors.NotFound("booking")
	}
	if booking.Client == nil {
		return SendResult{Error: "client not found"}, nil
	}
	to, ok := recipient(booking.Client, channel)
	if !ok {
		return SendResult{Error: fmt.Sprintf("no %s number for client", channel)}, nil
	}
	brand := s.brand(ctx)
	return s.deliver(ctx, booking.ClientID, kind, channel, to, render(booking, brand))
}

// deliver sends one message and logs the attempt. An unconfigured provider is
// reported without a log row.
func (s *service) deliver(ctx context.Context, clientID uuid.UUID, kind enums.NotificationType, channel enums.NotificationChannel, to, body string) (SendResult, error) {
	if s.sender == nil {
		return SendResult{Error: twilio.ErrNotConfigured.Error()}, nil
	}

	sid, sendErr := s.sender.Send(ctx, twilio.Message{Channel: channel, To: to, Body: body})
	if errors.Is(sendErr, twilio.ErrNotConfigured) {
		return SendResult{Error: sendErr.Error()}, nil
	}

	entry := &models.NotificationLog{
		ClientID: clientID,
		Type:     kind,
		Channel:  channel,
		Message:  body,
		Status:   enums.NotificationStatusSent,
	}
	result := SendResult{Success: true, SID: sid}
	outcome := metrics.OutcomeSent
	if sendErr != nil {
		msg := sendErr.Error()
		entry.Status = enums.NotificationStatusFailed
		entry.Error = &msg
		result = SendResult{Error: msg}
		outcome = metrics.OutcomeFailed
		if s.logg != nil {
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"client_id": clientID.String(),
				"channel":   channel.String(),
				"type":      kind.String(),
			})
			s.logg.Warn(logCtx, "notification delivery failed: "+msg)
		}
	} else if sid != "" {
		entry.ProviderSID = &sid
	}
	s.metrics.IncSend(channel.String(), outcome)

	if err := s.repo.Create(ctx, entry); err != nil {
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: log notification")
	}
	return result, nil
}

func (s *service) brand(ctx context.Context) string {
	if s.settings == nil {
		return defaultBrand
	}
	settings, err := s.settings.Get(ctx)
	if err != nil || settings == nil || strings.TrimSpace(settings.BrandName) == "" {
		return defaultBrand
	}
	return settings.BrandName
}

func resolveChannel(channel enums.NotificationChannel) (enums.NotificationChannel, error) {
	if channel == "" {
		return enums.NotificationChannelWhatsApp, nil
	}
	if !channel.IsValid() {
		return "", pkgerrors.Newf(pkgerrors.CodeValidation, "invalid channel %q", channel)
	}
	return channel, nil
}

func recipient(client *models.Client, channel enums.NotificationChannel) (string, bool) {
	number := client.WhatsApp
	if channel == enums.NotificationChannelSMS {
		number = client.Phone
	}
	if number == nil || strings.TrimSpace(*number) == "" {
		return "", false
	}
	return strings.TrimSpace(*number), true
}

func dressName(b *models.Booking) string {
	if b.Dress == nil {
		return ""
	}
	return b.Dress.Name
}
