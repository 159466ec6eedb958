package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	"github.com/angelmondragon/wardrop-backend/api/validators"
	"github.com/angelmondragon/wardrop-backend/internal/notifications"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
)

type bookingTemplateFunc func(ctx context.Context, bookingID uuid.UUID, channel enums.NotificationChannel) (notifications.SendResult, error)

func NotificationsSend(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body notifications.SendInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Send(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// NotificationsBookingTemplate sends one of the booking templates over the
// ?channel= channel, whatsapp by default.
func NotificationsBookingTemplate(send bookingTemplateFunc, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		channel, err := validators.ParseQueryEnum(r, "channel", enums.ParseNotificationChannel)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ch := enums.NotificationChannelWhatsApp
		if channel != nil {
			ch = *channel
		}

		result, err := send(r.Context(), id, ch)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func NotificationsLogs(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		clientID, err := validators.ParseQueryUUID(r, "client_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListLogs(r.Context(), notifications.LogListParams{ClientID: clientID, Params: page})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, pagination.MapPage(result, notifications.NewLogDTOs))
	}
}
