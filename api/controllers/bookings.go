package controllers

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	"github.com/angelmondragon/wardrop-backend/api/validators"
	"github.com/angelmondragon/wardrop-backend/internal/bookings"
	"github.com/angelmondragon/wardrop-backend/internal/repo"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
)

// BookingsList supports status, deposit, client, dress and date filters with
// sort_by/sort_order (default start_date desc).
func BookingsList(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := bookingListParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, pagination.MapPage(result, bookings.NewBookingDTOs))
	}
}

func bookingListParams(r *http.Request) (bookings.ListParams, error) {
	var params bookings.ListParams
	var err error
	if params.Params, err = validators.ParsePagination(r); err != nil {
		return params, err
	}
	if params.Status, err = validators.ParseQueryEnum(r, "status", enums.ParseBookingStatus); err != nil {
		return params, err
	}
	if params.DepositStatus, err = validators.ParseQueryEnum(r, "deposit_status", enums.ParseDepositStatus); err != nil {
		return params, err
	}
	if params.ClientID, err = validators.ParseQueryUUID(r, "client_id"); err != nil {
		return params, err
	}
	if params.DressID, err = validators.ParseQueryUUID(r, "dress_id"); err != nil {
		return params, err
	}
	if params.StartFrom, err = validators.ParseQueryDate(r, "start_date"); err != nil {
		return params, err
	}
	if params.EndTo, err = validators.ParseQueryDate(r, "end_date"); err != nil {
		return params, err
	}
	params.Sort = parseSort(r, "start_date")
	return params, nil
}

func parseSort(r *http.Request, def string) repo.Sort {
	q := r.URL.Query()
	field := strings.TrimSpace(q.Get("sort_by"))
	if field == "" {
		field = def
	}
	return repo.Sort{Field: field, Desc: repo.ParseSortOrder(q.Get("sort_order"), true)}
}

// BookingsCalendar returns non-cancelled bookings intersecting [start, end].
func BookingsCalendar(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start, err := validators.ParseQueryDate(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryDate(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if start.IsZero() || end.IsZero() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "start and end are required"))
			return
		}
		dressID, err := validators.ParseQueryUUID(r, "dress_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		events, err := svc.Calendar(r.Context(), bookings.CalendarParams{Start: start, End: end, DressID: dressID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, events)
	}
}

func BookingsGet(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bookings.NewBookingDTO(booking))
	}
}

func BookingsCreate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bookings.CreateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Create(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, bookings.NewBookingDTO(booking))
	}
}

func BookingsUpdate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body bookings.UpdateInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Update(r.Context(), id, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bookings.NewBookingDTO(booking))
	}
}

func BookingsCancel(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Cancel(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, bookings.NewBookingDTO(booking))
	}
}

func BookingsDelete(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
