package controllers

import (
	"net/http"

	"github.com/angelmondragon/wardrop-backend/api/responses"
	"github.com/angelmondragon/wardrop-backend/api/validators"
	"github.com/angelmondragon/wardrop-backend/internal/reports"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
)

func ReportsDashboard(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dash, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dash)
	}
}

// ReportsEarnings buckets revenue by period (default monthly).
func ReportsEarnings(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rng, err := reportRange(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		period, err := validators.ParseQueryEnum(r, "period", enums.ParseEarningsPeriod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := reports.EarningsParams{Range: rng, Period: enums.EarningsPeriodMonthly}
		if period != nil {
			params.Period = *period
		}

		earnings, err := svc.Earnings(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, earnings)
	}
}

func ReportsTopDresses(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := topParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.TopDresses(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]reports.TopDress{"dresses": rows})
	}
}

func ReportsTopClients(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := topParams(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.TopClients(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string][]reports.TopClient{"clients": rows})
	}
}

func reportRange(r *http.Request) (reports.Range, error) {
	start, err := validators.ParseQueryDate(r, "start_date")
	if err != nil {
		return reports.Range{}, err
	}
	end, err := validators.ParseQueryDate(r, "end_date")
	if err != nil {
		return reports.Range{}, err
	}
	return reports.Range{Start: start, End: end}, nil
}

func topParams(r *http.Request) (reports.TopParams, error) {
	rng, err := reportRange(r)
	if err != nil {
		return reports.TopParams{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", reports.DefaultTopLimit, 1, reports.MaxTopLimit)
	if err != nil {
		return reports.TopParams{}, err
	}
	return reports.TopParams{Range: rng, Limit: limit}, nil
}
