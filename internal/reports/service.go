package reports

import (
	"context"
	"sort"
	"time"

	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service computes dashboard and commercial reports.
type Service interface {
	Dashboard(ctx context.Context) (Dashboard, error)
	Earnings(ctx context.Context, params EarningsParams) (Earnings, error)
	TopDresses(ctx context.Context, params TopParams) ([]TopDress, error)
	TopClients(ctx context.Context, params TopParams) ([]TopClient, error)
	Today() types.Date
}

type service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// NewService wires the reports service. Calendar days are taken in loc.
func NewService(repo Repository, loc *time.Location) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reports repository required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, loc: loc, now: time.Now}, nil
}

func (s *service) Today() types.Date {
	return types.Today(s.now(), s.loc)
}

func (s *service) Dashboard(ctx context.Context) (Dashboard, error) {
	today := s.Today()
	monthStart := types.NewDate(today.Year(), today.Month(), 1)

	counts, err := s.repo.Counts(ctx, today)
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count dashboard rows")
	}
	// open-ended "this month" matches anything booked ahead from the 1st
	far := types.NewDate(9999, time.December, 31)
	rentals, err := s.repo.BookingsStartingBetween(ctx, monthStart, far)
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load month bookings")
	}
	sales, err := s.repo.SalesBetween(ctx, monthStart, far)
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load month sales")
	}
	pending, err := s.repo.PendingDeposits(ctx)
	if err != nil {
		return Dashboard{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load pending deposits")
	}

	d := Dashboard{
		TotalClients:    counts.Clients,
		TotalDresses:    counts.Dresses,
		TotalClothing:   counts.Clothing,
		ActiveBookings:  counts.ActiveBookings,
		LowStockCount:   counts.LowStock,
		UpcomingReturns: counts.UpcomingReturns,
	}
	for _, b := range rentals {
		d.MonthlyRentalRevenue = d.MonthlyRentalRevenue.Add(b.RentalPrice)
	}
	for _, sale := range sales {
		d.MonthlySalesRevenue = d.MonthlySalesRevenue.Add(sale.TotalPrice)
		d.MonthlySalesCost = d.MonthlySalesCost.Add(saleCost(sale))
	}
	for _, b := range pending {
		d.PendingDeposits = d.PendingDeposits.Add(b.DepositAmount)
	}
	d.MonthlyTotalRevenue = d.MonthlyRentalRevenue.Add(d.MonthlySalesRevenue)
	d.MonthlySalesProfit = d.MonthlySalesRevenue.Sub(d.MonthlySalesCost)
	return d, nil
}

func (s *service) Earnings(ctx context.Context, params EarningsParams) (Earnings, error) {
	period := params.Period
	if period == "" {
		period = enums.EarningsPeriodMonthly
	}
	if !period.IsValid() {
		return Earnings{}, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid period %q", period)
	}
	rng, err := s.resolve(params.Range)
	if err != nil {
		return Earnings{}, err
	}

	rentals, err := s.repo.BookingsStartingBetween(ctx, rng.Start, rng.End)
	if err != nil {
		return Earnings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bookings")
	}
	sales, err := s.repo.SalesBetween(ctx, rng.Start, rng.End)
	if err != nil {
		return Earnings{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sales")
	}

	buckets := map[string]*PeriodEarnings{}
	bucket := func(day types.Date) *PeriodEarnings {
		key := PeriodStart(day, period).String()
		if b, ok := buckets[key]; ok {
			return b
		}
		b := &PeriodEarnings{Period: key}
		buckets[key] = b
		return b
	}
	for _, b := range rentals {
		e := bucket(b.StartDate)
		e.Rentals = e.Rentals.Add(b.RentalPrice)
	}
	for _, sale := range sales {
		e := bucket(sale.SaleDate)
		e.Sales = e.Sales.Add(sale.TotalPrice)
		e.SalesCost = e.SalesCost.Add(saleCost(sale))
	}

	out := Earnings{
		StartDate:        rng.Start,
		EndDate:          rng.End,
		PeriodType:       period,
		EarningsByPeriod: make([]PeriodEarnings, 0, len(buckets)),
	}
	for _, e := range buckets {
		e.SalesProfit = e.Sales.Sub(e.SalesCost)
		e.Total = e.Rentals.Add(e.Sales)
		out.EarningsByPeriod = append(out.EarningsByPeriod, *e)
		out.TotalRentals = out.TotalRentals.Add(e.Rentals)
		out.TotalSales = out.TotalSales.Add(e.Sales)
		out.TotalSalesCost = out.TotalSalesCost.Add(e.SalesCost)
	}
	sort.Slice(out.EarningsByPeriod, func(i, j int) bool {
		return out.EarningsByPeriod[i].Period < out.EarningsByPeriod[j].Period
	})
	out.TotalSalesProfit = out.TotalSales.Sub(out.TotalSalesCost)
	out.TotalRevenue = out.TotalRentals.Add(out.TotalSales)
	out.TotalProfit = out.TotalRentals.Add(out.TotalSalesProfit)
	return out, nil
}

func (s *service) TopDresses(ctx context.Context, params TopParams) ([]TopDress, error) {
	limit, err := topLimit(params.Limit)
	if err != nil {
		return nil, err
	}
	rng, err := s.resolve(params.Range)
	if err != nil {
		return nil, err
	}
	rentals, err := s.repo.BookingsStartingBetween(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bookings")
	}

	byDress := map[uuid.UUID]*TopDress{}
	for _, b := range rentals {
		top, ok := byDress[b.DressID]
		if !ok {
			top = &TopDress{DressID: b.DressID}
			if b.Dress != nil {
				top.DressName = b.Dress.Name
			}
			byDress[b.DressID] = top
		}
		top.RentalCount++
		top.TotalRevenue = top.TotalRevenue.Add(b.RentalPrice)
	}

	out := make([]TopDress, 0, len(byDress))
	for _, top := range byDress {
		out = append(out, *top)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RentalCount != out[j].RentalCount {
			return out[i].RentalCount > out[j].RentalCount
		}
		if c := out[i].TotalRevenue.Cmp(out[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return out[i].DressName < out[j].DressName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *service) TopClients(ctx context.Context, params TopParams) ([]TopClient, error) {
	limit, err := topLimit(params.Limit)
	if err != nil {
		return nil, err
	}
	rng, err := s.resolve(params.Range)
	if err != nil {
		return nil, err
	}
	rentals, err := s.repo.BookingsStartingBetween(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bookings")
	}
	sales, err := s.repo.SalesBetween(ctx, rng.Start, rng.End)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load sales")
	}

	byClient := map[uuid.UUID]*TopClient{}
	entry := func(id uuid.UUID, client *models.Client) *TopClient {
		top, ok := byClient[id]
		if !ok {
			top = &TopClient{ClientID: id}
			byClient[id] = top
		}
		if top.ClientName == "" && client != nil {
			top.ClientName = client.FullName
		}
		return top
	}
	for _, b := range rentals {
		top := entry(b.ClientID, b.Client)
		top.BookingCount++
		top.RentalSpent = top.RentalSpent.Add(b.RentalPrice)
	}
	for _, sale := range sales {
		top := entry(sale.ClientID, sale.Client)
		top.SaleCount++
		top.SalesSpent = top.SalesSpent.Add(sale.TotalPrice)
	}

	out := make([]TopClient, 0, len(byClient))
	for _, top := range byClient {
		top.TotalSpent = top.RentalSpent.Add(top.SalesSpent)
		out = append(out, *top)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].TotalSpent.Cmp(out[j].TotalSpent); c != 0 {
			return c > 0
		}
		return out[i].ClientName < out[j].ClientName
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// resolve fills a missing end with today and a missing start with the
// default window before end.
func (s *service) resolve(r Range) (Range, error) {
	if r.End.IsZero() {
		r.End = s.Today()
	}
	if r.Start.IsZero() {
		r.Start = r.End.AddDays(-DefaultWindowDays)
	}
	if r.Start.After(r.End) {
		return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "start_date must be on or before end_date")
	}
	return r, nil
}

func topLimit(limit int) (int, error) {
	if limit == 0 {
		return DefaultTopLimit, nil
	}
	if limit < 1 || limit > MaxTopLimit {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "limit must be between 1 and %d", MaxTopLimit)
	}
	return limit, nil
}

// saleCost is quantity times the item's purchase price, zero when unknown.
func saleCost(sale models.Sale) decimal.Decimal {
	if sale.Clothing == nil || sale.Clothing.PurchasePrice == nil {
		return decimal.Zero
	}
	return sale.Clothing.PurchasePrice.Mul(decimal.NewFromInt(int64(sale.Quantity)))
}

// PeriodStart truncates day to the first day of its bucket. Weeks start on Monday.
func PeriodStart(day types.Date, period enums.EarningsPeriod) types.Date {
	switch period {
	case enums.EarningsPeriodDaily:
		return day
	case enums.EarningsPeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDays(-offset)
	case enums.EarningsPeriodYearly:
		return types.NewDate(day.Year(), time.January, 1)
	default:
		return types.NewDate(day.Year(), day.Month(), 1)
	}
}
