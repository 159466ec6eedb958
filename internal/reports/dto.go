package reports

import (
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultTopLimit = 10
	MaxTopLimit     = 50
	// DefaultWindowDays is how far back ranged reports look without a start date.
	DefaultWindowDays = 365
	lowStockThreshold = 3
	upcomingDays      = 7
)

// Dashboard summarises the shop for the current month.
type Dashboard struct {
	TotalClients         int64           `json:"total_clients"`
	TotalDresses         int64           `json:"total_dresses"`
	TotalClothing        int64           `json:"total_clothing"`
	ActiveBookings       int64           `json:"active_bookings"`
	MonthlyRentalRevenue decimal.Decimal `json:"monthly_rental_revenue"`
	MonthlySalesRevenue  decimal.Decimal `json:"monthly_sales_revenue"`
	MonthlyTotalRevenue  decimal.Decimal `json:"monthly_total_revenue"`
	MonthlySalesCost     decimal.Decimal `json:"monthly_sales_cost"`
	MonthlySalesProfit   decimal.Decimal `json:"monthly_sales_profit"`
	PendingDeposits      decimal.Decimal `json:"pending_deposits"`
	LowStockCount        int64           `json:"low_stock_count"`
	UpcomingReturns      int64           `json:"upcoming_returns"`
}

// Range bounds a report. Zero values fall back to the default window ending today.
type Range struct {
	Start types.Date
	End   types.Date
}

// EarningsParams selects the earnings window and bucket size.
type EarningsParams struct {
	Range
	Period enums.EarningsPeriod
}

// PeriodEarnings is one bucket of the earnings report keyed by its first day.
type PeriodEarnings struct {
	Period      string          `json:"period"`
	Rentals     decimal.Decimal `json:"rentals"`
	Sales       decimal.Decimal `json:"sales"`
	SalesCost   decimal.Decimal `json:"sales_cost"`
	SalesProfit decimal.Decimal `json:"sales_profit"`
	Total       decimal.Decimal `json:"total"`
}

// Earnings is the bucketed revenue report.
type Earnings struct {
	StartDate        types.Date           `json:"start_date"`
	EndDate          types.Date           `json:"end_date"`
	PeriodType       enums.EarningsPeriod `json:"period_type"`
	TotalRentals     decimal.Decimal      `json:"total_rentals"`
	TotalSales       decimal.Decimal      `json:"total_sales"`
	TotalSalesCost   decimal.Decimal      `json:"total_sales_cost"`
	TotalSalesProfit decimal.Decimal      `json:"total_sales_profit"`
	TotalRevenue     decimal.Decimal      `json:"total_revenue"`
	TotalProfit      decimal.Decimal      `json:"total_profit"`
	EarningsByPeriod []PeriodEarnings     `json:"earnings_by_period"`
}

// TopParams bounds the ranking reports.
type TopParams struct {
	Range
	Limit int
}

type TopDress struct {
	DressID      uuid.UUID       `json:"dress_id"`
	DressName    string          `json:"dress_name"`
	RentalCount  int             `json:"rental_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type TopClient struct {
	ClientID     uuid.UUID       `json:"client_id"`
	ClientName   string          `json:"client_name"`
	BookingCount int             `json:"booking_count"`
	RentalSpent  decimal.Decimal `json:"rental_spent"`
	SaleCount    int             `json:"sale_count"`
	SalesSpent   decimal.Decimal `json:"sales_spent"`
	TotalSpent   decimal.Decimal `json:"total_spent"`
}
