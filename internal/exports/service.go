package exports

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/angelmondragon/wardrop-backend/internal/bookings"
	"github.com/angelmondragon/wardrop-backend/internal/clients"
	"github.com/angelmondragon/wardrop-backend/internal/clothing"
	"github.com/angelmondragon/wardrop-backend/internal/dresses"
	"github.com/angelmondragon/wardrop-backend/internal/sales"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/excel"
	"github.com/angelmondragon/wardrop-backend/pkg/logger"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service renders spreadsheets from the catalogue and ingests them back.
type Service interface {
	ExportClients(ctx context.Context) (File, error)
	ExportDresses(ctx context.Context) (File, error)
	ExportClothing(ctx context.Context) (File, error)
	ExportBookings(ctx context.Context, r Range) (File, error)
	ExportSales(ctx context.Context, r Range) (File, error)
	CommercialReport(ctx context.Context, r Range) (File, error)
	ImportClients(ctx context.Context, upload Upload) (ImportResult, error)
	ImportDresses(ctx context.Context, upload Upload) (ImportResult, error)
	ImportClothing(ctx context.Context, upload Upload) (ImportResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams groups the repositories the exports read from and write to.
type ServiceParams struct {
	Clients  clients.Repository
	Dresses  dresses.Repository
	Clothing clothing.Repository
	Bookings bookings.Repository
	Sales    sales.Repository
	TxRunner txRunner
	Location *time.Location
	Currency string
	Logger   *logger.Logger
}

type service struct {
	clients  clients.Repository
	dresses  dresses.Repository
	clothing clothing.Repository
	bookings bookings.Repository
	sales    sales.Repository
	tx       txRunner
	loc      *time.Location
	currency string
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the exports service.
func NewService(params ServiceParams) (Service, error) {
	switch {
	case params.Clients == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "clients repository required")
	case params.Dresses == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "dresses repository required")
	case params.Clothing == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "clothing repository required")
	case params.Bookings == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "bookings repository required")
	case params.Sales == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "sales repository required")
	case params.TxRunner == nil:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	currency := strings.TrimSpace(params.Currency)
	if currency == "" {
		currency = "DZD"
	}
	return &service{
		clients:  params.Clients,
		dresses:  params.Dresses,
		clothing: params.Clothing,
		bookings: params.Bookings,
		sales:    params.Sales,
		tx:       params.TxRunner,
		loc:      loc,
		currency: currency,
		logg:     params.Logger,
		now:      time.Now,
	}, nil
}

func (s *service) money(label string) string {
	return fmt.Sprintf("%s (%s)", label, s.currency)
}

func (s *service) ExportClients(ctx context.Context) (File, error) {
	rows, err := s.clients.ListAll(ctx)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clients")
	}
	sheet := excel.Sheet{
		Name:    "Clients",
		Headers: []string{"ID", "Full Name", "Phone", "WhatsApp", "Address", "Notes", "Created At"},
	}
	for _, c := range rows {
		sheet.Rows = append(sheet.Rows, []any{
			c.ID.String(), c.FullName, deref(c.Phone), deref(c.WhatsApp), deref(c.Address), deref(c.Notes), s.stamp(c.CreatedAt),
		})
	}
	return render("clients.xlsx", sheet)
}

func (s *service) ExportDresses(ctx context.Context) (File, error) {
	rows, err := s.dresses.ListAll(ctx)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list dresses")
	}
	sheet := excel.Sheet{
		Name: "Dresses",
		Headers: []string{
			"ID", "Name", "Category", "Size", "Color", s.money("Rental Price"), s.money("Deposit"), "Status", "Description", "Created At",
		},
	}
	for _, d := range rows {
		sheet.Rows = append(sheet.Rows, []any{
			d.ID.String(), d.Name, d.Category, d.Size, d.Color,
			d.RentalPrice.InexactFloat64(), d.DepositAmount.InexactFloat64(),
			d.Status.String(), deref(d.Description), s.stamp(d.CreatedAt),
		})
	}
	return render("dresses.xlsx", sheet)
}

func (s *service) ExportClothing(ctx context.Context) (File, error) {
	rows, err := s.clothing.ListAll(ctx)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list clothing")
	}
	sheet := excel.Sheet{
		Name: "Clothing",
		Headers: []string{
			"ID", "Name", "Category", "Size", "Color", s.money("Sale Price"), "Stock Quantity", "Description", "Created At",
		},
	}
	for _, c := range rows {
		sheet.Rows = append(sheet.Rows, []any{
			c.ID.String(), c.Name, c.Category, c.Size, c.Color,
			c.SalePrice.InexactFloat64(), c.StockQuantity, deref(c.Description), s.stamp(c.CreatedAt),
		})
	}
	return render("clothing.xlsx", sheet)
}

func (s *service) ExportBookings(ctx context.Context, r Range) (File, error) {
	if err := validateRange(r); err != nil {
		return File{}, err
	}
	rows, err := s.bookings.ListWithin(ctx, r.Start, r.End)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bookings")
	}
	sheet := excel.Sheet{
		Name: "Bookings",
		Headers: []string{
			"ID", "Client", "Dress", "Start Date", "End Date", s.money("Rental Price"), s.money("Deposit"),
			"Deposit Status", "Booking Status", "Notes", "Created At",
		},
	}
	for _, b := range rows {
		sheet.Rows = append(sheet.Rows, []any{
			b.ID.String(), clientName(b.Client), dressName(b.Dress), b.StartDate.String(), b.EndDate.String(),
			b.RentalPrice.InexactFloat64(), b.DepositAmount.InexactFloat64(),
			b.DepositStatus.String(), b.BookingStatus.String(), deref(b.Notes), s.stamp(b.CreatedAt),
		})
	}
	return render("bookings.xlsx", sheet)
}

func (s *service) ExportSales(ctx context.Context, r Range) (File, error) {
	if err := validateRange(r); err != nil {
		return File{}, err
	}
	rows, err := s.sales.ListBetween(ctx, r.Start, r.End)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list sales")
	}
	sheet := excel.Sheet{
		Name: "Sales",
		Headers: []string{
			"ID", "Client", "Item", "Quantity", s.money("Unit Price"), s.money("Total Price"), "Sale Date", "Notes", "Created At",
		},
	}
	for _, sale := range rows {
		sheet.Rows = append(sheet.Rows, []any{
			sale.ID.String(), clientName(sale.Client), clothingName(sale.Clothing), sale.Quantity,
			sale.UnitPrice.InexactFloat64(), sale.TotalPrice.InexactFloat64(),
			sale.SaleDate.String(), deref(sale.Notes), s.stamp(sale.CreatedAt),
		})
	}
	return render("sales.xlsx", sheet)
}

// CommercialReport defaults to the current year up to today.
func (s *service) CommercialReport(ctx context.Context, r Range) (File, error) {
	today := types.Today(s.now(), s.loc)
	if r.End.IsZero() {
		r.End = today
	}
	if r.Start.IsZero() {
		r.Start = types.NewDate(r.End.Year(), time.January, 1)
	}
	if err := validateRange(r); err != nil {
		return File{}, err
	}

	bookingRows, err := s.bookings.ListByStartRange(ctx, r.Start, r.End)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list report bookings")
	}
	saleRows, err := s.sales.ListBetween(ctx, r.Start, r.End)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list report sales")
	}

	rentalTotal := decimal.Zero
	bookingCount := 0
	bookingSheet := excel.Sheet{
		Name:    "Bookings",
		Headers: []string{"Client", "Dress", "Start Date", "End Date", s.money("Price"), s.money("Deposit"), "Status"},
	}
	for _, b := range bookingRows {
		if b.BookingStatus != enums.BookingStatusCancelled {
			rentalTotal = rentalTotal.Add(b.RentalPrice)
			bookingCount++
		}
		bookingSheet.Rows = append(bookingSheet.Rows, []any{
			clientName(b.Client), dressName(b.Dress), b.StartDate.String(), b.EndDate.String(),
			b.RentalPrice.InexactFloat64(), b.DepositAmount.InexactFloat64(), b.BookingStatus.String(),
		})
	}

	salesTotal := decimal.Zero
	salesSheet := excel.Sheet{
		Name:    "Sales",
		Headers: []string{"Client", "Item", "Quantity", s.money("Unit Price"), s.money("Total"), "Date"},
	}
	for _, sale := range saleRows {
		salesTotal = salesTotal.Add(sale.TotalPrice)
		salesSheet.Rows = append(salesSheet.Rows, []any{
			clientName(sale.Client), clothingName(sale.Clothing), sale.Quantity,
			sale.UnitPrice.InexactFloat64(), sale.TotalPrice.InexactFloat64(), sale.SaleDate.String(),
		})
	}

	summary := excel.Sheet{
		Name:    "Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]any{
			{"Period", fmt.Sprintf("%s to %s", r.Start, r.End)},
			{s.money("Total Rental Revenue"), rentalTotal.InexactFloat64()},
			{s.money("Total Sales Revenue"), salesTotal.InexactFloat64()},
			{s.money("Total Revenue"), rentalTotal.Add(salesTotal).InexactFloat64()},
			{"Number of Bookings", bookingCount},
			{"Number of Sales", len(saleRows)},
		},
	}

	data, err := excel.Build(summary, bookingSheet, salesSheet)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render commercial report")
	}
	return File{Name: fmt.Sprintf("commercial_report_%s.xlsx", today), Data: data}, nil
}

func (s *service) ImportClients(ctx context.Context, upload Upload) (ImportResult, error) {
	rows, err := readUpload(upload)
	if err != nil {
		return ImportResult{}, err
	}
	result := ImportResult{Errors: []string{}}
	var batch []models.Client
	for _, row := range rows {
		name := cell(row, 1)
		if name == "" {
			continue
		}
		batch = append(batch, models.Client{
			FullName: name,
			Phone:    optional(cell(row, 2)),
			WhatsApp: optional(cell(row, 3)),
			Address:  optional(cell(row, 4)),
			Notes:    optional(cell(row, 5)),
		})
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.clients.WithTx(tx).CreateBatch(ctx, batch)
	})
	if err != nil {
		return ImportResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: import clients")
	}
	result.Imported = len(batch)
	s.logImport(ctx, "clients", result)
	return result, nil
}

func (s *service) ImportDresses(ctx context.Context, upload Upload) (ImportResult, error) {
	rows, err := readUpload(upload)
	if err != nil {
		return ImportResult{}, err
	}
	result := ImportResult{Errors: []string{}}
	var batch []models.Dress
	for i, row := range rows {
		name := cell(row, 1)
		if name == "" {
			continue
		}
		dress, err := parseDress(name, row)
		if err != nil {
			result.Errors = append(result.Errors, rowError(i, err))
			continue
		}
		batch = append(batch, dress)
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.dresses.WithTx(tx).CreateBatch(ctx, batch)
	})
	if err != nil {
		return ImportResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: import dresses")
	}
	result.Imported = len(batch)
	s.logImport(ctx, "dresses", result)
	return result, nil
}

func (s *service) ImportClothing(ctx context.Context, upload Upload) (ImportResult, error) {
	rows, err := readUpload(upload)
	if err != nil {
		return ImportResult{}, err
	}
	result := ImportResult{Errors: []string{}}
	var batch []models.Clothing
	for i, row := range rows {
		name := cell(row, 1)
		if name == "" {
			continue
		}
		item, err := parseClothing(name, row)
		if err != nil {
			result.Errors = append(result.Errors, rowError(i, err))
			continue
		}
		batch = append(batch, item)
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.clothing.WithTx(tx).CreateBatch(ctx, batch)
	})
	if err != nil {
		return ImportResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: import clothing")
	}
	result.Imported = len(batch)
	s.logImport(ctx, "clothing", result)
	return result, nil
}

func (s *service) logImport(ctx context.Context, kind string, result ImportResult) {
	if s.logg == nil {
		return
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"kind":     kind,
		"imported": result.Imported,
		"rejected": len(result.Errors),
	})
	s.logg.Info(ctx, "spreadsheet imported")
}

func (s *service) stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(s.loc).Format(timestampLayout)
}

func parseDress(name string, row []string) (models.Dress, error) {
	rental, err := amount(cell(row, 5), "rental price")
	if err != nil {
		return models.Dress{}, err
	}
	deposit, err := amount(cell(row, 6), "deposit")
	if err != nil {
		return models.Dress{}, err
	}
	// rented is derived from bookings; a fresh dress has none
	status := enums.AvailabilityStatusAvailable
	if raw := strings.ToLower(cell(row, 7)); raw != "" {
		parsed, err := enums.ParseAvailabilityStatus(raw)
		if err != nil {
			return models.Dress{}, err
		}
		if parsed == enums.AvailabilityStatusMaintenance {
			status = parsed
		}
	}
	return models.Dress{
		Name:          name,
		Category:      orDefault(cell(row, 2), "Other"),
		Size:          orDefault(cell(row, 3), "M"),
		Color:         orDefault(cell(row, 4), "White"),
		RentalPrice:   rental,
		DepositAmount: deposit,
		Status:        status,
		Description:   optional(cell(row, 8)),
	}, nil
}

func parseClothing(name string, row []string) (models.Clothing, error) {
	price, err := amount(cell(row, 5), "sale price")
	if err != nil {
		return models.Clothing{}, err
	}
	stock, err := amount(cell(row, 6), "stock quantity")
	if err != nil {
		return models.Clothing{}, err
	}
	if !stock.IsInteger() {
		return models.Clothing{}, fmt.Errorf("stock quantity must be a whole number, got %s", stock)
	}
	return models.Clothing{
		Name:          name,
		Category:      orDefault(cell(row, 2), "Other"),
		Size:          orDefault(cell(row, 3), "M"),
		Color:         orDefault(cell(row, 4), "Black"),
		SalePrice:     price,
		StockQuantity: int(stock.IntPart()),
		Description:   optional(cell(row, 7)),
	}, nil
}

// readUpload returns the data rows of the first sheet, header dropped.
func readUpload(upload Upload) ([][]string, error) {
	if !strings.EqualFold(filepath.Ext(upload.Filename), ".xlsx") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file must be an Excel workbook (.xlsx)")
	}
	rows, err := excel.ReadFirstSheetBytes(upload.Data)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "import failed")
	}
	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}

func render(name string, sheet excel.Sheet) (File, error) {
	data, err := excel.Build(sheet)
	if err != nil {
		return File{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "render "+name)
	}
	return File{Name: name, Data: data}, nil
}

func validateRange(r Range) error {
	if !r.Start.IsZero() && !r.End.IsZero() && r.Start.After(r.End) {
		return pkgerrors.New(pkgerrors.CodeValidation, "start_date must be on or before end_date")
	}
	return nil
}

// rowError numbers rows the way a spreadsheet does: the header is row 1.
func rowError(index int, err error) string {
	return fmt.Sprintf("Row %d: %s", index+2, err)
}

func amount(raw, field string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(strings.ReplaceAll(raw, " ", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", field, raw)
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("%s must not be negative", field)
	}
	return value, nil
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func clientName(c *models.Client) string {
	if c == nil {
		return ""
	}
	return c.FullName
}

func dressName(d *models.Dress) string {
	if d == nil {
		return ""
	}
	return d.Name
}

func clothingName(c *models.Clothing) string {
	if c == nil {
		return ""
	}
	return c.Name
}
