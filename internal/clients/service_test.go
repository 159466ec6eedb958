package clients

import (
	"context"
	"testing"

	"github.com/angelmondragon/wardrop-backend/internal/repo/repotest"
	"github.com/angelmondragon/wardrop-backend/pkg/db/models"
	"github.com/angelmondragon/wardrop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/wardrop-backend/pkg/errors"
	"github.com/angelmondragon/wardrop-backend/pkg/pagination"
	"github.com/angelmondragon/wardrop-backend/pkg/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := repotest.Open(t).DB()
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func TestNewServiceRequiresRepository(t *testing.T) {
	_, err := NewService(nil)
	require.Error(t, err)
}

func TestCreateTrimsAndValidates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{FullName: "   "})
	require.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	client, err := svc.Create(ctx, CreateInput{FullName: " Amina Benali ", Phone: strPtr(" +213555 "), Address: strPtr("  ")})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, client.ID)
	assert.Equal(t, "Amina Benali", client.FullName)
	require.NotNil(t, client.Phone)
	assert.Equal(t, "+213555", *client.Phone)
	assert.Nil(t, client.Address)
}

func TestListSearchesAndPaginates(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Amina", "Sara", "Yasmine", "Amel"} {
		_, err := svc.Create(ctx, CreateInput{FullName: name})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, ListParams{Search: "am"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, pagination.DefaultLimit, page.Limit)

	page, err = svc.List(ctx, ListParams{Params: pagination.Params{Skip: 3, Limit: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, page.Total)
	assert.Len(t, page.Items, 1)
}

func TestUpdateIsPartial(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	client, err := svc.Create(ctx, CreateInput{FullName: "Sara", Phone: strPtr("+1"), Notes: strPtr("VIP")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, client.ID, UpdateInput{WhatsApp: strPtr("+2")})
	require.NoError(t, err)
	assert.Equal(t, "Sara", updated.FullName)
	assert.Equal(t, "+1", *updated.Phone)
	assert.Equal(t, "+2", *updated.WhatsApp)
	assert.Equal(t, "VIP", *updated.Notes)

	_, err = svc.Update(ctx, client.ID, UpdateInput{FullName: strPtr("")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Update(ctx, uuid.New(), UpdateInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestDeleteCascadesToDependents(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()

	client := repotest.MustCreateClient(t, conn, "Amina")
	dress := repotest.MustCreateDress(t, conn, "Rose", enums.AvailabilityStatusAvailable)
	item := repotest.MustCreateClothing(t, conn, "Voile", 3)

	require.NoError(t, conn.Create(&models.Booking{
		ClientID: client.ID, DressID: dress.ID,
		StartDate: types.NewDate(2025, 6, 1), EndDate: types.NewDate(2025, 6, 3),
		RentalPrice: dress.RentalPrice, DepositAmount: dress.DepositAmount,
		DepositStatus: enums.DepositStatusPending, BookingStatus: enums.BookingStatusConfirmed,
	}).Error)
	require.NoError(t, conn.Create(&models.Sale{
		ClientID: client.ID, ClothingID: item.ID, Quantity: 1,
		UnitPrice: decimal.NewFromInt(10), TotalPrice: decimal.NewFromInt(10),
		SaleDate: types.NewDate(2025, 6, 1),
	}).Error)
	require.NoError(t, conn.Create(&models.NotificationLog{
		ClientID: client.ID, Type: enums.NotificationTypeGeneral, Channel: enums.NotificationChannelSMS,
		Message: "hi", Status: enums.NotificationStatusSent,
	}).Error)

	require.NoError(t, svc.Delete(ctx, client.ID))

	for _, model := range []any{&models.Booking{}, &models.Sale{}, &models.NotificationLog{}, &models.Client{}} {
		var count int64
		require.NoError(t, conn.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}

	err := svc.Delete(ctx, client.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
