package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rrlogistics/models"
	"rrlogistics/repository"
)

func newRateCardService(t *testing.T) (*RateCardService, *repository.MemoryUserRepo) {
	t.Helper()
	users := repository.NewMemoryUserRepo()
	require.NoError(t, users.CreateUser(context.Background(), &models.AppUser{
		ID: "cust-1", Email: "cust@example.com", FullName: "Kiran Traders", Role: models.RoleCustomer, IsActive: true,
	}))
	return NewRateCardService(repository.NewMemoryRateCardRepo(), users), users
}

func cargoCard() models.RateCard {
	return models.RateCard{
		UserID:          "cust-1",
		DeliveryPartner: "DTDC",
		ServiceType:     "Cargo",
		Mode:            "Surface",
		Region:          "north",
		BaseRate:        120,
		DocketCharge:    50,
		FOV:             0.2,
		FuelCharge:      10,
		GST:             18,
		IsActive:        true,
	}
}

func TestRateCardCreate(t *testing.T) {
	svc, _ := newRateCardService(t)

	card, err := svc.Create(context.Background(), cargoCard(), "admin-1")
	require.NoError(t, err)
	assert.NotEmpty(t, card.ID)
	assert.Equal(t, "cargo", card.ServiceType)
	assert.Equal(t, "surface", card.Mode)
	assert.Equal(t, "Kiran Traders", card.UserName)
	assert.Equal(t, "admin-1", card.CreatedBy)

	_, err = svc.Create(context.Background(), cargoCard(), "admin-1")
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))
	assert.Contains(t, err.Error(), "same criteria already exists")
}

func TestRateCardValidation(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *models.RateCard)
		field  string
	}{
		{"fov above one", func(c *models.RateCard) { c.FOV = 1.5 }, "fov"},
		{"negative fov", func(c *models.RateCard) { c.FOV = -0.1 }, "fov"},
		{"cargo without region", func(c *models.RateCard) { c.Region = "" }, "region"},
		{"courier without zone", func(c *models.RateCard) { c.ServiceType = "courier"; c.Region = "" }, "zone"},
		{"unknown mode", func(c *models.RateCard) { c.Mode = "rail" }, "mode"},
		{"unknown service", func(c *models.RateCard) { c.ServiceType = "freight" }, "service_type"},
		{"missing partner", func(c *models.RateCard) { c.DeliveryPartner = " " }, "delivery_partner"},
		{"negative gst", func(c *models.RateCard) { c.GST = -1 }, "gst"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, _ := newRateCardService(t)
			card := cargoCard()
			tc.mutate(&card)

			_, err := svc.Create(context.Background(), card, "admin-1")
			var verr models.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestRateCardFetch(t *testing.T) {
	svc, _ := newRateCardService(t)
	ctx := context.Background()
	card, err := svc.Create(ctx, cargoCard(), "admin-1")
	require.NoError(t, err)

	key := models.RateCardKey{UserID: "cust-1", DeliveryPartner: "DTDC", ServiceType: "CARGO", Mode: "surface", Region: "north"}
	res, err := svc.Fetch(ctx, key)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, card.ID, res.RateCard.ID)
	assert.Equal(t, "Rate card found", res.Message)

	missingRegion := key
	missingRegion.Region = ""
	res, err = svc.Fetch(ctx, missingRegion)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Equal(t, "Region is required for Cargo service type", res.Message)

	toggled, err := svc.ToggleStatus(ctx, card.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	res, err = svc.Fetch(ctx, key)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.Contains(t, res.Message, "No active rate card found")

	_, err = svc.Fetch(ctx, models.RateCardKey{ServiceType: "cargo"})
	assert.True(t, models.IsValidation(err))
}

func TestRateCardUpdate(t *testing.T) {
	svc, _ := newRateCardService(t)
	ctx := context.Background()
	first, err := svc.Create(ctx, cargoCard(), "admin-1")
	require.NoError(t, err)
	other := cargoCard()
	other.Region = "south"
	second, err := svc.Create(ctx, other, "admin-1")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, first.ID, models.RateCardPatch{BaseRate: ptr(140.0)})
	require.NoError(t, err)
	assert.InDelta(t, 140.0, updated.BaseRate, 1e-9)
	assert.NotNil(t, updated.UpdatedAt)

	_, err = svc.Update(ctx, second.ID, models.RateCardPatch{Region: ptr("north")})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Update(ctx, first.ID, models.RateCardPatch{FOV: ptr(2.0)})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Update(ctx, "missing", models.RateCardPatch{})
	assert.True(t, models.IsNotFound(err))

	require.NoError(t, svc.Delete(ctx, first.ID))
	assert.True(t, models.IsNotFound(svc.Delete(ctx, first.ID)))
}

func TestRateCardOptions(t *testing.T) {
	svc, _ := newRateCardService(t)

	opts := svc.Options()
	assert.Len(t, opts.ServiceTypes, 3)
	assert.Len(t, opts.CourierZones, 6)
	assert.Contains(t, opts.DeliveryPartners, "BlueDart")
}
