package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	"github.com/haren2312/OptimumERP/internal/organization/domain"
	"github.com/haren2312/OptimumERP/internal/organization/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Organization{}, &domain.Setting{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	}), db
}

func TestCreate_ProvisionsDefaults(t *testing.T) {
	svc, _ := newService(t)

	org, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{
		Name:  "Acme Traders Pvt Ltd",
		GSTNo: "27AAACX0000A1Z5",
	})
	require.NoError(t, err)
	assert.Equal(t, "acme-traders-pvt-ltd", org.Slug)

	ctx := orgcontext.WithOrgID(context.Background(), org.ID)
	settings, err := svc.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INR", settings.Currency)
	assert.Equal(t, "INV-", settings.PrefixFor("invoice"))
	assert.Equal(t, "PO-", settings.PrefixFor("purchase_order"))
	assert.Equal(t, "QT-", settings.PrefixFor("quote"))

	// The provisioned window is the Indian financial year around today.
	assert.Equal(t, time.April, settings.FYStart.Month())
	assert.Equal(t, 1, settings.FYStart.Day())
	assert.Equal(t, time.March, settings.FYEnd.Month())
	assert.Equal(t, 31, settings.FYEnd.Day())
	assert.True(t, settings.FYEnd.After(settings.FYStart))
}

func TestCreate_RejectsEmptyName(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCreate_SlugTaken(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme Traders"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme Traders"})
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestGetByID(t *testing.T) {
	svc, _ := newService(t)

	org, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme Traders"})
	require.NoError(t, err)

	got, err := svc.GetByID(context.Background(), org.ID.String())
	require.NoError(t, err)
	assert.Equal(t, org.Name, got.Name)

	_, err = svc.GetByID(context.Background(), "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.GetByID(context.Background(), snowflake.ID(12345).String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateSettings(t *testing.T) {
	svc, _ := newService(t)

	org, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme Traders"})
	require.NoError(t, err)
	ctx := orgcontext.WithOrgID(context.Background(), org.ID)

	currency := "usd"
	fyStart := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	fyEnd := time.Date(2027, time.March, 31, 0, 0, 0, 0, time.UTC)

	settings, err := svc.UpdateSettings(ctx, domain.UpdateSettingsRequest{
		Currency: &currency,
		FYStart:  &fyStart,
		FYEnd:    &fyEnd,
		Prefixes: map[string]string{"invoice": "ACME/INV-"},
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", settings.Currency)
	assert.Equal(t, fyStart, settings.FYStart)
	assert.Equal(t, "ACME/INV-", settings.PrefixFor("invoice"))
	// Prefix replacement is whole-map, untouched kinds fall back to "".
	assert.Equal(t, "", settings.PrefixFor("quote"))
}

func TestUpdateSettings_Invalid(t *testing.T) {
	svc, _ := newService(t)

	org, err := svc.Create(context.Background(), domain.CreateOrganizationRequest{Name: "Acme Traders"})
	require.NoError(t, err)
	ctx := orgcontext.WithOrgID(context.Background(), org.ID)

	bad := "rupees"
	_, err = svc.UpdateSettings(ctx, domain.UpdateSettingsRequest{Currency: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidCurrency)

	start := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, -6, 0)
	_, err = svc.UpdateSettings(ctx, domain.UpdateSettingsRequest{FYStart: &start, FYEnd: &end})
	assert.ErrorIs(t, err, domain.ErrInvalidYear)

	_, err = svc.UpdateSettings(ctx, domain.UpdateSettingsRequest{
		Prefixes: map[string]string{"receipt": "RC-"},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPrefix)

	_, err = svc.UpdateSettings(context.Background(), domain.UpdateSettingsRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
