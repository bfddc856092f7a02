package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/haren2312/OptimumERP/internal/orgcontext"
	"github.com/haren2312/OptimumERP/internal/party/domain"
	"github.com/haren2312/OptimumERP/internal/party/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (domain.Service, context.Context) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Party{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := New(Params{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.Provide(),
	})

	ctx := orgcontext.WithOrgID(context.Background(), node.Generate())
	return svc, ctx
}

func TestCreate_DefaultsToCustomer(t *testing.T) {
	svc, ctx := newService(t)

	party, err := svc.Create(ctx, domain.CreatePartyRequest{
		Name:  "  Sharma Supplies  ",
		Email: "accounts@sharma.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "Sharma Supplies", party.Name)
	assert.Equal(t, domain.PartyTypeCustomer, party.Type)
}

func TestCreate_Invalid(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.Create(ctx, domain.CreatePartyRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.Create(ctx, domain.CreatePartyRequest{Name: "Sharma", Type: "partner"})
	assert.ErrorIs(t, err, domain.ErrInvalidType)

	_, err = svc.Create(context.Background(), domain.CreatePartyRequest{Name: "Sharma"})
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestUpdate_PatchesOnlyGivenFields(t *testing.T) {
	svc, ctx := newService(t)

	party, err := svc.Create(ctx, domain.CreatePartyRequest{
		Name:  "Sharma Supplies",
		Phone: "+91 98200 00000",
		GSTNo: "27AAACX0000A1Z5",
	})
	require.NoError(t, err)

	email := "billing@sharma.example"
	updated, err := svc.Update(ctx, domain.UpdatePartyRequest{
		ID:    party.ID.String(),
		Email: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, party.Phone, updated.Phone)
	assert.Equal(t, party.GSTNo, updated.GSTNo)
}

func TestUpdate_NotFound(t *testing.T) {
	svc, ctx := newService(t)

	name := "Someone"
	_, err := svc.Update(ctx, domain.UpdatePartyRequest{
		ID:   snowflake.ID(98765).String(),
		Name: &name,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelete(t *testing.T) {
	svc, ctx := newService(t)

	party, err := svc.Create(ctx, domain.CreatePartyRequest{Name: "Sharma Supplies"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, party.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, party.ID.String()), domain.ErrNotFound)

	_, err = svc.GetByID(ctx, party.ID.String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltersAndPaginates(t *testing.T) {
	svc, ctx := newService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, domain.CreatePartyRequest{
			Name: fmt.Sprintf("Customer %d", i),
			Type: domain.PartyTypeCustomer,
		})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, domain.CreatePartyRequest{
		Name: "Steel Vendor",
		Type: domain.PartyTypeVendor,
	})
	require.NoError(t, err)

	vendors, err := svc.List(ctx, domain.ListPartiesRequest{Type: domain.PartyTypeVendor})
	require.NoError(t, err)
	require.Len(t, vendors.Parties, 1)
	assert.Equal(t, "Steel Vendor", vendors.Parties[0].Name)

	firstPage, err := svc.List(ctx, domain.ListPartiesRequest{PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, firstPage.Parties, 2)
	assert.True(t, firstPage.HasMore)
	require.NotEmpty(t, firstPage.NextPageToken)

	secondPage, err := svc.List(ctx, domain.ListPartiesRequest{
		PageSize:  2,
		PageToken: firstPage.NextPageToken,
	})
	require.NoError(t, err)
	assert.Len(t, secondPage.Parties, 2)
	assert.False(t, secondPage.HasMore)

	matches, err := svc.List(ctx, domain.ListPartiesRequest{Search: "vendor"})
	require.NoError(t, err)
	require.Len(t, matches.Parties, 1)
}

func TestList_OtherOrgIsInvisible(t *testing.T) {
	svc, ctx := newService(t)

	_, err := svc.Create(ctx, domain.CreatePartyRequest{Name: "Sharma Supplies"})
	require.NoError(t, err)

	other := orgcontext.WithOrgID(context.Background(), snowflake.ID(424242))
	resp, err := svc.List(other, domain.ListPartiesRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Parties)
}
