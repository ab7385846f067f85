package service

import (
	"context"
	"testing"

	"github.com/bluepine/itam/internal/assets/entity"
	"github.com/bluepine/itam/internal/assets/repository"
	"github.com/stretchr/testify/require"
)

func TestCatalogResolveMissingCode(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	state, err := svc.Catalog.ResolveDeviceState(ctx, entity.DeviceStateAvailable)
	require.NoError(t, err)
	require.Equal(t, entity.DeviceStateAvailable, state.Code)

	// An operational state missing from the catalog is a deployment
	// problem, not a user error
	require.NoError(t, db.Where("code = ?", entity.DeviceStateAssigned).
		Delete(&entity.DeviceState{}).Error)

	_, err = svc.Catalog.ResolveDeviceState(ctx, entity.DeviceStateAssigned)
	require.Error(t, err)
	require.Equal(t, KindCatalogMisconfigured, errKind(t, err))
}

func TestCatalogBrandLifecycle(t *testing.T) {
	_, _, svc := setupServices(t)
	ctx := context.Background()

	brand, err := svc.Catalog.CreateBrand(ctx, "DELL", "Dell")
	require.NoError(t, err)
	require.True(t, brand.Active)

	_, err = svc.Catalog.CreateBrand(ctx, "DELL", "Dell Inc")
	require.Error(t, err)
	require.Equal(t, KindConflict, errKind(t, err))

	require.NoError(t, svc.Catalog.DeactivateBrand(ctx, brand.ID))

	brands, err := svc.Catalog.ListBrands(ctx)
	require.NoError(t, err)
	for _, b := range brands {
		require.NotEqual(t, brand.ID, b.ID)
	}

	err = svc.Catalog.DeactivateBrand(ctx, 9999)
	require.Error(t, err)
	require.Equal(t, KindNotFound, errKind(t, err))
}

func TestCatalogSeedIsIdempotent(t *testing.T) {
	db, _, svc := setupServices(t)
	ctx := context.Background()

	states, err := svc.Catalog.ListDeviceStates(ctx, false)
	require.NoError(t, err)
	before := len(states)
	require.Equal(t, 4, before)

	// Re-running the startup seed must not duplicate rows
	require.NoError(t, repository.SeedCatalogs(db))

	states, err = svc.Catalog.ListDeviceStates(ctx, false)
	require.NoError(t, err)
	require.Len(t, states, before)
}
